package xmltree

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<metadata>
  <idinfo>
    <citation>
      <citeinfo>
        <title>  Test Dataset  </title>
        <origin>First Author</origin>
        <origin>Second Author</origin>
      </citeinfo>
    </citation>
    <descript>
      <abstract>An abstract.</abstract>
      <purpose></purpose>
    </descript>
  </idinfo>
  <distinfo>
    <distrib>
      <cntinfo>
        <cntaddr addrtype="mailing">
          <city>Portland</city>
        </cntaddr>
      </cntinfo>
    </distrib>
  </distinfo>
</metadata>`

func loadSample(t *testing.T) *etree.Element {
	t.Helper()
	doc, err := Load(strings.NewReader(sampleXML))
	require.NoError(t, err)
	require.NotNil(t, doc.Root())
	return doc.Root()
}

func TestSplitAttribute(t *testing.T) {
	tests := []struct {
		expr string
		path string
		attr string
	}{
		{"idinfo/citation", "idinfo/citation", ""},
		{"cntaddr/@addrtype", "cntaddr", "addrtype"},
		{"@href", "", "href"},
		{"", "", ""},
		{"a/b/@uom", "a/b", "uom"},
	}
	for _, tt := range tests {
		path, attr := SplitAttribute(tt.expr)
		assert.Equal(t, tt.path, path, tt.expr)
		assert.Equal(t, tt.attr, attr, tt.expr)
	}
}

func TestBranch(t *testing.T) {
	assert.Equal(t, "citeinfo/title", Branch("idinfo/citation", "idinfo/citation/citeinfo/title"))
	assert.Equal(t, "other/path", Branch("idinfo", "other/path"))
	assert.Equal(t, "whole/path", Branch("", "whole/path"))
}

func TestFind(t *testing.T) {
	root := loadSample(t)

	t.Run("single match", func(t *testing.T) {
		matches := Find(root, "idinfo/citation/citeinfo/title")
		require.Len(t, matches, 1)
		assert.Equal(t, "title", matches[0].Tag)
	})

	t.Run("repeated elements in document order", func(t *testing.T) {
		texts := Texts(root, "idinfo/citation/citeinfo/origin")
		assert.Equal(t, []string{"First Author", "Second Author"}, texts)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, Find(root, "idinfo/nonexistent"))
	})

	t.Run("empty path yields root", func(t *testing.T) {
		matches := Find(root, "")
		require.Len(t, matches, 1)
		assert.Same(t, root, matches[0])
	})
}

func TestTexts(t *testing.T) {
	root := loadSample(t)

	t.Run("trims whitespace", func(t *testing.T) {
		assert.Equal(t, []string{"Test Dataset"}, Texts(root, "idinfo/citation/citeinfo/title"))
	})

	t.Run("skips empty text", func(t *testing.T) {
		assert.Empty(t, Texts(root, "idinfo/descript/purpose"))
	})
}

func TestAttributeValues(t *testing.T) {
	root := loadSample(t)

	values := AttributeValues(root, "distinfo/distrib/cntinfo/cntaddr", "addrtype")
	assert.Equal(t, []string{"mailing"}, values)

	assert.Empty(t, AttributeValues(root, "distinfo/distrib/cntinfo/cntaddr", "missing"))
}

func TestCreatePath(t *testing.T) {
	root := loadSample(t)

	t.Run("reuses existing elements", func(t *testing.T) {
		leaf := CreatePath(root, "idinfo/citation/citeinfo/title")
		assert.Equal(t, "Test Dataset", strings.TrimSpace(leaf.Text()))
		assert.Len(t, Find(root, "idinfo/citation/citeinfo/title"), 1)
	})

	t.Run("creates missing segments", func(t *testing.T) {
		leaf := CreatePath(root, "dataqual/attracc/attraccr")
		require.NotNil(t, leaf)
		assert.Equal(t, "attraccr", leaf.Tag)
		assert.Len(t, Find(root, "dataqual/attracc/attraccr"), 1)
	})
}

func TestCreateOccurrence(t *testing.T) {
	root := loadSample(t)

	first := CreateOccurrence(root, "dataqual/lineage/procstep")
	second := CreateOccurrence(root, "dataqual/lineage/procstep")
	first.CreateElement("procdesc").SetText("step one")
	second.CreateElement("procdesc").SetText("step two")

	assert.Equal(t, []string{"step one", "step two"}, Texts(root, "dataqual/lineage/procstep/procdesc"))
	assert.Len(t, Find(root, "dataqual/lineage"), 1)
}

func TestRemove(t *testing.T) {
	root := loadSample(t)

	removed := Remove(root, "idinfo/citation/citeinfo/origin")
	assert.Equal(t, 2, removed)
	assert.Empty(t, Find(root, "idinfo/citation/citeinfo/origin"))

	// Siblings untouched
	assert.Len(t, Find(root, "idinfo/citation/citeinfo/title"), 1)

	assert.Zero(t, Remove(root, "idinfo/nonexistent"))
}

func TestPrune(t *testing.T) {
	root := loadSample(t)

	city := FindFirst(root, "distinfo/distrib/cntinfo/cntaddr/city")
	require.NotNil(t, city)
	Prune(root, city)

	// cntaddr retains its attribute, so pruning stops there
	assert.Empty(t, Find(root, "distinfo/distrib/cntinfo/cntaddr/city"))
	assert.Len(t, Find(root, "distinfo/distrib/cntinfo/cntaddr"), 1)
}

func TestStripNamespaces(t *testing.T) {
	const namespaced = `<?xml version="1.0"?>
<gmd:MD_Metadata xmlns:gmd="http://www.isotc211.org/2005/gmd" xmlns:gco="http://www.isotc211.org/2005/gco">
  <gmd:identificationInfo>
    <gmd:MD_DataIdentification>
      <gmd:abstract><gco:CharacterString>ISO abstract</gco:CharacterString></gmd:abstract>
    </gmd:MD_DataIdentification>
  </gmd:identificationInfo>
</gmd:MD_Metadata>`

	doc, err := Load(strings.NewReader(namespaced))
	require.NoError(t, err)
	root := doc.Root()
	assert.Equal(t, "MD_Metadata", root.Tag)
	assert.Empty(t, root.Space)

	texts := Texts(root, "identificationInfo/MD_DataIdentification/abstract/CharacterString")
	assert.Equal(t, []string{"ISO abstract"}, texts)
}

func TestLoadCharset(t *testing.T) {
	latin1 := []byte(`<?xml version="1.0" encoding="ISO-8859-1"?><metadata><idinfo><datacred>Caf` + "\xe9" + ` Research</datacred></idinfo></metadata>`)
	doc, err := LoadBytes(latin1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Café Research"}, Texts(doc.Root(), "idinfo/datacred"))
}

func TestNewDocumentAndSerialize(t *testing.T) {
	doc := NewDocument("metadata")
	CreatePath(doc.Root(), "idinfo/citation/citeinfo/title").SetText("Fresh")

	data, err := Serialize(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<title>Fresh</title>")

	reloaded, err := LoadBytes(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fresh"}, Texts(reloaded.Root(), "idinfo/citation/citeinfo/title"))
}
