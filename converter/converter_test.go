package converter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consbio/gis-metadata-parser/parser"
)

const arcgisRecord = `<metadata>
  <Esri><ArcGISFormat>1.0</ArcGISFormat></Esri>
  <dataIdInfo>
    <idCitation><resTitle>Trail Network</resTitle></idCitation>
    <idAbs>Hiking trails with surface attributes.</idAbs>
    <themeKeys><keyword>trails</keyword><keyword>recreation</keyword></themeKeys>
    <searchKeys><keyword>hiking</keyword></searchKeys>
  </dataIdInfo>
  <distInfo/>
  <dqInfo/>
</metadata>`

func TestConvertParsed(t *testing.T) {
	p, err := parser.Parse([]byte(arcgisRecord))
	require.NoError(t, err)

	result, err := New().ConvertParsed(p, parser.StandardFGDC)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, parser.StandardArcGIS, result.SourceStandard)
	assert.Equal(t, parser.StandardFGDC, result.TargetStandard)

	t.Run("carried values survive a round trip", func(t *testing.T) {
		out, err := result.Serialize()
		require.NoError(t, err)

		reparsed, err := parser.Parse(out)
		require.NoError(t, err)
		assert.Equal(t, parser.StandardFGDC, reparsed.Standard())
		assert.Equal(t, "Trail Network", reparsed.Get(parser.Title).Scalar())
		assert.Equal(t, []string{"trails", "recreation"}, reparsed.Get(parser.KeywordsTheme).Sequence())
	})

	t.Run("unmappable properties reported as dropped", func(t *testing.T) {
		assert.Contains(t, result.Dropped, "search_keywords")
		assert.NotContains(t, result.Carried, "search_keywords")
		assert.True(t, result.HasWarnings())

		found := false
		for _, issue := range result.Issues {
			if issue.Path == "search_keywords" {
				found = true
				assert.Equal(t, SeverityWarning, issue.Severity)
				require.NotNil(t, issue.PropertyContext)
				assert.True(t, issue.PropertyContext.Dropped)
			}
		}
		assert.True(t, found, "expected an issue for search_keywords")
	})

	t.Run("info summary included by default", func(t *testing.T) {
		require.NotZero(t, result.InfoCount)
		last := result.Issues[len(result.Issues)-1]
		assert.Equal(t, SeverityInfo, last.Severity)
		assert.Contains(t, last.Message, "carried")
	})
}

func TestConvertStrictMode(t *testing.T) {
	p, err := parser.Parse([]byte(arcgisRecord))
	require.NoError(t, err)

	c := New()
	c.StrictMode = true
	result, err := c.ConvertParsed(p, parser.StandardFGDC)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be represented")
	require.NotNil(t, result, "strict failures still report which properties dropped")
	assert.Contains(t, result.Dropped, "search_keywords")
}

func TestConvertIdentity(t *testing.T) {
	const fgdcRecord = `<metadata><idinfo>
  <citation><citeinfo><title>Soil Survey</title></citeinfo></citation>
</idinfo></metadata>`

	result, err := New().ConvertBytes([]byte(fgdcRecord), parser.StandardFGDC)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Dropped)
	assert.Equal(t, "Soil Survey", result.Parser.Get(parser.Title).Scalar())
}

func TestConvertFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.xml")
	require.NoError(t, os.WriteFile(path, []byte(arcgisRecord), 0o644))

	result, err := Convert(path, parser.StandardISO)
	require.NoError(t, err)
	assert.Equal(t, parser.StandardISO, result.TargetStandard)
	assert.Equal(t, "Trail Network", result.Parser.Get(parser.Title).Scalar())
}

func TestConvertErrors(t *testing.T) {
	t.Run("unsupported target", func(t *testing.T) {
		_, err := New().ConvertBytes([]byte(arcgisRecord), "dublin-core")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported target standard")
	})

	t.Run("unreadable input", func(t *testing.T) {
		_, err := New().ConvertBytes([]byte("not xml at all <"), parser.StandardFGDC)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Convert(filepath.Join(t.TempDir(), "absent.xml"), parser.StandardFGDC)
		require.Error(t, err)
	})

	t.Run("nil parser", func(t *testing.T) {
		_, err := New().ConvertParsed(nil, parser.StandardFGDC)
		require.Error(t, err)
	})
}
