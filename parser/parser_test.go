package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consbio/gis-metadata-parser/metaerrors"
)

const fgdcSample = `<?xml version="1.0"?>
<metadata>
  <idinfo>
    <citation>
      <citeinfo>
        <title>Hydrography Dataset</title>
        <origin>USGS</origin>
        <origin>EPA</origin>
        <pubdate>20210401</pubdate>
        <onlink>https://example.com/data</onlink>
      </citeinfo>
    </citation>
    <descript>
      <abstract>Streams and rivers.</abstract>
      <purpose>Regional mapping</purpose>
    </descript>
    <timeperd>
      <timeinfo>
        <rngdates>
          <begdate>20000101</begdate>
          <enddate>20101231</enddate>
        </rngdates>
      </timeinfo>
    </timeperd>
    <keywords>
      <theme>
        <themekey>hydrography</themekey>
        <themekey>water</themekey>
      </theme>
      <place>
        <placekey>Oregon</placekey>
      </place>
    </keywords>
    <ptcontac>
      <cntinfo>
        <cntperp>
          <cntper>Jane Smith</cntper>
          <cntorg>USGS</cntorg>
        </cntperp>
        <cntpos>Analyst</cntpos>
        <cntemail>jane@usgs.gov</cntemail>
      </cntinfo>
    </ptcontac>
    <spdom>
      <bounding>
        <westbc>-124.5</westbc>
        <eastbc>-116.4</eastbc>
        <northbc>46.3</northbc>
        <southbc>41.9</southbc>
      </bounding>
    </spdom>
    <useconst>None</useconst>
  </idinfo>
  <distinfo>
    <distrib>
      <cntinfo>
        <cntorgp>
          <cntorg>USGS Distribution Branch</cntorg>
        </cntorgp>
      </cntinfo>
    </distrib>
  </distinfo>
  <dataqual>
    <lineage>
      <procstep>
        <procdesc>Digitized from source maps</procdesc>
        <procdate>20050601</procdate>
      </procstep>
      <procstep>
        <procdesc>Reviewed against imagery</procdesc>
      </procstep>
    </lineage>
  </dataqual>
</metadata>`

func TestDetect(t *testing.T) {
	t.Run("fgdc", func(t *testing.T) {
		standard, err := Detect([]byte(fgdcSample))
		require.NoError(t, err)
		assert.Equal(t, StandardFGDC, standard)
	})

	t.Run("unsupported root", func(t *testing.T) {
		_, err := Detect([]byte(`<rdf></rdf>`))
		assert.ErrorIs(t, err, metaerrors.ErrInvalidContent)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Detect(nil)
		assert.ErrorIs(t, err, metaerrors.ErrNoContent)
	})

	t.Run("malformed xml", func(t *testing.T) {
		_, err := Detect([]byte(`<metadata><idinfo>`))
		assert.ErrorIs(t, err, metaerrors.ErrContent)
	})
}

func TestParseFGDC(t *testing.T) {
	p, err := Parse([]byte(fgdcSample))
	require.NoError(t, err)
	assert.Equal(t, StandardFGDC, p.Standard())
	assert.True(t, p.HasData)

	t.Run("scalar properties", func(t *testing.T) {
		assert.Equal(t, "Hydrography Dataset", p.Get(Title).Scalar())
		assert.Equal(t, "Streams and rivers.", p.Get(Abstract).Scalar())
		assert.Equal(t, "None", p.Get(UseConstraints).Scalar())
	})

	t.Run("repeated values keep document order", func(t *testing.T) {
		assert.Equal(t, []string{"USGS", "EPA"}, p.Get(Originators).Sequence())
		assert.Equal(t, []string{"hydrography", "water"}, p.Get(KeywordsTheme).Sequence())
	})

	t.Run("fallback location read when primary is empty", func(t *testing.T) {
		assert.Equal(t, "USGS Distribution Branch", p.Get(DistContactOrg).Scalar())
	})

	t.Run("dates inferred as range", func(t *testing.T) {
		dates := p.Get(Dates).Structured()
		require.Len(t, dates, 1)
		assert.Equal(t, DateTypeRange, dates[0][DateKeyType])
		assert.Equal(t, "20000101\n20101231", dates[0][DateKeyValues])
	})

	t.Run("contacts", func(t *testing.T) {
		contacts := p.Get(Contacts).Structured()
		require.Len(t, contacts, 1)
		assert.Equal(t, "Jane Smith", contacts[0]["name"])
		assert.Equal(t, "USGS", contacts[0]["organization"])
		assert.Equal(t, "Analyst", contacts[0]["position"])
		assert.Equal(t, "jane@usgs.gov", contacts[0]["email"])
	})

	t.Run("bounding box", func(t *testing.T) {
		bbox := p.Get(BoundingBox).Structured()
		require.Len(t, bbox, 1)
		assert.Equal(t, "-116.4", bbox[0]["east"])
		assert.Equal(t, "41.9", bbox[0]["south"])
	})

	t.Run("process steps in document order", func(t *testing.T) {
		steps := p.Get(ProcessSteps).Structured()
		require.Len(t, steps, 2)
		assert.Equal(t, "Digitized from source maps", steps[0]["description"])
		assert.Equal(t, "20050601", steps[0]["date"])
		assert.Equal(t, "Reviewed against imagery", steps[1]["description"])
	})

	t.Run("unmapped content stays absent", func(t *testing.T) {
		assert.True(t, p.Get(RasterInfo).IsEmpty())
		assert.False(t, p.Has(RasterInfo))
	})
}

func TestSetValidatesShape(t *testing.T) {
	p, err := Parse([]byte(fgdcSample))
	require.NoError(t, err)

	t.Run("rejects unmapped property", func(t *testing.T) {
		err := p.Set("nonsense", Scalar("x"))
		assert.ErrorIs(t, err, metaerrors.ErrValidation)
	})

	t.Run("rejects shape mismatch", func(t *testing.T) {
		err := p.Set(Title, Structured(map[string]string{"name": "x"}))
		assert.ErrorIs(t, err, metaerrors.ErrValidation)
		err = p.Set(Contacts, Scalar("x"))
		assert.ErrorIs(t, err, metaerrors.ErrValidation)
	})

	t.Run("accepts empty value for any shape", func(t *testing.T) {
		assert.NoError(t, p.Set(Contacts, Absent()))
	})
}

func TestUpdateLifecycle(t *testing.T) {
	t.Run("overwrite then blank a scalar", func(t *testing.T) {
		p, err := Parse([]byte(fgdcSample))
		require.NoError(t, err)

		require.NoError(t, p.Set(Title, Scalar("Foo")))
		out, err := p.Serialize(false)
		require.NoError(t, err)
		reparsed, err := Parse(out)
		require.NoError(t, err)
		assert.Equal(t, "Foo", reparsed.Get(Title).Scalar())

		require.NoError(t, p.Set(Title, Scalar("Bar")))
		out, err = p.Serialize(false)
		require.NoError(t, err)
		reparsed, err = Parse(out)
		require.NoError(t, err)
		assert.Equal(t, "Bar", reparsed.Get(Title).Scalar())

		require.NoError(t, p.Set(Title, Scalar("")))
		out, err = p.Serialize(false)
		require.NoError(t, err)
		assert.NotContains(t, string(out), "<title>")
		reparsed, err = Parse(out)
		require.NoError(t, err)
		assert.True(t, reparsed.Get(Title).IsEmpty())
	})

	t.Run("writes never touch fallback locations", func(t *testing.T) {
		p, err := Parse([]byte(fgdcSample))
		require.NoError(t, err)
		require.NoError(t, p.Set(DistContactOrg, Scalar("New Distributor")))

		out, err := p.Serialize(false)
		require.NoError(t, err)
		assert.Contains(t, string(out), "<cntperp>", "primary location written")
		assert.Contains(t, string(out), "USGS Distribution Branch", "fallback left intact")

		reparsed, err := Parse(out)
		require.NoError(t, err)
		assert.Equal(t, "New Distributor", reparsed.Get(DistContactOrg).Scalar())
	})

	t.Run("absent properties leave the document untouched", func(t *testing.T) {
		p, err := Parse([]byte(fgdcSample))
		require.NoError(t, err)
		p.Delete(Abstract)

		out, err := p.Serialize(false)
		require.NoError(t, err)
		assert.Contains(t, string(out), "Streams and rivers.")
	})

	t.Run("serialization is idempotent", func(t *testing.T) {
		p, err := Parse([]byte(fgdcSample))
		require.NoError(t, err)
		first, err := p.Serialize(false)
		require.NoError(t, err)
		second, err := p.Serialize(false)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(second))
	})

	t.Run("template serialization starts from a fresh skeleton", func(t *testing.T) {
		p, err := Parse([]byte(fgdcSample))
		require.NoError(t, err)
		out, err := p.Serialize(true)
		require.NoError(t, err)
		assert.Contains(t, string(out), "Hydrography Dataset")
		assert.NotContains(t, string(out), "cntorgp", "fallback content not carried into template")
	})

	t.Run("structured list replaced in value order", func(t *testing.T) {
		p, err := Parse([]byte(fgdcSample))
		require.NoError(t, err)
		require.NoError(t, p.Set(Contacts, Structured(
			map[string]string{"name": "First Person", "email": "first@example.com"},
			map[string]string{"name": "Second Person"},
		)))
		out, err := p.Serialize(false)
		require.NoError(t, err)
		reparsed, err := Parse(out)
		require.NoError(t, err)
		contacts := reparsed.Get(Contacts).Structured()
		require.Len(t, contacts, 2)
		assert.Equal(t, "First Person", contacts[0]["name"])
		assert.Equal(t, "Second Person", contacts[1]["name"])
	})
}

func TestValidate(t *testing.T) {
	t.Run("passes without required properties", func(t *testing.T) {
		p, err := Parse([]byte(fgdcSample))
		require.NoError(t, err)
		assert.NoError(t, p.Validate())
	})

	t.Run("reports missing required properties", func(t *testing.T) {
		p, err := Parse([]byte(fgdcSample), WithRequiredProperties(Title, DigitalForms))
		require.NoError(t, err)
		err = p.Validate()
		require.ErrorIs(t, err, metaerrors.ErrValidation)
		var verr *metaerrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{DigitalForms}, verr.Missing)
	})

	t.Run("rejects unknown structured sub-properties", func(t *testing.T) {
		p, err := Parse([]byte(fgdcSample))
		require.NoError(t, err)
		p.props[Contacts] = Structured(map[string]string{"name": "x", "badkey": "y"})
		err = p.Validate()
		require.ErrorIs(t, err, metaerrors.ErrValidation)
	})

	t.Run("rejects inconsistent dates", func(t *testing.T) {
		p, err := Parse([]byte(fgdcSample))
		require.NoError(t, err)
		p.props[Dates] = Structured(map[string]string{
			DateKeyType:   DateTypeRange,
			DateKeyValues: "20000101",
		})
		err = p.Validate()
		require.ErrorIs(t, err, metaerrors.ErrValidation)
	})
}

func TestConvertTo(t *testing.T) {
	p, err := Parse([]byte(fgdcSample))
	require.NoError(t, err)

	converted, err := p.ConvertTo(ISO())
	require.NoError(t, err)
	assert.Equal(t, StandardISO, converted.Standard())
	assert.True(t, converted.Get(Title).Equal(p.Get(Title)))
	assert.True(t, converted.Get(Dates).Equal(p.Get(Dates)))

	out, err := converted.Serialize(false)
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "<MD_Metadata>")
	assert.Contains(t, text, "<CharacterString>Hydrography Dataset</CharacterString>")
	assert.Contains(t, text, "MD_KeywordTypeCode")

	t.Run("round-trips through the target standard", func(t *testing.T) {
		reparsed, err := Parse(out)
		require.NoError(t, err)
		assert.Equal(t, StandardISO, reparsed.Standard())
		assert.Equal(t, "Hydrography Dataset", reparsed.Get(Title).Scalar())
		assert.Equal(t, []string{"hydrography", "water"}, reparsed.Get(KeywordsTheme).Sequence())

		dates := reparsed.Get(Dates).Structured()
		require.Len(t, dates, 1)
		assert.Equal(t, DateTypeRange, dates[0][DateKeyType])
	})
}

func TestParseWithRegistry(t *testing.T) {
	t.Run("accepts matching root", func(t *testing.T) {
		p, err := ParseWithRegistry([]byte(fgdcSample), FGDC())
		require.NoError(t, err)
		assert.Equal(t, StandardFGDC, p.Standard())
	})

	t.Run("rejects mismatched root", func(t *testing.T) {
		_, err := ParseWithRegistry([]byte(fgdcSample), ISO())
		assert.ErrorIs(t, err, metaerrors.ErrInvalidContent)
	})
}

func TestToMap(t *testing.T) {
	p, err := Parse([]byte(fgdcSample))
	require.NoError(t, err)
	m := p.ToMap()
	assert.Equal(t, "Hydrography Dataset", m[Title].Scalar())
	_, present := m[RasterInfo]
	assert.False(t, present)
}

func TestNewStartsEmpty(t *testing.T) {
	p, err := New(FGDC())
	require.NoError(t, err)
	assert.False(t, p.HasData)

	require.NoError(t, p.Set(Title, Scalar("Fresh Record")))
	out, err := p.Serialize(false)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(out), "<metadata>"))
	assert.Contains(t, string(out), "Fresh Record")
}
