package validator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consbio/gis-metadata-parser/parser"
)

const validFGDC = `<metadata>
  <idinfo>
    <citation><citeinfo>
      <title>Stream Gauges</title>
      <pubdate>2021-04-01</pubdate>
    </citeinfo></citation>
    <descript><abstract>Active stream gauge locations.</abstract></descript>
    <spdom><bounding>
      <westbc>-124.5</westbc><eastbc>-116.4</eastbc>
      <southbc>41.9</southbc><northbc>46.3</northbc>
    </bounding></spdom>
  </idinfo>
</metadata>`

func parseFixture(t *testing.T, doc string) *parser.MetadataParser {
	t.Helper()
	p, err := parser.Parse([]byte(doc))
	require.NoError(t, err)
	return p
}

func TestValidateParsedValid(t *testing.T) {
	result, err := New().ValidateParsed(parseFixture(t, validFGDC))
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, parser.StandardFGDC, result.Standard)
	assert.Zero(t, result.ErrorCount)
	assert.Contains(t, result.Properties, parser.Title)
	assert.Contains(t, result.Properties, parser.BoundingBox)
	assert.NotNil(t, result.Parser)
}

func TestValidateRequiredProperties(t *testing.T) {
	v := New()
	v.Required = []string{parser.Title, parser.Purpose}

	result, err := v.ValidateParsed(parseFixture(t, validFGDC))
	require.NoError(t, err)

	assert.False(t, result.Valid)
	require.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, parser.Purpose, result.Errors[0].Path)
	require.NotNil(t, result.Errors[0].PropertyContext)
	assert.Equal(t, parser.StandardFGDC, result.Errors[0].PropertyContext.Standard)
}

func TestValidateRecommendedWarnings(t *testing.T) {
	const bare = `<metadata><idinfo><citation><citeinfo>
  <title>Only a Title</title>
</citeinfo></citation></idinfo></metadata>`

	t.Run("missing abstract warns", func(t *testing.T) {
		result, err := New().ValidateParsed(parseFixture(t, bare))
		require.NoError(t, err)
		assert.True(t, result.Valid)
		require.Equal(t, 1, result.WarningCount)
		assert.Equal(t, parser.Abstract, result.Warnings[0].Path)
	})

	t.Run("warnings suppressed", func(t *testing.T) {
		v := New()
		v.IncludeWarnings = false
		result, err := v.ValidateParsed(parseFixture(t, bare))
		require.NoError(t, err)
		assert.Zero(t, result.WarningCount)
		assert.Empty(t, result.Warnings)
	})
}

func TestValidateDates(t *testing.T) {
	t.Run("range with one value", func(t *testing.T) {
		p := parseFixture(t, validFGDC)
		require.NoError(t, p.Set(parser.Dates, parser.Structured(map[string]string{
			parser.DateKeyType:   parser.DateTypeRange,
			parser.DateKeyValues: "2020-01-01",
		})))

		result, err := New().ValidateParsed(p)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Errors[0].Message, "exactly two values")
	})

	t.Run("unknown date type", func(t *testing.T) {
		p := parseFixture(t, validFGDC)
		require.NoError(t, p.Set(parser.Dates, parser.Structured(map[string]string{
			parser.DateKeyType:   "fortnightly",
			parser.DateKeyValues: "2020-01-01",
		})))

		result, err := New().ValidateParsed(p)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Errors[0].Message, "unknown date type")
	})

	t.Run("unparsable value warns", func(t *testing.T) {
		p := parseFixture(t, validFGDC)
		require.NoError(t, p.Set(parser.Dates, parser.Structured(map[string]string{
			parser.DateKeyType:   parser.DateTypeSingle,
			parser.DateKeyValues: "sometime in spring",
		})))

		result, err := New().ValidateParsed(p)
		require.NoError(t, err)
		assert.True(t, result.Valid)
		require.NotEmpty(t, result.Warnings)
		assert.Contains(t, result.Warnings[0].Message, "no recognized format")
	})

	t.Run("reversed range fails only in strict mode", func(t *testing.T) {
		reversed := parser.Structured(map[string]string{
			parser.DateKeyType:   parser.DateTypeRange,
			parser.DateKeyValues: "2022-06-01\n2020-01-01",
		})

		p := parseFixture(t, validFGDC)
		require.NoError(t, p.Set(parser.Dates, reversed))
		result, err := New().ValidateParsed(p)
		require.NoError(t, err)
		assert.True(t, result.Valid)

		strict := New()
		strict.StrictMode = true
		p = parseFixture(t, validFGDC)
		require.NoError(t, p.Set(parser.Dates, reversed))
		result, err = strict.ValidateParsed(p)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Errors[0].Message, "ends before it begins")
	})
}

func TestValidateBoundingBox(t *testing.T) {
	setBox := func(t *testing.T, box map[string]string) *parser.MetadataParser {
		p := parseFixture(t, validFGDC)
		require.NoError(t, p.Set(parser.BoundingBox, parser.Structured(box)))
		return p
	}

	t.Run("non-numeric coordinate", func(t *testing.T) {
		result, err := New().ValidateParsed(setBox(t, map[string]string{
			"west": "far away", "east": "-116", "south": "42", "north": "46",
		}))
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, "west", result.Errors[0].Field)
	})

	t.Run("latitude out of range", func(t *testing.T) {
		result, err := New().ValidateParsed(setBox(t, map[string]string{
			"west": "-124", "east": "-116", "south": "-95", "north": "46",
		}))
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Errors[0].Message, "valid range")
	})

	t.Run("south above north", func(t *testing.T) {
		result, err := New().ValidateParsed(setBox(t, map[string]string{
			"west": "-124", "east": "-116", "south": "50", "north": "46",
		}))
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Errors[0].Message, "south is greater than north")
	})

	t.Run("antimeridian crossing warns", func(t *testing.T) {
		result, err := New().ValidateParsed(setBox(t, map[string]string{
			"west": "170", "east": "-170", "south": "50", "north": "60",
		}))
		require.NoError(t, err)
		assert.True(t, result.Valid)
		require.NotEmpty(t, result.Warnings)
		assert.Contains(t, result.Warnings[0].Message, "antimeridian")
	})
}

func TestValidateContacts(t *testing.T) {
	p := parseFixture(t, validFGDC)
	require.NoError(t, p.Set(parser.Contacts, parser.Structured(
		map[string]string{"position": "GIS Analyst"},
		map[string]string{"name": "J. Rivers", "email": "not-an-email"},
	)))

	result, err := New().ValidateParsed(p)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0].Message, "neither a name nor an organization")
	assert.Equal(t, "contacts[0]", result.Warnings[0].Path)
	assert.Equal(t, "email", result.Warnings[1].Field)
	assert.Equal(t, "contacts[1].email", result.Warnings[1].Path)
}

func TestValidateRasterInfo(t *testing.T) {
	p := parseFixture(t, validFGDC)
	require.NoError(t, p.Set(parser.RasterInfo, parser.Structured(map[string]string{
		"row_count": "many", "column_count": "200",
	})))

	result, err := New().ValidateParsed(p)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "row_count", result.Errors[0].Field)
}

func TestValidateURLs(t *testing.T) {
	p := parseFixture(t, validFGDC)
	require.NoError(t, p.Set(parser.OnlineLinkages, parser.Sequence(
		"https://example.com/data", "example.com/no-scheme",
	)))

	result, err := New().ValidateParsed(p)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, "not an absolute URL")
	assert.Equal(t, "online_linkages[1]", result.Warnings[0].Path)
}

// TestIssuePathsIndexed verifies occurrence issues carry bracket-indexed
// paths with the offending sub-property appended.
func TestIssuePathsIndexed(t *testing.T) {
	p := parseFixture(t, validFGDC)
	require.NoError(t, p.Set(parser.DigitalForms, parser.Structured(
		map[string]string{"name": "Shapefile", "network_resource": "ftp.example.com/data.zip"},
	)))

	result, err := New().ValidateParsed(p)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "digital_forms[0].network_resource", result.Warnings[0].Path)
	assert.Equal(t, "network_resource", result.Warnings[0].Field)
}

func TestValidateWithOptions(t *testing.T) {
	t.Run("bytes input", func(t *testing.T) {
		result, err := ValidateWithOptions(
			WithBytes([]byte(validFGDC)),
			WithRequiredProperties(parser.Title),
		)
		require.NoError(t, err)
		assert.True(t, result.Valid)
	})

	t.Run("parsed input", func(t *testing.T) {
		result, err := ValidateWithOptions(WithParsed(parseFixture(t, validFGDC)))
		require.NoError(t, err)
		assert.True(t, result.Valid)
	})

	t.Run("file input", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "record.xml")
		require.NoError(t, os.WriteFile(path, []byte(validFGDC), 0o644))

		result, err := ValidateWithOptions(WithFilePath(path))
		require.NoError(t, err)
		assert.True(t, result.Valid)
	})

	t.Run("no input source", func(t *testing.T) {
		_, err := ValidateWithOptions(WithStrictMode(true))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "input source")
	})

	t.Run("conflicting input sources", func(t *testing.T) {
		_, err := ValidateWithOptions(
			WithBytes([]byte(validFGDC)),
			WithFilePath("record.xml"),
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one")
	})
}
