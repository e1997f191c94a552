package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consbio/gis-metadata-parser/metaerrors"
)

const overlaySample = `standard: fgdc
required: [title, agency_code]
properties:
  title:
    locations:
      - idinfo/altcite/title
      - idinfo/citation/citeinfo/title
  agency_code:
    locations:
      - idinfo/agency/code
`

func TestParseOverlay(t *testing.T) {
	overlay, err := ParseOverlay([]byte(overlaySample))
	require.NoError(t, err)
	assert.Equal(t, StandardFGDC, overlay.Standard)
	assert.Equal(t, []string{Title, "agency_code"}, overlay.Required)
	require.Contains(t, overlay.Properties, Title)
	assert.Equal(t, []string{"idinfo/altcite/title", "idinfo/citation/citeinfo/title"},
		overlay.Properties[Title].Locations)
}

func TestReadOverlay(t *testing.T) {
	overlay, err := ReadOverlay(strings.NewReader(overlaySample))
	require.NoError(t, err)
	assert.Contains(t, overlay.Properties, "agency_code")
}

func TestOverlayApply(t *testing.T) {
	overlay, err := ParseOverlay([]byte(overlaySample))
	require.NoError(t, err)

	applied, err := overlay.Apply(FGDC())
	require.NoError(t, err)

	t.Run("original registry untouched", func(t *testing.T) {
		assert.False(t, FGDC().Has("agency_code"))
		assert.Empty(t, FGDC().Required())
	})

	t.Run("re-mapped and added properties resolve", func(t *testing.T) {
		const doc = `<metadata>
  <idinfo>
    <altcite><title>Alternate Title</title></altcite>
    <citation><citeinfo><title>Primary Title</title></citeinfo></citation>
    <agency><code>EPA-22</code></agency>
  </idinfo>
</metadata>`
		p, err := ParseWithRegistry([]byte(doc), applied)
		require.NoError(t, err)
		assert.Equal(t, "Alternate Title", p.Get(Title).Scalar(),
			"overlay's primary location wins")
		assert.Equal(t, "EPA-22", p.Get("agency_code").Scalar())
	})

	t.Run("required subset replaced", func(t *testing.T) {
		p, err := ParseWithRegistry([]byte(`<metadata><idinfo/></metadata>`), applied)
		require.NoError(t, err)

		err = p.Validate()
		require.Error(t, err)
		var verr *metaerrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.ElementsMatch(t, []string{Title, "agency_code"}, verr.Missing)
	})
}

func TestOverlayApplyErrors(t *testing.T) {
	t.Run("standard mismatch", func(t *testing.T) {
		overlay := &Overlay{Standard: StandardISO}
		_, err := overlay.Apply(FGDC())
		assert.ErrorIs(t, err, metaerrors.ErrConfig)
	})

	t.Run("property without locations", func(t *testing.T) {
		overlay := &Overlay{Properties: map[string]OverlayProperty{
			"agency_code": {},
		}}
		_, err := overlay.Apply(FGDC())
		assert.ErrorIs(t, err, metaerrors.ErrConfig)
	})

	t.Run("structured property cannot be re-mapped", func(t *testing.T) {
		overlay := &Overlay{Properties: map[string]OverlayProperty{
			Contacts: {Locations: []string{"idinfo/contact"}},
		}}
		_, err := overlay.Apply(FGDC())
		assert.ErrorIs(t, err, metaerrors.ErrConfig)
	})

	t.Run("required naming an unmapped property", func(t *testing.T) {
		overlay := &Overlay{Required: []string{"not_mapped"}}
		_, err := overlay.Apply(FGDC())
		var verr *metaerrors.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}
