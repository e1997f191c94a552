package issues

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/consbio/gis-metadata-parser/internal/severity"
)

func TestIssueString(t *testing.T) {
	tests := []struct {
		name     string
		issue    Issue
		expected string
	}{
		{
			name: "error with path and message",
			issue: Issue{
				Path:     "title",
				Message:  "required property is missing",
				Severity: severity.SeverityError,
			},
			expected: "✗ title: required property is missing",
		},
		{
			name: "warning symbol",
			issue: Issue{
				Path:     "contacts[0].email",
				Message:  "does not look like an email address",
				Severity: severity.SeverityWarning,
			},
			expected: "⚠ contacts[0].email: does not look like an email address",
		},
		{
			name: "info symbol",
			issue: Issue{
				Path:     "dates",
				Message:  "date type inferred from value count",
				Severity: severity.SeverityInfo,
			},
			expected: "ℹ dates: date type inferred from value count",
		},
		{
			name: "critical uses error symbol",
			issue: Issue{
				Path:     "document",
				Message:  "no metadata content",
				Severity: severity.SeverityCritical,
			},
			expected: "✗ document: no metadata content",
		},
		{
			name: "with spec reference",
			issue: Issue{
				Path:     "bounding_box",
				Message:  "west exceeds valid longitude range",
				Severity: severity.SeverityError,
				SpecRef:  "https://www.fgdc.gov/metadata/csdgm/01.html",
			},
			expected: "✗ bounding_box: west exceeds valid longitude range\n    Standard: https://www.fgdc.gov/metadata/csdgm/01.html",
		},
		{
			name: "with conversion context",
			issue: Issue{
				Path:     "search_keywords",
				Message:  "property dropped during conversion",
				Severity: severity.SeverityWarning,
				Context:  "converting arcgis to fgdc",
			},
			expected: "⚠ search_keywords: property dropped during conversion\n    Context: converting arcgis to fgdc",
		},
		{
			name: "with property context",
			issue: Issue{
				Path:     "title",
				Message:  "required property is missing",
				Severity: severity.SeverityError,
				PropertyContext: &PropertyContext{
					Standard: "fgdc",
					Location: "idinfo/citation/citeinfo/title",
				},
			},
			expected: "✗ title (fgdc: idinfo/citation/citeinfo/title): required property is missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.issue.String())
		})
	}
}

func TestPropertyContext(t *testing.T) {
	t.Run("empty context renders nothing", func(t *testing.T) {
		assert.True(t, PropertyContext{}.IsEmpty())
		assert.Equal(t, "", PropertyContext{}.String())
	})

	t.Run("standard only", func(t *testing.T) {
		assert.Equal(t, "(iso)", PropertyContext{Standard: "iso"}.String())
	})

	t.Run("location only", func(t *testing.T) {
		assert.Equal(t, "(idinfo/descript/abstract)",
			PropertyContext{Location: "idinfo/descript/abstract"}.String())
	})

	t.Run("dropped property is never empty", func(t *testing.T) {
		ctx := PropertyContext{Dropped: true}
		assert.False(t, ctx.IsEmpty())
		assert.Equal(t, "(not representable in target)", ctx.String())
	})

	t.Run("dropped with target standard", func(t *testing.T) {
		ctx := PropertyContext{Dropped: true, Standard: "fgdc"}
		assert.Equal(t, "(not representable in fgdc)", ctx.String())
	})
}
