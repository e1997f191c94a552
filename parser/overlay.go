package parser

import (
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/consbio/gis-metadata-parser/metaerrors"
)

// Overlay is a YAML document that customizes a built-in registry: it can
// re-map scalar property locations, add standard-specific extra properties,
// and narrow the required property subset. Structured properties keep
// their built-in codecs and cannot be re-mapped by overlay.
//
//	standard: fgdc
//	required: [title, abstract]
//	properties:
//	  title:
//	    locations:
//	      - idinfo/citation/citeinfo/title
//	  agency_code:
//	    locations:
//	      - idinfo/agency/code
type Overlay struct {
	// Standard must match the registry the overlay is applied to, when set.
	Standard string `yaml:"standard"`

	// Required replaces the registry's required property subset when
	// non-empty.
	Required []string `yaml:"required"`

	// Properties maps property names to their overridden specs.
	Properties map[string]OverlayProperty `yaml:"properties"`
}

// OverlayProperty is one scalar property mapping in an overlay.
type OverlayProperty struct {
	// Locations are the property's tiered locations, primary first.
	Locations []string `yaml:"locations"`

	// WriteRoot optionally names the repeatable occurrence root used when
	// writing the property.
	WriteRoot string `yaml:"write_root"`
}

// ParseOverlay decodes an overlay from YAML.
func ParseOverlay(data []byte) (*Overlay, error) {
	var overlay Overlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parsing registry overlay: %w", err)
	}
	return &overlay, nil
}

// ReadOverlay decodes an overlay from r.
func ReadOverlay(r io.Reader) (*Overlay, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading registry overlay: %w", err)
	}
	return ParseOverlay(data)
}

// LoadOverlay decodes an overlay from a YAML file.
func LoadOverlay(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry overlay: %w", err)
	}
	return ParseOverlay(data)
}

// Apply returns a copy of registry with the overlay's property mappings
// and required subset applied. The given registry is not modified.
func (o *Overlay) Apply(registry *Registry) (*Registry, error) {
	if o.Standard != "" && o.Standard != registry.Standard() {
		return nil, metaerrors.NewConfigError(registry.Standard(), "",
			fmt.Sprintf("overlay targets standard %q", o.Standard))
	}
	applied := registry.Clone()
	for prop, override := range o.Properties {
		if len(override.Locations) == 0 {
			return nil, metaerrors.NewConfigError(registry.Standard(), prop, "overlay property has no locations")
		}
		if existing, ok := applied.Spec(prop); ok && existing.shape() != ShapeScalar {
			return nil, metaerrors.NewConfigError(registry.Standard(), prop, "structured properties cannot be re-mapped by overlay")
		}
		spec := &PropertySpec{
			Tiers:     append([]string(nil), override.Locations...),
			WriteRoot: override.WriteRoot,
		}
		if err := applied.Register(prop, spec); err != nil {
			return nil, err
		}
	}
	if len(o.Required) > 0 {
		applied.required = append([]string(nil), o.Required...)
	}
	if err := applied.checkRequired(); err != nil {
		return nil, err
	}
	return applied, nil
}
