package parser

import (
	"github.com/beevik/etree"

	"github.com/consbio/gis-metadata-parser/metaerrors"
)

// Standard identifiers for the built-in registries.
const (
	StandardFGDC   = "fgdc"
	StandardISO    = "iso"
	StandardArcGIS = "arcgis"
)

// RegistryFor returns the built-in registry for a standard identifier.
func RegistryFor(standard string) (*Registry, bool) {
	switch standard {
	case StandardFGDC:
		return FGDC(), true
	case StandardISO:
		return ISO(), true
	case StandardArcGIS:
		return ArcGIS(), true
	default:
		return nil, false
	}
}

// detectRegistry picks the standard for a document root. ISO-19115 roots
// are unambiguous. ArcGIS and FGDC both use a "metadata" root, so ArcGIS
// is identified by its marker children and FGDC takes the remainder.
func detectRegistry(root *etree.Element) (*Registry, error) {
	for _, registry := range []*Registry{ISO(), ArcGIS(), FGDC()} {
		if !registry.AcceptsRoot(root.Tag) {
			continue
		}
		if markers := registry.markers; len(markers) > 0 && !hasAnyChild(root, markers) {
			continue
		}
		return registry, nil
	}
	return nil, &metaerrors.ContentError{
		Root:    root.Tag,
		Message: "document does not conform to a supported metadata standard",
	}
}

func hasAnyChild(root *etree.Element, tags []string) bool {
	for _, tag := range tags {
		if root.SelectElement(tag) != nil {
			return true
		}
	}
	return false
}
