// Package parser maps geospatial metadata documents onto a canonical
// property vocabulary shared across the FGDC CSDGM, ISO-19115, and ArcGIS
// metadata standards.
//
// Each standard has a Registry describing where every canonical property
// lives in its document layout, including fallback locations consulted
// when the primary location is empty. A MetadataParser binds a registry to
// one document: it reads the mapped properties into a canonical set on
// load, lets callers read and edit that set, validates it, and writes it
// back into the document. Reads consult fallback locations in priority
// order; writes only ever touch a property's primary location.
//
// Basic usage:
//
//	p, err := parser.Parse(data)
//	if err != nil {
//	    return err
//	}
//	title := p.Get(parser.Title).Scalar()
//	_ = p.Set(parser.Title, parser.Scalar("Updated Title"))
//	out, err := p.Serialize(false)
//
// Standard detection is automatic; use ParseWithRegistry to force one.
// ConvertTo projects the canonical set into another standard's registry,
// producing a fresh document of that standard.
package parser
