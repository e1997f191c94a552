// Package gismetadata provides tools for reading, editing, validating, and
// converting geospatial metadata documents.
//
// The library maps three metadata standards onto one canonical property set,
// so the same code can work with any of them:
//
//   - FGDC CSDGM: https://www.fgdc.gov/metadata/csdgm-standard
//   - ISO-19115 / ISO-19139: https://www.iso.org/standard/53798.html
//   - ArcGIS metadata format (ArcGIS 10 and later)
//
// # Overview
//
// The library consists of four primary packages:
//
//   - parser: Read metadata XML into canonical properties, edit them, and
//     write the document back
//   - validator: Check canonical property sets for structural and content
//     problems
//   - converter: Translate documents between the supported standards
//   - differ: Compare two documents by their canonical properties
//
// # Installation
//
// Install the library using go get:
//
//	go get github.com/consbio/gis-metadata-parser
//
// # Quick Start
//
// Parse a metadata document:
//
//	import "github.com/consbio/gis-metadata-parser/parser"
//
//	data, _ := os.ReadFile("record.xml")
//	p, err := parser.Parse(data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Standard: %s\n", p.Standard())
//	fmt.Printf("Title: %s\n", p.Get(parser.Title).Scalar())
//
// Edit and write back:
//
//	p.Set(parser.Abstract, parser.Scalar("Updated abstract."))
//	out, err := p.Serialize(false)
//
// Validate a document:
//
//	import "github.com/consbio/gis-metadata-parser/validator"
//
//	result, err := validator.ValidateWithOptions(
//		validator.WithFilePath("record.xml"),
//		validator.WithRequiredProperties(parser.Title, parser.Abstract),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if !result.Valid {
//		fmt.Printf("Found %d errors\n", result.ErrorCount)
//	}
//
// Convert between standards:
//
//	import "github.com/consbio/gis-metadata-parser/converter"
//
//	result, err := converter.Convert("fgdc-record.xml", parser.StandardISO)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if result.HasWarnings() {
//		// Some properties could not be represented in the target standard
//	}
//	out, err := result.Serialize()
//
// # Parser Package
//
// The parser package is the core of the library. It detects the standard
// from the document root, reads each canonical property from its mapped
// locations with fallback support, and writes edits back to each property's
// primary location only. Registries are customizable through YAML overlays.
//
// See the parser package documentation for the property vocabulary and the
// read/write contract.
//
// # Validator Package
//
// The validator package checks parsed documents beyond what the parser
// enforces: required property presence, date structure agreement, bounding
// box coordinate ranges, and recommendation warnings. Strict mode adds
// checks such as date range ordering.
//
// # Converter Package
//
// The converter package projects the canonical property set through a
// target standard's registry. Conversion is best effort: properties the
// target cannot represent are dropped and reported as warning issues.
//
// # Differ Package
//
// The differ package compares two documents property by property. Because
// comparison happens on the canonical model, the documents may use
// different standards; a record can be diffed against its own conversion.
//
// # Command-Line Interface
//
// In addition to the library packages, a command-line interface is provided:
//
//	# Inspect a record
//	gismeta parse record.xml
//
//	# Validate a record
//	gismeta validate --required title,abstract record.xml
//
//	# Convert between standards
//	gismeta convert -t iso fgdc-record.xml -o iso-record.xml
//
//	# Compare two records
//	gismeta diff survey-2020.xml survey-2021.xml
//
// Install the CLI:
//
//	go install github.com/consbio/gis-metadata-parser/cmd/gismeta@latest
//
// # Error Handling
//
// Parse failures return errors from the metaerrors package, which
// distinguishes empty input, malformed or unrecognized XML, configuration
// problems, and validation failures. Validation and conversion findings are
// collected in result objects rather than returned as errors.
package gismetadata
