package parser

import (
	"strings"

	"github.com/beevik/etree"
)

// ISO-19115 and ArcGIS model raster geometry as repeated axis dimension
// records typed "row", "column", or "vertical". The canonical raster_info
// structure flattens those into named counts and resolutions; these two
// codecs convert between the representations.

const rasterDims = "raster_dims"

// collapseRasterDims folds the document's dimension records into a single
// raster_info mapping. Row and column resolutions carry their units inline.
func (p *MetadataParser) collapseRasterDims(prop, numDimsExpr string, dims *ComplexSpec) Value {
	mapping := make(map[string]string)
	if texts := matchTexts(resolveExpr(p.Root(), numDimsExpr)); len(texts) > 0 {
		mapping["dimensions"] = strings.Join(texts, MultiValueDelim)
	}
	for _, dim := range p.parseComplexList(p.Root(), rasterDims, dims).Structured() {
		resolution := strings.TrimSpace(dim["value"] + " " + dim["units"])
		switch strings.ToLower(dim["type"]) {
		case "vertical":
			mapping["vertical_count"] = dim["size"]
		case "column":
			mapping["column_count"] = dim["size"]
			mapping["x_resolution"] = resolution
		case "row":
			mapping["row_count"] = dim["size"]
			mapping["y_resolution"] = resolution
		}
	}
	if emptyMapping(mapping) {
		return Absent()
	}
	return Structured(mapping)
}

// expandRasterDims derives vertical, column, and row dimension records from
// a raster_info mapping and writes them back, along with the dimension
// count shared by all records.
func (p *MetadataParser) expandRasterDims(tree *etree.Element, prop string, value Value, numDimsExpr string, dims *ComplexSpec) {
	mapping := firstMapping(value)
	p.writeValues(tree, "", numDimsExpr, splitSubValues(numDimsExpr, mapping["dimensions"]))

	var records []map[string]string
	if mapping["vertical_count"] != "" {
		records = append(records, map[string]string{
			"type": "vertical",
			"size": mapping["vertical_count"],
		})
	}
	if mapping["column_count"] != "" || mapping["x_resolution"] != "" {
		records = append(records, map[string]string{
			"type":  "column",
			"size":  mapping["column_count"],
			"value": mapping["x_resolution"],
		})
	}
	if mapping["row_count"] != "" || mapping["y_resolution"] != "" {
		records = append(records, map[string]string{
			"type":  "row",
			"size":  mapping["row_count"],
			"value": mapping["y_resolution"],
		})
	}
	p.updateComplexList(tree, rasterDims, dims, records)
}
