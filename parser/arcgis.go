package parser

import (
	"sync"

	"github.com/beevik/etree"

	"github.com/consbio/gis-metadata-parser/internal/xmltree"
)

// ArcGIS metadata document locations.
const (
	arcgisIdCitation   = "dataIdInfo/idCitation"
	arcgisDistributor  = "distInfo/distributor"
	arcgisDistContact  = arcgisDistributor + "/distorCont"
	arcgisDistAddress  = arcgisDistContact + "/rpCntInfo/cntAddress"
	arcgisReportRoot   = "dqInfo/report"
	arcgisContactsRoot = "dataIdInfo/idPoC"
	arcgisBBoxRoot     = "dataIdInfo/dataExt/geoEle"
	arcgisDatesRoot    = "dataIdInfo/dataExt/tempEle"
	arcgisDatesBase    = arcgisDatesRoot + "/TempExtent/exTemp"
	arcgisFormatRoot   = "distInfo/distFormat"
	arcgisTransferRoot = "distInfo/distTranOps/onLineSrc"
	arcgisLworkRoot    = "dataIdInfo/aggrInfo/aggrDSName"
	arcgisStepsRoot    = "dqInfo/dataLineage/prcStep"
	arcgisGridRep      = "spatRepInfo/GridSpatRep"
	arcgisDimsRoot     = arcgisGridRep + "/axisDimension"
	arcgisNumDims      = arcgisGridRep + "/numDims"
)

// Data quality report type attribute values.
const (
	arcgisReportAttrAccuracy = "DQQuanAttAcc"
	arcgisReportCompleteness = "DQCompOm"
)

// ArcGIS keyword groups with no counterpart in the other standards. They
// are mapped for ArcGIS documents and dropped on conversion.
var arcgisExtraKeywords = map[string]string{
	"discipline_keywords":     "dataIdInfo/discKeys/keyword",
	"other_keywords":          "dataIdInfo/otherKeys/keyword",
	"product_keywords":        "dataIdInfo/productKeys/keyword",
	"search_keywords":         "dataIdInfo/searchKeys/keyword",
	"topic_category_keywords": "dataIdInfo/subTopicCatKeys/keyword",
}

var arcgisDigitalFormatsSpec = &ComplexSpec{
	Root: arcgisFormatRoot,
	List: true,
	Subs: map[string][]string{
		"name":          {arcgisFormatRoot + "/formatName"},
		"content":       {arcgisFormatRoot + "/formatInfo"},
		"decompression": {arcgisFormatRoot + "/fileDecmTech"},
		"version":       {arcgisFormatRoot + "/formatVer"},
		"specification": {arcgisFormatRoot + "/formatSpec"},
	},
	Order: []string{"name", "content", "decompression", "version", "specification"},
}

var arcgisTransferOptionsSpec = &ComplexSpec{
	Root: arcgisTransferRoot,
	List: true,
	Subs: map[string][]string{
		"access_desc":      {arcgisTransferRoot + "/orDesc"},
		"access_instrs":    {arcgisTransferRoot + "/protocol"},
		"network_resource": {arcgisTransferRoot + "/linkage"},
	},
	Order: []string{"access_desc", "access_instrs", "network_resource"},
}

var arcgisRasterDimsSpec = &ComplexSpec{
	Root:  arcgisDimsRoot,
	List:  true,
	Order: rasterDimSubProperties,
	Subs: map[string][]string{
		"type":  {arcgisDimsRoot + "/@type"},
		"size":  {arcgisDimsRoot + "/dimSize"},
		"value": {arcgisDimsRoot + "/dimResol/value"},
		"units": {arcgisDimsRoot + "/dimResol/value/@uom"},
	},
}

var arcgisOnce = sync.OnceValue(buildArcGIS)

// ArcGIS returns the shared registry for ArcGIS metadata. Clone it before
// customizing.
func ArcGIS() *Registry {
	return arcgisOnce()
}

func buildArcGIS() *Registry {
	r := NewRegistry(StandardArcGIS, []string{"metadata", "Metadata"}, nil)
	r.setMarkers("dataIdInfo", "distInfo", "dqInfo", "Esri")

	r.MustRegister(Title, scalarSpec(arcgisIdCitation+"/resTitle"))
	r.MustRegister(Abstract, scalarSpec("dataIdInfo/idAbs"))
	r.MustRegister(Purpose, scalarSpec("dataIdInfo/idPurp"))
	r.MustRegister(SupplementaryInfo, scalarSpec("dataIdInfo/suppInfo"))
	r.MustRegister(OnlineLinkages, scalarSpec(
		arcgisIdCitation+"/citRespParty/rpCntInfo/cntOnlineRes/linkage",
		arcgisIdCitation+"/citOnlineRes/linkage",
	))
	r.MustRegister(Originators, scalarSpec(arcgisIdCitation+"/citRespParty/rpOrgName"))
	r.MustRegister(PublishDate, scalarSpec(arcgisIdCitation+"/date/pubDate"))
	r.MustRegister(DataCredits, scalarSpec("dataIdInfo/idCredit"))

	r.MustRegister(Contacts, &PropertySpec{Complex: &ComplexSpec{
		Root: arcgisContactsRoot,
		List: true,
		Subs: map[string][]string{
			"name":         {arcgisContactsRoot + "/rpIndName"},
			"organization": {arcgisContactsRoot + "/rpOrgName"},
			"position":     {arcgisContactsRoot + "/rpPosName"},
			"email":        {arcgisContactsRoot + "/rpCntInfo/cntAddress/eMailAdd"},
		},
	}})

	r.MustRegister(DistContactOrg, scalarSpec(arcgisDistContact+"/rpOrgName"))
	r.MustRegister(DistContactPerson, scalarSpec(arcgisDistContact+"/rpIndName"))
	r.MustRegister(DistAddressType, scalarSpec(arcgisDistAddress+"/@addressType"))
	r.MustRegister(DistAddress, scalarSpec(arcgisDistAddress+"/delPoint"))
	r.MustRegister(DistCity, scalarSpec(arcgisDistAddress+"/city"))
	r.MustRegister(DistState, scalarSpec(arcgisDistAddress+"/adminArea"))
	r.MustRegister(DistPostal, scalarSpec(arcgisDistAddress+"/postCode"))
	r.MustRegister(DistCountry, scalarSpec(arcgisDistAddress+"/country"))
	r.MustRegister(DistPhone, scalarSpec(
		arcgisDistContact+"/rpCntInfo/cntPhone/voiceNum",
		arcgisDistContact+"/rpCntInfo/voiceNum",
	))
	r.MustRegister(DistEmail, scalarSpec(arcgisDistAddress+"/eMailAdd"))
	r.MustRegister(DistLiability, scalarSpec("dataIdInfo/resConst/LegConsts/othConsts"))
	r.MustRegister(ProcessingFees, scalarSpec(arcgisDistributor+"/distorOrdPrc/resFees"))
	r.MustRegister(ProcessingInstrs, scalarSpec(arcgisDistributor+"/distorOrdPrc/ordInstr"))
	r.MustRegister(ResourceDesc, scalarSpec("dataIdInfo/idSpecUse/specUsage"))
	r.MustRegister(TechPrerequisites, scalarSpec("dataIdInfo/envirDesc"))

	attrRoot := "eainfo/detailed/attr"
	r.MustRegister(Attributes, &PropertySpec{Complex: &ComplexSpec{
		Root: attrRoot,
		List: true,
		Subs: map[string][]string{
			"label":          {attrRoot + "/attrlabl"},
			"aliases":        {attrRoot + "/attalias"},
			"definition":     {attrRoot + "/attrdef"},
			"definition_src": {attrRoot + "/attrdefs"},
		},
	}})

	r.MustRegister(AttributeAccuracy, &PropertySpec{
		Parse:  arcgisParseReportItem(arcgisReportAttrAccuracy),
		Update: arcgisUpdateReportItem(arcgisReportAttrAccuracy),
	})

	r.MustRegister(BoundingBox, &PropertySpec{Complex: &ComplexSpec{
		Root: arcgisBBoxRoot,
		Subs: map[string][]string{
			"east":  {arcgisBBoxRoot + "/GeoBndBox/eastBL"},
			"south": {arcgisBBoxRoot + "/GeoBndBox/southBL"},
			"west":  {arcgisBBoxRoot + "/GeoBndBox/westBL"},
			"north": {arcgisBBoxRoot + "/GeoBndBox/northBL"},
		},
	}})

	r.MustRegister(DatasetCompleteness, &PropertySpec{
		Parse:  arcgisParseReportItem(arcgisReportCompleteness),
		Update: arcgisUpdateReportItem(arcgisReportCompleteness),
	})

	r.MustRegister(DigitalForms, &PropertySpec{
		DeclaredShape: ShapeStructured,
		Parse:         arcgisParseDigitalForms,
		Update:        arcgisUpdateDigitalForms,
	})

	r.MustRegister(ProcessSteps, &PropertySpec{Complex: &ComplexSpec{
		Root: arcgisStepsRoot,
		List: true,
		Subs: map[string][]string{
			"description": {arcgisStepsRoot + "/stepDesc"},
			"date":        {arcgisStepsRoot + "/stepDateTm"},
			"sources":     {arcgisStepsRoot + "/stepSrc/srcDesc"},
		},
	}})

	r.MustRegister(LargerWorks, &PropertySpec{Complex: &ComplexSpec{
		Root: arcgisLworkRoot,
		Subs: map[string][]string{
			"title":          {arcgisLworkRoot + "/resTitle"},
			"edition":        {arcgisLworkRoot + "/resEd"},
			"origin":         {arcgisLworkRoot + "/citRespParty/rpIndName"},
			"online_linkage": {arcgisLworkRoot + "/citRespParty/rpCntInfo/cntOnlineRes/linkage"},
			"other_citation": {arcgisLworkRoot + "/otherCitDet"},
			"date":           {arcgisLworkRoot + "/date/pubDate"},
			"place":          {arcgisLworkRoot + "/citRespParty/rpCntInfo/cntAddress/city"},
			"info":           {arcgisLworkRoot + "/citRespParty/rpOrgName"},
		},
	}})

	r.MustRegister(RasterInfo, &PropertySpec{
		DeclaredShape: ShapeStructured,
		Parse: func(p *MetadataParser, prop string) (Value, error) {
			return p.collapseRasterDims(prop, arcgisNumDims, arcgisRasterDimsSpec), nil
		},
		Update: func(p *MetadataParser, tree *etree.Element, prop string, value Value) error {
			p.expandRasterDims(tree, prop, value, arcgisNumDims, arcgisRasterDimsSpec)
			return nil
		},
	})

	r.MustRegister(OtherCitationInfo, scalarSpec(arcgisIdCitation+"/otherCitDet"))
	r.MustRegister(UseConstraints, scalarSpec(
		"dataIdInfo/resConst/Consts/useLimit",
		"dataIdInfo/resConst/LegConsts/useLimit",
	))

	r.MustRegister(Dates, &PropertySpec{Dates: &DateSpec{
		Root: arcgisDatesRoot,
		Single: []string{
			arcgisDatesBase + "/TM_Instant/tmPosition",
			arcgisDatesBase + "/TM_Instant/tmPosition/@date",
		},
		Multiple: []string{
			arcgisDatesBase + "/TM_Instant/tmPosition",
			arcgisDatesBase + "/TM_Instant/tmPosition/@date",
		},
		MultipleRoot: arcgisDatesBase + "/TM_Instant",
		RangeBegin: []string{
			arcgisDatesBase + "/TM_Period/tmBegin",
			arcgisDatesBase + "/TM_Period/tmBegin/@date",
		},
		RangeEnd: []string{
			arcgisDatesBase + "/TM_Period/tmEnd",
			arcgisDatesBase + "/TM_Period/tmEnd/@date",
		},
	}})

	r.MustRegister(KeywordsPlace, scalarSpec("dataIdInfo/placeKeys/keyword"))
	r.MustRegister(KeywordsStratum, scalarSpec("dataIdInfo/stratKeys/keyword"))
	r.MustRegister(KeywordsTemporal, scalarSpec("dataIdInfo/tempKeys/keyword"))
	r.MustRegister(KeywordsTheme, scalarSpec("dataIdInfo/themeKeys/keyword"))

	for _, prop := range []string{
		"discipline_keywords", "other_keywords", "product_keywords",
		"search_keywords", "topic_category_keywords",
	} {
		r.MustRegister(prop, scalarSpec(arcgisExtraKeywords[prop]))
	}

	return r
}

// arcgisParseReportItem reads the measure descriptions of data quality
// reports whose type attribute matches.
func arcgisParseReportItem(itemType string) ParseFunc {
	return func(p *MetadataParser, prop string) (Value, error) {
		var texts []string
		for _, report := range xmltree.Find(p.Root(), arcgisReportRoot) {
			if attr := report.SelectAttr("type"); attr != nil && attr.Value == itemType {
				texts = append(texts, xmltree.Texts(report, "measDesc")...)
			}
		}
		return Sequence(texts...), nil
	}
}

// arcgisUpdateReportItem replaces the reports of the matching type, leaving
// reports with other type attributes alone.
func arcgisUpdateReportItem(itemType string) UpdateFunc {
	return func(p *MetadataParser, tree *etree.Element, prop string, value Value) error {
		for _, report := range xmltree.Find(tree, arcgisReportRoot) {
			if attr := report.SelectAttr("type"); attr != nil && attr.Value == itemType {
				xmltree.Prune(tree, report)
			}
		}
		xmltree.RemoveEmpty(tree, arcgisReportRoot)
		for _, val := range nonEmpty(value.Sequence()) {
			report := xmltree.CreateOccurrence(tree, arcgisReportRoot)
			report.CreateAttr("type", itemType)
			report.CreateElement("measDesc").SetText(val)
		}
		return nil
	}
}

func arcgisParseDigitalForms(p *MetadataParser, prop string) (Value, error) {
	formats := p.parseComplexList(p.Root(), prop, arcgisDigitalFormatsSpec).Structured()
	transfers := p.parseComplexList(p.Root(), prop, arcgisTransferOptionsSpec).Structured()
	return Structured(mergeDigitalForms(formats, transfers)...), nil
}

func arcgisUpdateDigitalForms(p *MetadataParser, tree *etree.Element, prop string, value Value) error {
	forms := value.Structured()
	formats := make([]map[string]string, len(forms))
	transfers := make([]map[string]string, len(forms))
	for i, form := range forms {
		formats[i] = map[string]string{
			"name":          form["name"],
			"content":       form["content"],
			"decompression": form["decompression"],
			"version":       form["version"],
			"specification": form["specification"],
		}
		transfers[i] = map[string]string{
			"access_desc":      form["access_desc"],
			"access_instrs":    form["access_instrs"],
			"network_resource": form["network_resource"],
		}
	}
	p.updateComplexList(tree, prop, arcgisDigitalFormatsSpec, formats)
	p.updateComplexList(tree, prop, arcgisTransferOptionsSpec, transfers)
	return nil
}
