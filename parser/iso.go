package parser

import (
	"strings"
	"sync"

	"github.com/beevik/etree"

	"github.com/consbio/gis-metadata-parser/internal/xmltree"
)

// ISO-19115 document locations. The deeply nested container chains are
// composed from shared roots so the property table below stays readable.
const (
	isoDataQual            = "dataQualityInfo/DQ_DataQuality"
	isoDataQualLineage     = isoDataQual + "/lineage/LI_Lineage"
	isoDataQualReport      = isoDataQual + "/report"
	isoDistInfo            = "distributionInfo/MD_Distribution"
	isoDistInfoDist        = isoDistInfo + "/distributor/MD_Distributor"
	isoDistInfoProc        = isoDistInfoDist + "/distributionOrderProcess/MD_StandardOrderProcess"
	isoDistInfoResp        = isoDistInfoDist + "/distributorContact/CI_ResponsibleParty"
	isoDistInfoRespContact = isoDistInfoResp + "/contactInfo/CI_Contact"
	isoTransferOptionsRoot = isoDistInfo + "/transferOptions/MD_DigitalTransferOptions/onLine"
	isoDistInfoRsrc        = isoTransferOptionsRoot + "/CI_OnlineResource"
	isoIdInfo              = "identificationInfo/MD_DataIdentification"
	isoIdInfoAggr          = isoIdInfo + "/aggregationInfo/MD_AggregateInformation"
	isoIdInfoAggrCitation  = isoIdInfoAggr + "/aggregateDataSetName/CI_Citation"
	isoIdInfoAggrContact   = isoIdInfoAggrCitation + "/citedResponsibleParty/CI_ResponsibleParty"
	isoIdInfoCitation      = isoIdInfo + "/citation/CI_Citation"
	isoIdInfoCitResp       = isoIdInfoCitation + "/citedResponsibleParty/CI_ResponsibleParty"
	isoIdInfoExtent        = isoIdInfo + "/extent/EX_Extent"
	isoKeywordsRoot        = isoIdInfo + "/descriptiveKeywords"
	isoIdInfoResp          = isoIdInfo + "/pointOfContact/CI_ResponsibleParty"
	isoIdInfoRespContact   = isoIdInfoResp + "/contactInfo/CI_Contact"
	isoConstraintsRoot     = isoIdInfo + "/resourceConstraints"

	isoGridRep = "spatialRepresentationInfo/MD_GridSpatialRepresentation"
	isoGridDim = isoGridRep + "/axisDimensionProperties/MD_Dimension"
	isoNumDims = isoGridRep + "/numberOfDimensions/Integer"

	// Attribute details live in a companion ISO-19110 feature catalogue;
	// these address the catalogue structure when it is inlined in the tree.
	isoAttrBase   = "featureType/FC_FeatureType/carrierOfCharacteristics/FC_FeatureAttribute"
	isoAttrDef    = isoAttrBase + "/definitionReference/FC_DefinitionReference/definitionSource/FC_DefinitionSource"
	isoAttrSrc    = isoAttrDef + "/source/CI_Citation/citedResponsibleParty/CI_ResponsibleParty"
	isoAttrFtSrc  = "featureType/FC_FeatureType/definitionReference/FC_DefinitionReference/definitionSource/FC_DefinitionSource/source/CI_Citation/citedResponsibleParty/CI_ResponsibleParty"
	isoAttrCite   = "contentInfo/MD_FeatureCatalogueDescription/featureCatalogueCitation"
	isoDatesBase  = isoIdInfoExtent + "/temporalElement/EX_TemporalExtent/extent"
	isoFormatRoot = isoDistInfo + "/distributionFormat"
	isoFormat     = isoFormatRoot + "/MD_Format"
)

// isoDigitalFormContentDelim separates distribution format specifications
// from appended form content, which ISO-19115 has no element for.
const isoDigitalFormContentDelim = "@------------------------------@"

// isoPrimitives are the leaf value tags of ISO-19115. Writes treat the
// parent of a primitive leaf as the occurrence root so that repeated
// values repeat the parent element, never the primitive tag beneath it.
var isoPrimitives = map[string]bool{
	"Binary": true, "Boolean": true, "CharacterString": true,
	"Date": true, "DateTime": true, "timePosition": true,
	"Decimal": true, "Integer": true, "Real": true, "RecordType": true,
	"CI_DateTypeCode": true, "MD_KeywordTypeCode": true, "URL": true,
}

var isoKeywordTypes = map[string]string{
	KeywordsPlace:    "place",
	KeywordsStratum:  "stratum",
	KeywordsTemporal: "temporal",
	KeywordsTheme:    "theme",
}

var isoOnce = sync.OnceValue(buildISO)

// ISO returns the shared registry for the ISO-19115 standard. Clone it
// before customizing.
func ISO() *Registry {
	return isoOnce()
}

// isoScalarSpec maps a scalar property, deriving the occurrence root by
// trimming a trailing primitive tag from the primary location.
func isoScalarSpec(tiers ...string) *PropertySpec {
	spec := &PropertySpec{Tiers: tiers}
	path, attr := xmltree.SplitAttribute(tiers[0])
	if attr == "" {
		if idx := strings.LastIndex(path, xmltree.Delim); idx >= 0 && isoPrimitives[path[idx+1:]] {
			spec.WriteRoot = path[:idx]
		}
	}
	return spec
}

var isoAttributesSpec = &ComplexSpec{
	Root: "featureType/FC_FeatureType/carrierOfCharacteristics",
	List: true,
	Subs: map[string][]string{
		"label":      {isoAttrBase + "/memberName/LocalName"},
		"aliases":    {isoAttrBase + "/aliases/LocalName"},
		"definition": {isoAttrBase + "/definition/CharacterString"},
		"definition_src": {
			isoAttrSrc + "/organisationName/CharacterString",
			isoAttrSrc + "/individualName/CharacterString",
			isoAttrFtSrc + "/organisationName/CharacterString",
			isoAttrFtSrc + "/individualName/CharacterString",
		},
	},
}

var isoDigitalFormatsSpec = &ComplexSpec{
	Root: isoFormatRoot,
	List: true,
	Subs: map[string][]string{
		"name":          {isoFormat + "/name/CharacterString"},
		"decompression": {isoFormat + "/fileDecompressionTechnique/CharacterString"},
		"version":       {isoFormat + "/version/CharacterString"},
		"specification": {isoFormat + "/specification/CharacterString"},
	},
	Order: []string{"name", "decompression", "version", "specification"},
}

var isoTransferOptionsSpec = &ComplexSpec{
	Root: isoTransferOptionsRoot,
	List: true,
	Subs: map[string][]string{
		"access_desc":      {isoDistInfoRsrc + "/description/CharacterString"},
		"access_instrs":    {isoDistInfoRsrc + "/protocol/CharacterString"},
		"network_resource": {isoDistInfoRsrc + "/linkage/URL"},
	},
	Order: []string{"access_desc", "access_instrs", "network_resource"},
}

var isoRasterDimsSpec = &ComplexSpec{
	Root:  isoGridRep + "/axisDimensionProperties",
	List:  true,
	Order: rasterDimSubProperties,
	Subs: map[string][]string{
		"type": {
			isoGridDim + "/dimensionName/MD_DimensionNameTypeCode",
			isoGridDim + "/dimensionName/MD_DimensionNameTypeCode/@codeListValue",
		},
		"size":  {isoGridDim + "/dimensionSize/Integer"},
		"value": {isoGridDim + "/resolution/Measure"},
		"units": {isoGridDim + "/resolution/Measure/@uom"},
	},
}

func buildISO() *Registry {
	r := NewRegistry(StandardISO, []string{"MD_Metadata", "MI_Metadata"}, nil)

	r.MustRegister(Title, isoScalarSpec(isoIdInfoCitation+"/title/CharacterString"))
	r.MustRegister(Abstract, isoScalarSpec(isoIdInfo+"/abstract/CharacterString"))
	r.MustRegister(Purpose, isoScalarSpec(isoIdInfo+"/purpose/CharacterString"))
	r.MustRegister(SupplementaryInfo, isoScalarSpec(isoIdInfo+"/supplementalInformation/CharacterString"))
	r.MustRegister(OnlineLinkages, isoScalarSpec(isoIdInfoCitResp+"/contactInfo/CI_Contact/onlineResource/CI_OnlineResource/linkage/URL"))
	r.MustRegister(Originators, isoScalarSpec(isoIdInfoCitResp+"/organisationName/CharacterString"))
	r.MustRegister(PublishDate, isoScalarSpec(isoIdInfoCitation+"/date/CI_Date/date/Date"))
	r.MustRegister("publish_date_type", isoScalarSpec(isoIdInfoCitation+"/date/CI_Date/dateType/CI_DateTypeCode"))
	r.MustRegister(DataCredits, isoScalarSpec(isoIdInfo+"/credit/CharacterString"))

	r.MustRegister(Contacts, &PropertySpec{Complex: &ComplexSpec{
		Root: isoIdInfo + "/pointOfContact",
		List: true,
		Subs: map[string][]string{
			"name":         {isoIdInfoResp + "/individualName/CharacterString"},
			"organization": {isoIdInfoResp + "/organisationName/CharacterString"},
			"position":     {isoIdInfoResp + "/positionName/CharacterString"},
			"email":        {isoIdInfoRespContact + "/address/CI_Address/electronicMailAddress/CharacterString"},
		},
	}})

	r.MustRegister(DistContactOrg, isoScalarSpec(isoDistInfoResp+"/organisationName/CharacterString"))
	r.MustRegister(DistContactPerson, isoScalarSpec(isoDistInfoResp+"/individualName/CharacterString"))
	r.MustRegister(DistAddressType, isoScalarSpec(isoDistInfoRespContact+"/address/@type"))
	r.MustRegister(DistAddress, isoScalarSpec(isoDistInfoRespContact+"/address/CI_Address/deliveryPoint/CharacterString"))
	r.MustRegister(DistCity, isoScalarSpec(isoDistInfoRespContact+"/address/CI_Address/city/CharacterString"))
	r.MustRegister(DistState, isoScalarSpec(isoDistInfoRespContact+"/address/CI_Address/administrativeArea/CharacterString"))
	r.MustRegister(DistPostal, isoScalarSpec(isoDistInfoRespContact+"/address/CI_Address/postalCode/CharacterString"))
	r.MustRegister(DistCountry, isoScalarSpec(
		isoDistInfoRespContact+"/address/CI_Address/country/CharacterString",
		isoDistInfoRespContact+"/address/CI_Address/country/Country",
	))
	r.MustRegister(DistPhone, isoScalarSpec(isoDistInfoRespContact+"/phone/CI_Telephone/voice/CharacterString"))
	r.MustRegister(DistEmail, isoScalarSpec(isoDistInfoRespContact+"/address/CI_Address/electronicMailAddress/CharacterString"))
	r.MustRegister(DistLiability, rootedScalarSpec(isoConstraintsRoot,
		isoConstraintsRoot+"/MD_LegalConstraints/otherConstraints/CharacterString"))
	r.MustRegister(ProcessingFees, isoScalarSpec(isoDistInfoProc+"/fees/CharacterString"))
	r.MustRegister(ProcessingInstrs, isoScalarSpec(isoDistInfoProc+"/orderingInstructions/CharacterString"))
	r.MustRegister(ResourceDesc, isoScalarSpec(isoIdInfo+"/resourceSpecificUsage/MD_Usage/specificUsage/CharacterString"))
	r.MustRegister(TechPrerequisites, isoScalarSpec(isoIdInfo+"/environmentDescription/CharacterString"))

	r.MustRegister(Attributes, &PropertySpec{
		DeclaredShape: ShapeStructured,
		Parse:         isoParseAttributes,
		Update:        isoUpdateAttributes,
	})

	r.MustRegister(AttributeAccuracy, rootedScalarSpec(isoDataQualReport,
		isoDataQualReport+"/DQ_QuantitativeAttributeAccuracy/measureDescription/CharacterString"))

	bboxBase := isoIdInfoExtent + "/geographicElement/EX_GeographicBoundingBox"
	r.MustRegister(BoundingBox, &PropertySpec{Complex: &ComplexSpec{
		Root: isoIdInfoExtent + "/geographicElement",
		Subs: map[string][]string{
			"east":  {bboxBase + "/eastBoundLongitude/Decimal"},
			"south": {bboxBase + "/southBoundLatitude/Decimal"},
			"west":  {bboxBase + "/westBoundLongitude/Decimal"},
			"north": {bboxBase + "/northBoundLatitude/Decimal"},
		},
	}})

	r.MustRegister(DatasetCompleteness, rootedScalarSpec(isoDataQualReport,
		isoDataQualReport+"/DQ_CompletenessOmission/measureDescription/CharacterString"))

	r.MustRegister(DigitalForms, &PropertySpec{
		DeclaredShape: ShapeStructured,
		Parse:         isoParseDigitalForms,
		Update:        isoUpdateDigitalForms,
	})

	psBase := isoDataQualLineage + "/processStep/LI_ProcessStep"
	r.MustRegister(ProcessSteps, &PropertySpec{Complex: &ComplexSpec{
		Root: isoDataQualLineage + "/processStep",
		List: true,
		Subs: map[string][]string{
			"description": {psBase + "/description/CharacterString"},
			"date":        {psBase + "/dateTime/DateTime"},
			"sources":     {psBase + "/source/LI_Source/sourceCitation/CI_Citation/alternateTitle/CharacterString"},
		},
	}})

	r.MustRegister(LargerWorks, &PropertySpec{Complex: &ComplexSpec{
		Root: isoIdInfoAggrCitation,
		Subs: map[string][]string{
			"title":          {isoIdInfoAggrCitation + "/title/CharacterString"},
			"edition":        {isoIdInfoAggrCitation + "/edition/CharacterString"},
			"origin":         {isoIdInfoAggrContact + "/individualName/CharacterString"},
			"online_linkage": {isoIdInfoAggrContact + "/contactInfo/CI_Contact/onlineResource/CI_OnlineResource/linkage/URL"},
			"other_citation": {isoIdInfoAggrCitation + "/otherCitationDetails/CharacterString"},
			"date":           {isoIdInfoAggrCitation + "/editionDate/Date"},
			"place":          {isoIdInfoAggrContact + "/contactInfo/CI_Contact/address/CI_Address/city/CharacterString"},
			"info":           {isoIdInfoAggrContact + "/organisationName/CharacterString"},
		},
	}})

	r.MustRegister(RasterInfo, &PropertySpec{
		DeclaredShape: ShapeStructured,
		Parse: func(p *MetadataParser, prop string) (Value, error) {
			return p.collapseRasterDims(prop, isoNumDims, isoRasterDimsSpec), nil
		},
		Update: func(p *MetadataParser, tree *etree.Element, prop string, value Value) error {
			p.expandRasterDims(tree, prop, value, isoNumDims, isoRasterDimsSpec)
			return nil
		},
	})

	r.MustRegister(OtherCitationInfo, isoScalarSpec(isoIdInfoCitation+"/otherCitationDetails/CharacterString"))
	r.MustRegister(UseConstraints, rootedScalarSpec(isoConstraintsRoot,
		isoConstraintsRoot+"/MD_Constraints/useLimitation/CharacterString"))

	r.MustRegister(Dates, &PropertySpec{Dates: &DateSpec{
		Root:         isoIdInfoExtent + "/temporalElement",
		Single:       []string{isoDatesBase + "/TimeInstant/timePosition"},
		Multiple:     []string{isoDatesBase + "/TimeInstant/timePosition"},
		MultipleRoot: isoDatesBase + "/TimeInstant",
		RangeBegin:   []string{isoDatesBase + "/TimePeriod/begin/TimeInstant/timePosition"},
		RangeEnd:     []string{isoDatesBase + "/TimePeriod/end/TimeInstant/timePosition"},
	}})

	for _, prop := range []string{KeywordsPlace, KeywordsStratum, KeywordsTemporal, KeywordsTheme} {
		r.MustRegister(prop, &PropertySpec{
			Parse:  isoParseKeywords,
			Update: isoUpdateKeywords,
		})
	}

	return r
}

// isoParseAttributes reads attribute details from an inlined ISO-19110
// feature catalogue. Aliases are not part of the standard, so missing
// aliases default to the attribute label.
func isoParseAttributes(p *MetadataParser, prop string) (Value, error) {
	attributes := p.parseComplexList(p.Root(), prop, isoAttributesSpec).Structured()
	for _, attribute := range attributes {
		if attribute["aliases"] == "" {
			attribute["aliases"] = attribute["label"]
		}
	}
	return Structured(attributes...), nil
}

// isoUpdateAttributes writes attribute details into the tree itself. The
// feature catalogue citation is removed since a remote catalogue cannot be
// written back to.
func isoUpdateAttributes(p *MetadataParser, tree *etree.Element, prop string, value Value) error {
	xmltree.Remove(tree, isoAttrCite)
	p.updateComplexList(tree, prop, isoAttributesSpec, value.Structured())
	return nil
}

func isoParseDigitalForms(p *MetadataParser, prop string) (Value, error) {
	formats := p.parseComplexList(p.Root(), prop, isoDigitalFormatsSpec).Structured()
	for _, format := range formats {
		isoSplitFormContent(format)
	}
	transfers := p.parseComplexList(p.Root(), prop, isoTransferOptionsSpec).Structured()
	return Structured(mergeDigitalForms(formats, transfers)...), nil
}

// isoSplitFormContent splits content appended to the specification value
// back out into the content sub-property.
func isoSplitFormContent(format map[string]string) {
	var specs, content []string
	hasContent := false
	for _, line := range strings.Split(format["specification"], MultiValueDelim) {
		line = strings.TrimSpace(line)
		switch {
		case line == isoDigitalFormContentDelim:
			hasContent = true
		case line == "":
		case hasContent:
			content = append(content, line)
		default:
			specs = append(specs, line)
		}
	}
	format["specification"] = strings.Join(specs, MultiValueDelim)
	format["content"] = strings.Join(content, MultiValueDelim)
}

func isoUpdateDigitalForms(p *MetadataParser, tree *etree.Element, prop string, value Value) error {
	forms := value.Structured()
	formats := make([]map[string]string, len(forms))
	transfers := make([]map[string]string, len(forms))
	for i, form := range forms {
		spec := form["specification"]
		if form["content"] != "" {
			lines := nonEmpty(strings.Split(spec, MultiValueDelim))
			lines = append(lines, isoDigitalFormContentDelim, form["content"])
			spec = strings.Join(lines, MultiValueDelim)
		}
		formats[i] = map[string]string{
			"name":          form["name"],
			"decompression": form["decompression"],
			"version":       form["version"],
			"specification": spec,
		}
		transfers[i] = map[string]string{
			"access_desc":      form["access_desc"],
			"access_instrs":    form["access_instrs"],
			"network_resource": form["network_resource"],
		}
	}
	p.updateComplexList(tree, prop, isoDigitalFormatsSpec, formats)
	p.updateComplexList(tree, prop, isoTransferOptionsSpec, transfers)
	return nil
}

func isoParseKeywords(p *MetadataParser, prop string) (Value, error) {
	keywordType := isoKeywordTypes[prop]
	var keywords []string
	for _, el := range xmltree.Find(p.Root(), isoKeywordsRoot) {
		if isoKeywordGroupType(el) == keywordType {
			keywords = append(keywords, xmltree.Texts(el, "MD_Keywords/keyword/CharacterString")...)
		}
	}
	return Sequence(keywords...), nil
}

// isoUpdateKeywords replaces the descriptiveKeywords group of the
// property's keyword type, leaving groups of other types alone.
func isoUpdateKeywords(p *MetadataParser, tree *etree.Element, prop string, value Value) error {
	keywordType := isoKeywordTypes[prop]
	for _, el := range xmltree.Find(tree, isoKeywordsRoot) {
		if isoKeywordGroupType(el) == keywordType {
			xmltree.Prune(tree, el)
		}
	}
	values := nonEmpty(value.Sequence())
	if len(values) == 0 {
		return nil
	}
	group := xmltree.CreateOccurrence(tree, isoKeywordsRoot).CreateElement("MD_Keywords")
	for _, val := range values {
		group.CreateElement("keyword").CreateElement("CharacterString").SetText(val)
	}
	xmltree.CreatePath(group, "type/MD_KeywordTypeCode").SetText(keywordType)
	return nil
}

func isoKeywordGroupType(group *etree.Element) string {
	if texts := xmltree.Texts(group, "MD_Keywords/type/MD_KeywordTypeCode"); len(texts) > 0 {
		return strings.ToLower(texts[0])
	}
	return ""
}
