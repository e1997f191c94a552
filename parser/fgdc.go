package parser

import (
	"sync"

	"github.com/beevik/etree"

	"github.com/consbio/gis-metadata-parser/internal/xmltree"
)

// FGDC CSDGM document locations.
const (
	fgdcCiteInfo         = "idinfo/citation/citeinfo"
	fgdcDistContact      = "distinfo/distrib/cntinfo"
	fgdcAttributesRoot   = "eainfo/detailed/attr"
	fgdcBoundingBoxRoot  = "idinfo/spdom/bounding"
	fgdcContactsRoot     = "idinfo/ptcontac"
	fgdcDatesRoot        = "idinfo/timeperd/timeinfo"
	fgdcDigitalFormsRoot = "distinfo/stdorder/digform"
	fgdcLargerWorksRoot  = fgdcCiteInfo + "/lworkcit/citeinfo"
	fgdcProcessStepsRoot = "dataqual/lineage/procstep"
	fgdcRasterInfoRoot   = "spdoinfo/rastinfo"
	fgdcRasterResRoot    = "spref/horizsys"
	fgdcPlanarRes        = fgdcRasterResRoot + "/planar/planci/coordrep"
	fgdcGeographRes      = fgdcRasterResRoot + "/geograph"
)

var fgdcOnce = sync.OnceValue(buildFGDC)

// FGDC returns the shared registry for the FGDC CSDGM standard. Clone it
// before customizing.
func FGDC() *Registry {
	return fgdcOnce()
}

// fgdcRasterInfoSpec reads raster properties from <spdoinfo>, with
// resolution fallbacks under the two <spref> coordinate representations.
var fgdcRasterInfoSpec = &ComplexSpec{
	Root: fgdcRasterInfoRoot,
	Subs: map[string][]string{
		"dimensions":     {fgdcRasterInfoRoot + "/rasttype"},
		"row_count":      {fgdcRasterInfoRoot + "/rowcount"},
		"column_count":   {fgdcRasterInfoRoot + "/colcount"},
		"vertical_count": {fgdcRasterInfoRoot + "/vrtcount"},
		"x_resolution":   {fgdcPlanarRes + "/absres", fgdcGeographRes + "/longres"},
		"y_resolution":   {fgdcPlanarRes + "/ordres", fgdcGeographRes + "/latres"},
	},
}

func buildFGDC() *Registry {
	r := NewRegistry(StandardFGDC, []string{"metadata"}, nil)

	r.MustRegister(Title, scalarSpec(fgdcCiteInfo+"/title"))
	r.MustRegister(Abstract, scalarSpec("idinfo/descript/abstract"))
	r.MustRegister(Purpose, scalarSpec("idinfo/descript/purpose"))
	r.MustRegister(SupplementaryInfo, scalarSpec("idinfo/descript/supplinf"))
	r.MustRegister(OnlineLinkages, scalarSpec(fgdcCiteInfo+"/onlink"))
	r.MustRegister(Originators, scalarSpec(fgdcCiteInfo+"/origin"))
	r.MustRegister(PublishDate, scalarSpec(fgdcCiteInfo+"/pubdate"))
	r.MustRegister(DataCredits, scalarSpec("idinfo/datacred"))

	r.MustRegister(Contacts, &PropertySpec{Complex: &ComplexSpec{
		Root: fgdcContactsRoot,
		List: true,
		Subs: map[string][]string{
			"name":         {fgdcContactsRoot + "/cntinfo/cntperp/cntper", fgdcContactsRoot + "/cntinfo/cntorgp/cntper"},
			"organization": {fgdcContactsRoot + "/cntinfo/cntperp/cntorg", fgdcContactsRoot + "/cntinfo/cntorgp/cntorg"},
			"position":     {fgdcContactsRoot + "/cntinfo/cntpos"},
			"email":        {fgdcContactsRoot + "/cntinfo/cntemail"},
		},
	}})

	r.MustRegister(DistContactOrg, scalarSpec(fgdcDistContact+"/cntperp/cntorg", fgdcDistContact+"/cntorgp/cntorg"))
	r.MustRegister(DistContactPerson, scalarSpec(fgdcDistContact+"/cntperp/cntper", fgdcDistContact+"/cntorgp/cntper"))
	r.MustRegister(DistAddressType, scalarSpec(fgdcDistContact+"/cntaddr/addrtype"))
	r.MustRegister(DistAddress, scalarSpec(fgdcDistContact+"/cntaddr/address"))
	r.MustRegister(DistCity, scalarSpec(fgdcDistContact+"/cntaddr/city"))
	r.MustRegister(DistState, scalarSpec(fgdcDistContact+"/cntaddr/state"))
	r.MustRegister(DistPostal, scalarSpec(fgdcDistContact+"/cntaddr/postal"))
	r.MustRegister(DistCountry, scalarSpec(fgdcDistContact+"/cntaddr/country"))
	r.MustRegister(DistPhone, scalarSpec(fgdcDistContact+"/cntvoice"))
	r.MustRegister(DistEmail, scalarSpec(fgdcDistContact+"/cntemail"))
	r.MustRegister(DistLiability, scalarSpec("distinfo/distliab"))
	r.MustRegister(ProcessingFees, scalarSpec("distinfo/stdorder/fees"))
	r.MustRegister(ProcessingInstrs, scalarSpec("distinfo/stdorder/ordering"))
	r.MustRegister(ResourceDesc, scalarSpec("distinfo/resdesc"))
	r.MustRegister(TechPrerequisites, scalarSpec("distinfo/techpreq"))

	r.MustRegister(Attributes, &PropertySpec{Complex: &ComplexSpec{
		Root: fgdcAttributesRoot,
		List: true,
		Subs: map[string][]string{
			"label":          {fgdcAttributesRoot + "/attrlabl"},
			"aliases":        {fgdcAttributesRoot + "/attalias"},
			"definition":     {fgdcAttributesRoot + "/attrdef"},
			"definition_src": {fgdcAttributesRoot + "/attrdefs"},
		},
	}})

	r.MustRegister(AttributeAccuracy, scalarSpec("dataqual/attracc/attraccr"))

	r.MustRegister(BoundingBox, &PropertySpec{Complex: &ComplexSpec{
		Root: fgdcBoundingBoxRoot,
		Subs: map[string][]string{
			"east":  {fgdcBoundingBoxRoot + "/eastbc"},
			"south": {fgdcBoundingBoxRoot + "/southbc"},
			"west":  {fgdcBoundingBoxRoot + "/westbc"},
			"north": {fgdcBoundingBoxRoot + "/northbc"},
		},
	}})

	r.MustRegister(DatasetCompleteness, scalarSpec("dataqual/complete"))

	r.MustRegister(DigitalForms, &PropertySpec{Complex: &ComplexSpec{
		Root: fgdcDigitalFormsRoot,
		List: true,
		Subs: map[string][]string{
			"name":             {fgdcDigitalFormsRoot + "/digtinfo/formname"},
			"content":          {fgdcDigitalFormsRoot + "/digtinfo/formcont"},
			"decompression":    {fgdcDigitalFormsRoot + "/digtinfo/filedec"},
			"version":          {fgdcDigitalFormsRoot + "/digtinfo/formvern"},
			"specification":    {fgdcDigitalFormsRoot + "/digtinfo/formspec"},
			"access_desc":      {fgdcDigitalFormsRoot + "/digtopt/onlinopt/oncomp"},
			"access_instrs":    {fgdcDigitalFormsRoot + "/digtopt/onlinopt/accinstr"},
			"network_resource": {fgdcDigitalFormsRoot + "/digtopt/onlinopt/computer/networka/networkr"},
		},
	}})

	r.MustRegister(ProcessSteps, &PropertySpec{Complex: &ComplexSpec{
		Root: fgdcProcessStepsRoot,
		List: true,
		Subs: map[string][]string{
			"description": {fgdcProcessStepsRoot + "/procdesc"},
			"date":        {fgdcProcessStepsRoot + "/procdate"},
			"sources":     {fgdcProcessStepsRoot + "/srcused"},
		},
	}})

	r.MustRegister(LargerWorks, &PropertySpec{Complex: &ComplexSpec{
		Root: fgdcLargerWorksRoot,
		Subs: map[string][]string{
			"title":          {fgdcLargerWorksRoot + "/title"},
			"edition":        {fgdcLargerWorksRoot + "/edition"},
			"origin":         {fgdcLargerWorksRoot + "/origin"},
			"online_linkage": {fgdcLargerWorksRoot + "/onlink"},
			"other_citation": {fgdcLargerWorksRoot + "/othercit"},
			"date":           {fgdcLargerWorksRoot + "/pubdate"},
			"place":          {fgdcLargerWorksRoot + "/pubinfo/pubplace"},
			"info":           {fgdcLargerWorksRoot + "/pubinfo/publish"},
		},
	}})

	r.MustRegister(RasterInfo, &PropertySpec{
		DeclaredShape: ShapeStructured,
		Parse:         fgdcParseRasterInfo,
		Update:        fgdcUpdateRasterInfo,
	})

	r.MustRegister(OtherCitationInfo, scalarSpec(fgdcCiteInfo+"/othercit"))
	r.MustRegister(UseConstraints, scalarSpec("idinfo/useconst"))

	r.MustRegister(Dates, &PropertySpec{Dates: &DateSpec{
		Root:         fgdcDatesRoot,
		Single:       []string{fgdcDatesRoot + "/sngdate/caldate"},
		Multiple:     []string{fgdcDatesRoot + "/mdattim/sngdate/caldate"},
		MultipleRoot: fgdcDatesRoot + "/mdattim/sngdate",
		RangeBegin:   []string{fgdcDatesRoot + "/rngdates/begdate"},
		RangeEnd:     []string{fgdcDatesRoot + "/rngdates/enddate"},
	}})

	r.MustRegister(KeywordsPlace, scalarSpec("idinfo/keywords/place/placekey"))
	r.MustRegister(KeywordsStratum, scalarSpec("idinfo/keywords/stratum/stratkey"))
	r.MustRegister(KeywordsTemporal, scalarSpec("idinfo/keywords/temporal/tempkey"))
	r.MustRegister(KeywordsTheme, scalarSpec("idinfo/keywords/theme/themekey"))

	return r
}

func fgdcParseRasterInfo(p *MetadataParser, prop string) (Value, error) {
	return p.parseComplexStruct(p.Root(), prop, fgdcRasterInfoSpec), nil
}

// fgdcUpdateRasterInfo clears both raster locations, <spdoinfo> counts and
// <spref> resolutions, before writing the structure back.
func fgdcUpdateRasterInfo(p *MetadataParser, tree *etree.Element, prop string, value Value) error {
	xmltree.Remove(tree, fgdcRasterResRoot)
	p.updateComplexStruct(tree, prop, fgdcRasterInfoSpec, firstMapping(value))
	return nil
}
