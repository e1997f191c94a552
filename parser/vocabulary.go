package parser

// Canonical property names shared by every supported standard. Each
// standard's registry maps these onto its own document locations.
const (
	Title               = "title"
	Abstract            = "abstract"
	Purpose             = "purpose"
	SupplementaryInfo   = "supplementary_info"
	OnlineLinkages      = "online_linkages"
	Originators         = "originators"
	PublishDate         = "publish_date"
	DataCredits         = "data_credits"
	Contacts            = "contacts"
	DistContactOrg      = "dist_contact_org"
	DistContactPerson   = "dist_contact_person"
	DistAddressType     = "dist_address_type"
	DistAddress         = "dist_address"
	DistCity            = "dist_city"
	DistState           = "dist_state"
	DistPostal          = "dist_postal"
	DistCountry         = "dist_country"
	DistPhone           = "dist_phone"
	DistEmail           = "dist_email"
	DistLiability       = "dist_liability"
	ProcessingFees      = "processing_fees"
	ProcessingInstrs    = "processing_instrs"
	ResourceDesc        = "resource_desc"
	TechPrerequisites   = "tech_prerequisites"
	Attributes          = "attributes"
	AttributeAccuracy   = "attribute_accuracy"
	BoundingBox         = "bounding_box"
	DatasetCompleteness = "dataset_completeness"
	DigitalForms        = "digital_forms"
	ProcessSteps        = "process_steps"
	LargerWorks         = "larger_works"
	RasterInfo          = "raster_info"
	OtherCitationInfo   = "other_citation_info"
	UseConstraints      = "use_constraints"
	Dates               = "dates"
	KeywordsPlace       = "keywords_place"
	KeywordsStratum     = "keywords_stratum"
	KeywordsTemporal    = "keywords_temporal"
	KeywordsTheme       = "keywords_theme"
)

// Date structure keys and type identifiers.
const (
	DateKeyType   = "type"
	DateKeyValues = "values"

	DateTypeMissing  = ""
	DateTypeSingle   = "single"
	DateTypeMultiple = "multiple"
	DateTypeRange    = "range"
)

// Delimiters for flattening repeated sub-property values into the single
// string stored per occurrence key: element text joins on newline,
// attribute values join on comma.
const (
	MultiValueDelim = "\n"
	AttrValueDelim  = ","
)

// SupportedProperties lists every canonical property, in presentation
// order. The built-in registries map all of them.
var SupportedProperties = []string{
	Title,
	Abstract,
	Purpose,
	SupplementaryInfo,
	OnlineLinkages,
	Originators,
	PublishDate,
	DataCredits,
	Contacts,
	DistContactOrg,
	DistContactPerson,
	DistAddressType,
	DistAddress,
	DistCity,
	DistState,
	DistPostal,
	DistCountry,
	DistPhone,
	DistEmail,
	DistLiability,
	ProcessingFees,
	ProcessingInstrs,
	ResourceDesc,
	TechPrerequisites,
	Attributes,
	AttributeAccuracy,
	BoundingBox,
	DatasetCompleteness,
	DigitalForms,
	ProcessSteps,
	LargerWorks,
	RasterInfo,
	OtherCitationInfo,
	UseConstraints,
	Dates,
	KeywordsPlace,
	KeywordsStratum,
	KeywordsTemporal,
	KeywordsTheme,
}

// ComplexSubProperties defines the closed sub-property vocabulary of each
// structured property, in canonical write order.
var ComplexSubProperties = map[string][]string{
	Attributes:   {"label", "aliases", "definition", "definition_src"},
	BoundingBox:  {"east", "south", "west", "north"},
	Contacts:     {"name", "organization", "position", "email"},
	Dates:        {DateKeyType, DateKeyValues},
	DigitalForms: {"name", "content", "decompression", "version", "specification", "access_desc", "access_instrs", "network_resource"},
	LargerWorks:  {"title", "edition", "origin", "online_linkage", "other_citation", "date", "place", "info"},
	ProcessSteps: {"description", "date", "sources"},
	RasterInfo:   {"dimensions", "row_count", "column_count", "vertical_count", "x_resolution", "y_resolution"},
}

// rasterDimSubProperties is the per-dimension vocabulary used internally by
// the standards that model raster info as repeated dimension records.
var rasterDimSubProperties = []string{"type", "size", "value", "units"}

// IsSupportedProperty reports whether name belongs to the canonical
// property vocabulary.
func IsSupportedProperty(name string) bool {
	for _, prop := range SupportedProperties {
		if prop == name {
			return true
		}
	}
	return false
}
