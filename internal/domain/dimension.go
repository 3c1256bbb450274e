package domain

// Dimension names one filterable facet. The value doubles as the JSON key in Filters.
type Dimension string

const (
	DimensionAccountCountries       Dimension = "accountCountries"
	DimensionAccountRegions         Dimension = "accountRegions"
	DimensionAccountIndustries      Dimension = "accountIndustries"
	DimensionAccountSubIndustries   Dimension = "accountSubIndustries"
	DimensionAccountCategories      Dimension = "accountCategories"
	DimensionAccountNatures         Dimension = "accountNatures"
	DimensionAccountNasscomStatuses Dimension = "accountNasscomStatuses"
	DimensionAccountEmployeesRanges Dimension = "accountEmployeesRanges"
	DimensionAccountCenterEmployees Dimension = "accountCenterEmployees"
	DimensionAccountNameKeywords    Dimension = "accountNameKeywords"

	DimensionCenterTypes     Dimension = "centerTypes"
	DimensionCenterFocus     Dimension = "centerFocus"
	DimensionCenterCities    Dimension = "centerCities"
	DimensionCenterStates    Dimension = "centerStates"
	DimensionCenterCountries Dimension = "centerCountries"
	DimensionCenterEmployees Dimension = "centerEmployees"
	DimensionCenterStatuses  Dimension = "centerStatuses"

	DimensionFunctionNames Dimension = "functionNames"

	DimensionServicePrimaryServices  Dimension = "servicePrimaryServices"
	DimensionServiceFocusRegions     Dimension = "serviceFocusRegions"
	DimensionServiceLines            Dimension = "serviceLines"
	DimensionServiceVendors          Dimension = "serviceVendors"
	DimensionServiceSoftwareKeywords Dimension = "serviceSoftwareKeywords"

	DimensionProspectDepartments   Dimension = "prospectDepartments"
	DimensionProspectLevels        Dimension = "prospectLevels"
	DimensionProspectCities        Dimension = "prospectCities"
	DimensionProspectCountries     Dimension = "prospectCountries"
	DimensionProspectTitleKeywords Dimension = "prospectTitleKeywords"
)

// DimensionInfo describes how a dimension is presented and which records it applies to.
// Keyword dimensions match free text by substring and do not produce option lists.
type DimensionInfo struct {
	Key     Dimension  `json:"key"`
	Label   string     `json:"label"`
	Entity  EntityKind `json:"entity"`
	Keyword bool       `json:"keyword"`
}

var dimensionInfos = []DimensionInfo{
	{Key: DimensionAccountCountries, Label: "HQ Country", Entity: EntityKindAccounts},
	{Key: DimensionAccountRegions, Label: "HQ Region", Entity: EntityKindAccounts},
	{Key: DimensionAccountIndustries, Label: "Industry", Entity: EntityKindAccounts},
	{Key: DimensionAccountSubIndustries, Label: "Sub Industry", Entity: EntityKindAccounts},
	{Key: DimensionAccountCategories, Label: "Primary Category", Entity: EntityKindAccounts},
	{Key: DimensionAccountNatures, Label: "Primary Nature", Entity: EntityKindAccounts},
	{Key: DimensionAccountNasscomStatuses, Label: "NASSCOM Status", Entity: EntityKindAccounts},
	{Key: DimensionAccountEmployeesRanges, Label: "HQ Employees", Entity: EntityKindAccounts},
	{Key: DimensionAccountCenterEmployees, Label: "Center Employees", Entity: EntityKindAccounts},
	{Key: DimensionAccountNameKeywords, Label: "Account Name", Entity: EntityKindAccounts, Keyword: true},

	{Key: DimensionCenterTypes, Label: "Center Type", Entity: EntityKindCenters},
	{Key: DimensionCenterFocus, Label: "Center Focus", Entity: EntityKindCenters},
	{Key: DimensionCenterCities, Label: "City", Entity: EntityKindCenters},
	{Key: DimensionCenterStates, Label: "State", Entity: EntityKindCenters},
	{Key: DimensionCenterCountries, Label: "Country", Entity: EntityKindCenters},
	{Key: DimensionCenterEmployees, Label: "Center Employees", Entity: EntityKindCenters},
	{Key: DimensionCenterStatuses, Label: "Center Status", Entity: EntityKindCenters},

	{Key: DimensionFunctionNames, Label: "Function", Entity: EntityKindFunctions},

	{Key: DimensionServicePrimaryServices, Label: "Primary Service", Entity: EntityKindServices},
	{Key: DimensionServiceFocusRegions, Label: "Focus Region", Entity: EntityKindServices},
	{Key: DimensionServiceLines, Label: "Service Line", Entity: EntityKindServices},
	{Key: DimensionServiceVendors, Label: "Software Vendor", Entity: EntityKindServices},
	{Key: DimensionServiceSoftwareKeywords, Label: "Software In Use", Entity: EntityKindServices, Keyword: true},

	{Key: DimensionProspectDepartments, Label: "Department", Entity: EntityKindProspects},
	{Key: DimensionProspectLevels, Label: "Level", Entity: EntityKindProspects},
	{Key: DimensionProspectCities, Label: "Prospect City", Entity: EntityKindProspects},
	{Key: DimensionProspectCountries, Label: "Prospect Country", Entity: EntityKindProspects},
	{Key: DimensionProspectTitleKeywords, Label: "Title", Entity: EntityKindProspects, Keyword: true},
}

// Dimensions lists every dimension in display order.
func Dimensions() []DimensionInfo {
	out := make([]DimensionInfo, len(dimensionInfos))
	copy(out, dimensionInfos)
	return out
}

// LookupDimension finds the description of a dimension.
func LookupDimension(key Dimension) (DimensionInfo, bool) {
	for _, info := range dimensionInfos {
		if info.Key == key {
			return info, true
		}
	}
	return DimensionInfo{}, false
}
