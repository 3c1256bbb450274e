package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidFilters wraps every validation failure reported by Filters.Validate.
var ErrInvalidFilters = errors.New("invalid filters")

const (
	maxSelectionsPerDimension = 500
	maxFilterValueLength      = 200
)

// FilterMode selects whether a value narrows the result to matching records or removes them.
type FilterMode string

const (
	FilterModeInclude FilterMode = "include"
	FilterModeExclude FilterMode = "exclude"
)

// FilterValue is a single selection within a dimension.
type FilterValue struct {
	Value string     `json:"value"`
	Mode  FilterMode `json:"mode"`
}

// Include builds an include selection.
func Include(value string) FilterValue {
	return FilterValue{Value: value, Mode: FilterModeInclude}
}

// Exclude builds an exclude selection.
func Exclude(value string) FilterValue {
	return FilterValue{Value: value, Mode: FilterModeExclude}
}

// RevenueRange bounds account revenue. Either end may be open.
type RevenueRange struct {
	Min *decimal.Decimal `json:"min,omitempty"`
	Max *decimal.Decimal `json:"max,omitempty"`
}

// Active reports whether either bound is set.
func (r RevenueRange) Active() bool {
	return r.Min != nil || r.Max != nil
}

// Contains reports whether value lies inside the inclusive bounds.
func (r RevenueRange) Contains(value decimal.Decimal) bool {
	if r.Min != nil && value.LessThan(*r.Min) {
		return false
	}
	if r.Max != nil && value.GreaterThan(*r.Max) {
		return false
	}
	return true
}

// Filters is the complete dashboard filter state. It is a plain serializable
// object and is persisted as-is for saved filter sets.
type Filters struct {
	AccountCountries       []FilterValue `json:"accountCountries,omitempty"`
	AccountRegions         []FilterValue `json:"accountRegions,omitempty"`
	AccountIndustries      []FilterValue `json:"accountIndustries,omitempty"`
	AccountSubIndustries   []FilterValue `json:"accountSubIndustries,omitempty"`
	AccountCategories      []FilterValue `json:"accountCategories,omitempty"`
	AccountNatures         []FilterValue `json:"accountNatures,omitempty"`
	AccountNasscomStatuses []FilterValue `json:"accountNasscomStatuses,omitempty"`
	AccountEmployeesRanges []FilterValue `json:"accountEmployeesRanges,omitempty"`
	AccountCenterEmployees []FilterValue `json:"accountCenterEmployees,omitempty"`
	AccountNameKeywords    []FilterValue `json:"accountNameKeywords,omitempty"`

	AccountRevenueRange RevenueRange `json:"accountRevenueRange"`
	IncludeNullRevenue  bool         `json:"includeNullRevenue"`

	CenterTypes     []FilterValue `json:"centerTypes,omitempty"`
	CenterFocus     []FilterValue `json:"centerFocus,omitempty"`
	CenterCities    []FilterValue `json:"centerCities,omitempty"`
	CenterStates    []FilterValue `json:"centerStates,omitempty"`
	CenterCountries []FilterValue `json:"centerCountries,omitempty"`
	CenterEmployees []FilterValue `json:"centerEmployees,omitempty"`
	CenterStatuses  []FilterValue `json:"centerStatuses,omitempty"`

	FunctionNames []FilterValue `json:"functionNames,omitempty"`

	ServicePrimaryServices  []FilterValue `json:"servicePrimaryServices,omitempty"`
	ServiceFocusRegions     []FilterValue `json:"serviceFocusRegions,omitempty"`
	ServiceLines            []FilterValue `json:"serviceLines,omitempty"`
	ServiceVendors          []FilterValue `json:"serviceVendors,omitempty"`
	ServiceSoftwareKeywords []FilterValue `json:"serviceSoftwareKeywords,omitempty"`

	ProspectDepartments   []FilterValue `json:"prospectDepartments,omitempty"`
	ProspectLevels        []FilterValue `json:"prospectLevels,omitempty"`
	ProspectCities        []FilterValue `json:"prospectCities,omitempty"`
	ProspectCountries     []FilterValue `json:"prospectCountries,omitempty"`
	ProspectTitleKeywords []FilterValue `json:"prospectTitleKeywords,omitempty"`
}

func (f *Filters) slot(d Dimension) *[]FilterValue {
	switch d {
	case DimensionAccountCountries:
		return &f.AccountCountries
	case DimensionAccountRegions:
		return &f.AccountRegions
	case DimensionAccountIndustries:
		return &f.AccountIndustries
	case DimensionAccountSubIndustries:
		return &f.AccountSubIndustries
	case DimensionAccountCategories:
		return &f.AccountCategories
	case DimensionAccountNatures:
		return &f.AccountNatures
	case DimensionAccountNasscomStatuses:
		return &f.AccountNasscomStatuses
	case DimensionAccountEmployeesRanges:
		return &f.AccountEmployeesRanges
	case DimensionAccountCenterEmployees:
		return &f.AccountCenterEmployees
	case DimensionAccountNameKeywords:
		return &f.AccountNameKeywords
	case DimensionCenterTypes:
		return &f.CenterTypes
	case DimensionCenterFocus:
		return &f.CenterFocus
	case DimensionCenterCities:
		return &f.CenterCities
	case DimensionCenterStates:
		return &f.CenterStates
	case DimensionCenterCountries:
		return &f.CenterCountries
	case DimensionCenterEmployees:
		return &f.CenterEmployees
	case DimensionCenterStatuses:
		return &f.CenterStatuses
	case DimensionFunctionNames:
		return &f.FunctionNames
	case DimensionServicePrimaryServices:
		return &f.ServicePrimaryServices
	case DimensionServiceFocusRegions:
		return &f.ServiceFocusRegions
	case DimensionServiceLines:
		return &f.ServiceLines
	case DimensionServiceVendors:
		return &f.ServiceVendors
	case DimensionServiceSoftwareKeywords:
		return &f.ServiceSoftwareKeywords
	case DimensionProspectDepartments:
		return &f.ProspectDepartments
	case DimensionProspectLevels:
		return &f.ProspectLevels
	case DimensionProspectCities:
		return &f.ProspectCities
	case DimensionProspectCountries:
		return &f.ProspectCountries
	case DimensionProspectTitleKeywords:
		return &f.ProspectTitleKeywords
	default:
		return nil
	}
}

// Selection returns the values selected for a dimension.
func (f Filters) Selection(d Dimension) []FilterValue {
	slot := f.slot(d)
	if slot == nil {
		return nil
	}
	return *slot
}

// WithSelection returns a copy of the filters with the dimension's selection replaced.
func (f Filters) WithSelection(d Dimension, values []FilterValue) Filters {
	slot := f.slot(d)
	if slot == nil {
		return f
	}
	*slot = append([]FilterValue(nil), values...)
	return f
}

// WithoutSelection returns a copy of the filters with the dimension cleared.
func (f Filters) WithoutSelection(d Dimension) Filters {
	return f.WithSelection(d, nil)
}

// ActiveCount returns the number of criteria that narrow the result.
func (f Filters) ActiveCount() int {
	count := 0
	for _, info := range Dimensions() {
		count += len(f.Selection(info.Key))
	}
	if f.AccountRevenueRange.Active() {
		count++
	}
	return count
}

// IsEmpty reports whether no criteria are set.
func (f Filters) IsEmpty() bool {
	return f.ActiveCount() == 0
}

// EntityActive reports whether any dimension owned by kind has selections.
func (f Filters) EntityActive(kind EntityKind) bool {
	for _, info := range Dimensions() {
		if info.Entity == kind && len(f.Selection(info.Key)) > 0 {
			return true
		}
	}
	return kind == EntityKindAccounts && f.AccountRevenueRange.Active()
}

// Normalize trims values, drops blanks, defaults the mode to include and
// removes duplicates case-insensitively. The last occurrence of a value wins.
func (f Filters) Normalize() Filters {
	for _, info := range Dimensions() {
		values := f.Selection(info.Key)
		if len(values) == 0 {
			f = f.WithSelection(info.Key, nil)
			continue
		}
		f = f.WithSelection(info.Key, normalizeSelection(values))
	}
	return f
}

func normalizeSelection(values []FilterValue) []FilterValue {
	positions := make(map[string]int, len(values))
	out := make([]FilterValue, 0, len(values))
	for _, v := range values {
		value := strings.TrimSpace(v.Value)
		if value == "" {
			continue
		}
		mode := FilterMode(strings.ToLower(strings.TrimSpace(string(v.Mode))))
		if mode == "" {
			mode = FilterModeInclude
		}
		key := strings.ToLower(value)
		if idx, ok := positions[key]; ok {
			out[idx] = FilterValue{Value: value, Mode: mode}
			continue
		}
		positions[key] = len(out)
		out = append(out, FilterValue{Value: value, Mode: mode})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Validate checks modes, sizes and the revenue range.
func (f Filters) Validate() error {
	var problems []string
	for _, info := range Dimensions() {
		values := f.Selection(info.Key)
		if len(values) > maxSelectionsPerDimension {
			problems = append(problems, fmt.Sprintf("%s: at most %d values allowed", info.Key, maxSelectionsPerDimension))
		}
		for _, v := range values {
			switch FilterMode(strings.ToLower(strings.TrimSpace(string(v.Mode)))) {
			case FilterModeInclude, FilterModeExclude, "":
			default:
				problems = append(problems, fmt.Sprintf("%s: unknown mode %q", info.Key, v.Mode))
			}
			if strings.TrimSpace(v.Value) == "" {
				problems = append(problems, fmt.Sprintf("%s: empty value", info.Key))
			}
			if len(v.Value) > maxFilterValueLength {
				problems = append(problems, fmt.Sprintf("%s: value longer than %d characters", info.Key, maxFilterValueLength))
			}
		}
	}
	r := f.AccountRevenueRange
	if r.Min != nil && r.Max != nil && r.Min.GreaterThan(*r.Max) {
		problems = append(problems, "accountRevenueRange: min is greater than max")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidFilters, strings.Join(problems, "; "))
	}
	return nil
}

// FiltersToJSON encodes filters into the blob stored for saved filter sets.
func FiltersToJSON(f Filters) (json.RawMessage, error) {
	return json.Marshal(f)
}

// FiltersFromJSON decodes a stored filter blob. Empty input yields empty filters.
func FiltersFromJSON(data []byte) (Filters, error) {
	var f Filters
	if len(data) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return Filters{}, fmt.Errorf("%w: %v", ErrInvalidFilters, err)
	}
	return f, nil
}
