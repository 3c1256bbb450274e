package filter

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rpattn/bidash/internal/domain"
)

// OptionValue is one selectable value with the number of records it would match.
type OptionValue struct {
	Value    string            `json:"value"`
	Count    int               `json:"count"`
	Selected bool              `json:"selected"`
	Mode     domain.FilterMode `json:"mode,omitempty"`
}

// DimensionOptions lists the available values for one facet dimension.
type DimensionOptions struct {
	Dimension domain.Dimension  `json:"dimension"`
	Label     string            `json:"label"`
	Entity    domain.EntityKind `json:"entity"`
	Options   []OptionValue          `json:"options"`
}

// RevenueBounds describes the revenue slider given every other criterion.
type RevenueBounds struct {
	Min         *decimal.Decimal `json:"min,omitempty"`
	Max         *decimal.Decimal `json:"max,omitempty"`
	WithRevenue int              `json:"withRevenue"`
	NullRevenue int              `json:"nullRevenue"`
}

// OptionSet is the full set of filter options for the current filter state.
type OptionSet struct {
	Dimensions []DimensionOptions `json:"dimensions"`
	Revenue    RevenueBounds      `json:"revenue"`
}

// Get returns the options of one dimension.
func (s OptionSet) Get(d domain.Dimension) (DimensionOptions, bool) {
	for _, opts := range s.Dimensions {
		if opts.Dimension == d {
			return opts, true
		}
	}
	return DimensionOptions{}, false
}

// Options computes, for every facet dimension, the values present in the
// records that pass all other criteria. The dimension's own selection is
// ignored so users can widen it; selected values are always listed.
func (e *Engine) Options(filters domain.Filters) OptionSet {
	filters = filters.Normalize()
	set := OptionSet{}
	for _, info := range domain.Dimensions() {
		if info.Keyword {
			continue
		}
		selection := filters.Selection(info.Key)
		result := e.Apply(filters.WithoutSelection(info.Key))
		counts := newTally()
		countDimension(info.Key, result, counts)
		for _, v := range selection {
			counts.mark(v)
		}
		set.Dimensions = append(set.Dimensions, DimensionOptions{
			Dimension: info.Key,
			Label:     info.Label,
			Entity:    info.Entity,
			Options:   counts.options(),
		})
	}

	unbounded := filters
	unbounded.AccountRevenueRange = domain.RevenueRange{}
	unbounded.IncludeNullRevenue = false
	set.Revenue = revenueBounds(e.Apply(unbounded).Accounts)
	return set
}

func countDimension(d domain.Dimension, result *Result, counts *tally) {
	if value, ok := accountFacets[d]; ok {
		for _, a := range result.Accounts {
			counts.add(value(a))
		}
		return
	}
	if value, ok := centerFacets[d]; ok {
		for _, c := range result.Centers {
			counts.add(value(c))
		}
		return
	}
	if value, ok := functionFacets[d]; ok {
		for _, f := range result.Functions {
			counts.add(value(f))
		}
		return
	}
	if value, ok := serviceFacets[d]; ok {
		for _, s := range result.Services {
			counts.add(value(s))
		}
		return
	}
	if value, ok := prospectFacets[d]; ok {
		for _, p := range result.Prospects {
			counts.add(value(p))
		}
	}
}

func revenueBounds(accounts []*domain.Account) RevenueBounds {
	var bounds RevenueBounds
	for _, a := range accounts {
		if !a.Revenue.Valid {
			bounds.NullRevenue++
			continue
		}
		bounds.WithRevenue++
		value := a.Revenue.Decimal
		if bounds.Min == nil || value.LessThan(*bounds.Min) {
			v := value
			bounds.Min = &v
		}
		if bounds.Max == nil || value.GreaterThan(*bounds.Max) {
			v := value
			bounds.Max = &v
		}
	}
	return bounds
}

// tally counts values case-insensitively and keeps the first spelling seen.
type tally struct {
	order   []string
	display map[string]string
	counts  map[string]int
	modes   map[string]domain.FilterMode
}

func newTally() *tally {
	return &tally{
		display: make(map[string]string),
		counts:  make(map[string]int),
		modes:   make(map[string]domain.FilterMode),
	}
}

func (t *tally) ensure(value string) (string, bool) {
	trimmed := strings.TrimSpace(value)
	key := strings.ToLower(trimmed)
	if key == "" {
		return "", false
	}
	if _, seen := t.display[key]; !seen {
		t.display[key] = trimmed
		t.order = append(t.order, key)
	}
	return key, true
}

func (t *tally) add(value string) {
	if key, ok := t.ensure(value); ok {
		t.counts[key]++
	}
}

func (t *tally) mark(v domain.FilterValue) {
	if key, ok := t.ensure(v.Value); ok {
		t.modes[key] = v.Mode
	}
}

func (t *tally) options() []OptionValue {
	out := make([]OptionValue, 0, len(t.order))
	for _, key := range t.order {
		mode, selected := t.modes[key]
		out = append(out, OptionValue{
			Value:    t.display[key],
			Count:    t.counts[key],
			Selected: selected,
			Mode:     mode,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return strings.ToLower(out[i].Value) < strings.ToLower(out[j].Value)
	})
	return out
}
