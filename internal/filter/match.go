package filter

import (
	"strings"

	"github.com/rpattn/bidash/internal/domain"
)

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// facet is a compiled include/exclude selection for one dimension.
type facet struct {
	include map[string]struct{}
	exclude map[string]struct{}
}

func newFacet(values []domain.FilterValue) facet {
	var f facet
	for _, v := range values {
		key := normalizeKey(v.Value)
		if key == "" {
			continue
		}
		if v.Mode == domain.FilterModeExclude {
			if f.exclude == nil {
				f.exclude = make(map[string]struct{})
			}
			f.exclude[key] = struct{}{}
			continue
		}
		if f.include == nil {
			f.include = make(map[string]struct{})
		}
		f.include[key] = struct{}{}
	}
	return f
}

func (f facet) active() bool {
	return len(f.include) > 0 || len(f.exclude) > 0
}

// match tests a single record value. Blank values never satisfy an include.
func (f facet) match(value string) bool {
	key := normalizeKey(value)
	if key != "" {
		if _, excluded := f.exclude[key]; excluded {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	_, included := f.include[key]
	return included
}

// matchSet tests a multi-valued attribute: some value must be included and
// none may be excluded. Values must already be normalized.
func (f facet) matchSet(keys []string) bool {
	if !f.active() {
		return true
	}
	hit := len(f.include) == 0
	for _, key := range keys {
		if _, excluded := f.exclude[key]; excluded {
			return false
		}
		if !hit {
			if _, included := f.include[key]; included {
				hit = true
			}
		}
	}
	return hit
}

// keywords is a compiled free-text selection matched by case-insensitive substring.
type keywords struct {
	include []string
	exclude []string
}

func newKeywords(values []domain.FilterValue) keywords {
	var k keywords
	for _, v := range values {
		needle := normalizeKey(v.Value)
		if needle == "" {
			continue
		}
		if v.Mode == domain.FilterModeExclude {
			k.exclude = append(k.exclude, needle)
			continue
		}
		k.include = append(k.include, needle)
	}
	return k
}

func (k keywords) active() bool {
	return len(k.include) > 0 || len(k.exclude) > 0
}

func (k keywords) match(text string) bool {
	if !k.active() {
		return true
	}
	haystack := strings.ToLower(text)
	for _, needle := range k.exclude {
		if strings.Contains(haystack, needle) {
			return false
		}
	}
	if len(k.include) == 0 {
		return true
	}
	for _, needle := range k.include {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

type boundFacet[T any] struct {
	facet facet
	value func(*T) string
}

func bindFacets[T any](f domain.Filters, accessors map[domain.Dimension]func(*T) string) []boundFacet[T] {
	var bound []boundFacet[T]
	for _, info := range domain.Dimensions() {
		value, ok := accessors[info.Key]
		if !ok {
			continue
		}
		compiled := newFacet(f.Selection(info.Key))
		if !compiled.active() {
			continue
		}
		bound = append(bound, boundFacet[T]{facet: compiled, value: value})
	}
	return bound
}

func matchAll[T any](facets []boundFacet[T], record *T) bool {
	for _, b := range facets {
		if !b.facet.match(b.value(record)) {
			return false
		}
	}
	return true
}

// criteria is the compiled form of domain.Filters.
type criteria struct {
	account            []boundFacet[domain.Account]
	accountKeywords    keywords
	revenue            domain.RevenueRange
	includeNullRevenue bool

	center   []boundFacet[domain.Center]
	function facet

	service         []boundFacet[domain.Service]
	serviceKeywords keywords

	prospect         []boundFacet[domain.Prospect]
	prospectKeywords keywords
}

func compile(f domain.Filters) criteria {
	return criteria{
		account:            bindFacets(f, accountFacets),
		accountKeywords:    newKeywords(f.AccountNameKeywords),
		revenue:            f.AccountRevenueRange,
		includeNullRevenue: f.IncludeNullRevenue,
		center:             bindFacets(f, centerFacets),
		function:           newFacet(f.FunctionNames),
		service:            bindFacets(f, serviceFacets),
		serviceKeywords:    newKeywords(f.ServiceSoftwareKeywords),
		prospect:           bindFacets(f, prospectFacets),
		prospectKeywords:   newKeywords(f.ProspectTitleKeywords),
	}
}

func (c criteria) matchAccount(a *domain.Account) bool {
	if !matchAll(c.account, a) {
		return false
	}
	if !c.accountKeywords.match(a.GlobalLegalName) {
		return false
	}
	if c.revenue.Active() {
		if !a.Revenue.Valid {
			return c.includeNullRevenue
		}
		return c.revenue.Contains(a.Revenue.Decimal)
	}
	return true
}

func (c criteria) matchCenter(ct *domain.Center) bool {
	return matchAll(c.center, ct)
}

func (c criteria) serviceActive() bool {
	return len(c.service) > 0 || c.serviceKeywords.active()
}

func (c criteria) matchService(s *domain.Service) bool {
	return matchAll(c.service, s) && c.serviceKeywords.match(s.SoftwareInUse)
}

func (c criteria) matchProspect(p *domain.Prospect) bool {
	return matchAll(c.prospect, p) && c.prospectKeywords.match(p.Title)
}

// centerLevelActive reports whether center, function or service criteria are
// set. Any of them restricts accounts to those with a passing center.
func (c criteria) centerLevelActive() bool {
	return len(c.center) > 0 || c.function.active() || c.serviceActive()
}
