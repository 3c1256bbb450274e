package aggregate

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rpattn/bidash/internal/domain"
	"github.com/rpattn/bidash/internal/filter"
)

const (
	UnknownLabel = "Unknown"
	OthersLabel  = "Others"

	defaultTopN = 10
)

// Item is one bar or slice of a chart.
type Item struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Chart is a titled distribution over one field of one entity kind.
type Chart struct {
	Key    string            `json:"key"`
	Title  string            `json:"title"`
	Entity domain.EntityKind `json:"entity"`
	Total  int               `json:"total"`
	Items  []Item            `json:"items"`
}

// Dashboard is the payload behind the dashboard view.
type Dashboard struct {
	Summary filter.Summary `json:"summary"`
	Charts  []Chart        `json:"charts"`
}

// Options tunes chart construction.
type Options struct {
	// TopN caps the items per chart, folding the rest into "Others".
	// Zero uses the default; negative disables folding.
	TopN int
}

func (o Options) topN() int {
	if o.TopN == 0 {
		return defaultTopN
	}
	return o.TopN
}

// CountBy groups records by key. Keys compare case-insensitively and keep
// the first spelling seen; blank keys are counted as "Unknown". Items are
// sorted by count descending, then label.
func CountBy[T any](records []T, key func(T) string) []Item {
	counts := make(map[string]int)
	labels := make(map[string]string)
	for _, record := range records {
		label := strings.TrimSpace(key(record))
		if label == "" {
			label = UnknownLabel
		}
		folded := strings.ToLower(label)
		if _, ok := labels[folded]; !ok {
			labels[folded] = label
		}
		counts[folded]++
	}

	items := make([]Item, 0, len(counts))
	for folded, count := range counts {
		items = append(items, Item{
			Label:   labels[folded],
			Count:   count,
			Percent: percent(count, len(records)),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Label < items[j].Label
	})
	return items
}

// TopN keeps the first n items and folds the remainder into a single
// "Others" item. Items must already be sorted.
func TopN(items []Item, n int) []Item {
	if n <= 0 || len(items) <= n {
		return items
	}
	out := make([]Item, 0, n+1)
	out = append(out, items[:n]...)
	others := Item{Label: OthersLabel}
	for _, item := range items[n:] {
		others.Count += item.Count
		others.Percent += item.Percent
	}
	others.Percent = round1(others.Percent)
	return append(out, others)
}

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(count) * 100 / float64(total))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func chartOf[T any](key, title string, kind domain.EntityKind, records []T, value func(T) string, n int) Chart {
	return Chart{
		Key:    key,
		Title:  title,
		Entity: kind,
		Total:  len(records),
		Items:  TopN(CountBy(records, value), n),
	}
}

func yearLabel(year *int) string {
	if year == nil {
		return ""
	}
	return strconv.Itoa(*year)
}

// BuildDashboard assembles the chart set for a filtered result.
func BuildDashboard(result *filter.Result, opts Options) Dashboard {
	n := opts.topN()
	return Dashboard{
		Summary: result.Summary,
		Charts: []Chart{
			chartOf("accountsByCountry", "Accounts by HQ country", domain.EntityKindAccounts, result.Accounts,
				func(a *domain.Account) string { return a.HQCountry }, n),
			chartOf("accountsByIndustry", "Accounts by industry", domain.EntityKindAccounts, result.Accounts,
				func(a *domain.Account) string { return a.HQIndustry }, n),
			chartOf("accountsByRevenueRange", "Accounts by revenue range", domain.EntityKindAccounts, result.Accounts,
				func(a *domain.Account) string { return a.RevenueRange }, n),
			chartOf("accountsByNasscomStatus", "Accounts by NASSCOM status", domain.EntityKindAccounts, result.Accounts,
				func(a *domain.Account) string { return a.NasscomStatus }, n),
			chartOf("centersByType", "Centers by type", domain.EntityKindCenters, result.Centers,
				func(c *domain.Center) string { return c.Type }, n),
			chartOf("centersByCity", "Centers by city", domain.EntityKindCenters, result.Centers,
				func(c *domain.Center) string { return c.City }, n),
			chartOf("centersByEmployees", "Centers by employees", domain.EntityKindCenters, result.Centers,
				func(c *domain.Center) string { return c.EmployeesRange }, n),
			chartOf("centersByIncYear", "Centers by incorporation year", domain.EntityKindCenters, result.Centers,
				func(c *domain.Center) string { return yearLabel(c.IncYear) }, n),
			chartOf("functionsByName", "Functions", domain.EntityKindFunctions, result.Functions,
				func(f *domain.Function) string { return f.Name }, n),
			chartOf("servicesByPrimaryService", "Services by primary service", domain.EntityKindServices, result.Services,
				func(s *domain.Service) string { return s.PrimaryService }, n),
			chartOf("prospectsByDepartment", "Prospects by department", domain.EntityKindProspects, result.Prospects,
				func(p *domain.Prospect) string { return p.Department }, n),
			chartOf("prospectsByLevel", "Prospects by level", domain.EntityKindProspects, result.Prospects,
				func(p *domain.Prospect) string { return p.Level }, n),
		},
	}
}
