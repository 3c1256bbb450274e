package aggregate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpattn/bidash/internal/domain"
	"github.com/rpattn/bidash/internal/filter"
)

func TestCountByGroupsCaseInsensitivelyAndLabelsBlanks(t *testing.T) {
	values := []string{"Pune", "pune", " Chennai", "", "  ", "Bengaluru", "Pune"}

	got := CountBy(values, func(v string) string { return v })

	want := []Item{
		{Label: "Pune", Count: 3, Percent: 42.9},
		{Label: "Unknown", Count: 2, Percent: 28.6},
		{Label: "Bengaluru", Count: 1, Percent: 14.3},
		{Label: "Chennai", Count: 1, Percent: 14.3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("CountBy mismatch (-want +got):\n%s", diff)
	}
}

func TestCountByEmpty(t *testing.T) {
	got := CountBy([]string{}, func(v string) string { return v })
	assert.Empty(t, got)
}

func TestTopNFoldsTailIntoOthers(t *testing.T) {
	items := []Item{
		{Label: "A", Count: 5, Percent: 50},
		{Label: "B", Count: 3, Percent: 30},
		{Label: "C", Count: 1, Percent: 10},
		{Label: "D", Count: 1, Percent: 10},
	}

	got := TopN(items, 2)

	want := []Item{
		{Label: "A", Count: 5, Percent: 50},
		{Label: "B", Count: 3, Percent: 30},
		{Label: "Others", Count: 2, Percent: 20},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("TopN mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, items, TopN(items, 4))
	assert.Equal(t, items, TopN(items, -1))
}

func TestBuildDashboard(t *testing.T) {
	year := 2015
	ds := &domain.Dataset{
		Accounts: []domain.Account{
			{GlobalLegalName: "Acme", HQCountry: "USA", HQIndustry: "Technology"},
			{GlobalLegalName: "Globex", HQCountry: "UK"},
		},
		Centers: []domain.Center{
			{Key: "C1", AccountName: "Acme", City: "Pune", IncYear: &year},
			{Key: "C2", AccountName: "Globex", City: "Pune"},
		},
		Prospects: []domain.Prospect{
			{ID: 1, AccountName: "Acme", Level: "VP"},
		},
	}
	result := filter.NewEngine(ds).Apply(domain.Filters{})

	dashboard := BuildDashboard(result, Options{})

	require.Len(t, dashboard.Charts, 12)
	assert.Equal(t, 2, dashboard.Summary.Accounts.Total)

	charts := make(map[string]Chart, len(dashboard.Charts))
	for _, c := range dashboard.Charts {
		charts[c.Key] = c
	}
	assert.Equal(t, []Item{{Label: "Technology", Count: 1, Percent: 50}, {Label: "Unknown", Count: 1, Percent: 50}},
		charts["accountsByIndustry"].Items)
	assert.Equal(t, []Item{{Label: "Pune", Count: 2, Percent: 100}}, charts["centersByCity"].Items)
	assert.Equal(t, []Item{{Label: "2015", Count: 1, Percent: 50}, {Label: "Unknown", Count: 1, Percent: 50}},
		charts["centersByIncYear"].Items)
	assert.Equal(t, 0, charts["functionsByName"].Total)
	assert.Equal(t, domain.EntityKindProspects, charts["prospectsByLevel"].Entity)
}

func TestBuildDashboardTopN(t *testing.T) {
	ds := &domain.Dataset{}
	for _, country := range []string{"A", "B", "C", "D"} {
		ds.Accounts = append(ds.Accounts, domain.Account{GlobalLegalName: country, HQCountry: country})
	}
	result := filter.NewEngine(ds).Apply(domain.Filters{})

	dashboard := BuildDashboard(result, Options{TopN: 2})

	items := dashboard.Charts[0].Items
	require.Len(t, items, 3)
	assert.Equal(t, Item{Label: "Others", Count: 2, Percent: 50}, items[2])
}
