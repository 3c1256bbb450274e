package table

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpattn/bidash/internal/domain"
	"github.com/rpattn/bidash/internal/filter"
)

func sampleResult() *filter.Result {
	year := 2010
	ds := &domain.Dataset{
		Accounts: []domain.Account{
			{GlobalLegalName: "Globex", HQCountry: "UK", Revenue: decimal.NewNullDecimal(decimal.NewFromInt(300))},
			{GlobalLegalName: "acme", HQCountry: "USA", Revenue: decimal.NewNullDecimal(decimal.NewFromInt(1200)), FirstCenterYear: &year},
			{GlobalLegalName: "Initech", HQCountry: "USA"},
			{GlobalLegalName: "Umbrella", HQCountry: "", Revenue: decimal.NewNullDecimal(decimal.NewFromInt(50))},
		},
	}
	return filter.NewEngine(ds).Apply(domain.Filters{})
}

func names(t *Table) []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[0].(string)
	}
	return out
}

func TestColumnsForEveryKind(t *testing.T) {
	for _, kind := range domain.EntityKinds() {
		cols, err := Columns(kind)
		require.NoError(t, err, kind)
		assert.NotEmpty(t, cols, kind)
	}
	_, err := Columns("widgets")
	assert.True(t, errors.Is(err, domain.ErrUnknownEntity))
}

func TestFromResultBuildsCells(t *testing.T) {
	tbl, err := FromResult(sampleResult(), domain.EntityKindAccounts)
	require.NoError(t, err)

	require.Len(t, tbl.Rows, 4)
	revenue, ok := tbl.ColumnIndex("REVENUE")
	require.True(t, ok)
	assert.Equal(t, 300.0, tbl.Rows[0][revenue])
	assert.Nil(t, tbl.Rows[2][revenue])

	year, _ := tbl.ColumnIndex("firstCenterYear")
	assert.Equal(t, 2010, tbl.Rows[1][year])
}

func TestSortNumericAndTextColumns(t *testing.T) {
	tbl, err := FromResult(sampleResult(), domain.EntityKindAccounts)
	require.NoError(t, err)

	require.NoError(t, tbl.Sort(domain.TableSort{Column: "revenue", Direction: domain.SortDirectionDesc}))
	assert.Equal(t, []string{"acme", "Globex", "Umbrella", "Initech"}, names(tbl))

	require.NoError(t, tbl.Sort(domain.TableSort{Column: "name", Direction: domain.SortDirectionAsc}))
	assert.Equal(t, []string{"acme", "Globex", "Initech", "Umbrella"}, names(tbl))

	// blank countries stay last, ties keep their order
	require.NoError(t, tbl.Sort(domain.TableSort{Column: "country", Direction: domain.SortDirectionDesc}))
	assert.Equal(t, []string{"acme", "Initech", "Globex", "Umbrella"}, names(tbl))
}

func TestSortUnknownColumnKeepsOrder(t *testing.T) {
	tbl, err := FromResult(sampleResult(), domain.EntityKindAccounts)
	require.NoError(t, err)
	before := names(tbl)

	err = tbl.Sort(domain.TableSort{Column: "shoeSize"})

	assert.True(t, errors.Is(err, ErrUnknownColumn))
	assert.Equal(t, before, names(tbl))
	assert.NoError(t, tbl.Sort(domain.TableSort{}))
}

func TestSearchMatchesAnyCell(t *testing.T) {
	tbl, err := FromResult(sampleResult(), domain.EntityKindAccounts)
	require.NoError(t, err)

	tbl.Search(" usa ")
	assert.Equal(t, []string{"acme", "Initech"}, names(tbl))

	tbl.Search("1200")
	assert.Equal(t, []string{"acme"}, names(tbl))
}

func TestPaginate(t *testing.T) {
	cases := []struct {
		name                  string
		total, page, pageSize int
		want                  Pagination
	}{
		{"defaults", 60, 0, 0, Pagination{Page: 1, PageSize: 25, TotalRows: 60, TotalPages: 3, Offset: 0, End: 25}},
		{"last page", 60, 3, 25, Pagination{Page: 3, PageSize: 25, TotalRows: 60, TotalPages: 3, Offset: 50, End: 60}},
		{"page past end", 60, 9, 25, Pagination{Page: 3, PageSize: 25, TotalRows: 60, TotalPages: 3, Offset: 50, End: 60}},
		{"size capped", 1000, 2, 5000, Pagination{Page: 2, PageSize: 500, TotalRows: 1000, TotalPages: 2, Offset: 500, End: 1000}},
		{"empty", 0, 4, 10, Pagination{Page: 1, PageSize: 10, TotalRows: 0, TotalPages: 1, Offset: 0, End: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, Paginate(tc.total, tc.page, tc.pageSize)); diff != "" {
				t.Fatalf("Paginate mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListReturnsKeyedRows(t *testing.T) {
	tbl, err := FromResult(sampleResult(), domain.EntityKindAccounts)
	require.NoError(t, err)

	page, err := tbl.List(Query{
		Page:     2,
		PageSize: 3,
		Sort:     domain.TableSort{Column: "name"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, page.Pagination.TotalPages)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "Umbrella", page.Rows[0]["name"])
	assert.Equal(t, 50.0, page.Rows[0]["revenue"])
	assert.Equal(t, domain.EntityKindAccounts, page.Entity)
}
