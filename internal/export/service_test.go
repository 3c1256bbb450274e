package export

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rpattn/bidash/internal/dataset"
	"github.com/rpattn/bidash/internal/domain"
	"github.com/rpattn/bidash/internal/filter"
)

type stubSnapshots struct {
	snap *dataset.Snapshot
	err  error
}

func (s stubSnapshots) Snapshot(ctx context.Context) (*dataset.Snapshot, error) {
	return s.snap, s.err
}

func testSnapshot() *dataset.Snapshot {
	ds := &domain.Dataset{
		Accounts: []domain.Account{
			{GlobalLegalName: "Acme Corp", HQCountry: "USA", Revenue: decimal.NewNullDecimal(decimal.NewFromInt(1200))},
			{GlobalLegalName: "Globex", HQCountry: "UK"},
		},
		Centers: []domain.Center{
			{Key: "C1", AccountName: "Acme Corp", Name: "Acme Pune", City: "Pune"},
			{Key: "C2", AccountName: "Globex", Name: "Globex Chennai", City: "Chennai"},
		},
		Functions: []domain.Function{{CenterKey: "C1", Name: "IT"}},
		Prospects: []domain.Prospect{{ID: 1, AccountName: "Acme Corp", FirstName: "Ada", LastName: "Lovelace"}},
	}
	return &dataset.Snapshot{Dataset: ds, Engine: filter.NewEngine(ds), LoadedAt: time.Now()}
}

var generated = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func fixedNow() time.Time { return generated }

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "bidash-export-20240309-140507.xlsx", FileName(generated))
}

func TestExportWritesSummaryAndEntitySheets(t *testing.T) {
	svc := NewService(stubSnapshots{snap: testSnapshot()}, withClock(fixedNow))
	var buf bytes.Buffer

	wb, err := svc.Export(context.Background(), Request{
		Filters: domain.Filters{AccountCountries: []domain.FilterValue{domain.Include("USA")}},
	}, &buf)
	require.NoError(t, err)

	assert.Equal(t, "bidash-export-20240309-140507.xlsx", wb.FileName)
	assert.Equal(t, []string{"Summary", "Accounts", "Centers", "Functions", "Services", "Prospects"}, wb.Sheets)
	assert.Equal(t, 1, wb.Rows[domain.EntityKindAccounts])
	assert.Equal(t, int64(buf.Len()), wb.Bytes)

	f := openWorkbook(t, buf.Bytes())
	assert.Equal(t, wb.Sheets, f.GetSheetList())

	accounts, err := f.GetRows("Accounts")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Account", accounts[0][0])
	assert.Equal(t, "Acme Corp", accounts[1][0])
	assert.Contains(t, accounts[1], "1200")

	styleID, err := f.GetCellStyle("Accounts", "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	prospects, err := f.GetRows("Prospects")
	require.NoError(t, err)
	require.Len(t, prospects, 2)
	assert.Equal(t, "Ada Lovelace", prospects[1][0])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	flat := make([]string, 0)
	for _, row := range summary {
		flat = append(flat, strings.Join(row, "|"))
	}
	assert.Contains(t, flat, "Generated at|2024-03-09T14:05:07Z")
	assert.Contains(t, flat, "Accounts|1|2")
	assert.Contains(t, flat, "HQ Country|USA")
}

func TestExportSelectedSheetsWithSort(t *testing.T) {
	svc := NewService(stubSnapshots{snap: testSnapshot()}, withClock(fixedNow))
	var buf bytes.Buffer

	wb, err := svc.Export(context.Background(), Request{
		Entities: []domain.EntityKind{"center", "centers"},
		Sorts: map[domain.EntityKind]domain.TableSort{
			domain.EntityKindCenters: {Column: "city", Direction: domain.SortDirectionAsc},
		},
	}, &buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Summary", "Centers"}, wb.Sheets)

	rows, err := openWorkbook(t, buf.Bytes()).GetRows("Centers")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "C2", rows[1][0])
}

func TestExportRejectsBadRequests(t *testing.T) {
	svc := NewService(stubSnapshots{snap: testSnapshot()})

	_, err := svc.Export(context.Background(), Request{Entities: []domain.EntityKind{"widgets"}}, &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)

	_, err = svc.Export(context.Background(), Request{
		Entities: []domain.EntityKind{domain.EntityKindAccounts},
		Sorts:    map[domain.EntityKind]domain.TableSort{domain.EntityKindAccounts: {Column: "nope"}},
	}, &bytes.Buffer{})
	assert.Error(t, err)

	failing := NewService(stubSnapshots{err: dataset.ErrUnavailable})
	_, err = failing.Export(context.Background(), Request{}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, dataset.ErrUnavailable))
}

func TestHTTPHandlerDownload(t *testing.T) {
	handler := NewHTTPHandler(NewService(stubSnapshots{snap: testSnapshot()}, withClock(fixedNow)), nil)
	body := `{"filters":{"centerCities":[{"value":"Pune","mode":"include"}]},"entities":["accounts"],"sort":{"accounts":{"column":"name","direction":"DESC"}}}`

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/export", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="bidash-export-20240309-140507.xlsx"`, rec.Header().Get("Content-Disposition"))

	rows, err := openWorkbook(t, rec.Body.Bytes()).GetRows("Accounts")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme Corp", rows[1][0])
}

func TestHTTPHandlerErrors(t *testing.T) {
	handler := NewHTTPHandler(NewService(stubSnapshots{err: dataset.ErrUnavailable}), nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/export", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database_unavailable")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/export", strings.NewReader(`{"filters":`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/export", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
