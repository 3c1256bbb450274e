package export

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rpattn/bidash/internal/dataset"
	"github.com/rpattn/bidash/internal/domain"
	"github.com/rpattn/bidash/internal/filter"
	"github.com/rpattn/bidash/internal/table"
)

const (
	ContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	SummarySheet = "Summary"

	fileNameLayout = "20060102-150405"
)

// SnapshotSource provides the current dataset snapshot.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*dataset.Snapshot, error)
}

// Request selects what goes into a workbook.
type Request struct {
	Filters domain.Filters
	// Entities lists the sheets to write, in order. Empty means every kind.
	Entities []domain.EntityKind
	Sorts    map[domain.EntityKind]domain.TableSort
}

// Workbook describes a written export.
type Workbook struct {
	FileName string
	Sheets   []string
	Rows     map[domain.EntityKind]int
	Bytes    int64
}

type Service struct {
	datasets SnapshotSource
	logger   *zap.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func withClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(datasets SnapshotSource, opts ...Option) *Service {
	service := &Service{
		datasets: datasets,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// FileName returns the download name for an export generated at t.
func FileName(t time.Time) string {
	return "bidash-export-" + t.Format(fileNameLayout) + ".xlsx"
}

// Prepare validates the request and resolves the default sheet list.
func Prepare(req Request) (Request, error) {
	if err := req.Filters.Validate(); err != nil {
		return Request{}, err
	}
	req.Filters = req.Filters.Normalize()
	if len(req.Entities) == 0 {
		req.Entities = domain.EntityKinds()
		return req, nil
	}
	seen := make(map[domain.EntityKind]bool, len(req.Entities))
	entities := make([]domain.EntityKind, 0, len(req.Entities))
	for _, raw := range req.Entities {
		kind, err := domain.ParseEntityKind(string(raw))
		if err != nil {
			return Request{}, err
		}
		if !seen[kind] {
			seen[kind] = true
			entities = append(entities, kind)
		}
	}
	req.Entities = entities
	return req, nil
}

// Export filters the current snapshot and streams the workbook to w.
func (s *Service) Export(ctx context.Context, req Request, w io.Writer) (Workbook, error) {
	req, err := Prepare(req)
	if err != nil {
		return Workbook{}, err
	}
	snap, err := s.datasets.Snapshot(ctx)
	if err != nil {
		return Workbook{}, err
	}
	generatedAt := s.now()
	result := snap.Engine.Apply(req.Filters)

	wb, err := WriteWorkbook(w, result, req, generatedAt)
	if err != nil {
		return Workbook{}, err
	}
	s.logger.Info("export written",
		zap.String("file", wb.FileName),
		zap.Strings("sheets", wb.Sheets),
		zap.Int64("bytes", wb.Bytes),
		zap.Int("active_filters", result.Summary.ActiveFilters),
	)
	return wb, nil
}

// WriteWorkbook renders a summary sheet and one sheet per requested kind.
// req must already be prepared.
func WriteWorkbook(w io.Writer, result *filter.Result, req Request, generatedAt time.Time) (Workbook, error) {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E8EEF7"}},
	})
	if err != nil {
		return Workbook{}, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return Workbook{}, fmt.Errorf("failed to name summary sheet: %w", err)
	}
	wb := Workbook{
		FileName: FileName(generatedAt),
		Sheets:   []string{SummarySheet},
		Rows:     make(map[domain.EntityKind]int, len(req.Entities)),
	}

	for _, kind := range req.Entities {
		tbl, err := table.FromResult(result, kind)
		if err != nil {
			return Workbook{}, err
		}
		if err := tbl.Sort(req.Sorts[kind]); err != nil {
			return Workbook{}, err
		}
		sheet := kind.Label()
		if _, err := f.NewSheet(sheet); err != nil {
			return Workbook{}, fmt.Errorf("failed to add sheet %s: %w", sheet, err)
		}
		if err := writeTable(f, sheet, tbl, header); err != nil {
			return Workbook{}, err
		}
		wb.Sheets = append(wb.Sheets, sheet)
		wb.Rows[kind] = len(tbl.Rows)
	}

	if err := writeSummary(f, result, req, generatedAt, header); err != nil {
		return Workbook{}, err
	}
	f.SetActiveSheet(0)

	n, err := f.WriteTo(w)
	if err != nil {
		return Workbook{}, fmt.Errorf("failed to write workbook: %w", err)
	}
	wb.Bytes = n
	return wb, nil
}

func writeTable(f *excelize.File, sheet string, tbl *table.Table, headerStyle int) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open stream for %s: %w", sheet, err)
	}
	for i, c := range tbl.Columns {
		if c.Width > 0 {
			if err := sw.SetColWidth(i+1, i+1, c.Width); err != nil {
				return fmt.Errorf("failed to size column %s: %w", c.Key, err)
			}
		}
	}

	headerRow := make([]any, len(tbl.Columns))
	for i, c := range tbl.Columns {
		headerRow[i] = excelize.Cell{StyleID: headerStyle, Value: c.Header}
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	for i, row := range tbl.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", sheet, err)
	}
	return nil
}

func writeSummary(f *excelize.File, result *filter.Result, req Request, generatedAt time.Time, headerStyle int) error {
	sw, err := f.NewStreamWriter(SummarySheet)
	if err != nil {
		return fmt.Errorf("failed to open summary stream: %w", err)
	}
	if err := sw.SetColWidth(1, 1, 28); err != nil {
		return err
	}
	if err := sw.SetColWidth(2, 3, 40); err != nil {
		return err
	}

	bold := func(v string) excelize.Cell { return excelize.Cell{StyleID: headerStyle, Value: v} }
	rows := [][]any{
		{bold("Generated at"), generatedAt.Format(time.RFC3339)},
		{bold("Active filters"), result.Summary.ActiveFilters},
		{},
		{bold("Entity"), bold("Filtered"), bold("Total")},
	}
	for _, kind := range domain.EntityKinds() {
		count := result.Summary.Of(kind)
		rows = append(rows, []any{kind.Label(), count.Filtered, count.Total})
	}
	rows = append(rows, []any{}, []any{bold("Filter"), bold("Included"), bold("Excluded")})
	rows = append(rows, describeFilters(req.Filters)...)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush summary: %w", err)
	}
	return nil
}

func describeFilters(filters domain.Filters) [][]any {
	var rows [][]any
	for _, info := range domain.Dimensions() {
		values := filters.Selection(info.Key)
		if len(values) == 0 {
			continue
		}
		var include, exclude []string
		for _, v := range values {
			if v.Mode == domain.FilterModeExclude {
				exclude = append(exclude, v.Value)
			} else {
				include = append(include, v.Value)
			}
		}
		rows = append(rows, []any{info.Label, strings.Join(include, ", "), strings.Join(exclude, ", ")})
	}
	if r := filters.AccountRevenueRange; r.Active() {
		bounds := "any"
		switch {
		case r.Min != nil && r.Max != nil:
			bounds = r.Min.String() + " to " + r.Max.String()
		case r.Min != nil:
			bounds = "at least " + r.Min.String()
		case r.Max != nil:
			bounds = "at most " + r.Max.String()
		}
		if filters.IncludeNullRevenue {
			bounds += " (including unknown)"
		}
		rows = append(rows, []any{"Revenue (USD Mn)", bounds, ""})
	}
	if len(rows) == 0 {
		rows = append(rows, []any{"None", "", ""})
	}
	return rows
}
