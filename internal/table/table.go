package table

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rpattn/bidash/internal/domain"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 500
)

// Table is a materialized grid of one entity kind. Each row holds one cell
// per column; cells are strings, ints, float64s or nil.
type Table struct {
	Kind    domain.EntityKind
	Columns []Column
	Rows    [][]any
}

// ColumnIndex returns the position of a column key, matched case-insensitively.
func (t *Table) ColumnIndex(key string) (int, bool) {
	key = strings.TrimSpace(key)
	for i, c := range t.Columns {
		if strings.EqualFold(c.Key, key) {
			return i, true
		}
	}
	return -1, false
}

// Sort orders rows by a column. An empty column keeps source order; an
// unknown column keeps source order and returns ErrUnknownColumn. Blank
// cells sort last in either direction.
func (t *Table) Sort(by domain.TableSort) error {
	if strings.TrimSpace(by.Column) == "" {
		return nil
	}
	idx, ok := t.ColumnIndex(by.Column)
	if !ok {
		return fmt.Errorf("%w: %q for %s", ErrUnknownColumn, by.Column, t.Kind)
	}
	desc := by.Direction == domain.SortDirectionDesc
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := t.Rows[i][idx], t.Rows[j][idx]
		aBlank, bBlank := isBlank(a), isBlank(b)
		if aBlank || bBlank {
			return !aBlank && bBlank
		}
		c := compareCells(a, b)
		if desc {
			return c > 0
		}
		return c < 0
	})
	return nil
}

// Search keeps the rows where any cell contains query, ignoring case.
// A blank query keeps every row.
func (t *Table) Search(query string) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return
	}
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		for _, cell := range row {
			if cell != nil && strings.Contains(strings.ToLower(fmt.Sprint(cell)), needle) {
				kept = append(kept, row)
				break
			}
		}
	}
	t.Rows = kept
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func compareCells(a, b any) int {
	if x, ok := numeric(a); ok {
		if y, ok := numeric(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(strings.ToLower(fmt.Sprint(a)), strings.ToLower(fmt.Sprint(b)))
}

// Pagination is a resolved page window over a row count.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalRows  int `json:"totalRows"`
	TotalPages int `json:"totalPages"`
	Offset     int `json:"-"`
	End        int `json:"-"`
}

// Paginate resolves a page window. Page sizes default to DefaultPageSize and
// are capped at MaxPageSize; the page is clamped to [1, TotalPages] and there
// is always at least one page.
func Paginate(totalRows, page, pageSize int) Pagination {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	totalRows = max(totalRows, 0)
	totalPages := max((totalRows+pageSize-1)/pageSize, 1)
	page = min(max(page, 1), totalPages)
	offset := (page - 1) * pageSize
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalRows:  totalRows,
		TotalPages: totalPages,
		Offset:     offset,
		End:        min(offset+pageSize, totalRows),
	}
}

// Page is one page of a table as served to the client.
type Page struct {
	Entity     domain.EntityKind `json:"entity"`
	Columns    []Column          `json:"columns"`
	Rows       []map[string]any  `json:"rows"`
	Pagination Pagination        `json:"pagination"`
	Sort       domain.TableSort  `json:"sort"`
}

// Page cuts the window p out of the table, keying cells by column.
func (t *Table) Page(p Pagination) Page {
	out := Page{
		Entity:     t.Kind,
		Columns:    t.Columns,
		Rows:       make([]map[string]any, 0, p.End-p.Offset),
		Pagination: p,
	}
	for _, row := range t.Rows[p.Offset:p.End] {
		record := make(map[string]any, len(t.Columns))
		for i, c := range t.Columns {
			record[c.Key] = row[i]
		}
		out.Rows = append(out.Rows, record)
	}
	return out
}

// Query bundles the listing parameters of a table request.
type Query struct {
	Page     int
	PageSize int
	Sort     domain.TableSort
	Search   string
}

// List searches, sorts and paginates the table in one step.
func (t *Table) List(q Query) (Page, error) {
	t.Search(q.Search)
	if err := t.Sort(q.Sort); err != nil {
		return Page{}, err
	}
	page := t.Page(Paginate(len(t.Rows), q.Page, q.PageSize))
	page.Sort = q.Sort
	return page, nil
}
