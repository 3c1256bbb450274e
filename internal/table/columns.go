package table

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rpattn/bidash/internal/domain"
	"github.com/rpattn/bidash/internal/filter"
)

// ErrUnknownColumn is returned when a sort column is not registered for a kind.
var ErrUnknownColumn = errors.New("unknown column")

// Column describes one visible column of an entity table.
type Column struct {
	Key    string  `json:"key"`
	Header string  `json:"header"`
	Width  float64 `json:"-"`
}

type column[T any] struct {
	Column
	value func(*T) any
}

func col[T any](key, header string, width float64, value func(*T) any) column[T] {
	return column[T]{Column: Column{Key: key, Header: header, Width: width}, value: value}
}

func optionalInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func optionalDecimal(v decimal.NullDecimal) any {
	if !v.Valid {
		return nil
	}
	return v.Decimal.InexactFloat64()
}

var accountColumns = []column[domain.Account]{
	col("name", "Account", 32, func(a *domain.Account) any { return a.GlobalLegalName }),
	col("country", "HQ Country", 16, func(a *domain.Account) any { return a.HQCountry }),
	col("region", "HQ Region", 14, func(a *domain.Account) any { return a.HQRegion }),
	col("industry", "Industry", 20, func(a *domain.Account) any { return a.HQIndustry }),
	col("subIndustry", "Sub-industry", 20, func(a *domain.Account) any { return a.HQSubIndustry }),
	col("category", "Category", 16, func(a *domain.Account) any { return a.PrimaryCategory }),
	col("nature", "Nature", 14, func(a *domain.Account) any { return a.PrimaryNature }),
	col("nasscomStatus", "NASSCOM Status", 14, func(a *domain.Account) any { return a.NasscomStatus }),
	col("employeesRange", "Employees", 14, func(a *domain.Account) any { return a.EmployeesRange }),
	col("centerEmployees", "Center Employees", 16, func(a *domain.Account) any { return a.CenterEmployees }),
	col("revenueRange", "Revenue Range", 16, func(a *domain.Account) any { return a.RevenueRange }),
	col("revenue", "Revenue (USD Mn)", 14, func(a *domain.Account) any { return optionalDecimal(a.Revenue) }),
	col("firstCenterYear", "First Center Year", 12, func(a *domain.Account) any { return optionalInt(a.FirstCenterYear) }),
	col("website", "Website", 24, func(a *domain.Account) any { return a.Website }),
}

var centerColumns = []column[domain.Center]{
	col("key", "Center Key", 14, func(c *domain.Center) any { return c.Key }),
	col("name", "Center", 28, func(c *domain.Center) any { return c.Name }),
	col("account", "Account", 28, func(c *domain.Center) any { return c.AccountName }),
	col("type", "Type", 14, func(c *domain.Center) any { return c.Type }),
	col("focus", "Focus", 16, func(c *domain.Center) any { return c.Focus }),
	col("city", "City", 14, func(c *domain.Center) any { return c.City }),
	col("state", "State", 14, func(c *domain.Center) any { return c.State }),
	col("country", "Country", 14, func(c *domain.Center) any { return c.Country }),
	col("status", "Status", 12, func(c *domain.Center) any { return c.Status }),
	col("employeesRange", "Employees", 14, func(c *domain.Center) any { return c.EmployeesRange }),
	col("incYear", "Inc. Year", 10, func(c *domain.Center) any { return optionalInt(c.IncYear) }),
	col("businessSegment", "Business Segment", 18, func(c *domain.Center) any { return c.BusinessSegment }),
}

var functionColumns = []column[domain.Function]{
	col("centerKey", "Center Key", 14, func(f *domain.Function) any { return f.CenterKey }),
	col("name", "Function", 24, func(f *domain.Function) any { return f.Name }),
}

var serviceColumns = []column[domain.Service]{
	col("centerKey", "Center Key", 14, func(s *domain.Service) any { return s.CenterKey }),
	col("account", "Account", 28, func(s *domain.Service) any { return s.AccountName }),
	col("center", "Center", 28, func(s *domain.Service) any { return s.CenterName }),
	col("primaryService", "Primary Service", 22, func(s *domain.Service) any { return s.PrimaryService }),
	col("focusRegion", "Focus Region", 16, func(s *domain.Service) any { return s.FocusRegion }),
	col("serviceLine", "Service Line", 20, func(s *domain.Service) any { return s.ServiceLine }),
	col("softwareVendor", "Software Vendor", 18, func(s *domain.Service) any { return s.SoftwareVendor }),
	col("softwareInUse", "Software In Use", 28, func(s *domain.Service) any { return s.SoftwareInUse }),
}

var prospectColumns = []column[domain.Prospect]{
	col("name", "Name", 24, func(p *domain.Prospect) any { return p.FullName() }),
	col("title", "Title", 28, func(p *domain.Prospect) any { return p.Title }),
	col("account", "Account", 28, func(p *domain.Prospect) any { return p.AccountName }),
	col("center", "Center", 24, func(p *domain.Prospect) any { return p.CenterName }),
	col("department", "Department", 16, func(p *domain.Prospect) any { return p.Department }),
	col("level", "Level", 12, func(p *domain.Prospect) any { return p.Level }),
	col("city", "City", 14, func(p *domain.Prospect) any { return p.City }),
	col("country", "Country", 14, func(p *domain.Prospect) any { return p.Country }),
	col("email", "Email", 28, func(p *domain.Prospect) any { return p.Email }),
	col("linkedin", "LinkedIn", 28, func(p *domain.Prospect) any { return p.LinkedIn }),
}

func headers[T any](cols []column[T]) []Column {
	out := make([]Column, len(cols))
	for i, c := range cols {
		out[i] = c.Column
	}
	return out
}

// Columns returns the registered columns of kind.
func Columns(kind domain.EntityKind) ([]Column, error) {
	switch kind {
	case domain.EntityKindAccounts:
		return headers(accountColumns), nil
	case domain.EntityKindCenters:
		return headers(centerColumns), nil
	case domain.EntityKindFunctions:
		return headers(functionColumns), nil
	case domain.EntityKindServices:
		return headers(serviceColumns), nil
	case domain.EntityKindProspects:
		return headers(prospectColumns), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEntity, kind)
	}
}

func build[T any](kind domain.EntityKind, cols []column[T], records []*T) *Table {
	rows := make([][]any, len(records))
	for i, record := range records {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = c.value(record)
		}
		rows[i] = row
	}
	return &Table{Kind: kind, Columns: headers(cols), Rows: rows}
}

// FromResult materializes the rows of one entity kind from a filter result.
// The table owns its rows and may be sorted or searched freely.
func FromResult(result *filter.Result, kind domain.EntityKind) (*Table, error) {
	switch kind {
	case domain.EntityKindAccounts:
		return build(kind, accountColumns, result.Accounts), nil
	case domain.EntityKindCenters:
		return build(kind, centerColumns, result.Centers), nil
	case domain.EntityKindFunctions:
		return build(kind, functionColumns, result.Functions), nil
	case domain.EntityKindServices:
		return build(kind, serviceColumns, result.Services), nil
	case domain.EntityKindProspects:
		return build(kind, prospectColumns, result.Prospects), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEntity, kind)
	}
}
