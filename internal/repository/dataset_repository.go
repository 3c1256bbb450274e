package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/rpattn/bidash/internal/db"
	"github.com/rpattn/bidash/internal/domain"
)

const accountColumns = `
	account_global_legal_name,
	COALESCE(account_hq_country, ''),
	COALESCE(account_hq_region, ''),
	COALESCE(account_hq_industry, ''),
	COALESCE(account_hq_sub_industry, ''),
	COALESCE(account_primary_category, ''),
	COALESCE(account_primary_nature, ''),
	COALESCE(account_nasscom_status, ''),
	COALESCE(account_employees_range, ''),
	COALESCE(account_center_employees, ''),
	COALESCE(account_revenue_range, ''),
	account_hq_revenue,
	COALESCE(account_website, ''),
	account_first_center_year,
	COALESCE(account_description, '')`

const listAccountsQuery = `SELECT` + accountColumns + `
FROM accounts
ORDER BY account_global_legal_name`

const listAccountsByNamesQuery = `SELECT` + accountColumns + `
FROM accounts
WHERE LOWER(account_global_legal_name) = ANY($1)
ORDER BY account_global_legal_name`

const listCentersQuery = `SELECT
	cn_unique_key,
	account_global_legal_name,
	COALESCE(center_name, ''),
	COALESCE(center_type, ''),
	COALESCE(center_focus, ''),
	COALESCE(center_city, ''),
	COALESCE(center_state, ''),
	COALESCE(center_country, ''),
	COALESCE(center_status, ''),
	COALESCE(center_employees_range, ''),
	center_inc_year,
	lat,
	lng,
	COALESCE(center_business_segment, ''),
	COALESCE(center_website, '')
FROM centers
ORDER BY account_global_legal_name, cn_unique_key`

const listFunctionsQuery = `SELECT cn_unique_key, COALESCE(function_name, '')
FROM functions
ORDER BY cn_unique_key, id`

const listServicesQuery = `SELECT
	cn_unique_key,
	COALESCE(account_global_legal_name, ''),
	COALESCE(center_name, ''),
	COALESCE(primary_service, ''),
	COALESCE(focus_region, ''),
	COALESCE(service_line, ''),
	COALESCE(software_vendor, ''),
	COALESCE(software_in_use, '')
FROM services
ORDER BY cn_unique_key, id`

const listProspectsQuery = `SELECT
	id,
	account_global_legal_name,
	COALESCE(center_name, ''),
	COALESCE(first_name, ''),
	COALESCE(last_name, ''),
	COALESCE(title, ''),
	COALESCE(department, ''),
	COALESCE(level, ''),
	COALESCE(city, ''),
	COALESCE(state, ''),
	COALESCE(country, ''),
	COALESCE(email, ''),
	COALESCE(linkedin_link, '')
FROM prospects
ORDER BY account_global_legal_name, id`

// datasetRepository implements DatasetRepository interface
type datasetRepository struct {
	db db.DBTX
}

// NewDatasetRepository creates a new dataset repository
func NewDatasetRepository(conn db.DBTX) DatasetRepository {
	return &datasetRepository{db: conn}
}

// ListAccounts retrieves every account
func (r *datasetRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.Query(ctx, listAccountsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	accounts, err := pgx.CollectRows(rows, scanAccount)
	if err != nil {
		return nil, fmt.Errorf("failed to scan accounts: %w", err)
	}
	return accounts, nil
}

// ListAccountsByNames retrieves the accounts with the given names in one query
func (r *datasetRepository) ListAccountsByNames(ctx context.Context, names []string) ([]domain.Account, error) {
	if len(names) == 0 {
		return []domain.Account{}, nil
	}
	folded := make([]string, 0, len(names))
	for _, name := range names {
		if key := strings.ToLower(strings.TrimSpace(name)); key != "" {
			folded = append(folded, key)
		}
	}
	rows, err := r.db.Query(ctx, listAccountsByNamesQuery, folded)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts by names: %w", err)
	}
	accounts, err := pgx.CollectRows(rows, scanAccount)
	if err != nil {
		return nil, fmt.Errorf("failed to scan accounts: %w", err)
	}
	return accounts, nil
}

// ListCenters retrieves every center
func (r *datasetRepository) ListCenters(ctx context.Context) ([]domain.Center, error) {
	rows, err := r.db.Query(ctx, listCentersQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list centers: %w", err)
	}
	centers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Center, error) {
		var (
			c        domain.Center
			incYear  pgtype.Int4
			lat, lng pgtype.Float8
		)
		err := row.Scan(
			&c.Key, &c.AccountName, &c.Name, &c.Type, &c.Focus, &c.City, &c.State, &c.Country,
			&c.Status, &c.EmployeesRange, &incYear, &lat, &lng, &c.BusinessSegment, &c.Website,
		)
		c.IncYear = intPtr(incYear)
		c.Latitude = floatPtr(lat)
		c.Longitude = floatPtr(lng)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan centers: %w", err)
	}
	return centers, nil
}

// ListFunctions retrieves every center function
func (r *datasetRepository) ListFunctions(ctx context.Context) ([]domain.Function, error) {
	rows, err := r.db.Query(ctx, listFunctionsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list functions: %w", err)
	}
	functions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Function, error) {
		var f domain.Function
		err := row.Scan(&f.CenterKey, &f.Name)
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan functions: %w", err)
	}
	return functions, nil
}

// ListServices retrieves every center service
func (r *datasetRepository) ListServices(ctx context.Context) ([]domain.Service, error) {
	rows, err := r.db.Query(ctx, listServicesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	services, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Service, error) {
		var s domain.Service
		err := row.Scan(
			&s.CenterKey, &s.AccountName, &s.CenterName, &s.PrimaryService,
			&s.FocusRegion, &s.ServiceLine, &s.SoftwareVendor, &s.SoftwareInUse,
		)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan services: %w", err)
	}
	return services, nil
}

// ListProspects retrieves every prospect
func (r *datasetRepository) ListProspects(ctx context.Context) ([]domain.Prospect, error) {
	rows, err := r.db.Query(ctx, listProspectsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list prospects: %w", err)
	}
	prospects, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Prospect, error) {
		var p domain.Prospect
		err := row.Scan(
			&p.ID, &p.AccountName, &p.CenterName, &p.FirstName, &p.LastName, &p.Title,
			&p.Department, &p.Level, &p.City, &p.State, &p.Country, &p.Email, &p.LinkedIn,
		)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan prospects: %w", err)
	}
	return prospects, nil
}

func scanAccount(row pgx.CollectableRow) (domain.Account, error) {
	var (
		a         domain.Account
		revenue   pgtype.Numeric
		firstYear pgtype.Int4
	)
	err := row.Scan(
		&a.GlobalLegalName, &a.HQCountry, &a.HQRegion, &a.HQIndustry, &a.HQSubIndustry,
		&a.PrimaryCategory, &a.PrimaryNature, &a.NasscomStatus, &a.EmployeesRange,
		&a.CenterEmployees, &a.RevenueRange, &revenue, &a.Website, &firstYear, &a.Description,
	)
	if err != nil {
		return a, err
	}
	a.Revenue = numericToDecimal(revenue)
	a.FirstCenterYear = intPtr(firstYear)
	return a, nil
}

func numericToDecimal(n pgtype.Numeric) decimal.NullDecimal {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite || n.Int == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromBigInt(n.Int, n.Exp))
}

func intPtr(v pgtype.Int4) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int32)
	return &i
}

func floatPtr(v pgtype.Float8) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
