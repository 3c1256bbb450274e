package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rpattn/bidash/internal/db"
	"github.com/rpattn/bidash/internal/domain"
)

const uniqueViolation = "23505"

const savedFilterColumns = `id, name, filters, created_by, created_at, updated_at`

// savedFilterRepository implements SavedFilterRepository interface
type savedFilterRepository struct {
	db db.DBTX
}

// NewSavedFilterRepository creates a new saved filter repository
func NewSavedFilterRepository(conn db.DBTX) SavedFilterRepository {
	return &savedFilterRepository{db: conn}
}

// List retrieves all saved filters ordered by name
func (r *savedFilterRepository) List(ctx context.Context) ([]domain.SavedFilter, error) {
	rows, err := r.db.Query(ctx, `SELECT `+savedFilterColumns+` FROM saved_filters ORDER BY LOWER(name)`)
	if err != nil {
		return nil, queryError("list saved filters", err)
	}
	filters, err := pgx.CollectRows(rows, scanSavedFilter)
	if err != nil {
		return nil, queryError("scan saved filters", err)
	}
	return filters, nil
}

// GetByID retrieves a saved filter by ID
func (r *savedFilterRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.SavedFilter, error) {
	rows, err := r.db.Query(ctx, `SELECT `+savedFilterColumns+` FROM saved_filters WHERE id = $1`, id)
	if err != nil {
		return domain.SavedFilter{}, queryError("get saved filter", err)
	}
	return collectOne(rows, "get saved filter")
}

// GetByName retrieves a saved filter by name, ignoring case
func (r *savedFilterRepository) GetByName(ctx context.Context, name string) (domain.SavedFilter, error) {
	rows, err := r.db.Query(ctx, `SELECT `+savedFilterColumns+` FROM saved_filters WHERE LOWER(name) = LOWER($1)`, name)
	if err != nil {
		return domain.SavedFilter{}, queryError("get saved filter by name", err)
	}
	return collectOne(rows, "get saved filter by name")
}

// Create creates a new saved filter
func (r *savedFilterRepository) Create(ctx context.Context, filter domain.SavedFilter) (domain.SavedFilter, error) {
	payload, err := domain.FiltersToJSON(filter.Filters)
	if err != nil {
		return domain.SavedFilter{}, fmt.Errorf("failed to marshal filters: %w", err)
	}
	rows, err := r.db.Query(ctx, `INSERT INTO saved_filters (id, name, filters, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+savedFilterColumns,
		filter.ID, filter.Name, payload, filter.CreatedBy, filter.CreatedAt, filter.UpdatedAt,
	)
	if err != nil {
		return domain.SavedFilter{}, mapWriteError("create saved filter", err)
	}
	return collectOne(rows, "create saved filter")
}

// Update replaces the name and filters of a saved filter
func (r *savedFilterRepository) Update(ctx context.Context, filter domain.SavedFilter) (domain.SavedFilter, error) {
	payload, err := domain.FiltersToJSON(filter.Filters)
	if err != nil {
		return domain.SavedFilter{}, fmt.Errorf("failed to marshal filters: %w", err)
	}
	rows, err := r.db.Query(ctx, `UPDATE saved_filters
SET name = $2, filters = $3, updated_at = $4
WHERE id = $1
RETURNING `+savedFilterColumns,
		filter.ID, filter.Name, payload, filter.UpdatedAt,
	)
	if err != nil {
		return domain.SavedFilter{}, mapWriteError("update saved filter", err)
	}
	return collectOne(rows, "update saved filter")
}

// Delete deletes a saved filter
func (r *savedFilterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM saved_filters WHERE id = $1`, id)
	if err != nil {
		return queryError("delete saved filter", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete saved filter %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanSavedFilter(row pgx.CollectableRow) (domain.SavedFilter, error) {
	var (
		f       domain.SavedFilter
		payload []byte
	)
	if err := row.Scan(&f.ID, &f.Name, &payload, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return f, err
	}
	filters, err := domain.FiltersFromJSON(payload)
	if err != nil {
		return f, err
	}
	f.Filters = filters
	return f, nil
}

// collectOne reads a single row. Constraint violations surface only while
// reading RETURNING rows, so write errors are mapped here too.
func collectOne(rows pgx.Rows, action string) (domain.SavedFilter, error) {
	filter, err := pgx.CollectExactlyOneRow(rows, scanSavedFilter)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SavedFilter{}, fmt.Errorf("failed to %s: %w", action, domain.ErrNotFound)
		}
		return domain.SavedFilter{}, mapWriteError(action, err)
	}
	return filter, nil
}

func mapWriteError(action string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("failed to %s: %w", action, domain.ErrSavedFilterNameConflict)
	}
	return queryError(action, err)
}

// queryError marks database failures as unavailable. Cancellations and stored
// filter blobs that no longer decode keep their own meaning.
func queryError(action string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, domain.ErrInvalidFilters) {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	return fmt.Errorf("failed to %s: %w: %w", action, domain.ErrUnavailable, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
