package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable marks failures to reach the database.
	ErrUnavailable = errors.New("database unavailable")
	// ErrSavedFilterNameConflict is returned when a saved filter name is already taken.
	ErrSavedFilterNameConflict = errors.New("saved filter name already exists")
)

// SavedFilter is a named, recallable filter combination.
type SavedFilter struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Filters   Filters   `json:"filters"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSavedFilter creates a new saved filter with immutable pattern
func NewSavedFilter(name string, filters Filters, createdBy string) SavedFilter {
	now := time.Now()
	return SavedFilter{
		ID:        uuid.New(),
		Name:      name,
		Filters:   filters,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithName returns a new saved filter with updated name
func (s SavedFilter) WithName(name string) SavedFilter {
	s.Name = name
	s.UpdatedAt = time.Now()
	return s
}

// WithFilters returns a new saved filter with replaced filter state
func (s SavedFilter) WithFilters(filters Filters) SavedFilter {
	s.Filters = filters
	s.UpdatedAt = time.Now()
	return s
}
