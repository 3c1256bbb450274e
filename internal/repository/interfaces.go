package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rpattn/bidash/internal/domain"
)

// DatasetRepository reads the dashboard record tables.
type DatasetRepository interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	ListCenters(ctx context.Context) ([]domain.Center, error)
	ListFunctions(ctx context.Context) ([]domain.Function, error)
	ListServices(ctx context.Context) ([]domain.Service, error)
	ListProspects(ctx context.Context) ([]domain.Prospect, error)
	// ListAccountsByNames returns the accounts whose names match, ignoring case.
	ListAccountsByNames(ctx context.Context, names []string) ([]domain.Account, error)
}

// SavedFilterRepository defines the interface for saved filter operations
type SavedFilterRepository interface {
	List(ctx context.Context) ([]domain.SavedFilter, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.SavedFilter, error)
	GetByName(ctx context.Context, name string) (domain.SavedFilter, error)
	Create(ctx context.Context, filter domain.SavedFilter) (domain.SavedFilter, error)
	Update(ctx context.Context, filter domain.SavedFilter) (domain.SavedFilter, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
