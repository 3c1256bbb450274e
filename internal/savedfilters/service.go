package savedfilters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rpattn/bidash/internal/auth"
	"github.com/rpattn/bidash/internal/domain"
	"github.com/rpattn/bidash/internal/repository"
)

// MaxNameLength bounds saved filter names, counted in characters.
const MaxNameLength = 100

// ErrInvalidName is returned for blank or overlong names.
var ErrInvalidName = errors.New("invalid saved filter name")

// Service manages named filter sets.
type Service struct {
	repo   repository.SavedFilterRepository
	logger *zap.Logger
	now    func() time.Time
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

func NewService(repo repository.SavedFilterRepository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpdateRequest carries the optional changes of an update. Nil fields are left as is.
type UpdateRequest struct {
	Name    *string
	Filters *domain.Filters
}

// NormalizeName trims a name and checks its length.
func NormalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("%w: name must be at most %d characters", ErrInvalidName, MaxNameLength)
	}
	return name, nil
}

func prepareFilters(filters domain.Filters) (domain.Filters, error) {
	if err := filters.Validate(); err != nil {
		return domain.Filters{}, err
	}
	return filters.Normalize(), nil
}

// List returns every saved filter ordered by name.
func (s *Service) List(ctx context.Context) ([]domain.SavedFilter, error) {
	filters, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved filters: %w", err)
	}
	return filters, nil
}

// Get returns one saved filter.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.SavedFilter, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByName returns the saved filter with the given name, ignoring case.
func (s *Service) GetByName(ctx context.Context, name string) (domain.SavedFilter, error) {
	normalized, err := NormalizeName(name)
	if err != nil {
		return domain.SavedFilter{}, err
	}
	return s.repo.GetByName(ctx, normalized)
}

// Create validates and stores a new saved filter owned by the caller.
func (s *Service) Create(ctx context.Context, name string, filters domain.Filters) (domain.SavedFilter, error) {
	normalized, err := NormalizeName(name)
	if err != nil {
		return domain.SavedFilter{}, err
	}
	prepared, err := prepareFilters(filters)
	if err != nil {
		return domain.SavedFilter{}, err
	}

	saved := domain.NewSavedFilter(normalized, prepared, auth.UserOrAnonymous(ctx))
	now := s.now()
	saved.CreatedAt, saved.UpdatedAt = now, now

	created, err := s.repo.Create(ctx, saved)
	if err != nil {
		return domain.SavedFilter{}, err
	}
	s.logger.Info("saved filter created",
		zap.String("id", created.ID.String()),
		zap.String("name", created.Name),
		zap.String("created_by", created.CreatedBy),
		zap.Int("active_filters", created.Filters.ActiveCount()),
	)
	return created, nil
}

// Update renames a saved filter and/or replaces its filters.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (domain.SavedFilter, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.SavedFilter{}, err
	}

	updated := current
	if req.Name != nil {
		name, err := NormalizeName(*req.Name)
		if err != nil {
			return domain.SavedFilter{}, err
		}
		updated = updated.WithName(name)
	}
	if req.Filters != nil {
		prepared, err := prepareFilters(*req.Filters)
		if err != nil {
			return domain.SavedFilter{}, err
		}
		updated = updated.WithFilters(prepared)
	}
	updated.UpdatedAt = s.now()

	saved, err := s.repo.Update(ctx, updated)
	if err != nil {
		return domain.SavedFilter{}, err
	}
	s.logger.Info("saved filter updated", zap.String("id", saved.ID.String()), zap.String("name", saved.Name))
	return saved, nil
}

// Delete removes a saved filter.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("saved filter deleted", zap.String("id", id.String()))
	return nil
}
