package dataset

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/rpattn/bidash/internal/domain"
	"github.com/rpattn/bidash/internal/filter"
	"github.com/rpattn/bidash/internal/repository"
)

const (
	snapshotKey    = "dataset"
	defaultTTL     = 10 * time.Minute
	defaultMemoLen = 256
)

// ErrUnavailable marks failures to load the dataset from the database.
var ErrUnavailable = domain.ErrUnavailable

// Snapshot is an immutable loaded dataset with its filter engine.
type Snapshot struct {
	Dataset  *domain.Dataset
	Engine   *filter.Engine
	LoadedAt time.Time
}

// Service loads and caches dataset snapshots.
type Service struct {
	repo     repository.DatasetRepository
	logger   *zap.Logger
	ttl      time.Duration
	memoSize int
	now      func() time.Time

	cache *expirable.LRU[string, *Snapshot]
	group singleflight.Group

	// mu orders cache writes against Invalidate. A load that started before
	// an invalidation must never be stored after it.
	mu         sync.Mutex
	generation uint64
}

// Option configures the dataset service.
type Option func(*Service)

// WithTTL sets how long a snapshot is served before it is reloaded.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithResultCacheSize bounds the per-snapshot filter result memo.
func WithResultCacheSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.memoSize = size
		}
	}
}

func withClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a dataset service backed by repo.
func NewService(repo repository.DatasetRepository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		logger:   zap.NewNop(),
		ttl:      defaultTTL,
		memoSize: defaultMemoLen,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = expirable.NewLRU[string, *Snapshot](1, nil, s.ttl)
	return s
}

// Snapshot returns the cached snapshot, loading it when absent or expired.
// Concurrent callers share a single load.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	if snap, ok := s.cache.Get(snapshotKey); ok {
		return snap, nil
	}

	s.mu.Lock()
	generation := s.generation
	s.mu.Unlock()
	ch := s.group.DoChan(snapshotKey, func() (any, error) {
		// shared by every waiter, so detached from the first caller's cancellation
		snap, err := s.load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		if s.generation == generation {
			s.cache.Add(snapshotKey, snap)
		}
		s.mu.Unlock()
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

// Invalidate drops the cached snapshot so the next call reloads it.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.generation++
	s.cache.Purge()
	s.group.Forget(snapshotKey)
	s.mu.Unlock()
	s.logger.Info("dataset cache cleared")
}

func (s *Service) load(ctx context.Context) (*Snapshot, error) {
	started := s.now()
	ds := &domain.Dataset{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		accounts, err := s.repo.ListAccounts(gctx)
		if err != nil {
			return fmt.Errorf("failed to load accounts: %w", err)
		}
		ds.Accounts = accounts
		return nil
	})
	g.Go(func() error {
		centers, err := s.repo.ListCenters(gctx)
		if err != nil {
			return fmt.Errorf("failed to load centers: %w", err)
		}
		ds.Centers = centers
		return nil
	})
	g.Go(func() error {
		functions, err := s.repo.ListFunctions(gctx)
		if err != nil {
			return fmt.Errorf("failed to load functions: %w", err)
		}
		ds.Functions = functions
		return nil
	})
	g.Go(func() error {
		services, err := s.repo.ListServices(gctx)
		if err != nil {
			return fmt.Errorf("failed to load services: %w", err)
		}
		ds.Services = services
		return nil
	})
	g.Go(func() error {
		prospects, err := s.repo.ListProspects(gctx)
		if err != nil {
			return fmt.Errorf("failed to load prospects: %w", err)
		}
		ds.Prospects = prospects
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("dataset load failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	ds.LoadedAt = s.now()
	snap := &Snapshot{
		Dataset:  ds,
		Engine:   filter.NewEngine(ds, filter.WithMemoSize(s.memoSize)),
		LoadedAt: ds.LoadedAt,
	}
	s.logger.Info("dataset loaded",
		zap.Int("accounts", len(ds.Accounts)),
		zap.Int("centers", len(ds.Centers)),
		zap.Int("functions", len(ds.Functions)),
		zap.Int("services", len(ds.Services)),
		zap.Int("prospects", len(ds.Prospects)),
		zap.Duration("duration", ds.LoadedAt.Sub(started)),
	)
	return snap, nil
}
