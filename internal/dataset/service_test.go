package dataset

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rpattn/bidash/internal/domain"
)

func TestMain(m *testing.M) {
	// the expirable LRU runs a cleanup ticker for the life of the process
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/hashicorp/golang-lru/v2/expirable.NewLRU[...].func1"))
}

type stubDatasetRepo struct {
	loads      atomic.Int32
	release    chan struct{}
	centersErr error
}

func (s *stubDatasetRepo) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	s.loads.Add(1)
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return []domain.Account{{GlobalLegalName: "Acme"}, {GlobalLegalName: "Globex"}}, nil
}

func (s *stubDatasetRepo) ListCenters(ctx context.Context) ([]domain.Center, error) {
	if s.centersErr != nil {
		return nil, s.centersErr
	}
	return []domain.Center{{Key: "C1", AccountName: "Acme"}}, nil
}

func (s *stubDatasetRepo) ListFunctions(ctx context.Context) ([]domain.Function, error) {
	return []domain.Function{{CenterKey: "C1", Name: "IT"}}, nil
}

func (s *stubDatasetRepo) ListServices(ctx context.Context) ([]domain.Service, error) {
	return []domain.Service{}, nil
}

func (s *stubDatasetRepo) ListProspects(ctx context.Context) ([]domain.Prospect, error) {
	return []domain.Prospect{{ID: 1, AccountName: "Acme"}}, nil
}

func (s *stubDatasetRepo) ListAccountsByNames(ctx context.Context, names []string) ([]domain.Account, error) {
	return nil, nil
}

func TestSnapshotLoadsAllTablesAndCaches(t *testing.T) {
	repo := &stubDatasetRepo{}
	loadedAt := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	svc := NewService(repo, withClock(func() time.Time { return loadedAt }))

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Len(t, snap.Dataset.Accounts, 2)
	assert.Len(t, snap.Dataset.Centers, 1)
	assert.Len(t, snap.Dataset.Functions, 1)
	assert.Len(t, snap.Dataset.Prospects, 1)
	assert.Equal(t, loadedAt, snap.LoadedAt)
	assert.Equal(t, 1, snap.Engine.Apply(domain.Filters{}).Summary.Centers.Filtered)

	again, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, snap, again)
	assert.Equal(t, int32(1), repo.loads.Load())
}

func TestSnapshotCollapsesConcurrentLoads(t *testing.T) {
	repo := &stubDatasetRepo{release: make(chan struct{})}
	svc := NewService(repo)

	var wg sync.WaitGroup
	snaps := make([]*Snapshot, 8)
	for i := range snaps {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap, err := svc.Snapshot(context.Background())
			if err == nil {
				snaps[i] = snap
			}
		}(i)
	}
	require.Eventually(t, func() bool { return repo.loads.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(repo.release)
	wg.Wait()

	assert.Equal(t, int32(1), repo.loads.Load())
	for _, snap := range snaps {
		require.NotNil(t, snap)
		assert.Same(t, snaps[0], snap)
	}
}

func TestSnapshotPropagatesLoadErrors(t *testing.T) {
	repo := &stubDatasetRepo{centersErr: errors.New("connection refused")}
	svc := NewService(repo)

	_, err := svc.Snapshot(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "failed to load centers")

	repo.centersErr = nil
	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snap)
}

func TestInvalidateForcesReload(t *testing.T) {
	repo := &stubDatasetRepo{}
	svc := NewService(repo)

	first, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	svc.Invalidate()

	second, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, int32(2), repo.loads.Load())
}

func TestInvalidateDuringLoadDiscardsStaleSnapshot(t *testing.T) {
	repo := &stubDatasetRepo{release: make(chan struct{})}
	svc := NewService(repo)

	done := make(chan *Snapshot, 1)
	go func() {
		snap, err := svc.Snapshot(context.Background())
		if err != nil {
			snap = nil
		}
		done <- snap
	}()
	require.Eventually(t, func() bool { return repo.loads.Load() == 1 }, time.Second, 5*time.Millisecond)

	svc.Invalidate()
	close(repo.release)

	stale := <-done
	require.NotNil(t, stale)

	fresh, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, stale, fresh)
	assert.Equal(t, int32(2), repo.loads.Load())

	again, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, fresh, again)
}

func TestSnapshotExpiresAfterTTL(t *testing.T) {
	repo := &stubDatasetRepo{}
	svc := NewService(repo, WithTTL(30*time.Millisecond))

	first, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	second, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestSnapshotHonoursCallerCancellation(t *testing.T) {
	repo := &stubDatasetRepo{release: make(chan struct{})}
	svc := NewService(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Snapshot(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	close(repo.release)
	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snap)
}
