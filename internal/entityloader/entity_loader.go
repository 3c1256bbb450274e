package entityloader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/graph-gophers/dataloader"

	"github.com/rpattn/bidash/internal/domain"
	"github.com/rpattn/bidash/internal/repository"
)

// AccountLoader batches account lookups by legal name into one query.
type AccountLoader struct {
	Loader *dataloader.Loader
}

func accountKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func NewAccountLoader(repo repository.DatasetRepository) *AccountLoader {
	batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		names := keys.Keys()

		// Fetch accounts in batch
		accounts, err := repo.ListAccountsByNames(ctx, names)
		if err != nil {
			results := make([]*dataloader.Result, len(keys))
			for i := range results {
				results[i] = &dataloader.Result{Error: fmt.Errorf("failed to load accounts: %w", err)}
			}
			return results
		}

		byName := make(map[string]domain.Account, len(accounts))
		for _, a := range accounts {
			byName[accountKey(a.GlobalLegalName)] = a
		}

		// Build results in the same order as keys
		results := make([]*dataloader.Result, len(keys))
		for i, name := range names {
			if a, ok := byName[name]; ok {
				results[i] = &dataloader.Result{Data: a}
			} else {
				results[i] = &dataloader.Result{Error: fmt.Errorf("account %q: %w", name, domain.ErrNotFound)}
			}
		}

		return results
	}

	loader := dataloader.NewBatchedLoader(batchFn, dataloader.WithWait(5*time.Millisecond))

	return &AccountLoader{Loader: loader}
}

// Load resolves a single account by name.
func (l *AccountLoader) Load(ctx context.Context, name string) (domain.Account, error) {
	data, err := l.Loader.Load(ctx, dataloader.StringKey(accountKey(name)))()
	if err != nil {
		return domain.Account{}, err
	}
	account, ok := data.(domain.Account)
	if !ok {
		return domain.Account{}, fmt.Errorf("unexpected loader value %T", data)
	}
	return account, nil
}

// LoadMany resolves several names in one batch. Names that are not found are
// reported in missing rather than as an error.
func (l *AccountLoader) LoadMany(ctx context.Context, names []string) (found []domain.Account, missing []string, err error) {
	keys := make(dataloader.Keys, 0, len(names))
	requested := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		key := accountKey(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, dataloader.StringKey(key))
		requested = append(requested, strings.TrimSpace(name))
	}
	if len(keys) == 0 {
		return []domain.Account{}, []string{}, nil
	}

	values, errs := l.Loader.LoadMany(ctx, keys)()
	found = make([]domain.Account, 0, len(values))
	missing = []string{}
	for i, value := range values {
		if i < len(errs) && errs[i] != nil {
			if !isNotFound(errs[i]) {
				return nil, nil, errs[i]
			}
			missing = append(missing, requested[i])
			continue
		}
		if account, ok := value.(domain.Account); ok {
			found = append(found, account)
		}
	}
	return found, missing, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
