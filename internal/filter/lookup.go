package filter

import "github.com/rpattn/bidash/internal/domain"

// AccountByName finds an account by its legal name, ignoring case and padding.
func (e *Engine) AccountByName(name string) (*domain.Account, bool) {
	idx, ok := e.accountIndex[normalizeKey(name)]
	if !ok {
		return nil, false
	}
	return &e.dataset.Accounts[idx], true
}

// CenterByKey finds a center by its unique key.
func (e *Engine) CenterByKey(key string) (*domain.Center, bool) {
	idx, ok := e.centerIndex[normalizeKey(key)]
	if !ok {
		return nil, false
	}
	return &e.dataset.Centers[idx], true
}

// CentersOf lists the centers owned by an account.
func (e *Engine) CentersOf(accountName string) []*domain.Center {
	return pick(e.dataset.Centers, e.centersByAccount[normalizeKey(accountName)])
}

// FunctionsOf lists the functions performed at a center.
func (e *Engine) FunctionsOf(centerKey string) []*domain.Function {
	return pick(e.dataset.Functions, e.functionsByCenter[normalizeKey(centerKey)])
}

// ServicesOf lists the services delivered from a center.
func (e *Engine) ServicesOf(centerKey string) []*domain.Service {
	return pick(e.dataset.Services, e.servicesByCenter[normalizeKey(centerKey)])
}

// ProspectsOf lists the prospects working at an account.
func (e *Engine) ProspectsOf(accountName string) []*domain.Prospect {
	return pick(e.dataset.Prospects, e.prospectsByAccount[normalizeKey(accountName)])
}

func pick[T any](items []T, indexes []int) []*T {
	out := make([]*T, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, &items[idx])
	}
	return out
}
