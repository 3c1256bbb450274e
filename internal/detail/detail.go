package detail

import (
	"fmt"
	"strings"

	"github.com/rpattn/bidash/internal/domain"
	"github.com/rpattn/bidash/internal/filter"
)

// AccountDetail is everything the account dialog shows.
type AccountDetail struct {
	Account   *domain.Account    `json:"account"`
	Centers   []*domain.Center   `json:"centers"`
	Functions []*domain.Function `json:"functions"`
	Services  []*domain.Service  `json:"services"`
	Prospects []*domain.Prospect `json:"prospects"`
}

// CenterDetail is everything the center dialog shows.
type CenterDetail struct {
	Center    *domain.Center     `json:"center"`
	Account   *domain.Account    `json:"account,omitempty"`
	Functions []*domain.Function `json:"functions"`
	Services  []*domain.Service  `json:"services"`
	Prospects []*domain.Prospect `json:"prospects"`
}

// Account resolves an account and its related records from the snapshot.
func Account(engine *filter.Engine, name string) (AccountDetail, error) {
	account, ok := engine.AccountByName(name)
	if !ok {
		return AccountDetail{}, fmt.Errorf("account %q: %w", name, domain.ErrNotFound)
	}
	out := AccountDetail{
		Account:   account,
		Centers:   engine.CentersOf(account.GlobalLegalName),
		Functions: []*domain.Function{},
		Services:  []*domain.Service{},
		Prospects: engine.ProspectsOf(account.GlobalLegalName),
	}
	for _, c := range out.Centers {
		out.Functions = append(out.Functions, engine.FunctionsOf(c.Key)...)
		out.Services = append(out.Services, engine.ServicesOf(c.Key)...)
	}
	return out, nil
}

// Center resolves a center with its account and the records tied to it.
// Prospects are matched to the center by account and center name.
func Center(engine *filter.Engine, key string) (CenterDetail, error) {
	center, ok := engine.CenterByKey(key)
	if !ok {
		return CenterDetail{}, fmt.Errorf("center %q: %w", key, domain.ErrNotFound)
	}
	out := CenterDetail{
		Center:    center,
		Functions: engine.FunctionsOf(center.Key),
		Services:  engine.ServicesOf(center.Key),
		Prospects: []*domain.Prospect{},
	}
	if account, ok := engine.AccountByName(center.AccountName); ok {
		out.Account = account
	}
	name := strings.TrimSpace(center.Name)
	for _, p := range engine.ProspectsOf(center.AccountName) {
		if name != "" && strings.EqualFold(strings.TrimSpace(p.CenterName), name) {
			out.Prospects = append(out.Prospects, p)
		}
	}
	return out, nil
}
