package filter

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rpattn/bidash/internal/domain"
)

const defaultMemoSize = 256

// Engine filters one immutable dataset. Indexes are built once in NewEngine;
// results are memoized per normalized filter state. Safe for concurrent use.
type Engine struct {
	dataset *domain.Dataset

	accountIndex       map[string]int
	centerIndex        map[string]int
	centersByAccount   map[string][]int
	functionsByCenter  map[string][]int
	functionKeys       map[string][]string
	servicesByCenter   map[string][]int
	prospectsByAccount map[string][]int

	memoSize int
	memo     *lru.Cache[string, *Result]
}

type Option func(*Engine)

// WithMemoSize bounds the number of memoized results. Zero disables memoization.
func WithMemoSize(size int) Option {
	return func(e *Engine) {
		if size >= 0 {
			e.memoSize = size
		}
	}
}

// NewEngine indexes the dataset. A nil dataset is treated as empty.
func NewEngine(dataset *domain.Dataset, opts ...Option) *Engine {
	if dataset == nil {
		dataset = &domain.Dataset{}
	}
	e := &Engine{
		dataset:            dataset,
		accountIndex:       make(map[string]int, len(dataset.Accounts)),
		centerIndex:        make(map[string]int, len(dataset.Centers)),
		centersByAccount:   make(map[string][]int),
		functionsByCenter:  make(map[string][]int),
		functionKeys:       make(map[string][]string),
		servicesByCenter:   make(map[string][]int),
		prospectsByAccount: make(map[string][]int),
		memoSize:           defaultMemoSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.memoSize > 0 {
		memo, err := lru.New[string, *Result](e.memoSize)
		if err == nil {
			e.memo = memo
		}
	}

	for i := range dataset.Accounts {
		key := normalizeKey(dataset.Accounts[i].GlobalLegalName)
		if _, exists := e.accountIndex[key]; !exists {
			e.accountIndex[key] = i
		}
	}
	for i := range dataset.Centers {
		c := &dataset.Centers[i]
		key := normalizeKey(c.Key)
		if _, exists := e.centerIndex[key]; !exists {
			e.centerIndex[key] = i
		}
		account := normalizeKey(c.AccountName)
		e.centersByAccount[account] = append(e.centersByAccount[account], i)
	}
	for i := range dataset.Functions {
		f := &dataset.Functions[i]
		center := normalizeKey(f.CenterKey)
		e.functionsByCenter[center] = append(e.functionsByCenter[center], i)
		if name := normalizeKey(f.Name); name != "" {
			e.functionKeys[center] = append(e.functionKeys[center], name)
		}
	}
	for i := range dataset.Services {
		center := normalizeKey(dataset.Services[i].CenterKey)
		e.servicesByCenter[center] = append(e.servicesByCenter[center], i)
	}
	for i := range dataset.Prospects {
		account := normalizeKey(dataset.Prospects[i].AccountName)
		e.prospectsByAccount[account] = append(e.prospectsByAccount[account], i)
	}
	return e
}

// Dataset returns the dataset the engine was built from.
func (e *Engine) Dataset() *domain.Dataset {
	return e.dataset
}

// Result holds the filtered records. Records point into the engine's dataset
// and must not be modified.
type Result struct {
	Filters   domain.Filters     `json:"filters"`
	Accounts  []*domain.Account  `json:"accounts"`
	Centers   []*domain.Center   `json:"centers"`
	Functions []*domain.Function `json:"functions"`
	Services  []*domain.Service  `json:"services"`
	Prospects []*domain.Prospect `json:"prospects"`
	Summary   Summary            `json:"summary"`
}

// Count pairs the dataset size with the filtered size for one entity kind.
type Count struct {
	Total    int `json:"total"`
	Filtered int `json:"filtered"`
}

// Summary carries per-kind totals for the header counters.
type Summary struct {
	Accounts      Count `json:"accounts"`
	Centers       Count `json:"centers"`
	Functions     Count `json:"functions"`
	Services      Count `json:"services"`
	Prospects     Count `json:"prospects"`
	ActiveFilters int   `json:"activeFilters"`
}

// Of returns the count for kind.
func (s Summary) Of(kind domain.EntityKind) Count {
	switch kind {
	case domain.EntityKindAccounts:
		return s.Accounts
	case domain.EntityKindCenters:
		return s.Centers
	case domain.EntityKindFunctions:
		return s.Functions
	case domain.EntityKindServices:
		return s.Services
	case domain.EntityKindProspects:
		return s.Prospects
	default:
		return Count{}
	}
}

// Len returns the number of filtered records of kind.
func (r *Result) Len(kind domain.EntityKind) int {
	return r.Summary.Of(kind).Filtered
}

// Apply filters the dataset. Filters are normalized first, so equivalent
// filter states share a memoized result.
func (e *Engine) Apply(filters domain.Filters) *Result {
	filters = filters.Normalize()
	key := fingerprint(filters)
	memoize := e.memo != nil && key != ""
	if memoize {
		if cached, ok := e.memo.Get(key); ok {
			// Records are shared; the filters echo back what this caller sent.
			out := *cached
			out.Filters = filters
			return &out
		}
	}
	result := e.apply(compile(filters))
	result.Filters = filters
	result.Summary.ActiveFilters = filters.ActiveCount()
	if memoize {
		e.memo.Add(key, result)
	}
	return result
}

func (e *Engine) apply(c criteria) *Result {
	ds := e.dataset
	result := &Result{
		Accounts:  []*domain.Account{},
		Centers:   []*domain.Center{},
		Functions: []*domain.Function{},
		Services:  []*domain.Service{},
		Prospects: []*domain.Prospect{},
	}

	passedAccounts := make(map[string]struct{})
	var accountOrder []int
	for i := range ds.Accounts {
		if c.matchAccount(&ds.Accounts[i]) {
			passedAccounts[normalizeKey(ds.Accounts[i].GlobalLegalName)] = struct{}{}
			accountOrder = append(accountOrder, i)
		}
	}

	serviceActive := c.serviceActive()
	passedCenters := make(map[string]struct{})
	accountsWithCenters := make(map[string]struct{})
	for i := range ds.Centers {
		center := &ds.Centers[i]
		account := normalizeKey(center.AccountName)
		if _, ok := passedAccounts[account]; !ok {
			continue
		}
		if !c.matchCenter(center) {
			continue
		}
		key := normalizeKey(center.Key)
		if !c.function.matchSet(e.functionKeys[key]) {
			continue
		}
		if serviceActive && !e.anyServiceMatches(key, c) {
			continue
		}
		result.Centers = append(result.Centers, center)
		passedCenters[key] = struct{}{}
		accountsWithCenters[account] = struct{}{}
	}

	restrictByCenter := c.centerLevelActive()
	visibleAccounts := make(map[string]struct{}, len(accountOrder))
	for _, i := range accountOrder {
		account := &ds.Accounts[i]
		key := normalizeKey(account.GlobalLegalName)
		if restrictByCenter {
			if _, ok := accountsWithCenters[key]; !ok {
				continue
			}
		}
		result.Accounts = append(result.Accounts, account)
		visibleAccounts[key] = struct{}{}
	}

	for i := range ds.Functions {
		if _, ok := passedCenters[normalizeKey(ds.Functions[i].CenterKey)]; ok {
			result.Functions = append(result.Functions, &ds.Functions[i])
		}
	}
	for i := range ds.Services {
		service := &ds.Services[i]
		if _, ok := passedCenters[normalizeKey(service.CenterKey)]; !ok {
			continue
		}
		if c.matchService(service) {
			result.Services = append(result.Services, service)
		}
	}
	for i := range ds.Prospects {
		prospect := &ds.Prospects[i]
		if _, ok := visibleAccounts[normalizeKey(prospect.AccountName)]; !ok {
			continue
		}
		if c.matchProspect(prospect) {
			result.Prospects = append(result.Prospects, prospect)
		}
	}

	result.Summary = Summary{
		Accounts:  Count{Total: len(ds.Accounts), Filtered: len(result.Accounts)},
		Centers:   Count{Total: len(ds.Centers), Filtered: len(result.Centers)},
		Functions: Count{Total: len(ds.Functions), Filtered: len(result.Functions)},
		Services:  Count{Total: len(ds.Services), Filtered: len(result.Services)},
		Prospects: Count{Total: len(ds.Prospects), Filtered: len(result.Prospects)},
	}
	return result
}

func (e *Engine) anyServiceMatches(centerKey string, c criteria) bool {
	for _, idx := range e.servicesByCenter[centerKey] {
		if c.matchService(&e.dataset.Services[idx]) {
			return true
		}
	}
	return false
}

// fingerprint derives a stable key for normalized filters. Matching ignores
// case and selection order, so values are folded and sorted before hashing.
func fingerprint(filters domain.Filters) string {
	for _, info := range domain.Dimensions() {
		values := filters.Selection(info.Key)
		if len(values) == 0 {
			continue
		}
		folded := make([]domain.FilterValue, len(values))
		for i, v := range values {
			folded[i] = domain.FilterValue{Value: strings.ToLower(v.Value), Mode: v.Mode}
		}
		sort.Slice(folded, func(i, j int) bool {
			if folded[i].Value != folded[j].Value {
				return folded[i].Value < folded[j].Value
			}
			return folded[i].Mode < folded[j].Mode
		})
		filters = filters.WithSelection(info.Key, folded)
	}
	payload, err := json.Marshal(filters)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
