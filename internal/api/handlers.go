package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/rpattn/bidash/internal/aggregate"
	"github.com/rpattn/bidash/internal/apierror"
	"github.com/rpattn/bidash/internal/config"
	"github.com/rpattn/bidash/internal/detail"
	"github.com/rpattn/bidash/internal/domain"
	"github.com/rpattn/bidash/internal/entityloader"
	"github.com/rpattn/bidash/internal/middleware"
	"github.com/rpattn/bidash/internal/table"
)

const (
	maxBodyBytes      = 1 << 20
	maxLookupAccounts = 500
)

// queryPayload is the body shared by the filter driven endpoints.
type queryPayload struct {
	Filters domain.Filters `json:"filters"`
	TopN    int            `json:"topN,omitempty"`
}

// decodeJSON reads the request body into v. An empty body leaves v untouched
// when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) error {
	defer r.Body.Close()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON body: %v", apierror.ErrBadRequest, err)
	}
	return nil
}

func decodeQuery(w http.ResponseWriter, r *http.Request) (queryPayload, error) {
	var payload queryPayload
	if err := decodeJSON(w, r, &payload, true); err != nil {
		return queryPayload{}, err
	}
	if err := payload.Filters.Validate(); err != nil {
		return queryPayload{}, err
	}
	return payload, nil
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	apierror.Write(w, s.logger, err)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			s.fail(w, fmt.Errorf("%w: %w", domain.ErrUnavailable, err))
			return
		}
	}
	apierror.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type configResponse struct {
	MapAccessToken string   `json:"mapAccessToken,omitempty"`
	MapStyleURL    string   `json:"mapStyleUrl"`
	Missing        []string `json:"missing"`
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	missing := append([]string{}, s.cfg.MapMissing()...)
	apierror.WriteJSON(w, http.StatusOK, configResponse{
		MapAccessToken: s.cfg.Map.AccessToken,
		MapStyleURL:    s.cfg.Map.StyleURL,
		Missing:        missing,
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeQuery(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	snap, err := s.datasets.Snapshot(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	result := snap.Engine.Apply(payload.Filters)
	apierror.WriteJSON(w, http.StatusOK, aggregate.BuildDashboard(result, aggregate.Options{TopN: payload.TopN}))
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeQuery(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	snap, err := s.datasets.Snapshot(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	apierror.WriteJSON(w, http.StatusOK, snap.Engine.Options(payload.Filters))
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", apierror.ErrBadRequest, name)
	}
	return v, nil
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseEntityKind(r.PathValue("entity"))
	if err != nil {
		s.fail(w, err)
		return
	}
	page, err := intParam(r, "page")
	if err != nil {
		s.fail(w, err)
		return
	}
	pageSize, err := intParam(r, "pageSize")
	if err != nil {
		s.fail(w, err)
		return
	}
	payload, err := decodeQuery(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	snap, err := s.datasets.Snapshot(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}

	tbl, err := table.FromResult(snap.Engine.Apply(payload.Filters), kind)
	if err != nil {
		s.fail(w, err)
		return
	}
	q := r.URL.Query()
	listing, err := tbl.List(table.Query{
		Page:     page,
		PageSize: pageSize,
		Sort: domain.TableSort{
			Column:    q.Get("sort"),
			Direction: domain.ParseSortDirection(q.Get("dir")),
		},
		Search: q.Get("search"),
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	apierror.WriteJSON(w, http.StatusOK, listing)
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	if keys := s.cfg.MapMissing(); len(keys) > 0 {
		s.fail(w, &config.MissingError{Keys: keys})
		return
	}
	payload, err := decodeQuery(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	snap, err := s.datasets.Snapshot(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	apierror.WriteJSON(w, http.StatusOK, aggregate.GeoJSON(snap.Engine.Apply(payload.Filters).Centers))
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	snap, err := s.datasets.Snapshot(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	out, err := detail.Account(snap.Engine, r.PathValue("name"))
	if err != nil {
		s.fail(w, err)
		return
	}
	apierror.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleCenter(w http.ResponseWriter, r *http.Request) {
	snap, err := s.datasets.Snapshot(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	out, err := detail.Center(snap.Engine, r.PathValue("key"))
	if err != nil {
		s.fail(w, err)
		return
	}
	apierror.WriteJSON(w, http.StatusOK, out)
}

type lookupPayload struct {
	Names []string `json:"names"`
}

type lookupResponse struct {
	Accounts []domain.Account `json:"accounts"`
	Missing  []string         `json:"missing"`
}

// handleAccountLookup resolves a batch of account names straight from the
// database, bypassing the cached snapshot.
func (s *Server) handleAccountLookup(w http.ResponseWriter, r *http.Request) {
	var payload lookupPayload
	if err := decodeJSON(w, r, &payload, false); err != nil {
		s.fail(w, err)
		return
	}
	if len(payload.Names) > maxLookupAccounts {
		s.fail(w, fmt.Errorf("%w: at most %d names per lookup", apierror.ErrBadRequest, maxLookupAccounts))
		return
	}

	loader := middleware.AccountLoaderFromContext(r.Context())
	if loader == nil {
		loader = entityloader.NewAccountLoader(s.accounts)
	}
	found, missing, err := loader.LoadMany(r.Context(), payload.Names)
	if err != nil {
		s.fail(w, fmt.Errorf("%w: %w", domain.ErrUnavailable, err))
		return
	}
	s.logger.Debug("account lookup",
		zap.Int("requested", len(payload.Names)),
		zap.Int("found", len(found)),
		zap.Int("missing", len(missing)),
	)
	apierror.WriteJSON(w, http.StatusOK, lookupResponse{Accounts: found, Missing: missing})
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	s.datasets.Invalidate()
	apierror.WriteJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
