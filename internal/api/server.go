package api

import (
	"context"
	"net/http"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/rpattn/bidash/internal/auth"
	"github.com/rpattn/bidash/internal/config"
	"github.com/rpattn/bidash/internal/dataset"
	"github.com/rpattn/bidash/internal/middleware"
	"github.com/rpattn/bidash/internal/repository"
	"github.com/rpattn/bidash/internal/savedfilters"
)

// Realm is the basic auth realm announced to browsers.
const Realm = "bidash"

// Datasets serves dataset snapshots and drops them on request.
type Datasets interface {
	Snapshot(ctx context.Context) (*dataset.Snapshot, error)
	Invalidate()
}

// Pinger reports database reachability for the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the HTTP API is built from.
type Deps struct {
	Config       config.Config
	Datasets     Datasets
	Accounts     repository.DatasetRepository
	SavedFilters *savedfilters.Service
	Export       http.Handler
	DB           Pinger
	Logger       *zap.Logger
}

// Server exposes the dashboard over HTTP.
type Server struct {
	cfg          config.Config
	datasets     Datasets
	accounts     repository.DatasetRepository
	savedFilters *savedfilters.Service
	export       http.Handler
	db           Pinger
	logger       *zap.Logger
}

func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:          deps.Config,
		datasets:     deps.Datasets,
		accounts:     deps.Accounts,
		savedFilters: deps.SavedFilters,
		export:       deps.Export,
		db:           deps.DB,
		logger:       logger,
	}
}

// Handler returns the fully wrapped router. Everything under /api requires
// basic auth; /healthz stays open for probes.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /api/config", s.handleConfig)
	api.HandleFunc("POST /api/dashboard", s.handleDashboard)
	api.HandleFunc("POST /api/options", s.handleOptions)
	api.HandleFunc("POST /api/tables/{entity}", s.handleTable)
	api.HandleFunc("POST /api/map", s.handleMap)
	api.HandleFunc("GET /api/accounts/{name}", s.handleAccount)
	api.HandleFunc("POST /api/accounts/lookup", s.handleAccountLookup)
	api.HandleFunc("GET /api/centers/{key}", s.handleCenter)
	api.HandleFunc("GET /api/saved-filters", s.handleListSavedFilters)
	api.HandleFunc("POST /api/saved-filters", s.handleCreateSavedFilter)
	api.HandleFunc("GET /api/saved-filters/{id}", s.handleGetSavedFilter)
	api.HandleFunc("PUT /api/saved-filters/{id}", s.handleUpdateSavedFilter)
	api.HandleFunc("DELETE /api/saved-filters/{id}", s.handleDeleteSavedFilter)
	api.HandleFunc("POST /api/cache/clear", s.handleClearCache)
	if s.export != nil {
		api.Handle("POST /api/export", s.export)
	}

	creds := auth.Credentials{Username: s.cfg.Auth.Username, Password: s.cfg.Auth.Password}
	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", s.handleHealth)
	root.Handle("/api/", middleware.Chain(api,
		middleware.BasicAuth(creds, Realm),
		middleware.DataLoaderMiddleware(s.accounts),
	))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
	})

	return middleware.Chain(root,
		middleware.Recover(s.logger),
		middleware.LoggingMiddleware(s.logger),
		corsHandler.Handler,
		middleware.SecurityHeaders(middleware.SecurityHeadersConfig{
			ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		}),
	)
}
