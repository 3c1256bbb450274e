package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rpattn/bidash/internal/api"
	"github.com/rpattn/bidash/internal/dataset"
	"github.com/rpattn/bidash/internal/db"
	"github.com/rpattn/bidash/internal/export"
	"github.com/rpattn/bidash/internal/repository"
	"github.com/rpattn/bidash/internal/savedfilters"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", true, "apply pending migrations before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if migrateOnStart {
		if err := db.RunMigrations(cfg.Database, logger); err != nil {
			return err
		}
	}

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	datasetRepo := repository.NewDatasetRepository(conn.Pool)
	savedFilterRepo := repository.NewSavedFilterRepository(conn.Pool)

	datasets := dataset.NewService(datasetRepo,
		dataset.WithTTL(cfg.Cache.DatasetTTL),
		dataset.WithResultCacheSize(cfg.Cache.ResultSize),
		dataset.WithLogger(logger.Named("dataset")),
	)
	exporter := export.NewService(datasets, export.WithLogger(logger.Named("export")))

	server := api.NewServer(api.Deps{
		Config:       cfg,
		Datasets:     datasets,
		Accounts:     datasetRepo,
		SavedFilters: savedfilters.NewService(savedFilterRepo, savedfilters.WithLogger(logger.Named("savedfilters"))),
		Export:       export.NewHTTPHandler(exporter, logger.Named("export")),
		DB:           conn,
		Logger:       logger.Named("http"),
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Warm the snapshot so the first dashboard request is fast.
	go func() {
		if _, err := datasets.Snapshot(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("initial dataset load failed", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting dashboard server", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server exited")
	return nil
}
