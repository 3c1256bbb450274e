package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rpattn/bidash/internal/dataset"
	"github.com/rpattn/bidash/internal/db"
	"github.com/rpattn/bidash/internal/domain"
	"github.com/rpattn/bidash/internal/export"
	"github.com/rpattn/bidash/internal/repository"
	"github.com/rpattn/bidash/internal/savedfilters"
)

var (
	exportFiltersFile string
	exportSavedName   string
	exportEntities    []string
	exportOut         string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered dataset to an xlsx workbook",
	Long: `Exports the records matching a filter state to a spreadsheet with one
sheet per entity and a summary sheet.

Example:
  bidash export --saved "US accounts" --entities accounts,centers --out us.xlsx`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFiltersFile, "filters", "", "JSON file holding a filter state")
	exportCmd.Flags().StringVar(&exportSavedName, "saved", "", "name of a saved filter to apply")
	exportCmd.Flags().StringSliceVar(&exportEntities, "entities", nil, "entities to export (default all)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output path (default a timestamped file in the working directory)")
	exportCmd.MarkFlagsMutuallyExclusive("filters", "saved")
}

func readFiltersFile(path string) (domain.Filters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Filters{}, fmt.Errorf("failed to read filters: %w", err)
	}
	filters, err := domain.FiltersFromJSON(data)
	if err != nil {
		return domain.Filters{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return filters, nil
}

func parseEntities(raw []string) ([]domain.EntityKind, error) {
	var kinds []domain.EntityKind
	for _, value := range raw {
		if strings.TrimSpace(value) == "" {
			continue
		}
		kind, err := domain.ParseEntityKind(value)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func entitiesOrAll(kinds []domain.EntityKind) []domain.EntityKind {
	if len(kinds) == 0 {
		return domain.EntityKinds()
	}
	return kinds
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	entities, err := parseEntities(exportEntities)
	if err != nil {
		return err
	}
	var filters domain.Filters
	if exportFiltersFile != "" {
		if filters, err = readFiltersFile(exportFiltersFile); err != nil {
			return err
		}
	}

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	if exportSavedName != "" {
		saved, err := savedfilters.NewService(repository.NewSavedFilterRepository(conn.Pool)).GetByName(ctx, exportSavedName)
		if err != nil {
			return fmt.Errorf("failed to load saved filter %q: %w", exportSavedName, err)
		}
		filters = saved.Filters
	}

	datasets := dataset.NewService(repository.NewDatasetRepository(conn.Pool),
		dataset.WithResultCacheSize(0),
		dataset.WithLogger(logger.Named("dataset")),
	)
	service := export.NewService(datasets, export.WithLogger(logger.Named("export")))

	req := export.Request{Filters: filters, Entities: entities}
	if _, err := export.Prepare(req); err != nil {
		return err
	}

	dir := "."
	if exportOut != "" {
		dir = filepath.Dir(exportOut)
	}
	tmp, err := os.CreateTemp(dir, ".bidash-export-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	wb, err := service.Export(ctx, req, tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to write output file: %w", cerr)
	}
	if err != nil {
		return err
	}
	out := exportOut
	if out == "" {
		out = filepath.Join(dir, wb.FileName)
	}
	if err := os.Rename(tmp.Name(), out); err != nil {
		return fmt.Errorf("failed to move export into place: %w", err)
	}

	fields := []zap.Field{zap.String("path", out), zap.Int64("bytes", wb.Bytes)}
	for _, kind := range entitiesOrAll(entities) {
		fields = append(fields, zap.Int(string(kind), wb.Rows[kind]))
	}
	logger.Info("export written", fields...)
	return nil
}
