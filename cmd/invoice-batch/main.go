// Command invoice-batch parses every invoice document under a folder and
// writes the results to the configured destinations (database tables
// and/or an XLSX workbook). One bad document never aborts the run.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/export"
	"github.com/joseph-ayodele/invoice-extractor/internal/patterns"
	"github.com/joseph-ayodele/invoice-extractor/internal/pipeline"
	"github.com/joseph-ayodele/invoice-extractor/internal/repository"
	"github.com/joseph-ayodele/invoice-extractor/internal/textextract"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()

	dir := flag.String("dir", "", "folder of invoice documents to process (required)")
	patternsPath := flag.String("patterns", cfg.Patterns.Path, "pattern registry JSON file")
	dbURL := flag.String("db", cfg.Database.DSN, "destination database DSN (postgres:// URL or sqlite file path)")
	xlsxPath := flag.String("xlsx", cfg.Export.Path, "destination XLSX workbook path")
	workers := flag.Int("workers", cfg.Ingest.Workers, "parallel document workers")
	flag.Parse()

	if *dir == "" {
		logger.Error("-dir is required")
		os.Exit(2)
	}
	if *dbURL == "" && *xlsxPath == "" {
		logger.Error("at least one of -db or -xlsx is required")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	registry, err := patterns.Load(*patternsPath, logger)
	if err != nil {
		logger.Error("loading pattern registry", "error", err)
		os.Exit(1)
	}

	var sinks []pipeline.Sink
	if *dbURL != "" {
		dbCfg := cfg.Database
		dbCfg.DSN = *dbURL
		db, driver, err := repository.Open(ctx, dbCfg, logger)
		if err != nil {
			logger.Error("opening database", "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		if err := repository.EnsureSchema(ctx, db); err != nil {
			logger.Error("ensuring schema", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, repository.NewInvoiceRepository(db, driver, logger))
	}
	if *xlsxPath != "" {
		sinks = append(sinks, export.NewService(*xlsxPath, logger))
	}

	proc := pipeline.NewProcessor(
		logger,
		textextract.NewPDFExtractor(),
		pipeline.NewAssembler(registry, logger),
		sinks,
		*workers,
	)

	stats, err := proc.ProcessFolder(ctx, *dir)
	if err != nil {
		logger.Error("batch failed", "error", err)
		os.Exit(1)
	}
	if stats.Failed > 0 {
		os.Exit(1)
	}
}
