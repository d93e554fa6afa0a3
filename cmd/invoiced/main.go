// Command invoiced watches an inbox folder and parses invoice documents as
// they arrive, writing results to the destination database.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/ingest"
	"github.com/joseph-ayodele/invoice-extractor/internal/patterns"
	"github.com/joseph-ayodele/invoice-extractor/internal/pipeline"
	"github.com/joseph-ayodele/invoice-extractor/internal/repository"
	"github.com/joseph-ayodele/invoice-extractor/internal/textextract"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if cfg.Ingest.InboxDir == "" {
		logger.Error("INBOX_DIR env var is required")
		os.Exit(2)
	}
	if cfg.Database.DSN == "" {
		logger.Error("DB_URL env var is required")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := patterns.Load(cfg.Patterns.Path, logger)
	if err != nil {
		logger.Error("loading pattern registry", "error", err)
		os.Exit(1)
	}

	db, driver, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()
	if err := repository.EnsureSchema(ctx, db); err != nil {
		logger.Error("ensuring schema", "error", err)
		os.Exit(1)
	}

	proc := pipeline.NewProcessor(
		logger,
		textextract.NewPDFExtractor(),
		pipeline.NewAssembler(registry, logger),
		[]pipeline.Sink{repository.NewInvoiceRepository(db, driver, logger)},
		cfg.Ingest.Workers,
	)

	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{cfg.Ingest.InboxDir},
		InitialScan: cfg.Ingest.InitialScan,
		Debounce:    cfg.Ingest.Debounce,
	}, logger)
	if err != nil {
		logger.Error("starting watcher", "error", err)
		os.Exit(1)
	}

	logger.Info("watching inbox", "dir", cfg.Ingest.InboxDir)
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case path, ok := <-events:
			if !ok {
				return
			}
			if _, err := proc.ProcessFile(ctx, path); err != nil {
				logger.Error("processing failed", "path", path, "error", err)
			}
		case err, ok := <-errs:
			if ok && err != nil {
				logger.Error("watcher error", "error", err)
			}
		}
	}
}
