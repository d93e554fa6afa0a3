package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/invoice-extractor/internal/ingest"
	"github.com/joseph-ayodele/invoice-extractor/internal/textextract"
)

// Sink receives final results. Write is called once per document from
// worker goroutines; Flush once after a batch completes.
type Sink interface {
	Write(ctx context.Context, res *Result) error
	Flush(ctx context.Context) error
}

// BatchStats summarizes one folder run.
type BatchStats struct {
	Scanned    int
	Processed  int
	Incomplete int
	Failed     int
	Elapsed    time.Duration
}

// Processor runs text extraction and assembly over many documents. Each
// document is independent; workers share only the immutable registry
// behind the assembler, so no coordination beyond the sink is needed.
type Processor struct {
	Logger    *slog.Logger
	Extractor textextract.TextExtractor
	Assembler *Assembler
	Sinks     []Sink
	Workers   int

	mu sync.Mutex // serializes sink writes
}

func NewProcessor(logger *slog.Logger, extractor textextract.TextExtractor, assembler *Assembler, sinks []Sink, workers int) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = 4
	}
	return &Processor{
		Logger:    logger,
		Extractor: extractor,
		Assembler: assembler,
		Sinks:     sinks,
		Workers:   workers,
	}
}

// ProcessFile extracts text from one document, assembles it, and hands the
// result to every sink. The only hard failures are acquisition and sink
// errors; parse defects come back inside the result's report.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*Result, error) {
	ext, err := p.Extractor.Extract(ctx, path)
	if err != nil {
		p.Logger.Error("text extraction failed", "path", path, "error", err)
		return nil, err
	}
	p.Logger.Info("text extracted",
		"path", path,
		"method", ext.Method,
		"pages", ext.Pages,
		"bytes", len(ext.Text),
	)

	res := p.Assembler.Assemble(ext.Text)
	res.Invoice.SourcePath = path

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, sink := range p.Sinks {
		if err := sink.Write(ctx, res); err != nil {
			p.Logger.Error("sink write failed", "path", path, "error", err)
			return res, err
		}
	}
	return res, nil
}

// ProcessFolder walks root and processes every discovered document with a
// bounded worker pool. A failed document is counted and logged, never
// fatal: the batch always runs to completion, then sinks are flushed.
func (p *Processor) ProcessFolder(ctx context.Context, root string) (BatchStats, error) {
	start := time.Now()

	paths, err := ingest.ListDocuments(root, nil)
	if err != nil {
		return BatchStats{}, err
	}

	stats := BatchStats{Scanned: len(paths)}
	var statsMu sync.Mutex

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < p.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for path := range jobs {
				res, err := p.ProcessFile(ctx, path)
				statsMu.Lock()
				switch {
				case err != nil:
					stats.Failed++
				case res.Invoice.Incomplete:
					stats.Processed++
					stats.Incomplete++
				default:
					stats.Processed++
				}
				statsMu.Unlock()
				if err != nil {
					p.Logger.Error("processing failed", "worker_id", workerID, "path", path, "error", err)
				}
			}
		}(i + 1)
	}

	for _, path := range paths {
		select {
		case <-ctx.Done():
			// stop feeding; in-flight documents finish
		case jobs <- path:
			continue
		}
		break
	}
	close(jobs)
	wg.Wait()

	for _, sink := range p.Sinks {
		if err := sink.Flush(ctx); err != nil {
			p.Logger.Error("sink flush failed", "error", err)
			return stats, err
		}
	}

	stats.Elapsed = time.Since(start)
	p.Logger.Info("batch complete",
		"root", root,
		"scanned", stats.Scanned,
		"processed", stats.Processed,
		"incomplete", stats.Incomplete,
		"failed", stats.Failed,
		"elapsed_ms", stats.Elapsed.Milliseconds(),
	)
	return stats, nil
}
