// Package textextract acquires raw UTF-8 text from source documents. The
// parsing core is agnostic to how text was produced; this package is the
// seam where an OCR engine or remote extraction service would plug in.
package textextract

import (
	"context"
	"time"
)

// TextExtractor is Stage 1: file -> text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "plain"
	Duration time.Duration
	Warnings []string
}
