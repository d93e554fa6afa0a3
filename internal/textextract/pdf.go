package textextract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor reads embedded text directly from PDF pages. Image-only
// PDFs come back empty; running them through an OCR engine is a separate
// collaborator's job.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (e *PDFExtractor) Extract(ctx context.Context, path string) (TextExtractionResult, error) {
	start := time.Now()

	content, err := os.ReadFile(path)
	if err != nil {
		return TextExtractionResult{}, fmt.Errorf("read file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".pdf" {
		// plain text passthrough for .txt fixtures and pre-extracted dumps
		return TextExtractionResult{
			Text:     string(content),
			Pages:    1,
			Method:   "plain",
			Duration: time.Since(start),
		}, nil
	}

	res, err := extractPDF(ctx, content)
	if err != nil {
		return TextExtractionResult{}, err
	}
	res.Duration = time.Since(start)
	return res, nil
}

func extractPDF(ctx context.Context, content []byte) (TextExtractionResult, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return TextExtractionResult{}, fmt.Errorf("open PDF: %w", err)
	}

	var buf bytes.Buffer
	var warnings []string
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return TextExtractionResult{}, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", i, err))
			continue
		}
		buf.WriteString(text)
		if i < numPages {
			buf.WriteByte('\n')
		}
	}

	return TextExtractionResult{
		Text:     buf.String(),
		Pages:    numPages,
		Method:   "pdf-text",
		Warnings: warnings,
	}, nil
}
