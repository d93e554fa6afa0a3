// Package export renders assembled invoices into an XLSX workbook with two
// sheets: a summary row per invoice and a detail row per line item.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/pipeline"
)

const (
	invoiceSheet  = "Invoices"
	lineItemSheet = "Line Items"
)

// Service accumulates results during a run and writes the workbook on
// Flush. It satisfies pipeline.Sink.
type Service struct {
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	results []*pipeline.Result
}

func NewService(path string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{path: path, logger: logger}
}

func (s *Service) Write(_ context.Context, res *pipeline.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, res)
	return nil
}

// Flush writes the workbook to the configured path.
func (s *Service) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	f := excelize.NewFile()

	if err := s.writeInvoiceSheet(f); err != nil {
		return err
	}
	if err := s.writeLineItemSheet(f); err != nil {
		return err
	}
	// drop the default sheet and activate the summary
	_ = f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(invoiceSheet); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"path", s.path,
		"invoices", len(s.results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *Service) writeInvoiceSheet(f *excelize.File) error {
	if _, err := f.NewSheet(invoiceSheet); err != nil {
		return err
	}

	headers := []string{
		"Invoice Number",
		"Invoice Date",
		"Due Date",
		"Total Amount",
		"Vendor",
		"Participant",
		"Line Items",
		"Complete Line Items",
		"Incomplete",
		"Errors",
		"Warnings",
		"Source File",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(invoiceSheet, cell, h)
	}

	row := 2
	for _, res := range s.results {
		inv := &res.Invoice
		errs, warns := 0, 0
		for _, d := range res.Report.Diagnostics {
			if d.Severity == constants.SeverityError {
				errs++
			} else {
				warns++
			}
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(invoiceSheet, cell, v)
		}
		write(1, inv.InvoiceNumber)
		write(2, inv.InvoiceDate)
		write(3, inv.DueDate)
		if inv.TotalAmount != nil {
			write(4, *inv.TotalAmount)
		}
		write(5, inv.Vendor.Name)
		write(6, inv.Participant.Name)
		write(7, len(inv.LineItems))
		write(8, inv.CompleteLineItems())
		write(9, inv.Incomplete)
		write(10, errs)
		write(11, warns)
		write(12, inv.SourcePath)
		row++
	}

	_ = f.SetColWidth(invoiceSheet, "A", "A", 18)
	_ = f.SetColWidth(invoiceSheet, "B", "C", 14)
	_ = f.SetColWidth(invoiceSheet, "D", "D", 14)
	_ = f.SetColWidth(invoiceSheet, "E", "F", 32)
	_ = f.SetColWidth(invoiceSheet, "L", "L", 60)
	return nil
}

func (s *Service) writeLineItemSheet(f *excelize.File) error {
	if _, err := f.NewSheet(lineItemSheet); err != nil {
		return err
	}

	headers := []string{
		"Invoice Number",
		"Position",
		"Service Date",
		"Service Code",
		"Quantity",
		"Unit Price",
		"Line Total",
		"Description",
		"Incomplete",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(lineItemSheet, cell, h)
	}

	row := 2
	for _, res := range s.results {
		inv := &res.Invoice
		for i, li := range inv.LineItems {
			write := func(col int, v any) {
				cell, _ := excelize.CoordinatesToCellName(col, row)
				_ = f.SetCellValue(lineItemSheet, cell, v)
			}
			write(1, inv.InvoiceNumber)
			write(2, i+1)
			write(3, li.ServiceDate)
			write(4, li.ServiceCode)
			if li.Quantity != nil {
				write(5, *li.Quantity)
			}
			if li.UnitPrice != nil {
				write(6, *li.UnitPrice)
			}
			if li.LineTotal != nil {
				write(7, *li.LineTotal)
			}
			write(8, truncate(li.ServiceDescription, 140))
			write(9, li.Incomplete)
			row++
		}
	}

	_ = f.SetColWidth(lineItemSheet, "A", "A", 18)
	_ = f.SetColWidth(lineItemSheet, "E", "G", 12)
	_ = f.SetColWidth(lineItemSheet, "H", "H", 48)
	return nil
}

// truncate caps s at n runes, never splitting a multi-byte rune.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
