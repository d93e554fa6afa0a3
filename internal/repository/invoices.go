package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/pipeline"
)

// InvoiceRepository writes assembled invoices to the destination tables.
// It satisfies pipeline.Sink.
type InvoiceRepository interface {
	Write(ctx context.Context, res *pipeline.Result) error
	Flush(ctx context.Context) error
}

type invoiceRepository struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

func NewInvoiceRepository(db *sql.DB, driver string, logger *slog.Logger) InvoiceRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &invoiceRepository{db: db, driver: driver, logger: logger}
}

const insertInvoiceSQL = `
INSERT INTO invoices (
	id, invoice_number, invoice_date, due_date, total_amount,
	vendor_name, participant_name, status, notes,
	rule_set, source_path, incomplete, diagnostics
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertLineItemSQL = `
INSERT INTO invoice_line_items (
	invoice_id, position, service_date, service_code,
	quantity, unit_price, line_total, service_description, notes, incomplete
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Write stores one summary row plus one detail row per line item inside a
// single transaction. Incomplete records are stored like complete ones;
// the diagnostics column says what is wrong with them.
func (r *invoiceRepository) Write(ctx context.Context, res *pipeline.Result) error {
	inv := &res.Invoice

	diagJSON, err := json.Marshal(res.Report.Diagnostics)
	if err != nil {
		return common.WrapError(err, "encode diagnostics")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return common.WrapError(err, "begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, rebind(r.driver, insertInvoiceSQL),
		inv.ID.String(),
		nullString(inv.InvoiceNumber),
		nullString(inv.InvoiceDate),
		nullString(inv.DueDate),
		nullFloat(inv.TotalAmount),
		nullString(inv.Vendor.Name),
		nullString(inv.Participant.Name),
		nullString(inv.Status),
		nullString(inv.Notes),
		res.RuleSet,
		nullString(inv.SourcePath),
		inv.Incomplete,
		string(diagJSON),
	)
	if err != nil {
		return common.WrapError(err, "insert invoice")
	}

	for i, li := range inv.LineItems {
		_, err = tx.ExecContext(ctx, rebind(r.driver, insertLineItemSQL),
			inv.ID.String(),
			i,
			nullString(li.ServiceDate),
			nullString(li.ServiceCode),
			nullFloat(li.Quantity),
			nullFloat(li.UnitPrice),
			nullFloat(li.LineTotal),
			nullString(li.ServiceDescription),
			nullString(li.Notes),
			li.Incomplete,
		)
		if err != nil {
			return common.WrapError(err, "insert line item")
		}
	}

	if err := tx.Commit(); err != nil {
		return common.WrapError(err, "commit")
	}

	r.logger.Info("invoice stored",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"line_items", len(inv.LineItems),
		"incomplete", inv.Incomplete,
	)
	return nil
}

// Flush is a no-op; every Write commits its own transaction.
func (r *invoiceRepository) Flush(ctx context.Context) error {
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
