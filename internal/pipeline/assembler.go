// Package pipeline orchestrates assembly of one invoice from raw text and
// batch processing of many documents. Assembly is a linear state machine:
// CLASSIFIED -> FIELDS_EXTRACTED -> TABLE_EXTRACTED -> NORMALIZED ->
// VALIDATED -> FINAL. No stage is skipped when an earlier one produced
// defects, and FINAL is always reached: there is no "parse failed"
// terminal, only a record whose report may be non-empty.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/classify"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
	"github.com/joseph-ayodele/invoice-extractor/internal/normalize"
	"github.com/joseph-ayodele/invoice-extractor/internal/parse"
	"github.com/joseph-ayodele/invoice-extractor/internal/patterns"
	"github.com/joseph-ayodele/invoice-extractor/internal/validate"
)

// Result is the terminal output of one assembly: the record, its report,
// and which rule set produced it.
type Result struct {
	Invoice entity.Invoice
	Report  entity.Report
	RuleSet string
	Stage   constants.Stage
}

type Assembler struct {
	classifier *classify.Classifier
	logger     *slog.Logger
}

func NewAssembler(registry *patterns.Registry, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		classifier: classify.New(registry, logger),
		logger:     logger,
	}
}

// Assemble runs the full stage sequence over rawText. It is synchronous,
// side-effect-free apart from reading the shared registry, and safe to
// call from many goroutines at once.
func (a *Assembler) Assemble(rawText string) *Result {
	res := &Result{
		Invoice: entity.Invoice{ID: uuid.New()},
	}

	// CLASSIFIED
	rs := a.classifier.Classify(rawText)
	res.RuleSet = rs.Key
	res.Stage = constants.StageClassified

	// FIELDS_EXTRACTED
	captures := parse.Fields(rawText, rs)
	res.Stage = constants.StageFieldsExtracted

	// TABLE_EXTRACTED
	rows := parse.Table(rawText, rs)
	res.Stage = constants.StageTableExtracted

	// NORMALIZED
	a.normalizeScalars(res, rs, captures)
	a.normalizeRows(res, rows)
	res.Stage = constants.StageNormalized

	// VALIDATED
	validate.Invoice(&res.Invoice, &res.Report)
	res.Stage = constants.StageValidated

	// FINAL
	res.Stage = constants.StageFinal
	a.logger.Info("invoice assembled",
		"invoice_id", res.Invoice.ID,
		"rule_set", res.RuleSet,
		"invoice_number", res.Invoice.InvoiceNumber,
		"line_items", len(res.Invoice.LineItems),
		"complete_line_items", res.Invoice.CompleteLineItems(),
		"diagnostics", len(res.Report.Diagnostics),
		"incomplete", res.Invoice.Incomplete,
	)
	return res
}

// normalizeScalars converts the raw scalar captures into typed invoice
// fields. Domain failures become error diagnostics for the field; fields
// the patterns never matched stay unset and are left for the validator.
func (a *Assembler) normalizeScalars(res *Result, rs *patterns.RuleSet, captures parse.FieldCaptures) {
	inv := &res.Invoice
	rep := &res.Report

	if c := captures[constants.FieldInvoiceNumber]; c.Found {
		inv.InvoiceNumber = normalize.Text(c.Value)
	}
	if c := captures[constants.FieldInvoiceDate]; c.Found {
		if d, err := normalize.Date(c.Value); err == nil {
			inv.InvoiceDate = d
		} else {
			addDomainError(rep, constants.FieldInvoiceDate, err)
		}
	}
	if c := captures[constants.FieldDueDate]; c.Found {
		if d, err := normalize.Date(c.Value); err == nil {
			inv.DueDate = d
		} else {
			addDomainError(rep, constants.FieldDueDate, err)
		}
	}
	if c := captures[constants.FieldTotalAmount]; c.Found {
		if v, err := normalize.Currency(c.Value); err == nil {
			inv.TotalAmount = &v
		} else {
			addDomainError(rep, constants.FieldTotalAmount, err)
		}
	}
	if c := captures[constants.FieldParticipant]; c.Found {
		inv.Participant.Name = normalize.Text(c.Value)
	}

	// A vendor-specific rule set identifies the vendor by itself; the
	// generic set only knows the vendor if it has a pattern for it.
	if !rs.Generic {
		inv.Vendor.Name = rs.Name
	} else if c := captures[constants.FieldVendor]; c.Found {
		inv.Vendor.Name = normalize.Text(c.Value)
	}
}

// normalizeRows converts raw row captures into line items, preserving
// document order. A defective cell yields a diagnostic and a partial row,
// never a dropped one.
func (a *Assembler) normalizeRows(res *Result, rows []parse.RawRow) {
	inv := &res.Invoice
	rep := &res.Report

	inv.LineItems = make([]entity.LineItem, 0, len(rows))
	for i, row := range rows {
		li := entity.LineItem{
			ServiceDescription: normalize.Text(row.Description),
		}
		if v, err := normalize.Currency(row.Quantity); err == nil {
			li.Quantity = &v
		} else {
			addDomainError(rep, lineField(i, "quantity"), err)
		}
		if v, err := normalize.Currency(row.UnitPrice); err == nil {
			li.UnitPrice = &v
		} else {
			addDomainError(rep, lineField(i, "unit_price"), err)
		}
		if v, err := normalize.Currency(row.LineTotal); err == nil {
			li.LineTotal = &v
		} else {
			addDomainError(rep, lineField(i, "line_total"), err)
		}
		inv.LineItems = append(inv.LineItems, li)
	}
}

// addDomainError converts a normalizer domain failure into an error
// diagnostic. Anything else would be a programming error; it is still
// contained, with the raw error text, per the no-hard-failure policy.
func addDomainError(rep *entity.Report, field string, err error) {
	if errors.Is(err, common.ErrValidation) {
		rep.Errorf(field, "%v", err)
		return
	}
	rep.Errorf(field, "unexpected normalization failure: %v", err)
}

func lineField(idx int, name string) string {
	return fmt.Sprintf("%s[%d].%s", constants.FieldLineItems, idx, name)
}
