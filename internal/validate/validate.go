// Package validate checks a fully-normalized invoice against the data
// model's invariants, appending field-level diagnostics to its report.
// Validation never rejects a record outright: a record with defects is
// flagged incomplete and returned.
package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
)

// lineTotalTolerance is the allowed drift between line_total and
// quantity x unit_price before a warning is emitted. Reconciliation is a
// soft expectation, never an error.
const lineTotalTolerance = 0.01

// Invoice validates inv in place, appending diagnostics to rep and setting
// the incomplete flags. Fields that already carry an error diagnostic
// (e.g. a normalization failure) are not reported a second time.
func Invoice(inv *entity.Invoice, rep *entity.Report) {
	requireString(rep, constants.FieldInvoiceNumber, inv.InvoiceNumber)
	requireString(rep, constants.FieldInvoiceDate, inv.InvoiceDate)
	requirePositive(rep, constants.FieldTotalAmount, inv.TotalAmount)
	requireString(rep, constants.FieldVendor, inv.Vendor.Name)
	requireString(rep, constants.FieldParticipant, inv.Participant.Name)

	for i := range inv.LineItems {
		lineItem(rep, i, &inv.LineItems[i])
	}
	inv.Incomplete = rep.HasErrors()
}

func lineItem(rep *entity.Report, idx int, li *entity.LineItem) {
	// service_date and service_code are not produced by the four-group row
	// grammar, so their absence is not a defect; they are validated only
	// when a caller supplied them (normalization already canonicalized
	// service_date in that case).
	requireString(rep, lineField(idx, "service_description"), li.ServiceDescription)
	requirePositive(rep, lineField(idx, "quantity"), li.Quantity)
	requirePositive(rep, lineField(idx, "unit_price"), li.UnitPrice)
	requirePositive(rep, lineField(idx, "line_total"), li.LineTotal)

	if li.Quantity != nil && li.UnitPrice != nil && li.LineTotal != nil {
		expected := *li.Quantity * *li.UnitPrice
		if math.Abs(expected-*li.LineTotal) > lineTotalTolerance {
			rep.Warnf(lineField(idx, "line_total"),
				"line total %.2f differs from quantity x unit price %.2f", *li.LineTotal, expected)
		}
	}

	// Incomplete covers errors recorded here and any recorded earlier for
	// this row (e.g. normalization failures).
	prefix := lineField(idx, "")
	for _, d := range rep.Errors() {
		if strings.HasPrefix(d.Field, prefix) {
			li.Incomplete = true
			break
		}
	}
}

func requireString(rep *entity.Report, field, value string) {
	if rep.HasErrorFor(field) {
		return
	}
	if value == "" {
		rep.Errorf(field, "required field is missing")
	}
}

func requirePositive(rep *entity.Report, field string, value *float64) {
	if rep.HasErrorFor(field) {
		return
	}
	switch {
	case value == nil:
		rep.Errorf(field, "required field is missing")
	case math.IsNaN(*value) || math.IsInf(*value, 0):
		rep.Errorf(field, "value is not finite")
	case *value <= 0:
		rep.Errorf(field, "value must be positive, got %v", *value)
	}
}

func lineField(idx int, name string) string {
	return fmt.Sprintf("%s[%d].%s", constants.FieldLineItems, idx, name)
}
