package entity

import "github.com/google/uuid"

// Party is a named participant on an invoice (the issuing vendor or the
// person the service was provided to).
type Party struct {
	Name string `json:"name"`
}

// Invoice is the root entity, one per source document. Required scalar
// fields are empty/nil when extraction or normalization failed for them;
// the paired diagnostic report says why. Numeric fields are pointers so
// "not found" stays distinguishable from zero.
type Invoice struct {
	ID            uuid.UUID         `json:"id"`
	InvoiceNumber string            `json:"invoice_number"`
	InvoiceDate   string            `json:"invoice_date"` // YYYY-MM-DD
	DueDate       string            `json:"due_date,omitempty"`
	TotalAmount   *float64          `json:"total_amount,omitempty"`
	Vendor        Party             `json:"vendor"`
	Participant   Party             `json:"participant"`
	LineItems     []LineItem        `json:"line_items"`
	Status        string            `json:"status,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`

	// Incomplete is set when any required field is missing or invalid.
	// The record is still returned; it is never silently dropped.
	Incomplete bool `json:"incomplete"`

	SourcePath string `json:"source_path,omitempty"`
}

// LineItem belongs to exactly one Invoice. Slice order is document table
// order and is semantically meaningful for audit.
type LineItem struct {
	ServiceDate        string            `json:"service_date,omitempty"` // YYYY-MM-DD
	ServiceCode        string            `json:"service_code,omitempty"`
	Quantity           *float64          `json:"quantity,omitempty"`
	UnitPrice          *float64          `json:"unit_price,omitempty"`
	LineTotal          *float64          `json:"line_total,omitempty"`
	ServiceDescription string            `json:"service_description"`
	Notes              string            `json:"notes,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`

	// Incomplete marks a partial row: retained, flagged, and excluded
	// from the complete-line-item count.
	Incomplete bool `json:"incomplete"`
}

// CompleteLineItems counts rows with every required field present.
func (inv *Invoice) CompleteLineItems() int {
	n := 0
	for i := range inv.LineItems {
		if !inv.LineItems[i].Incomplete {
			n++
		}
	}
	return n
}
