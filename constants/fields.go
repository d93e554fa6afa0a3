package constants

// Canonical field names used across extraction rules, diagnostics, and
// storage columns. These are the keys the pattern config uses; keep them
// stable, they are part of the config contract.
const (
	FieldInvoiceNumber = "invoice_number"
	FieldInvoiceDate   = "invoice_date"
	FieldDueDate       = "due_date"
	FieldTotalAmount   = "total_amount"
	FieldVendor        = "vendor"
	FieldParticipant   = "participant"
	FieldLineItems     = "line_items"
)

// ScalarFields lists every scalar field a rule set may carry, in the order
// diagnostics and exports present them. FieldVendor and FieldDueDate are
// optional rule entries; the rest are required config sub-keys.
var ScalarFields = []string{
	FieldInvoiceNumber,
	FieldInvoiceDate,
	FieldDueDate,
	FieldTotalAmount,
	FieldVendor,
	FieldParticipant,
}

// RequiredRuleFields are the sub-keys every rule set must configure.
var RequiredRuleFields = []string{
	FieldInvoiceNumber,
	FieldInvoiceDate,
	FieldTotalAmount,
	FieldParticipant,
}

// GenericKey is the registry key of the mandatory fallback rule set.
const GenericKey = "generic"
