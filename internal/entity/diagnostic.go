package entity

import (
	"fmt"

	"github.com/joseph-ayodele/invoice-extractor/constants"
)

// Diagnostic is one field-level finding attached to an invoice.
type Diagnostic struct {
	Field    string             `json:"field"`
	Severity constants.Severity `json:"severity"`
	Message  string             `json:"message"`
}

// Report accumulates diagnostics for one invoice as it moves through the
// pipeline. A non-empty report never aborts assembly.
type Report struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
}

func (r *Report) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

func (r *Report) Errorf(field, format string, args ...any) {
	r.Add(Diagnostic{Field: field, Severity: constants.SeverityError, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) Warnf(field, format string, args ...any) {
	r.Add(Diagnostic{Field: field, Severity: constants.SeverityWarning, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (r *Report) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == constants.SeverityError {
			return true
		}
	}
	return false
}

// HasErrorFor reports whether field already carries an error-severity
// diagnostic. The validator uses this to avoid double-reporting a field
// that normalization already rejected.
func (r *Report) HasErrorFor(field string) bool {
	for _, d := range r.Diagnostics {
		if d.Field == field && d.Severity == constants.SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity diagnostics.
func (r *Report) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == constants.SeverityError {
			out = append(out, d)
		}
	}
	return out
}
