package constants

// Severity classifies a single diagnostic entry.
type Severity string

// Stable values (these exact strings are stored and exported).
const (
	SeverityWarning Severity = "warning" // suspicious but not disqualifying
	SeverityError   Severity = "error"   // required field missing or invalid
)
