// Package normalize converts raw string captures into canonical typed
// values. Every function is pure and total over its declared input domain;
// outside it, the returned error unwraps to common.ErrValidation so the
// assembler can contain it as a field diagnostic.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
)

// dateLayouts are tried in order. Day-before-month is fixed, not
// auto-detected: the invoices this was built for are Australian.
var dateLayouts = []string{
	"2006-01-02",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
}

// Date canonicalizes a date string to YYYY-MM-DD. Accepts YYYY-MM-DD,
// D/M/YYYY and DD/MM/YYYY (also with '-' or '.' separators). Idempotent
// for any of its own outputs.
func Date(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", common.ValidationError("date", "empty value")
	}
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, trimmed, time.UTC)
		if err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", common.ValidationError("date", "unrecognized date format: "+trimmed)
}

// currencySymbols are stripped anywhere in the input.
const currencySymbols = "$€£¥"

// Currency parses a money string into a float amount. Currency symbols,
// thousands separators, and surrounding whitespace are stripped; a leading
// minus is accepted. Any residual non-numeric character is a domain error.
func Currency(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return 0, common.ValidationError("currency", "empty value")
	}

	var b strings.Builder
	for _, r := range cleaned {
		switch {
		case r == ',' || unicode.IsSpace(r):
			// thousands separator / internal whitespace
		case strings.ContainsRune(currencySymbols, r):
			// currency symbol
		default:
			b.WriteRune(r)
		}
	}
	cleaned = b.String()

	neg := false
	if strings.HasPrefix(cleaned, "-") {
		neg = true
		cleaned = cleaned[1:]
	}
	if cleaned == "" {
		return 0, common.ValidationError("currency", "no digits in value: "+s)
	}
	for _, r := range cleaned {
		if r != '.' && (r < '0' || r > '9') {
			return 0, common.ValidationError("currency", "non-numeric characters in value: "+s)
		}
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, common.ValidationError("currency", "unparseable amount: "+s)
	}
	if neg {
		v = -v
	}
	return v, nil
}

// Text trims surrounding whitespace and collapses internal control
// characters (including newlines) into single spaces. Runs of plain
// spaces collapse too: column-aligned captures from tabular layouts
// would otherwise carry their padding into the canonical value. Empty
// input yields empty output; that is not an error.
func Text(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inGap := false
	for _, r := range s {
		if unicode.IsControl(r) || r == ' ' {
			inGap = true
			continue
		}
		if inGap && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inGap = false
		b.WriteRune(r)
	}
	return b.String()
}
