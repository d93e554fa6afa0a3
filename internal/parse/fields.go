// Package parse applies a rule set's compiled patterns to raw text,
// producing unvalidated string captures. Both extractors are pure: no
// state, no I/O, first match in document order.
package parse

import (
	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/patterns"
)

// Capture is one raw scalar capture. Found distinguishes "pattern never
// matched" from "matched an empty group" — the normalizer and validator
// need that difference.
type Capture struct {
	Value string
	Found bool
}

// FieldCaptures maps field name to its raw capture. Fields the rule set
// does not configure are reported as not found.
type FieldCaptures map[string]Capture

// Fields applies every scalar field pattern of rs to text. Patterns may
// span newlines; matching is single-shot per field.
func Fields(text string, rs *patterns.RuleSet) FieldCaptures {
	out := make(FieldCaptures, len(constants.ScalarFields))
	for _, name := range constants.ScalarFields {
		re := rs.Field(name)
		if re == nil {
			out[name] = Capture{}
			continue
		}
		m := re.FindStringSubmatch(text)
		if m == nil {
			out[name] = Capture{}
			continue
		}
		out[name] = Capture{Value: m[1], Found: true}
	}
	return out
}
