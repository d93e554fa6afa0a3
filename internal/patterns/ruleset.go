package patterns

import (
	"regexp"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
)

// TableRule bounds and parses the line-item region: everything between the
// first Start match and the first End match after it, with Row applied to
// every non-overlapping match inside.
type TableRule struct {
	Start *regexp.Regexp
	Row   *regexp.Regexp
	End   *regexp.Regexp
}

// RuleSet is the compiled extraction rules for one vendor layout (or the
// generic fallback). Immutable once built; safe for concurrent readers.
type RuleSet struct {
	Key     string
	Name    string
	Generic bool

	// match is the vendor-name discriminator; nil when not configured.
	match  *regexp.Regexp
	fields map[string]*regexp.Regexp
	table  TableRule
}

// Field returns the compiled pattern for a scalar field, or nil when the
// rule set does not configure that field.
func (rs *RuleSet) Field(name string) *regexp.Regexp {
	return rs.fields[name]
}

// Table returns the compiled three-part table rule.
func (rs *RuleSet) Table() TableRule {
	return rs.table
}

// Matches decides whether this rule set applies to text: the vendor-name
// discriminator, when configured, is tried first, then the invoice-number
// pattern. Generic never discriminates; it is the unconditional fallback.
func (rs *RuleSet) Matches(text string) bool {
	if rs.Generic {
		return true
	}
	if rs.match != nil && rs.match.MatchString(text) {
		return true
	}
	if re := rs.fields[constants.FieldInvoiceNumber]; re != nil && re.MatchString(text) {
		return true
	}
	return false
}

// caseFlagGroup matches a leading inline flag group that sets or clears
// case folding, e.g. (?i), (?-i) or (?im:...). Non-capturing groups and
// flag groups that say nothing about case, like (?:...) and (?m), do not
// count: they must not opt a rule out of the default folding.
var caseFlagGroup = regexp.MustCompile(`^\(\?[a-zA-Z-]*i[a-zA-Z-]*[:)]`)

// compilePattern compiles a rule pattern, prepending (?i) unless the author
// anchored case explicitly with an inline flag group.
func compilePattern(key, field, pattern string) (*regexp.Regexp, error) {
	if !caseFlagGroup.MatchString(pattern) {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, common.ConfigError("rule set "+key+": field "+field+": invalid pattern", err)
	}
	return re, nil
}

func compileField(key, field, pattern string) (*regexp.Regexp, error) {
	re, err := compilePattern(key, field, pattern)
	if err != nil {
		return nil, err
	}
	if re.NumSubexp() != 1 {
		return nil, common.ConfigError("rule set "+key+": field "+field+": pattern must have exactly one capture group", nil)
	}
	return re, nil
}

func compileRow(key, pattern string) (*regexp.Regexp, error) {
	re, err := compilePattern(key, "line_items.row", pattern)
	if err != nil {
		return nil, err
	}
	if re.NumSubexp() != 4 {
		return nil, common.ConfigError("rule set "+key+": line_items.row must capture exactly four groups (description, quantity, unit price, line total)", nil)
	}
	return re, nil
}

func buildRuleSet(key string, cfg ruleSetConfig, generic bool) (*RuleSet, error) {
	rs := &RuleSet{
		Key:     key,
		Name:    cfg.Name,
		Generic: generic,
		fields:  make(map[string]*regexp.Regexp, len(constants.ScalarFields)),
	}

	if cfg.Match != "" {
		re, err := compilePattern(key, "match", cfg.Match)
		if err != nil {
			return nil, err
		}
		rs.match = re
	}

	scalars := map[string]string{
		constants.FieldInvoiceNumber: cfg.Patterns.InvoiceNumber,
		constants.FieldInvoiceDate:   cfg.Patterns.InvoiceDate,
		constants.FieldDueDate:       cfg.Patterns.DueDate,
		constants.FieldTotalAmount:   cfg.Patterns.TotalAmount,
		constants.FieldVendor:        cfg.Patterns.Vendor,
		constants.FieldParticipant:   cfg.Patterns.Participant,
	}
	for field, pattern := range scalars {
		if pattern == "" {
			continue
		}
		re, err := compileField(key, field, pattern)
		if err != nil {
			return nil, err
		}
		rs.fields[field] = re
	}

	start, err := compilePattern(key, "line_items.table_start", cfg.Patterns.LineItems.TableStart)
	if err != nil {
		return nil, err
	}
	row, err := compileRow(key, cfg.Patterns.LineItems.Row)
	if err != nil {
		return nil, err
	}
	end, err := compilePattern(key, "line_items.table_end", cfg.Patterns.LineItems.TableEnd)
	if err != nil {
		return nil, err
	}
	rs.table = TableRule{Start: start, Row: row, End: end}

	return rs, nil
}
