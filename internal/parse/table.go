package parse

import (
	"github.com/joseph-ayodele/invoice-extractor/internal/patterns"
)

// RawRow is one unnormalized line-item capture, in the fixed group order
// the row grammar promises.
type RawRow struct {
	Description string
	Quantity    string
	UnitPrice   string
	LineTotal   string
}

// Table locates the line-item region of text and applies the row grammar
// to it. Missing markers degrade gracefully: no start marker means the
// region begins at the top of the text, no end marker means it runs to
// end-of-text. Lines the grammar does not match (dividers, headers) are
// skipped. An empty result is valid, not an error.
//
// The row grammar is evaluated against the bounded region only, which
// keeps worst-case matching cost proportional to the table, not the
// document.
func Table(text string, rs *patterns.RuleSet) []RawRow {
	table := rs.Table()

	region := text
	if loc := table.Start.FindStringIndex(region); loc != nil {
		region = region[loc[1]:]
	}
	if loc := table.End.FindStringIndex(region); loc != nil {
		region = region[:loc[0]]
	}

	matches := table.Row.FindAllStringSubmatch(region, -1)
	rows := make([]RawRow, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, RawRow{
			Description: m[1],
			Quantity:    m[2],
			UnitPrice:   m[3],
			LineTotal:   m[4],
		})
	}
	return rows
}
