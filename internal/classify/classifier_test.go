package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-extractor/internal/patterns"
)

func testRegistry(t *testing.T) *patterns.Registry {
	t.Helper()
	cfg := `{
	  "vendors": [
	    {
	      "key": "harmony",
	      "name": "Waves of Harmony Pty Ltd",
	      "match": "Waves of Harmony",
	      "patterns": {
	        "invoice_number": "Invoice[:\\s#]*(WOH[0-9]+)",
	        "invoice_date": "Date[:\\s]*([0-9/]+)",
	        "total_amount": "TOTAL\\s*\\$?([0-9,.]+)",
	        "participant": "Participant[:\\s]*([A-Za-z ]+)",
	        "line_items": {"table_start": "Service", "row": "(?m)^([A-Za-z ]+?)\\s+([0-9.]+)\\s+([0-9,.]+)\\s+([0-9,.]+)$", "table_end": "TOTAL"}
	      }
	    },
	    {
	      "key": "harmony_two",
	      "name": "Waves of Harmony (Branch Two)",
	      "match": "Waves of Harmony",
	      "patterns": {
	        "invoice_number": "Invoice[:\\s#]*(WOH[0-9]+)",
	        "invoice_date": "Date[:\\s]*([0-9/]+)",
	        "total_amount": "TOTAL\\s*\\$?([0-9,.]+)",
	        "participant": "Participant[:\\s]*([A-Za-z ]+)",
	        "line_items": {"table_start": "Service", "row": "(?m)^([A-Za-z ]+?)\\s+([0-9.]+)\\s+([0-9,.]+)\\s+([0-9,.]+)$", "table_end": "TOTAL"}
	      }
	    }
	  ],
	  "generic": {
	    "name": "Generic",
	    "patterns": {
	      "invoice_number": "Invoice Number[:\\s]*([A-Z0-9-]+)",
	      "invoice_date": "Invoice Date[:\\s]*([0-9/-]+)",
	      "total_amount": "TOTAL\\s*\\$?([0-9,.]+)",
	      "participant": "Provided To[:\\s]*([A-Za-z ]+)",
	      "line_items": {"table_start": "Description", "row": "(?m)^([A-Za-z ]+?)\\s+([0-9.]+)\\s+([0-9,.]+)\\s+([0-9,.]+)$", "table_end": "TOTAL"}
	    }
	  }
	}`
	reg, err := patterns.Parse([]byte(cfg))
	require.NoError(t, err)
	return reg
}

func TestClassify_IsTotal(t *testing.T) {
	c := New(testRegistry(t), nil)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty input", "", "generic"},
		{"whitespace only", "   \n\t  ", "generic"},
		{"unknown layout", "completely unrelated text", "generic"},
		{"vendor name match", "Tax Invoice\nWaves of Harmony Pty Ltd", "harmony"},
		{"vendor invoice number match", "Invoice # WOH1042", "harmony"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rs := c.Classify(tc.text)
			require.NotNil(t, rs)
			assert.Equal(t, tc.want, rs.Key)
		})
	}
}

func TestClassify_FirstDeclaredVendorWins(t *testing.T) {
	c := New(testRegistry(t), nil)

	// both harmony and harmony_two discriminate on the same vendor name;
	// declaration order breaks the tie
	rs := c.Classify("Waves of Harmony Pty Ltd invoice")
	assert.Equal(t, "harmony", rs.Key)
}

func TestClassify_VendorBeatsGeneric(t *testing.T) {
	c := New(testRegistry(t), nil)

	// text matches generic's invoice_number pattern AND the vendor name;
	// the vendor set must win
	rs := c.Classify("Invoice Number: INV-1\nWaves of Harmony Pty Ltd")
	assert.Equal(t, "harmony", rs.Key)
	assert.False(t, rs.Generic)
}
