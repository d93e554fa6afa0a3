package patterns

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
)

const validConfig = `{
  "vendors": [
    {
      "key": "acme",
      "name": "Acme Care Pty Ltd",
      "match": "Acme Care",
      "patterns": {
        "invoice_number": "Invoice No[:\\s]*(ACME-[0-9]+)",
        "invoice_date": "Date[:\\s]*([0-9/]+)",
        "total_amount": "Total\\s*\\$?([0-9,.]+)",
        "participant": "Provided To[:\\s]*([A-Za-z ]+)",
        "line_items": {
          "table_start": "Description\\s+Qty",
          "row": "(?m)^([A-Za-z ]+?)\\s+([0-9.]+)\\s+\\$?([0-9,.]+)\\s+\\$?([0-9,.]+)$",
          "table_end": "Total"
        }
      }
    },
    {
      "key": "beta",
      "name": "Beta Support Services",
      "patterns": {
        "invoice_number": "Ref[:\\s]*(B-[0-9]+)",
        "invoice_date": "Date[:\\s]*([0-9/]+)",
        "total_amount": "Total\\s*\\$?([0-9,.]+)",
        "participant": "Client[:\\s]*([A-Za-z ]+)",
        "line_items": {
          "table_start": "Service\\s+Qty",
          "row": "(?m)^([A-Za-z ]+?)\\s+([0-9.]+)\\s+\\$?([0-9,.]+)\\s+\\$?([0-9,.]+)$",
          "table_end": "Total"
        }
      }
    }
  ],
  "generic": {
    "name": "Generic",
    "patterns": {
      "invoice_number": "Invoice Number[:\\s]*([A-Z0-9-]+)",
      "invoice_date": "Invoice Date[:\\s]*([0-9/-]+)",
      "due_date": "Due Date[:\\s]*([0-9/-]+)",
      "total_amount": "TOTAL\\s*\\$?([0-9,.]+)",
      "participant": "Provided To[:\\s]*([A-Za-z ]+)",
      "line_items": {
        "table_start": "Description\\s+Qty",
        "row": "(?m)^([A-Za-z ]+?)\\s+([0-9.]+)\\s+\\$?([0-9,.]+)\\s+\\$?([0-9,.]+)$",
        "table_end": "TOTAL"
      }
    }
  }
}`

func TestParse_Valid(t *testing.T) {
	reg, err := Parse([]byte(validConfig))
	require.NoError(t, err)

	vendors := reg.Vendors()
	require.Len(t, vendors, 2)
	assert.Equal(t, "acme", vendors[0].Key)
	assert.Equal(t, "beta", vendors[1].Key)
	assert.Equal(t, "Acme Care Pty Ltd", vendors[0].Name)
	assert.False(t, vendors[0].Generic)

	gen := reg.Generic()
	require.NotNil(t, gen)
	assert.True(t, gen.Generic)
	assert.Equal(t, constants.GenericKey, gen.Key)

	rs, ok := reg.Lookup("acme")
	require.True(t, ok)
	assert.Same(t, vendors[0], rs)
	_, ok = reg.Lookup("nope")
	assert.False(t, ok)
}

func TestParse_MissingGeneric(t *testing.T) {
	cfg := `{"vendors": []}`
	_, err := Parse([]byte(cfg))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConfig)
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{not json`))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConfig)
}

func TestParse_MissingRequiredSubKey(t *testing.T) {
	// generic without total_amount
	cfg := `{
	  "generic": {
	    "name": "Generic",
	    "patterns": {
	      "invoice_number": "Invoice Number[:\\s]*([A-Z0-9-]+)",
	      "invoice_date": "Invoice Date[:\\s]*([0-9/-]+)",
	      "participant": "Provided To[:\\s]*([A-Za-z ]+)",
	      "line_items": {"table_start": "a", "row": "(a)(b)(c)(d)", "table_end": "z"}
	    }
	  }
	}`
	_, err := Parse([]byte(cfg))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConfig)
}

func TestParse_WrongCaptureGroupCount(t *testing.T) {
	tests := []struct {
		name string
		row  string
		num  string
	}{
		{"field with two groups", "(a)(b)(c)(d)", "Invoice (No) (X[0-9]+)"},
		{"row with three groups", "(a)(b)(c)", "Invoice No ([0-9]+)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := `{
			  "generic": {
			    "name": "Generic",
			    "patterns": {
			      "invoice_number": "` + tc.num + `",
			      "invoice_date": "Date ([0-9/]+)",
			      "total_amount": "Total ([0-9,.]+)",
			      "participant": "To ([A-Za-z ]+)",
			      "line_items": {"table_start": "a", "row": "` + tc.row + `", "table_end": "z"}
			    }
			  }
			}`
			_, err := Parse([]byte(cfg))
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrConfig)
		})
	}
}

func TestParse_DuplicateVendorKey(t *testing.T) {
	cfg := `{
	  "vendors": [
	    {"key": "acme", "name": "A", "patterns": {"invoice_number": "(a)", "invoice_date": "(a)", "total_amount": "(a)", "participant": "(a)", "line_items": {"table_start": "a", "row": "(a)(b)(c)(d)", "table_end": "z"}}},
	    {"key": "acme", "name": "B", "patterns": {"invoice_number": "(a)", "invoice_date": "(a)", "total_amount": "(a)", "participant": "(a)", "line_items": {"table_start": "a", "row": "(a)(b)(c)(d)", "table_end": "z"}}}
	  ],
	  "generic": {"name": "G", "patterns": {"invoice_number": "(a)", "invoice_date": "(a)", "total_amount": "(a)", "participant": "(a)", "line_items": {"table_start": "a", "row": "(a)(b)(c)(d)", "table_end": "z"}}}
	}`
	_, err := Parse([]byte(cfg))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConfig)
}

func TestParse_ReservedGenericKey(t *testing.T) {
	cfg := `{
	  "vendors": [
	    {"key": "generic", "name": "A", "patterns": {"invoice_number": "(a)", "invoice_date": "(a)", "total_amount": "(a)", "participant": "(a)", "line_items": {"table_start": "a", "row": "(a)(b)(c)(d)", "table_end": "z"}}}
	  ],
	  "generic": {"name": "G", "patterns": {"invoice_number": "(a)", "invoice_date": "(a)", "total_amount": "(a)", "participant": "(a)", "line_items": {"table_start": "a", "row": "(a)(b)(c)(d)", "table_end": "z"}}}
	}`
	_, err := Parse([]byte(cfg))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConfig)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patterns.json")
	require.NoError(t, os.WriteFile(path, []byte(validConfig), 0o600))

	reg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Len(t, reg.Vendors(), 2)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConfig)
}

func TestRuleSet_CaseInsensitiveByDefault(t *testing.T) {
	reg, err := Parse([]byte(validConfig))
	require.NoError(t, err)

	rs, _ := reg.Lookup("acme")
	assert.True(t, rs.Matches("invoice from ACME CARE pty ltd"))
}

func TestRuleSet_InlineGroupsKeepImplicitCaseFolding(t *testing.T) {
	cfg := `{
	  "generic": {
	    "name": "Generic",
	    "patterns": {
	      "invoice_number": "(?:Invoice) Number[:\\s]*([A-Z0-9-]+)",
	      "invoice_date": "(?m)^Invoice Date[:\\s]*([0-9/-]+)",
	      "total_amount": "(?-i)TOTAL\\s*\\$?([0-9,.]+)",
	      "participant": "Provided To[:\\s]*([A-Za-z ]+)",
	      "line_items": {"table_start": "Description", "row": "(?m)^([A-Za-z ]+?)\\s+([0-9.]+)\\s+([0-9,.]+)\\s+([0-9,.]+)$", "table_end": "(?m)^TOTAL"}
	    }
	  }
	}`
	reg, err := Parse([]byte(cfg))
	require.NoError(t, err)
	gen := reg.Generic()

	// a non-capturing group and a non-case flag group do not opt a rule
	// out of case folding
	assert.True(t, gen.Field(constants.FieldInvoiceNumber).MatchString("invoice number: ABC-1"))
	assert.True(t, gen.Field(constants.FieldInvoiceDate).MatchString("invoice date: 01/02/2024"))

	// an explicit case flag does
	assert.False(t, gen.Field(constants.FieldTotalAmount).MatchString("total $5.00"))
	assert.True(t, gen.Field(constants.FieldTotalAmount).MatchString("TOTAL $5.00"))
}

func TestRuleSet_Matches(t *testing.T) {
	reg, err := Parse([]byte(validConfig))
	require.NoError(t, err)

	acme, _ := reg.Lookup("acme")
	beta, _ := reg.Lookup("beta")

	// vendor-name discriminator
	assert.True(t, acme.Matches("billed by Acme Care Pty Ltd"))
	// invoice-number discriminator (beta has no match pattern)
	assert.True(t, beta.Matches("Ref: B-1001"))
	assert.False(t, acme.Matches("some other vendor entirely"))
	// generic matches anything
	assert.True(t, reg.Generic().Matches(""))
}
