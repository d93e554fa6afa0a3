package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"PATTERNS_PATH", "DB_URL", "DB_MAX_CONNS", "EXPORT_PATH",
		"INBOX_DIR", "INBOX_DEBOUNCE", "INBOX_INITIAL_SCAN", "PIPELINE_WORKERS",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, "config/patterns.json", cfg.Patterns.Path)
	assert.Equal(t, 10, cfg.Database.MaxConns)
	assert.Equal(t, 2*time.Second, cfg.Ingest.Debounce)
	assert.True(t, cfg.Ingest.InitialScan)
	assert.Equal(t, 4, cfg.Ingest.Workers)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PATTERNS_PATH", "/etc/invoices/patterns.json")
	t.Setenv("DB_URL", "postgres://localhost/invoices")
	t.Setenv("DB_MAX_CONNS", "3")
	t.Setenv("INBOX_DEBOUNCE", "500ms")
	t.Setenv("INBOX_INITIAL_SCAN", "false")
	t.Setenv("PIPELINE_WORKERS", "8")

	cfg := LoadConfig()
	assert.Equal(t, "/etc/invoices/patterns.json", cfg.Patterns.Path)
	assert.Equal(t, "postgres://localhost/invoices", cfg.Database.DSN)
	assert.Equal(t, 3, cfg.Database.MaxConns)
	assert.Equal(t, 500*time.Millisecond, cfg.Ingest.Debounce)
	assert.False(t, cfg.Ingest.InitialScan)
	assert.Equal(t, 8, cfg.Ingest.Workers)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Patterns: PatternsConfig{Path: "config/patterns.json"},
		Export:   ExportConfig{Path: "out.xlsx"},
	}
	require.NoError(t, cfg.Validate())

	cfg.Export.Path = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)

	cfg.Patterns.Path = ""
	err = cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestAppError(t *testing.T) {
	err := NewAppError("DB_ERROR", "insert failed", ErrDatabase)
	assert.Equal(t, "DB_ERROR: insert failed: database error", err.Error())
	assert.ErrorIs(t, err, ErrDatabase)

	bare := NewAppError("CONFIG_ERROR", "missing path", nil)
	assert.Equal(t, "CONFIG_ERROR: missing path", bare.Error())
}

func TestValidationError(t *testing.T) {
	err := ValidationError("total_amount", "non-numeric characters in value: N/A")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "total_amount")
	assert.Contains(t, err.Error(), "N/A")
}
