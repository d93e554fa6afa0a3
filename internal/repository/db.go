// Package repository persists assembled invoices into two related tables:
// an invoice summary table and a line-item detail table. It runs on
// Postgres (pgx stdlib driver) or a local SQLite file, selected by DSN.
package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
)

// DriverForDSN picks the sql driver: postgres URLs go to pgx, anything
// else is treated as a SQLite file path (":memory:" included).
func DriverForDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "pgx"
	}
	return "sqlite"
}

// Open connects and pings the destination database.
func Open(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*sql.DB, string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driver := DriverForDSN(cfg.DSN)
	logger.Info("connecting to database", "driver", driver)

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, driver, common.WrapError(err, "open database")
	}
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, driver, common.WrapError(err, "ping database")
	}

	logger.Info("successfully connected to database")
	return db, driver, nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS invoices (
	id                  TEXT PRIMARY KEY,
	invoice_number      TEXT,
	invoice_date        TEXT,
	due_date            TEXT,
	total_amount        DOUBLE PRECISION,
	vendor_name         TEXT,
	participant_name    TEXT,
	status              TEXT,
	notes               TEXT,
	rule_set            TEXT,
	source_path         TEXT,
	incomplete          BOOLEAN NOT NULL DEFAULT FALSE,
	diagnostics         TEXT,
	created_at          TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS invoice_line_items (
	invoice_id          TEXT NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
	position            INTEGER NOT NULL,
	service_date        TEXT,
	service_code        TEXT,
	quantity            DOUBLE PRECISION,
	unit_price          DOUBLE PRECISION,
	line_total          DOUBLE PRECISION,
	service_description TEXT,
	notes               TEXT,
	incomplete          BOOLEAN NOT NULL DEFAULT FALSE,
	PRIMARY KEY (invoice_id, position)
);
`

// EnsureSchema creates the destination tables when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return common.WrapError(err, "ensure schema")
		}
	}
	return nil
}

// rebind rewrites '?' placeholders to $1..$n for the pgx driver. SQLite
// uses '?' natively.
func rebind(driver, query string) string {
	if driver != "pgx" {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
