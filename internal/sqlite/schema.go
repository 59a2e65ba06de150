package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const tableName = "work_records"

const (
	createWorkRecords = `CREATE TABLE work_records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date TEXT NOT NULL,
    quantity REAL NOT NULL,
    unit_price REAL NOT NULL,
    total REAL NOT NULL,
    created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

	createDateIndex = `CREATE INDEX IF NOT EXISTS idx_work_records_date ON work_records(date);`
)

// timeLayout is fixed width so created_at and updated_at sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// sqliteTimeLayout is what CURRENT_TIMESTAMP produces for rows written
// without explicit timestamps.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// ensureSchema creates work_records and its date index unless the table is
// already present.
func ensureSchema(ctx context.Context, db *sql.DB) error {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, tableName,
	).Scan(&n)
	if err != nil {
		return fmt.Errorf("checking schema: %w", err)
	}
	if n > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{createWorkRecords, createDateIndex} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// parseTimestamp reads a stored timestamp. Unparseable values become the zero
// time.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{timeLayout, sqliteTimeLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
