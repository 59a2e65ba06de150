package sqlite

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/workledger/internal/legacy"
	"github.com/mesh-intelligence/workledger/pkg/types"
)

const (
	insertRecord = `INSERT INTO work_records (date, quantity, unit_price, total, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`

	selectColumns = `SELECT id, date, quantity, unit_price, total, created_at, updated_at FROM work_records`

	newestFirst = ` ORDER BY date DESC, created_at DESC, id DESC`

	selectAll = selectColumns + newestFirst

	selectRange = selectColumns + ` WHERE date BETWEEN ? AND ?` + newestFirst

	selectStatistics = `SELECT
    COUNT(*),
    COALESCE(SUM(quantity), 0),
    COALESCE(SUM(total), 0),
    COALESCE(AVG(unit_price), 0)
FROM work_records`

	updateRecord = `UPDATE work_records
SET date = ?, quantity = ?, unit_price = ?, total = ?, updated_at = ?
WHERE id = ?`

	selectDump = `SELECT id, date, total FROM work_records ORDER BY id`
)

// Insert validates d and appends it to the table, returning the new ID.
func (b *Backend) Insert(ctx context.Context, d types.Draft) (id int64, err error) {
	defer b.observe(opInsert, time.Now(), &err)

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.ready {
		return 0, types.ErrNotReady
	}
	if err := d.Validate(); err != nil {
		return 0, err
	}

	args := append([]any{d.Date}, d.Args()...)
	now := b.timestamp()
	args = append(args, now, now)

	res, err := b.db.ExecContext(ctx, insertRecord, args...)
	if err != nil {
		b.dumpRows(ctx, err)
		return 0, fmt.Errorf("%w: inserting record: %w", types.ErrStorage, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: reading inserted id: %w", types.ErrStorage, err)
	}
	b.logger.Debug("record inserted", zap.Int64("id", id), zap.String("date", d.Date))
	return id, nil
}

// dumpRows logs every row of the table, as id:date:total, after a failed
// insert. The dump is a single debug-level entry and is skipped when debug
// logging is off. Its own errors are swallowed.
func (b *Backend) dumpRows(ctx context.Context, cause error) {
	if !b.logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	rows, err := b.db.QueryContext(ctx, selectDump)
	if err != nil {
		b.logger.Debug("insert failed; table unreadable", zap.NamedError("cause", cause), zap.Error(err))
		return
	}
	defer rows.Close()

	var dump []string
	for rows.Next() {
		var id int64
		var date string
		var total float64
		if err := rows.Scan(&id, &date, &total); err != nil {
			break
		}
		dump = append(dump, fmt.Sprintf("%d:%s:%g", id, date, total))
	}
	b.logger.Debug("insert failed", zap.NamedError("cause", cause), zap.Int("rows", len(dump)), zap.Strings("table", dump))
}

// GetAll returns every record, newest date first. It skips the readiness
// check: when the store cannot answer, the legacy cache contents are returned
// instead. An error is returned only when that read fails too.
func (b *Backend) GetAll(ctx context.Context) (records []types.WorkRecord, err error) {
	defer b.observe(opGetAll, time.Now(), &err)

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		return b.fallback(ctx, types.ErrNotReady)
	}
	records, err = b.query(ctx, selectAll)
	if err != nil {
		return b.fallback(ctx, err)
	}
	return records, nil
}

func (b *Backend) fallback(ctx context.Context, cause error) ([]types.WorkRecord, error) {
	b.metrics.FallbackRead()
	b.logger.Warn("reading records from legacy cache", zap.Error(cause))
	if b.cache == nil {
		return []types.WorkRecord{}, nil
	}
	entries, err := b.cache.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: reading records: %w (legacy cache: %w)", types.ErrStorage, cause, err)
	}
	return legacy.Records(entries), nil
}

// GetByDateRange returns records whose date lies in [start, end], compared
// as strings. An inverted range returns no records.
func (b *Backend) GetByDateRange(ctx context.Context, start, end string) (records []types.WorkRecord, err error) {
	defer b.observe(opRange, time.Now(), &err)

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.ready {
		return nil, types.ErrNotReady
	}
	records, err = b.query(ctx, selectRange, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: querying range %s..%s: %w", types.ErrStorage, start, end, err)
	}
	return records, nil
}

// GetStatistics aggregates the whole table in one query.
func (b *Backend) GetStatistics(ctx context.Context) (stats types.Statistics, err error) {
	defer b.observe(opStatistics, time.Now(), &err)

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.ready {
		return types.Statistics{}, types.ErrNotReady
	}
	err = b.db.QueryRowContext(ctx, selectStatistics).Scan(
		&stats.TotalRecords,
		&stats.TotalQuantity,
		&stats.TotalAmount,
		&stats.AvgPrice,
	)
	if err != nil {
		return types.Statistics{}, fmt.Errorf("%w: computing statistics: %w", types.ErrStorage, err)
	}
	return stats, nil
}

// Update overwrites date, quantity, unit price and total of the record with
// the given ID and refreshes updated_at. Unless strict updates are configured
// the draft is not validated: the date is stored as given, even when empty,
// and only missing or NaN numerics are rejected, by the NOT NULL constraints.
// Updating an ID that does not exist is not an error.
func (b *Backend) Update(ctx context.Context, id int64, d types.Draft) (err error) {
	defer b.observe(opUpdate, time.Now(), &err)

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.ready {
		return types.ErrNotReady
	}
	if b.config.StrictUpdates {
		if err := d.Validate(); err != nil {
			return err
		}
	}

	args := append([]any{d.Date}, d.Args()...)
	args = append(args, b.timestamp(), id)

	res, err := b.db.ExecContext(ctx, updateRecord, args...)
	if err != nil {
		return fmt.Errorf("%w: updating record %d: %w", types.ErrStorage, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		b.logger.Debug("update matched no record", zap.Int64("id", id))
	}
	return nil
}

// query runs a record SELECT and scans every row. The result is never nil.
func (b *Backend) query(ctx context.Context, query string, args ...any) ([]types.WorkRecord, error) {
	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []types.WorkRecord{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (types.WorkRecord, error) {
	var r types.WorkRecord
	var createdAt, updatedAt string
	if err := s.Scan(&r.ID, &r.Date, &r.Quantity, &r.UnitPrice, &r.Total, &createdAt, &updatedAt); err != nil {
		return types.WorkRecord{}, err
	}
	r.CreatedAt = parseTimestamp(createdAt)
	r.UpdatedAt = parseTimestamp(updatedAt)
	return r, nil
}

func (b *Backend) observe(op string, start time.Time, err *error) {
	b.metrics.Observe(op, start, *err)
}
