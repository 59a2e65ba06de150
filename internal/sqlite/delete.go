package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/workledger/internal/legacy"
	"github.com/mesh-intelligence/workledger/pkg/types"
)

const (
	selectByID   = selectColumns + ` WHERE id = ?`
	deleteRecord = `DELETE FROM work_records WHERE id = ?`
)

// Delete removes the record with the given ID inside one transaction:
// check that it exists, delete it, re-check, commit. A missing record commits
// and returns 0. A committed delete also prunes the record from the legacy
// cache. Nothing is retried.
func (b *Backend) Delete(ctx context.Context, id int64) (n int64, err error) {
	defer b.observe(opDelete, time.Now(), &err)

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.ready {
		return 0, types.ErrNotReady
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: %d", types.ErrInvalidID, id)
	}

	log := b.logger.With(zap.String("correlation_id", uuid.NewString()), zap.Int64("id", id))

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin: %w", types.ErrTransaction, err)
	}

	existing, found, err := findRecord(ctx, tx, id)
	if err != nil {
		return 0, rollback(tx, log, fmt.Errorf("%w: looking up record %d: %w", types.ErrStorage, id, err))
	}
	if !found {
		log.Debug("record not found, nothing to delete")
		if err := tx.Commit(); err != nil {
			return 0, fmt.Errorf("%w: commit: %w", types.ErrTransaction, err)
		}
		return 0, nil
	}
	log.Debug("deleting record", zap.String("date", existing.Date), zap.Float64("total", existing.Total))

	res, err := tx.ExecContext(ctx, deleteRecord, id)
	if err == nil {
		n, err = res.RowsAffected()
	}
	if err != nil {
		return 0, rollback(tx, log, fmt.Errorf("%w: deleting record %d: %w", types.ErrStorage, id, err))
	}

	verifyDeleted(ctx, tx, id, log)

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %w", types.ErrTransaction, err)
	}
	log.Info("record deleted", zap.Int64("rows", n))

	if n > 0 {
		b.pruneCache(ctx, id, log)
	}
	return n, nil
}

// findRecord selects the record inside tx. found is false when no row matches.
func findRecord(ctx context.Context, tx *sql.Tx, id int64) (r types.WorkRecord, found bool, err error) {
	r, err = scanRecord(tx.QueryRowContext(ctx, selectByID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return types.WorkRecord{}, false, nil
	}
	if err != nil {
		return types.WorkRecord{}, false, err
	}
	return r, true, nil
}

// verifyDeleted re-reads the row after the delete statement and logs what it
// sees. The outcome never changes the result of Delete.
func verifyDeleted(ctx context.Context, tx *sql.Tx, id int64, log *zap.Logger) {
	_, found, err := findRecord(ctx, tx, id)
	switch {
	case err != nil:
		log.Debug("post-delete check failed", zap.Error(err))
	case found:
		log.Warn("record still present after delete")
	default:
		log.Debug("post-delete check passed")
	}
}

// rollback aborts tx and returns cause. If the rollback itself fails, the
// rollback error is surfaced as a transaction error wrapping both.
func rollback(tx *sql.Tx, log *zap.Logger, cause error) error {
	if err := tx.Rollback(); err != nil {
		log.Error("rollback failed", zap.Error(err), zap.NamedError("cause", cause))
		return fmt.Errorf("%w: rollback: %w (after: %w)", types.ErrTransaction, err, cause)
	}
	log.Warn("delete rolled back", zap.Error(cause))
	return cause
}

func (b *Backend) pruneCache(ctx context.Context, id int64, log *zap.Logger) {
	if b.cache == nil {
		return
	}
	removed, err := legacy.Prune(ctx, b.cache, id)
	if err != nil {
		log.Warn("pruning legacy cache", zap.Error(err))
		return
	}
	if removed > 0 {
		log.Debug("pruned legacy cache", zap.Int("entries", removed))
	}
}
