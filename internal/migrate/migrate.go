// Package migrate drains the legacy key-value cache into the record store.
package migrate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/workledger/internal/logging"
	"github.com/mesh-intelligence/workledger/pkg/types"
)

// Run inserts every legacy entry into store and returns how many were
// accepted. Entries the store rejects are skipped and only logged. Run does
// nothing when the store is not ready or the cache is empty, and it never
// clears the cache; that is left to the caller.
func Run(ctx context.Context, store types.RecordStore, cache types.LegacyCache, logger *zap.Logger) (int, error) {
	logger = logging.OrNop(logger).Named("migrate")

	if !store.Ready() {
		logger.Debug("store not ready, skipping migration")
		return 0, nil
	}

	entries, err := cache.Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading legacy cache: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	migrated := 0
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return migrated, err
		}
		if _, err := store.Insert(ctx, e.Draft()); err != nil {
			logger.Debug("skipping legacy entry",
				zap.Int("index", i),
				zap.String("date", e.Date),
				zap.Error(err),
			)
			continue
		}
		migrated++
	}

	logger.Info("legacy cache migrated",
		zap.Int("migrated", migrated),
		zap.Int("skipped", len(entries)-migrated),
	)
	return migrated, nil
}
