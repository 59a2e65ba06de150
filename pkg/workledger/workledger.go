// Package workledger wires the record store, the legacy cache and the
// one-time migration into a ready-to-use ledger.
package workledger

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/workledger/internal/legacy"
	"github.com/mesh-intelligence/workledger/internal/logging"
	"github.com/mesh-intelligence/workledger/pkg/metrics"
	"github.com/mesh-intelligence/workledger/internal/migrate"
	"github.com/mesh-intelligence/workledger/pkg/sqlite"
	"github.com/mesh-intelligence/workledger/pkg/types"
)

// Version is the release version of workledger.
const Version = "0.3.0"

// Store is a record store that can be brought up.
type Store interface {
	types.RecordStore
	Open(ctx context.Context) bool
}

// Init opens store and drains cache into it, clearing the cache when at least
// one entry was migrated. It never fails: problems are logged and leave the
// store not ready or the cache untouched. It returns the migrated count.
func Init(ctx context.Context, store Store, cache types.LegacyCache, logger *zap.Logger) int {
	logger = logging.OrNop(logger)

	if !store.Open(ctx) {
		logger.Warn("record store unavailable, reads fall back to the legacy cache")
		return 0
	}
	if cache == nil {
		return 0
	}

	n, err := migrate.Run(ctx, store, cache, logger)
	if err != nil {
		logger.Warn("legacy migration failed", zap.Error(err))
	}
	if n > 0 {
		if err := cache.Clear(ctx); err != nil {
			logger.Warn("clearing legacy cache", zap.Error(err))
		}
	}
	return n
}

// Ledger is an initialized record store together with its legacy cache.
type Ledger struct {
	*sqlite.Backend

	// Cache is the legacy slot the store falls back to.
	Cache types.LegacyCache

	// Migrated is the number of legacy entries moved into the store by Open.
	Migrated int

	metrics *metrics.Recorder
}

type options struct {
	cache   types.LegacyCache
	metrics *metrics.Recorder
}

// Option configures Open.
type Option func(*options)

// WithCache uses c instead of the slot selected by the config.
func WithCache(c types.LegacyCache) Option {
	return func(o *options) { o.cache = c }
}

// WithMetrics records store operations and migration counts in r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *options) { o.metrics = r }
}

// Open builds the legacy cache and the record store described by cfg, then
// runs Init. Only configuration problems are returned as errors; a store that
// cannot be opened yields a Ledger whose Ready reports false.
func Open(ctx context.Context, cfg types.Config, logger *zap.Logger, opts ...Option) (*Ledger, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.cache == nil {
		cache, err := legacy.New(cfg)
		if err != nil {
			return nil, err
		}
		o.cache = cache
	}

	backend := sqlite.NewBackend(cfg, o.cache, logger, sqlite.WithMetrics(o.metrics))
	n := Init(ctx, backend, o.cache, logger)
	o.metrics.Migrated(n)

	return &Ledger{
		Backend:  backend,
		Cache:    o.cache,
		Migrated: n,
		metrics:  o.metrics,
	}, nil
}

// Metrics returns the recorder passed to Open, or nil.
func (l *Ledger) Metrics() *metrics.Recorder {
	return l.metrics
}

// Close closes the store and any connection held by the legacy cache.
func (l *Ledger) Close() error {
	err := l.Backend.Close()
	if c, ok := l.Cache.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}
