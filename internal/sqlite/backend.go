// Package sqlite implements the work record store on an embedded SQLite
// database, with the legacy key-value cache as its fallback source.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/workledger/pkg/metrics"
	"github.com/mesh-intelligence/workledger/pkg/types"
)

// DBFileName is the database file created under the configured data directory.
const DBFileName = "workledger.db"

// Operation names used as metric labels.
const (
	opInsert     = "insert"
	opGetAll     = "get_all"
	opRange      = "get_by_date_range"
	opStatistics = "get_statistics"
	opUpdate     = "update"
	opDelete     = "delete"
)

// Backend implements types.RecordStore. It is not ready until Open succeeds;
// every operation except GetAll fails with types.ErrNotReady until then.
type Backend struct {
	mu      sync.RWMutex
	ready   bool
	config  types.Config
	db      *sql.DB
	cache   types.LegacyCache
	logger  *zap.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

var _ types.RecordStore = (*Backend)(nil)

// Option configures a Backend.
type Option func(*Backend)

// WithMetrics records operation counts and latencies in r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(b *Backend) { b.metrics = r }
}

// WithClock overrides the clock used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// NewBackend creates a backend that is not yet open. cache may be nil, in
// which case fallback reads return an empty list and deletes prune nothing.
func NewBackend(cfg types.Config, cache types.LegacyCache, logger *zap.Logger, opts ...Option) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Backend{
		config: cfg.WithDefaults(),
		cache:  cache,
		logger: logger.Named("store"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Path returns the database file path for the configured data directory.
func (b *Backend) Path() string {
	return filepath.Join(dataDir(b.config), DBFileName)
}

func dataDir(cfg types.Config) string {
	if cfg.DataDir == "" {
		return "."
	}
	return cfg.DataDir
}

// Open brings the store up: it opens the database file, applies pragmas and
// makes sure the work_records table exists. Any handle from an earlier Open is
// closed first, so calling Open twice is safe. Failures are logged, never
// returned; the store is simply left not ready.
func (b *Backend) Open(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closeLocked()
	if err := b.openLocked(ctx); err != nil {
		b.logger.Error("store unavailable", zap.String("path", b.Path()), zap.Error(err))
		return false
	}
	b.logger.Info("store ready", zap.String("path", b.Path()))
	return true
}

func (b *Backend) openLocked(ctx context.Context) error {
	if err := b.config.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if err := os.MkdirAll(dataDir(b.config), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(b.Path()))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	// One connection: transactions and plain queries share it, so the delete
	// protocol must issue every statement through its *sql.Tx.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("connecting to database: %w", err)
	}

	b.db = db
	b.setReadyLocked(true)

	if err := ensureSchema(ctx, db); err != nil {
		b.closeLocked()
		return err
	}
	return nil
}

func dsn(path string) string {
	return "file:" + path +
		"?_pragma=busy_timeout(5000)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=journal_mode(WAL)"
}

// Ready reports whether the store is open and its schema verified.
func (b *Backend) Ready() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ready
}

// Close releases the database handle and marks the store not ready.
// Close is idempotent.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closeLocked()
}

func (b *Backend) closeLocked() error {
	b.setReadyLocked(false)
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

func (b *Backend) setReadyLocked(ready bool) {
	b.ready = ready
	b.metrics.SetReady(ready)
}

// timestamp returns the current time in the fixed-width layout stored in
// created_at and updated_at.
func (b *Backend) timestamp() string {
	return b.now().UTC().Format(timeLayout)
}
