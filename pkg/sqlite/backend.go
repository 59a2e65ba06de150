// Package sqlite provides the public constructor for the SQLite record store
// while keeping implementation details internal.
package sqlite

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/workledger/internal/sqlite"
	"github.com/mesh-intelligence/workledger/pkg/types"
)

// Backend is the SQLite record store.
type Backend = sqlite.Backend

// Option configures a Backend.
type Option = sqlite.Option

// WithMetrics and WithClock re-export the internal options.
var (
	WithMetrics = sqlite.WithMetrics
	WithClock   = sqlite.WithClock
)

// NewBackend creates a SQLite record store. The store is not ready; call Open
// before use.
//
// Example:
//
//	backend := sqlite.NewBackend(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".workledger",
//	}, nil, logger)
//	if backend.Open(ctx) {
//	    defer backend.Close()
//	}
func NewBackend(cfg types.Config, cache types.LegacyCache, logger *zap.Logger, opts ...Option) *Backend {
	return sqlite.NewBackend(cfg, cache, logger, opts...)
}
