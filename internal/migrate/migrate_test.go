package migrate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mesh-intelligence/workledger/internal/legacy"
	"github.com/mesh-intelligence/workledger/internal/sqlite"
	"github.com/mesh-intelligence/workledger/pkg/types"
)

func f(v float64) *float64 { return &v }

func openStore(t *testing.T) *sqlite.Backend {
	t.Helper()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
	b := sqlite.NewBackend(cfg, nil, zaptest.NewLogger(t))
	require.True(t, b.Open(context.Background()))
	t.Cleanup(func() { b.Close() })
	return b
}

func TestRunSkipsInvalidEntries(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	cache := legacy.NewMemory(
		legacy.Entry{Date: "2024-10-01", Quantity: f(10), UnitPrice: f(2), Total: f(20)},
		legacy.Entry{Date: "2024-10-02", Quantity: f(0), UnitPrice: f(2), Total: f(20)},
		legacy.Entry{Date: "2024-10-03", Quantity: f(5), UnitPrice: f(4), Total: f(20)},
	)

	n, err := Run(ctx, store, cache, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-10-03", records[0].Date)
	assert.Equal(t, "2024-10-01", records[1].Date)

	assert.Equal(t, 3, cache.Len(), "Run leaves clearing to the caller")
}

func TestRunEmptyCache(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	n, err := Run(ctx, store, legacy.NewMemory(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	stats, err := store.GetStatistics(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalRecords)
}

func TestRunStoreNotReady(t *testing.T) {
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
	store := sqlite.NewBackend(cfg, nil, nil)
	cache := legacy.NewMemory(legacy.Entry{Date: "2024-10-01", Quantity: f(1), UnitPrice: f(1), Total: f(1)})

	n, err := Run(context.Background(), store, cache, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, cache.Len())
}

type unreadable struct{ legacy.Cache }

func (unreadable) Read(context.Context) ([]legacy.Entry, error) {
	return nil, errors.New("slot corrupted")
}

func TestRunCacheReadError(t *testing.T) {
	_, err := Run(context.Background(), openStore(t), unreadable{}, nil)
	assert.ErrorContains(t, err, "slot corrupted")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cache := legacy.NewMemory(legacy.Entry{Date: "2024-10-01", Quantity: f(1), UnitPrice: f(1), Total: f(1)})
	n, err := Run(ctx, openStore(t), cache, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}
