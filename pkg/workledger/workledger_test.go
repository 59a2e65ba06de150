package workledger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mesh-intelligence/workledger/internal/legacy"
	"github.com/mesh-intelligence/workledger/pkg/metrics"
	"github.com/mesh-intelligence/workledger/pkg/sqlite"
	"github.com/mesh-intelligence/workledger/pkg/types"
)

func f(v float64) *float64 { return &v }

func threeEntries() []legacy.Entry {
	return []legacy.Entry{
		{Date: "2024-10-01", Quantity: f(10), UnitPrice: f(2), Total: f(20)},
		{Date: "2024-10-02", Quantity: f(-1), UnitPrice: f(2), Total: f(20)},
		{Date: "2024-10-03", Quantity: f(5), UnitPrice: f(4), Total: f(20)},
	}
}

func testConfig(t *testing.T) types.Config {
	return types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
}

func TestInitMigratesAndClearsCache(t *testing.T) {
	ctx := context.Background()
	cache := legacy.NewMemory(threeEntries()...)
	store := sqlite.NewBackend(testConfig(t), cache, zaptest.NewLogger(t))
	t.Cleanup(func() { store.Close() })

	n := Init(ctx, store, cache, zaptest.NewLogger(t))
	assert.Equal(t, 2, n)
	assert.True(t, store.Ready())
	assert.Zero(t, cache.Len())

	stats, err := store.GetStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalRecords)
}

func TestInitKeepsCacheWhenNothingMigrated(t *testing.T) {
	ctx := context.Background()
	cache := legacy.NewMemory(legacy.Entry{Date: "bad", Quantity: f(1), UnitPrice: f(1), Total: f(1)})
	store := sqlite.NewBackend(testConfig(t), cache, nil)
	t.Cleanup(func() { store.Close() })

	assert.Zero(t, Init(ctx, store, cache, nil))
	assert.Equal(t, 1, cache.Len())
}

func TestInitNeverFails(t *testing.T) {
	ctx := context.Background()
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	cache := legacy.NewMemory(threeEntries()...)
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: filepath.Join(blocker, "data")}
	store := sqlite.NewBackend(cfg, cache, nil)

	assert.Zero(t, Init(ctx, store, cache, zaptest.NewLogger(t)))
	assert.False(t, store.Ready())
	assert.Equal(t, 3, cache.Len(), "cache survives a failed bring-up")

	records, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3, "reads fall back to the legacy cache")
}

func TestInitIsRepeatable(t *testing.T) {
	ctx := context.Background()
	cache := legacy.NewMemory(threeEntries()...)
	store := sqlite.NewBackend(testConfig(t), cache, nil)
	t.Cleanup(func() { store.Close() })

	assert.Equal(t, 2, Init(ctx, store, cache, nil))
	assert.Zero(t, Init(ctx, store, cache, nil), "the cache is drained at most once")

	records, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	seed := legacy.NewFileSlot(cfg.DataDir, types.DefaultLegacyKey)
	require.NoError(t, seed.Write(ctx, threeEntries()))

	recorder := metrics.New()
	ledger, err := Open(ctx, cfg, zaptest.NewLogger(t), WithMetrics(recorder))
	require.NoError(t, err)
	t.Cleanup(func() { ledger.Close() })

	assert.True(t, ledger.Ready())
	assert.Equal(t, 2, ledger.Migrated)
	assert.Same(t, recorder, ledger.Metrics())

	entries, err := ledger.Cache.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	id, err := ledger.Insert(ctx, types.NewDraft("2024-10-11", 100, 0.75, 75))
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
}

func TestOpenWithRedisCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.Legacy = types.LegacyConfig{Backend: types.LegacyRedis, Key: "workRecords", RedisAddr: mr.Addr()}

	slot := legacy.NewRedisSlot(legacy.NewRedisClient(mr.Addr(), 0), "workRecords")
	require.NoError(t, slot.Write(ctx, threeEntries()))
	require.NoError(t, slot.Close())

	ledger, err := Open(ctx, cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, ledger.Migrated)
	assert.False(t, mr.Exists("workRecords"))
	assert.NoError(t, ledger.Close())
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	_, err := Open(context.Background(), types.Config{Backend: "postgres"}, nil)
	assert.ErrorIs(t, err, types.ErrBackendUnknown)

	cfg := testConfig(t)
	cfg.Legacy.Backend = types.LegacyRedis
	_, err = Open(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, types.ErrRedisAddrEmpty)
}

func TestOpenWithCache(t *testing.T) {
	cache := legacy.NewMemory(threeEntries()...)
	ledger, err := Open(context.Background(), testConfig(t), nil, WithCache(cache))
	require.NoError(t, err)
	t.Cleanup(func() { ledger.Close() })

	assert.Equal(t, 2, ledger.Migrated)
	assert.Same(t, cache, ledger.Cache)
}
