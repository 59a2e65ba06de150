package legacy

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/workledger/pkg/types"
)

func f(v float64) *float64 { return &v }

func TestRecords(t *testing.T) {
	got := Records([]Entry{
		{ID: 7, Date: "2024-10-11", Quantity: f(10), Total: f(20)},
		{Date: "2024-10-12"},
	})
	require.Len(t, got, 2)
	assert.Equal(t, int64(7), got[0].ID)
	assert.Equal(t, 0.0, got[0].UnitPrice)
	assert.Equal(t, "2024-10-12", got[1].Date)

	assert.NotNil(t, Records(nil))
	assert.Empty(t, Records(nil))
}

// slotFactories builds each slot implementation against a fresh backing store.
func slotFactories(t *testing.T) map[string]func(t *testing.T) Cache {
	return map[string]func(t *testing.T) Cache{
		"memory": func(t *testing.T) Cache { return NewMemory() },
		"file": func(t *testing.T) Cache {
			return NewFileSlot(t.TempDir(), types.DefaultLegacyKey)
		},
		"redis": func(t *testing.T) Cache {
			mr := miniredis.RunT(t)
			slot := NewRedisSlot(NewRedisClient(mr.Addr(), 0), types.DefaultLegacyKey)
			t.Cleanup(func() { slot.Close() })
			require.NoError(t, slot.Ping(context.Background()))
			return slot
		},
	}
}

func TestSlots(t *testing.T) {
	ctx := context.Background()
	entries := []Entry{
		{ID: 1, Date: "2024-10-01", Quantity: f(10), UnitPrice: f(2), Total: f(20)},
		{ID: 2, Date: "2024-10-02", Quantity: f(5), UnitPrice: f(4), Total: f(20)},
		{Date: "2024-10-03", Quantity: f(1), UnitPrice: f(1), Total: f(1)},
	}

	for name, build := range slotFactories(t) {
		t.Run(name, func(t *testing.T) {
			c := build(t)

			got, err := c.Read(ctx)
			require.NoError(t, err)
			assert.Empty(t, got, "new slot should be empty")

			require.NoError(t, c.Write(ctx, entries))
			got, err = c.Read(ctx)
			require.NoError(t, err)
			assert.Equal(t, entries, got)

			removed, err := Prune(ctx, c, 2)
			require.NoError(t, err)
			assert.Equal(t, 1, removed)
			got, err = c.Read(ctx)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, int64(1), got[0].ID)

			removed, err = Prune(ctx, c, 99)
			require.NoError(t, err)
			assert.Zero(t, removed)

			require.NoError(t, c.Clear(ctx))
			got, err = c.Read(ctx)
			require.NoError(t, err)
			assert.Empty(t, got)

			require.NoError(t, c.Clear(ctx), "clearing an empty slot is not an error")
		})
	}
}

func TestFileSlotSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	slot := NewFileSlot(dir, "workRecords")
	content := strings.Join([]string{
		`{"date":"2024-10-01","quantity":1,"unitPrice":1,"total":1}`,
		`not json`,
		``,
		`{"date":"2024-10-02","quantity":2,"unitPrice":1,"total":2}`,
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "workRecords.jsonl"), []byte(content), 0o644))

	got, err := slot.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-10-02", got[1].Date)
}

func TestFileSlotWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	slot := NewFileSlot(dir, "workRecords")
	require.NoError(t, slot.Write(context.Background(), []Entry{{Date: "2024-10-01"}}))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Base(slot.Path()), files[0].Name())
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Entry{ID: 1, Date: "2024-09-30"})

	n, err := Import(ctx, m, strings.NewReader(`[
		{"date":"2024-10-01","quantity":"10","unitPrice":"2","total":"20"},
		{"date":"2024-10-02","quantity":5,"unitPrice":4,"total":20}
	]`))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, m.Len())

	_, err = Import(ctx, m, strings.NewReader(`{"not":"an array"}`))
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.DataDir = t.TempDir()

	c, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &FileSlot{}, c)

	cfg.Legacy.Backend = types.LegacyMemory
	c, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	cfg.Legacy.Backend = "etcd"
	_, err = New(cfg)
	assert.ErrorIs(t, err, types.ErrLegacyBackendUnknown)
}
