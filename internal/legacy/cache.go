// Package legacy provides access to the flat list of work records the mobile
// app cached in a key-value slot before the relational store existed.
// The slot is read once for migration, read as a last-resort fallback when the
// store cannot answer, and pruned when the store deletes a record.
package legacy

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/workledger/pkg/types"
)

// Cache is the slot interface every implementation in this package satisfies.
type Cache = types.LegacyCache

// Entry is one cached record.
type Entry = types.LegacyEntry

// Records converts a slice of entries for the fallback read path.
// It never returns nil.
func Records(entries []Entry) []types.WorkRecord {
	out := make([]types.WorkRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Record())
	}
	return out
}

// Prune removes every entry with the given ID from c and returns how many were
// removed. The slot is rewritten only when something changed.
func Prune(ctx context.Context, c Cache, id int64) (int, error) {
	entries, err := c.Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading legacy cache: %w", err)
	}
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	removed := len(entries) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := c.Write(ctx, kept); err != nil {
		return 0, fmt.Errorf("writing legacy cache: %w", err)
	}
	return removed, nil
}
