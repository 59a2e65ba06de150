package types

import "context"

// RecordStore is the authoritative source of work records.
// Every method except GetAll returns ErrNotReady until the store is open and
// its schema verified; GetAll falls back to the legacy cache instead.
type RecordStore interface {
	// Ready reports whether the store is open and schema-verified.
	Ready() bool

	// Insert validates d and persists it, returning the store-assigned ID.
	Insert(ctx context.Context, d Draft) (int64, error)

	// GetAll returns every record, newest date first.
	GetAll(ctx context.Context) ([]WorkRecord, error)

	// GetByDateRange returns records whose date lies in [start, end].
	GetByDateRange(ctx context.Context, start, end string) ([]WorkRecord, error)

	// GetStatistics aggregates the whole table.
	GetStatistics(ctx context.Context) (Statistics, error)

	// Update overwrites every mutable field of the record with the given ID.
	Update(ctx context.Context, id int64, d Draft) error

	// Delete removes the record with the given ID and returns the number of
	// rows removed. Deleting a missing ID returns 0 and no error.
	Delete(ctx context.Context, id int64) (int64, error)
}
