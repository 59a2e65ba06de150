package types

import (
	"context"
	"encoding/json"

	"github.com/spf13/cast"
)

// LegacyCache is the fallback source: the named key-value slot in which the
// mobile app kept its flat list of records before the relational store
// existed. It is drained once by the migration, read when the store cannot
// answer GetAll, and pruned when the store deletes a record.
type LegacyCache interface {
	Read(ctx context.Context) ([]LegacyEntry, error)
	Write(ctx context.Context, entries []LegacyEntry) error
	Clear(ctx context.Context) error
}

// LegacyEntry is one cached record. ID is zero for entries that never reached
// the relational store. Numeric fields are nil when absent or not numeric.
type LegacyEntry struct {
	ID        int64    `json:"id,omitempty" msgpack:"id,omitempty"`
	Date      string   `json:"date" msgpack:"date"`
	Quantity  *float64 `json:"quantity" msgpack:"quantity"`
	UnitPrice *float64 `json:"unitPrice" msgpack:"unitPrice"`
	Total     *float64 `json:"total" msgpack:"total"`
}

// UnmarshalJSON accepts numbers or numeric strings for the numeric fields,
// since the app cached form input without normalizing it.
func (e *LegacyEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = LegacyEntry{}
	if v, ok := raw["id"]; ok && v != nil {
		if id, err := cast.ToInt64E(v); err == nil {
			e.ID = id
		}
	}
	if v, ok := raw["date"]; ok && v != nil {
		e.Date = cast.ToString(v)
	}
	e.Quantity = toFloat(raw["quantity"])
	e.UnitPrice = toFloat(raw["unitPrice"])
	e.Total = toFloat(raw["total"])
	return nil
}

// toFloat coerces JSON numbers and numeric strings. Everything else is missing.
func toFloat(v any) *float64 {
	switch v.(type) {
	case float64, string:
	default:
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil
	}
	return &f
}

// Draft converts the entry to the candidate shape used by Insert.
func (e LegacyEntry) Draft() Draft {
	return Draft{
		Date:      e.Date,
		Quantity:  e.Quantity,
		UnitPrice: e.UnitPrice,
		Total:     e.Total,
	}
}

// Record converts the entry for the fallback read path. Missing numbers read
// as zero.
func (e LegacyEntry) Record() WorkRecord {
	return WorkRecord{
		ID:        e.ID,
		Date:      e.Date,
		Quantity:  deref(e.Quantity),
		UnitPrice: deref(e.UnitPrice),
		Total:     deref(e.Total),
	}
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
