package types

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyEntryUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want LegacyEntry
	}{
		{
			name: "numbers",
			in:   `{"id":3,"date":"2024-10-11","quantity":100,"unitPrice":0.75,"total":75}`,
			want: LegacyEntry{ID: 3, Date: "2024-10-11", Quantity: ptr(100), UnitPrice: ptr(0.75), Total: ptr(75)},
		},
		{
			name: "numeric strings from form input",
			in:   `{"date":"2024-10-11","quantity":"100","unitPrice":"0.75","total":"75.00"}`,
			want: LegacyEntry{Date: "2024-10-11", Quantity: ptr(100), UnitPrice: ptr(0.75), Total: ptr(75)},
		},
		{
			name: "missing and non-numeric fields are nil",
			in:   `{"date":"2024-10-11","quantity":"abc","total":null}`,
			want: LegacyEntry{Date: "2024-10-11"},
		},
		{
			name: "boolean is not a number",
			in:   `{"date":"2024-10-11","quantity":true,"unitPrice":1,"total":1}`,
			want: LegacyEntry{Date: "2024-10-11", UnitPrice: ptr(1), Total: ptr(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got LegacyEntry
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLegacyEntryConversions(t *testing.T) {
	e := LegacyEntry{ID: 7, Date: "2024-10-11", Quantity: ptr(10), Total: ptr(20)}

	d := e.Draft()
	assert.Equal(t, "2024-10-11", d.Date)
	assert.Nil(t, d.UnitPrice)
	assert.ErrorIs(t, d.Validate(), ErrMissingField)

	r := e.Record()
	assert.Equal(t, int64(7), r.ID)
	assert.Equal(t, 10.0, r.Quantity)
	assert.Equal(t, 0.0, r.UnitPrice)
}

// sliceCache is a LegacyCache written only against this package, the way a
// caller outside the module would fake the fallback source.
type sliceCache struct{ entries []LegacyEntry }

func (c *sliceCache) Read(context.Context) ([]LegacyEntry, error) { return c.entries, nil }
func (c *sliceCache) Write(_ context.Context, e []LegacyEntry) error {
	c.entries = e
	return nil
}
func (c *sliceCache) Clear(context.Context) error {
	c.entries = nil
	return nil
}

func TestLegacyCacheImplementableFromTypes(t *testing.T) {
	var c LegacyCache = &sliceCache{}
	ctx := context.Background()

	require.NoError(t, c.Write(ctx, []LegacyEntry{{Date: "2024-10-11"}}))
	got, err := c.Read(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	require.NoError(t, c.Clear(ctx))
}
