package types

import "time"

// WorkRecord is one dated entry of quantity, unit price, and total earned.
type WorkRecord struct {
	ID        int64     `json:"id"`        // Store-assigned, never reused.
	Date      string    `json:"date"`      // YYYY-MM-DD.
	Quantity  float64   `json:"quantity"`  // Units of work.
	UnitPrice float64   `json:"unitPrice"` // Currency per unit.
	Total     float64   `json:"total"`     // Caller-supplied; never recomputed.
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Draft is a candidate record as handed to Insert, Update, or the migration.
// A nil or NaN numeric field counts as missing.
type Draft struct {
	Date      string   `json:"date"`
	Quantity  *float64 `json:"quantity"`
	UnitPrice *float64 `json:"unitPrice"`
	Total     *float64 `json:"total"`
}

// NewDraft builds a Draft with every numeric field present.
func NewDraft(date string, quantity, unitPrice, total float64) Draft {
	return Draft{
		Date:      date,
		Quantity:  &quantity,
		UnitPrice: &unitPrice,
		Total:     &total,
	}
}

// Statistics aggregates the whole work_records table.
// Every field is zero for an empty table.
type Statistics struct {
	TotalRecords  int64   `json:"totalRecords"`
	TotalQuantity float64 `json:"totalQuantity"`
	TotalAmount   float64 `json:"totalAmount"`
	AvgPrice      float64 `json:"avgPrice"`
}
