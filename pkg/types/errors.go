package types

import (
	"errors"
	"fmt"
)

// Lifecycle errors.
var (
	ErrNotReady = errors.New("store not initialized")
)

// Validation errors, returned before any I/O is attempted.
var (
	ErrInvalidDate  = errors.New("date must be in YYYY-MM-DD format")
	ErrMissingField = errors.New("value is missing or not a number")
	ErrOutOfRange   = errors.New("value must be greater than zero")
	ErrInvalidID    = errors.New("invalid record ID")
)

// Storage errors. They wrap the driver error so callers can inspect both.
var (
	ErrStorage     = errors.New("storage failure")
	ErrTransaction = errors.New("transaction failure")
)

// Config validation errors.
var (
	ErrBackendEmpty         = errors.New("backend must not be empty")
	ErrBackendUnknown       = errors.New("unknown backend")
	ErrLegacyBackendUnknown = errors.New("unknown legacy cache backend")
	ErrLegacyKeyEmpty       = errors.New("legacy cache key must not be empty")
	ErrRedisAddrEmpty       = errors.New("redis address must not be empty")
	ErrLogFormatUnknown     = errors.New("unknown log format")
)

// ErrorKind classifies an error returned by a workledger component.
type ErrorKind int

// Error kinds, one per sentinel above.
const (
	KindUnknown ErrorKind = iota
	KindNotReady
	KindInvalidDate
	KindMissingField
	KindOutOfRange
	KindInvalidID
	KindStorage
	KindTransaction
)

var kindNames = map[ErrorKind]string{
	KindUnknown:      "unknown",
	KindNotReady:     "not_ready",
	KindInvalidDate:  "invalid_date",
	KindMissingField: "missing_field",
	KindOutOfRange:   "out_of_range",
	KindInvalidID:    "invalid_id",
	KindStorage:      "storage_failure",
	KindTransaction:  "transaction_failure",
}

// String returns the snake_case name of the kind.
func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// kindOrder lists sentinels from most to least specific. A transaction error
// may wrap a storage error, so it is checked first.
var kindOrder = []struct {
	kind ErrorKind
	err  error
}{
	{KindTransaction, ErrTransaction},
	{KindStorage, ErrStorage},
	{KindNotReady, ErrNotReady},
	{KindInvalidDate, ErrInvalidDate},
	{KindMissingField, ErrMissingField},
	{KindOutOfRange, ErrOutOfRange},
	{KindInvalidID, ErrInvalidID},
}

// KindOf reports the kind of err, or KindUnknown when err matches no sentinel.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	for _, k := range kindOrder {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}

// FieldError is a validation failure on a single Draft field.
type FieldError struct {
	Field string // JSON name of the field: date, quantity, unitPrice, total.
	Err   error  // One of the validation sentinels.
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
