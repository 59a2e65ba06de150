package types

import (
	"math"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// isoDatePattern checks shape only: 2024-02-30 is accepted.
var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return isoDatePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// IsISODate reports whether s has the YYYY-MM-DD shape.
func IsISODate(s string) bool {
	return validate.Var(s, "isodate") == nil
}

// numericField pairs a Draft field with its JSON name, in checking order.
type numericField struct {
	name  string
	value *float64
}

func (d Draft) numericFields() []numericField {
	return []numericField{
		{"quantity", d.Quantity},
		{"unitPrice", d.UnitPrice},
		{"total", d.Total},
	}
}

// Validate runs the insert checks in their fixed order and returns the first
// failure as a *FieldError:
//
//  1. date present and shaped YYYY-MM-DD (ErrInvalidDate)
//  2. quantity, unitPrice, total present and not NaN (ErrMissingField)
//  3. quantity, unitPrice, total strictly positive and finite (ErrOutOfRange)
//
// Callers match on which check fires first for a multiply-invalid draft, so
// the order must not change.
func (d Draft) Validate() error {
	if err := validate.Var(d.Date, "required,isodate"); err != nil {
		return &FieldError{Field: "date", Err: ErrInvalidDate}
	}

	fields := d.numericFields()
	for _, f := range fields {
		if f.value == nil || math.IsNaN(*f.value) {
			return &FieldError{Field: f.name, Err: ErrMissingField}
		}
	}
	for _, f := range fields {
		if err := validate.Var(*f.value, "gt=0"); err != nil || math.IsInf(*f.value, 1) {
			return &FieldError{Field: f.name, Err: ErrOutOfRange}
		}
	}
	return nil
}

// Args returns quantity, unit price, and total as database/sql arguments.
// Missing values become nil so the NOT NULL constraints reject them on the
// unvalidated update path.
func (d Draft) Args() []any {
	fields := d.numericFields()
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		if f.value == nil || math.IsNaN(*f.value) {
			out = append(out, nil)
			continue
		}
		out = append(out, *f.value)
	}
	return out
}
