// Package records defines the generic record shape shared by parsers,
// transformers and sinks.
//
// A Record is a field-name-to-value mapping as produced by the JSON and CSV
// parsers. JSON numbers arrive as json.Number (decoders run with UseNumber)
// and CSV cells arrive as strings, so the accessors below are the single
// place where "what does a missing field mean" is decided.
package records

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Record is one structured entry in a sequence.
type Record map[string]any

// Float returns the numeric value of field.
//
// A missing field or an explicit JSON null yields 0 with a nil error. A
// present value that is not a number (json.Number, float64, int, int64)
// yields an error naming the field and the offending type.
func (r Record) Float(field string) (float64, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return 0, nil
	}
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", field, err)
		}
		return f, nil
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("field %q: expected number, got %T", field, v)
	}
}

// String returns the value of field when it is present and a string.
// ok is false when the field is absent, null, or holds a non-string value.
func (r Record) String(field string) (s string, ok bool) {
	v, present := r[field]
	if !present || v == nil {
		return "", false
	}
	s, ok = v.(string)
	return s, ok
}

// Has reports whether field is present in the record, even if null.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Text renders a scalar field value as text. Strings are returned as-is,
// numbers keep their original decimal text, and nil yields "".
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
