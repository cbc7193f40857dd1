// Package builtin contains the transforms used by the munging commands.
package builtin

import "errors"

var (
	// ErrMissingField marks a record that lacks a field the transform needs.
	ErrMissingField = errors.New("missing required field")
	// ErrFieldType marks a field (or entry) holding a value of the wrong JSON type.
	ErrFieldType = errors.New("unexpected value type")
	// ErrDuplicateField marks an object that repeats a key the transform rewrites.
	ErrDuplicateField = errors.New("duplicate field")
	// ErrDateParse marks a date string that does not match the input layout.
	ErrDateParse = errors.New("date does not match layout")
)
