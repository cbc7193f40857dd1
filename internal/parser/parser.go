// Package parser defines the contract shared by the record parsers.
package parser

import (
	"io"

	"github.com/ctrimm/co2-emission-tracker/pkg/records"
)

// Parser turns an input stream into records. The int result is the number
// of entries that were skipped rather than failing the parse.
type Parser interface {
	Parse(r io.Reader) ([]records.Record, int, error)
}
