// Package json implements a JSON parser that turns a top-level JSON array
// into records.Record maps or raw elements.
//
// It is deliberately simple and conservative:
//
//   - The whole document is read into memory; inputs are small exports.
//   - The top-level value must be an array. Anything else is an input-format
//     error reported as ErrNotArray before any element is looked at.
//   - Non-object elements are either skipped (and logged) or rejected,
//     depending on Options.SkipNonObjects.
//   - Numbers are decoded as json.Number so callers keep the original text.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/ctrimm/co2-emission-tracker/pkg/records"
)

var (
	// ErrNotArray is returned when the top-level JSON value is not an array.
	ErrNotArray = errors.New("top-level value is not an array")
	// ErrNotObject is returned for a non-object element when skipping is off.
	ErrNotObject = errors.New("array element is not an object")
)

// skipLogLimit caps the number of per-entry skip lines written to the log.
const skipLogLimit = 400

// Options configures how array elements are turned into records.
type Options struct {
	// SkipNonObjects, when true, logs and skips elements that are not JSON
	// objects and counts them in the skipped return value of Parse. When
	// false, the first such element fails the parse with ErrNotObject.
	SkipNonObjects bool
}

// Parser decodes a JSON array of objects into records. It implements
// parser.Parser.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse reads a single JSON array from r and returns its object elements as
// records, along with the number of skipped non-object elements.
func (p *Parser) Parse(r io.Reader) ([]records.Record, int, error) {
	elems, err := DecodeArray(r)
	if err != nil {
		return nil, 0, err
	}

	out := make([]records.Record, 0, len(elems))
	skipped := 0
	for i, raw := range elems {
		if kindOf(raw) != '{' {
			if !p.opt.SkipNonObjects {
				return nil, skipped, fmt.Errorf("json parser: element %d (%s): %w", i, describe(raw), ErrNotObject)
			}
			if skipped < skipLogLimit {
				log.Printf("Skipping entry %d: not an object: %s", i, describe(raw))
			}
			skipped++
			continue
		}
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, skipped, fmt.Errorf("json parser: element %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, skipped, nil
}

// DecodeArray reads exactly one JSON document from r and returns the raw
// bytes of each element of its top-level array, in order. Element bytes are
// kept verbatim so callers can write them back without reordering keys or
// reformatting numbers.
//
// Trailing content after the array is rejected, as is an empty input.
func DecodeArray(r io.Reader) ([]json.RawMessage, error) {
	dec := json.NewDecoder(r)

	var root json.RawMessage
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("json parser: decode root: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("json parser: unexpected content after top-level value")
		}
		return nil, fmt.Errorf("json parser: trailing data: %w", err)
	}

	if kindOf(root) != '[' {
		return nil, fmt.Errorf("json parser: got %s: %w", describe(root), ErrNotArray)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(root, &elems); err != nil {
		return nil, fmt.Errorf("json parser: decode array: %w", err)
	}
	if elems == nil {
		elems = []json.RawMessage{}
	}
	return elems, nil
}

// decodeRecord decodes a raw JSON object with UseNumber semantics.
func decodeRecord(raw json.RawMessage) (records.Record, error) {
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	var m map[string]any
	if err := d.Decode(&m); err != nil {
		return nil, err
	}
	return records.Record(m), nil
}

// kindOf returns the first significant byte of a JSON value: '{', '[', '"',
// 't', 'f', 'n', or a digit/'-' for numbers. Zero means empty input.
func kindOf(raw []byte) byte {
	b := bytes.TrimLeft(raw, " \t\r\n")
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

// describe names the JSON type of raw for error and log messages.
func describe(raw []byte) string {
	switch kindOf(raw) {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	case 0:
		return "empty value"
	default:
		return "number"
	}
}
