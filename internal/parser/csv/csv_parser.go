// Package csv implements a header-aware CSV parser that turns rows into
// records.Record maps keyed by column name.
//
// The first row is always the header. Rows are read strictly: a row that
// fails to parse or whose width differs from the header is fatal, which
// suits fixed-schema exports where a partial output would be misleading.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ctrimm/co2-emission-tracker/pkg/records"
)

var (
	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("missing required column")
	// ErrFieldCount is returned for rows whose width differs from the header.
	ErrFieldCount = errors.New("wrong number of fields")
)

// Options configures the CSV parser. The zero value folds every header to a
// snake_case key.
type Options struct {
	// HeaderMap maps header names to record keys. A header cell matches an
	// entry exactly or, failing that, after both are folded, so "DOMAIN NAME"
	// and "domain_name" both find a "Domain name" entry.
	HeaderMap map[string]string

	// RawHeaders keeps unmapped header cells as written (minus a UTF-8 BOM
	// and surrounding spaces) instead of folding them.
	RawHeaders bool

	// RequiredColumns lists record keys that must be present in the header.
	// They are matched against the final keys, after HeaderMap.
	RequiredColumns []string
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// Parse reads the header and every data row from r. Empty cells are stored
// as nil. The skipped count is always zero; the first bad row is returned as
// an error naming its line.
func (p *Parser) Parse(r io.Reader) ([]records.Record, int, error) {
	cr := csv.NewReader(r)
	// Width is checked below so the error can name the expected count.
	cr.FieldsPerRecord = -1

	h, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("csv parser: read header: %w", err)
	}
	headers := normalizeHeaders(h, p.opt)
	if err := checkRequired(headers, p.opt.RequiredColumns); err != nil {
		return nil, 0, err
	}

	var out []records.Record
	// line counts data rows; the header is row 0.
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("csv parser: row %d: %w", line, err)
		}
		if len(row) != len(headers) {
			return nil, 0, fmt.Errorf("csv parser: row %d: expected %d, got %d: %w", line, len(headers), len(row), ErrFieldCount)
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			rec[keyFor(i, headers)] = emptyToNil(val)
		}
		out = append(out, rec)
	}

	return out, 0, nil
}

// checkRequired reports the first required key that is not in headers.
func checkRequired(headers, required []string) error {
	if len(required) == 0 {
		return nil
	}
	have := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		have[h] = struct{}{}
	}
	for _, col := range required {
		if _, ok := have[col]; !ok {
			return fmt.Errorf("csv parser: %w %q", ErrMissingColumn, col)
		}
	}
	return nil
}

// keyFor returns the column key for index idx, synthesizing "col_N" for a
// blank header cell.
func keyFor(idx int, headers []string) string {
	if headers[idx] != "" {
		return headers[idx]
	}
	return fmt.Sprintf("col_%d", idx)
}

// emptyToNil converts an empty string to nil; all other values are returned as-is.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// normalizeHeaders produces header keys. A UTF-8 BOM is stripped from the
// first cell; HeaderMap entries win, matched exactly then folded; other
// cells are folded unless RawHeaders is set.
func normalizeHeaders(h []string, opt Options) []string {
	folded := make(map[string]string, len(opt.HeaderMap))
	for k, v := range opt.HeaderMap {
		folded[foldKey(k)] = v
	}

	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		if m, ok := opt.HeaderMap[c]; ok {
			res[i] = m
			continue
		}
		key := foldKey(c)
		if m, ok := folded[key]; ok {
			res[i] = m
			continue
		}
		if opt.RawHeaders {
			res[i] = c
			continue
		}
		res[i] = key
	}
	return res
}

// foldKey strips diacritics, lowercases and joins words with "_", mapping
// "Organization  Name" and "organization_name" to "organization_name".
func foldKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if ascii, _, err := transform.String(t, s); err == nil {
		s = ascii
	}
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return unicode.IsSpace(r) || r == '_' || r == '-'
	})
	return strings.Join(words, "_")
}
