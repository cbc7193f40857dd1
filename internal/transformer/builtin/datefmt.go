package builtin

import (
	"bytes"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	pjson "github.com/ctrimm/co2-emission-tracker/internal/parser/json"
)

// Date layouts understood by DateFormat, in time package notation.
const (
	DayFirstLayout = "02-01-2006" // DD-MM-YYYY
	ISODateLayout  = "2006-01-02" // YYYY-MM-DD
)

// DefaultDateField is the record field rewritten when DateFormat.Field is empty.
const DefaultDateField = "date"

// DateFormat rewrites one string field of every entry from one date layout
// to another. Zero values default to Field "date", From DD-MM-YYYY and
// To YYYY-MM-DD; swapping From and To gives the inverse mapping.
type DateFormat struct {
	Field string
	From  string
	To    string
}

func (f DateFormat) withDefaults() DateFormat {
	if f.Field == "" {
		f.Field = DefaultDateField
	}
	if f.From == "" {
		f.From = DayFirstLayout
	}
	if f.To == "" {
		f.To = ISODateLayout
	}
	return f
}

// Reformat parses s strictly with the From layout and formats it with To.
// Impossible calendar dates such as 31-02-2023 are rejected.
func (f DateFormat) Reformat(s string) (string, error) {
	f = f.withDefaults()
	t, err := time.Parse(f.From, s)
	if err != nil {
		return "", fmt.Errorf("%w %q: %q: %v", ErrDateParse, f.From, s, err)
	}
	return t.Format(f.To), nil
}

// ApplyDocument rewrites the date field of every object in the JSON array
// doc and returns the new document plus the number of entries rewritten.
//
// The rewrite is all-or-nothing: every entry is validated and converted
// before any output is built, and the first bad entry is returned as an
// error naming its index. An entry carrying the date field more than once
// is rejected with ErrDuplicateField. Only the date values change; key
// order, number text and other fields of each entry are left as they were.
func (f DateFormat) ApplyDocument(doc []byte) ([]byte, int, error) {
	f = f.withDefaults()

	if !gjson.ValidBytes(doc) {
		return nil, 0, fmt.Errorf("date format: invalid JSON document")
	}
	root := gjson.ParseBytes(doc)
	if !root.IsArray() {
		return nil, 0, fmt.Errorf("date format: %w", pjson.ErrNotArray)
	}

	field := escapePath(f.Field)
	entries := root.Array()
	updated := make([]string, len(entries))
	for i, entry := range entries {
		if !entry.IsObject() {
			return nil, 0, fmt.Errorf("date format: entry %d: %w: want object, got %s", i, ErrFieldType, entry.Type)
		}
		if n := countKey(entry, f.Field); n > 1 {
			return nil, 0, fmt.Errorf("date format: entry %d: %w %q (%d times)", i, ErrDuplicateField, f.Field, n)
		}
		v := entry.Get(field)
		if !v.Exists() {
			return nil, 0, fmt.Errorf("date format: entry %d: %w %q", i, ErrMissingField, f.Field)
		}
		if v.Type != gjson.String {
			return nil, 0, fmt.Errorf("date format: entry %d: %w: %q is %s, want string", i, ErrFieldType, f.Field, v.Type)
		}
		out, err := f.Reformat(v.Str)
		if err != nil {
			return nil, 0, fmt.Errorf("date format: entry %d: %w", i, err)
		}
		updated[i] = out
	}

	// Each entry is edited on its own; the document is never rescanned.
	var buf bytes.Buffer
	buf.Grow(len(doc))
	buf.WriteByte('[')
	for i, entry := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		raw, err := sjson.Set(entry.Raw, field, updated[i])
		if err != nil {
			return nil, 0, fmt.Errorf("date format: entry %d: set %q: %w", i, f.Field, err)
		}
		buf.WriteString(raw)
	}
	buf.WriteByte(']')
	return buf.Bytes(), len(updated), nil
}

// countKey counts the members of obj named key.
func countKey(obj gjson.Result, key string) int {
	n := 0
	obj.ForEach(func(k, _ gjson.Result) bool {
		if k.Str == key {
			n++
		}
		return true
	})
	return n
}
