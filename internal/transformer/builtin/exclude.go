package builtin

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/ctrimm/co2-emission-tracker/pkg/records"
)

// DefaultURLField is the error-log field holding the failed site URL.
const DefaultURLField = "url"

// URLSet collects the string value of field from every record. A record
// without the field, or with a non-string value, is an error.
func URLSet(recs []records.Record, field string) (map[string]struct{}, error) {
	if field == "" {
		field = DefaultURLField
	}
	set := make(map[string]struct{}, len(recs))
	for i, rec := range recs {
		if !rec.Has(field) {
			return nil, fmt.Errorf("record %d: %w %q", i, ErrMissingField, field)
		}
		s, ok := rec.String(field)
		if !ok {
			return nil, fmt.Errorf("record %d: %w: %q is %T, want string", i, ErrFieldType, field, rec[field])
		}
		set[s] = struct{}{}
	}
	return set, nil
}

// Exclude drops elements of a JSON array that equal one of Keys.
//
// Comparison is element-level: a string element is removed when it is in
// Keys, and every other element is kept as-is. An array of objects is
// therefore copied unchanged. Setting KeyField switches object elements to
// comparing their KeyField string value instead.
type Exclude struct {
	Keys     map[string]struct{}
	KeyField string
}

// ExcludeResult reports the outcome of Exclude.Apply.
type ExcludeResult struct {
	// Kept holds the surviving elements, verbatim and in input order.
	Kept []json.RawMessage
	// Removed counts elements that matched a key.
	Removed int
	// Objects counts object elements seen in the input.
	Objects int
}

// Apply filters elems. It never fails; elements that cannot be compared are kept.
func (e Exclude) Apply(elems []json.RawMessage) ExcludeResult {
	res := ExcludeResult{Kept: make([]json.RawMessage, 0, len(elems))}
	for _, raw := range elems {
		v := gjson.ParseBytes(raw)
		if v.IsObject() {
			res.Objects++
		}
		if e.matches(v) {
			res.Removed++
			continue
		}
		res.Kept = append(res.Kept, raw)
	}
	return res
}

func (e Exclude) matches(v gjson.Result) bool {
	switch {
	case v.Type == gjson.String:
		_, hit := e.Keys[v.Str]
		return hit
	case e.KeyField != "" && v.IsObject():
		k := v.Get(escapePath(e.KeyField))
		if k.Type != gjson.String {
			return false
		}
		_, hit := e.Keys[k.Str]
		return hit
	default:
		return false
	}
}
