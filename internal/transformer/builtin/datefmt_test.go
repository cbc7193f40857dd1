package builtin

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pjson "github.com/ctrimm/co2-emission-tracker/internal/parser/json"
)

func TestDateFormat_ReformatRoundTrip(t *testing.T) {
	fwd := DateFormat{}
	got, err := fwd.Reformat("25-12-2023")
	require.NoError(t, err)
	assert.Equal(t, "2023-12-25", got)

	inv := DateFormat{From: ISODateLayout, To: DayFirstLayout}
	back, err := inv.Reformat(got)
	require.NoError(t, err)
	assert.Equal(t, "25-12-2023", back)
}

func TestDateFormat_ReformatStrict(t *testing.T) {
	bad := []string{
		"31-02-2023", // not a calendar date
		"5-12-2023",  // single-digit day
		"25-1-2023",  // single-digit month
		"25-12-23",   // two-digit year
		"2023-12-25", // already reformatted
		"25/12/2023",
		"25-12-2023 ",
		"",
	}
	for _, s := range bad {
		_, err := DateFormat{}.Reformat(s)
		assert.ErrorIs(t, err, ErrDateParse, "input %q", s)
	}
}

func TestDateFormat_ApplyDocument(t *testing.T) {
	doc := []byte(`[
  {"domain":"a.gov","date":"25-12-2023","estimatedCO2":0.120,"isGreen":true},
  {"date":"01-02-2024","domain":"b.gov"}
]`)

	out, n, err := DateFormat{}.ApplyDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var got []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &got))
	require.Len(t, got, 2)
	assert.JSONEq(t, `"2023-12-25"`, string(got[0]["date"]))
	assert.JSONEq(t, `"2024-02-01"`, string(got[1]["date"]))
	// Untouched values keep their original text.
	assert.Equal(t, "0.120", string(got[0]["estimatedCO2"]))
	assert.Equal(t, "true", string(got[0]["isGreen"]))
	// Key order of the first entry is preserved.
	assert.Regexp(t, `"domain":"a.gov","date":"2023-12-25","estimatedCO2"`, string(out))
}

func TestDateFormat_ApplyDocumentEmpty(t *testing.T) {
	out, n, err := DateFormat{}.ApplyDocument([]byte(`[]`))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.JSONEq(t, `[]`, string(out))
}

/*
TestDateFormat_ApplyDocumentFailures verifies the all-or-nothing policy: any
bad entry fails the call with a classified error and no document is returned.
*/
func TestDateFormat_ApplyDocumentFailures(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		wantIs error
	}{
		{name: "invalid_date", doc: `[{"date":"01-01-2024"},{"date":"31-02-2023"}]`, wantIs: ErrDateParse},
		{name: "missing_field", doc: `[{"date":"01-01-2024"},{"day":"01-01-2024"}]`, wantIs: ErrMissingField},
		{name: "duplicate_field", doc: `[{"date":"01-02-2024","date":"03-04-2024"}]`, wantIs: ErrDuplicateField},
		{name: "number_date", doc: `[{"date":20240101}]`, wantIs: ErrFieldType},
		{name: "non_object_entry", doc: `["01-01-2024"]`, wantIs: ErrFieldType},
		{name: "object_root", doc: `{"date":"01-01-2024"}`, wantIs: pjson.ErrNotArray},
		{name: "malformed", doc: `[{"date":"01-01-2024"}`},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := DateFormat{}.ApplyDocument([]byte(tc.doc))
			require.Error(t, err)
			assert.Nil(t, out)
			if tc.wantIs != nil {
				assert.ErrorIs(t, err, tc.wantIs)
			}
		})
	}
}

func TestDateFormat_CustomFieldWithDot(t *testing.T) {
	doc := []byte(`[{"checked.on":"02-03-2024","date":"keep"}]`)
	out, _, err := DateFormat{Field: "checked.on"}.ApplyDocument(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"checked.on":"2024-03-02","date":"keep"}]`, string(out))
}

/*
TestDateFormat_ApplyDocumentLarge rewrites a multi-megabyte array. The pass
must stay linear: fifty thousand entries finish well inside the bound.
*/
func TestDateFormat_ApplyDocumentLarge(t *testing.T) {
	const n = 50000

	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"url":"site%d.gov","estimatedCO2":%d.25,"totalBytes":%d,"isGreen":false,"date":"%02d-%02d-2023"}`,
			i, i, i*1024, i%28+1, i%12+1)
	}
	b.WriteByte(']')
	doc := []byte(b.String())

	start := time.Now()
	out, got, err := DateFormat{}.ApplyDocument(doc)
	elapsed := time.Since(start)
	require.NoError(t, err)
	assert.Equal(t, n, got)
	assert.Less(t, elapsed, 3*time.Second, "rewrite of %d entries (%d bytes) took %s", n, len(doc), elapsed)

	last := fmt.Sprintf(`{"url":"site%d.gov","estimatedCO2":%d.25,"totalBytes":%d,"isGreen":false,"date":"2023-%02d-%02d"}]`,
		n-1, n-1, (n-1)*1024, (n-1)%12+1, (n-1)%28+1)
	assert.True(t, strings.HasSuffix(string(out), last), "last entry not rewritten in place")
}
