// Package jsonfile writes JSON documents to a file with a fixed indent.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/pretty"

	"github.com/ctrimm/co2-emission-tracker/internal/storage"
)

// Writer pretty-prints documents and writes them atomically to one path.
type Writer struct {
	path   string
	indent string
}

// New returns a Writer indenting nested values by indent spaces.
func New(path string, indent int) *Writer {
	if indent < 0 {
		indent = 0
	}
	return &Writer{path: path, indent: strings.Repeat(" ", indent)}
}

// Path returns the destination path.
func (w *Writer) Path() string { return w.path }

// Encode marshals v and writes it. HTML characters are not escaped.
func (w *Writer) Encode(ctx context.Context, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("jsonfile: encode %s: %w", w.path, err)
	}
	return w.WriteDocument(ctx, buf.Bytes())
}

// WriteDocument re-indents doc and writes it. Key order, string escapes and
// number text are kept as they appear in doc.
func (w *Writer) WriteDocument(ctx context.Context, doc []byte) error {
	if !json.Valid(doc) {
		return fmt.Errorf("jsonfile: %s: document is not valid JSON", w.path)
	}
	return storage.WriteFileAtomic(ctx, w.path, Format(doc, w.indent))
}

// Format re-indents doc. Arrays and objects are always expanded one element
// per line; empty ones stay "[]" and "{}".
func Format(doc []byte, indent string) []byte {
	return pretty.PrettyOptions(doc, &pretty.Options{
		Width:  0,
		Prefix: "",
		Indent: indent,
	})
}

var _ storage.Sink = (*Writer)(nil)
