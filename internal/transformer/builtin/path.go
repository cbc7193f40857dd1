package builtin

import (
	"strings"
	"unicode"
)

// escapePath turns a plain object key into a gjson/sjson path component.
// Every rune other than a letter, digit or underscore is backslash-escaped so
// keys such as "a.b" or "date?" are addressed literally.
func escapePath(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
