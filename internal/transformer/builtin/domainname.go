package builtin

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var digitRun = regexp.MustCompile(`\d+`)

// FormatDomainName builds a display name from a domain such as
// "example-city12.gov": everything from the first "." is dropped, a space is
// inserted before each run of digits, hyphens become spaces and each word is
// title-cased, giving "Example City 12".
//
// A name that starts with digits keeps the inserted leading space.
//
// Word boundaries follow Unicode rules, so apostrophes and underscores stay
// inside a word: "o'neil" gives "O'neil" and "ab_cd" gives "Ab_cd". Neither
// character is valid in a DNS label, so real domains are not affected.
func FormatDomainName(domain string) string {
	name, _, _ := strings.Cut(domain, ".")
	name = digitRun.ReplaceAllString(name, " $0")
	name = strings.ReplaceAll(name, "-", " ")
	return cases.Title(language.Und).String(name)
}
