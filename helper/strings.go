package helper

import (
	"strings"
	"unicode"
)

// TitleCase upper cases the first letter of every run of letters and lower
// cases the rest, so "harry's" becomes "Harry'S".
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inWord := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if inWord {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			inWord = true
			continue
		}
		inWord = false
		b.WriteRune(r)
	}
	return b.String()
}
