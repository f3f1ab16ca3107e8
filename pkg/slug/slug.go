// Package slug turns display names into URL-safe identifiers. Accented
// characters are folded to their ASCII base so French catalog names produce
// readable slugs.
package slug

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Make converts a name into a lowercase hyphenated slug.
func Make(name string) string {
	folded, _, err := transform.String(foldTransformer, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// WithSuffix appends a numeric disambiguation suffix.
func WithSuffix(base string, n int) string {
	return fmt.Sprintf("%s-%d", base, n)
}

// Unique returns the first slug derived from name that taken reports as free.
// The bare slug is tried first, then numbered variants starting at 2.
func Unique(name string, taken func(candidate string) bool) string {
	base := Make(name)
	if base == "" {
		base = "item"
	}
	if !taken(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := WithSuffix(base, n)
		if !taken(candidate) {
			return candidate
		}
	}
}
