package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var (
	rePunct  = regexp.MustCompile(`[^\pL\pN\s]+`)
	reSpaces = regexp.MustCompile(`\s+`)
)

// ForComparison produces the lossy matching form of a string: lowercase,
// accents stripped, punctuation dropped, whitespace collapsed. Only ever
// used to compare values, never to store them.
func ForComparison(s string) string {
	out, _, err := transform.String(stripAccents, strings.ToLower(s))
	if err != nil {
		out = strings.ToLower(s)
	}
	out = rePunct.ReplaceAllString(out, " ")
	out = reSpaces.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// Tokens splits a string into its comparison-normalized words.
func Tokens(s string) []string {
	flat := ForComparison(s)
	if flat == "" {
		return nil
	}
	return strings.Fields(flat)
}
