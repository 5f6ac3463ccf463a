package normalize

import (
	"regexp"
	"strings"
)

var plateShapes = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z]{3}\d{3}$`),   // AAA123 (pre-2016)
	regexp.MustCompile(`^[A-Z]{2}\d{3}[A-Z]{2}$`), // AA123BB (Mercosur)
}

var reIdent = regexp.MustCompile(`^[A-Z0-9]{5,20}$`)

var identCleaner = strings.NewReplacer("-", "", " ", "", ".", "", " ", "")

// Plate uppercases and strips separators, then validates the result
// against the accepted Argentine plate shapes.
func Plate(raw string) (string, error) {
	s := identCleaner.Replace(strings.ToUpper(strings.TrimSpace(raw)))
	for _, shape := range plateShapes {
		if shape.MatchString(s) {
			return s, nil
		}
	}
	return "", failed("plate", raw)
}

// Identifier canonicalizes chassis and engine numbers: uppercase,
// separator-free alphanumerics of plausible length.
func Identifier(raw string) (string, error) {
	s := identCleaner.Replace(strings.ToUpper(strings.TrimSpace(raw)))
	if !reIdent.MatchString(s) {
		return "", failed("identifier", raw)
	}
	return s, nil
}
