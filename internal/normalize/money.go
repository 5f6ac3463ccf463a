package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var reAmount = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

var moneyCleaner = strings.NewReplacer(
	" ", "",
	" ", "",
	"U$S", "",
	"$", "",
	"ARS", "",
	"USD", "",
)

// Money strips currency symbols and Argentine thousands separators and
// canonicalizes the decimal comma: "$ 1.234,56" -> 1234.56.
func Money(raw string) (float64, error) {
	s := moneyCleaner.Replace(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	token := reAmount.FindString(s)
	if token == "" {
		return 0, failed("money", raw)
	}
	amount, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, failed("money", raw)
	}
	return amount, nil
}
