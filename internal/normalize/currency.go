package normalize

import "strings"

// Currency canonicalizes the contract-currency wording found in Allianz
// documents ("PESOS ARGENTINOS", "DOLAR ESTADOUNIDENSE", "U$S") into the
// two values the destination form understands.
func Currency(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", failed("currency", raw)
	}
	flat := ForComparison(s)
	switch {
	case strings.Contains(flat, "peso"):
		return "PESOS", nil
	case strings.Contains(flat, "dolar") || strings.Contains(s, "U$S") || strings.Contains(flat, "usd"):
		return "USD", nil
	}
	return s, nil
}
