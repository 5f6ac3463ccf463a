package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const canonicalDateLayout = "2006-01-02"

// FormDateLayout is the destination-form representation of a date. Stored
// values stay canonical; the plan builder converts at the boundary.
const FormDateLayout = "02/01/2006"

var spanishMonths = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"setiembre":  time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

var (
	reNumericDate = regexp.MustCompile(`(\d{1,2})[\-/.](\d{1,2})[\-/.](\d{2,4})`)
	reSpanishDate = regexp.MustCompile(`(?i)(\d{1,2})\s+de\s+([a-záéíóúü]+)\s+de\s+(\d{4})`)
)

// Date converts day-first numeric dates (dd/mm/yyyy with /, - or .) and
// Spanish textual dates ("20 de octubre de 2025") to canonical yyyy-mm-dd.
// Two-digit years below 50 land in 2000s, the rest in 1900s. Impossible
// dates fail.
func Date(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", failed("date", raw)
	}

	if m := reNumericDate.FindStringSubmatch(value); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			if year < 50 {
				year += 2000
			} else {
				year += 1900
			}
		}
		return buildDate(year, month, day, raw)
	}

	if m := reSpanishDate.FindStringSubmatch(value); m != nil {
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		month, ok := spanishMonths[ForComparison(m[2])]
		if !ok {
			return "", failed("date", raw)
		}
		return buildDate(year, int(month), day, raw)
	}

	return "", failed("date", raw)
}

// SpanishDate extracts a textual Spanish date from surrounding prose, e.g.
// "Buenos Aires, 20 de octubre de 2025".
func SpanishDate(text string) (string, error) {
	m := reSpanishDate.FindStringSubmatch(text)
	if m == nil {
		return "", failed("date", text)
	}
	return Date(m[0])
}

// FormDate rewrites a canonical date into the destination-form layout.
// Non-canonical input passes through untouched.
func FormDate(canonical string) string {
	t, err := time.Parse(canonicalDateLayout, canonical)
	if err != nil {
		return canonical
	}
	return t.Format(FormDateLayout)
}

func buildDate(year, month, day int, raw string) (string, error) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", failed("date", raw)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date silently rolls over impossible days (31/04 -> 01/05).
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return "", failed("date", raw)
	}
	return t.Format(canonicalDateLayout), nil
}
