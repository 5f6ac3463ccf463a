package pipeline

import (
	"strconv"
	"strings"

	"github.com/nachoviau/automatizacion-broker/internal"
	"github.com/nachoviau/automatizacion-broker/internal/fields"
	"github.com/nachoviau/automatizacion-broker/internal/normalize"
)

// Extract runs every field definition against the document text and returns
// the canonical values plus the keys of required fields that could not be
// recovered. Patterns are tried in order and the first capture that survives
// normalization wins; a capture the normalizer rejects falls through to the
// next pattern. Fields never consume text, so overlapping patterns are fine.
func Extract(text string, set *fields.Set) (internal.FieldMap, []string) {
	out := internal.FieldMap{}
	missing := make([]string, 0)

	for _, def := range set.Definitions() {
		if def.Kind == fields.KindFixed {
			out[def.Key] = fixedValue(def.Fixed)
			continue
		}

		value, ok := extractOne(text, def)
		if ok {
			out[def.Key] = value
		} else if def.Required {
			missing = append(missing, def.Key)
		}
	}
	return out, missing
}

func extractOne(text string, def fields.Definition) (internal.FieldValue, bool) {
	for _, pattern := range def.Patterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.TrimSpace(m[1])
		if raw == "" {
			continue
		}
		value, err := canonicalize(raw, def.Kind)
		if err != nil {
			continue
		}
		return value, true
	}
	return internal.FieldValue{}, false
}

func canonicalize(raw string, kind fields.Kind) (internal.FieldValue, error) {
	switch kind {
	case fields.KindDate:
		iso, err := normalize.Date(raw)
		if err != nil {
			return internal.FieldValue{}, err
		}
		return internal.FieldValue{Kind: internal.ValueDate, Text: iso, Raw: raw}, nil
	case fields.KindMoney:
		amount, err := normalize.Money(raw)
		if err != nil {
			return internal.FieldValue{}, err
		}
		return internal.FieldValue{Kind: internal.ValueAmount, Amount: amount, Raw: raw}, nil
	case fields.KindCurrency:
		code, err := normalize.Currency(raw)
		if err != nil {
			return internal.FieldValue{}, err
		}
		return internal.FieldValue{Kind: internal.ValueText, Text: code, Raw: raw}, nil
	case fields.KindPlate:
		plate, err := normalize.Plate(raw)
		if err != nil {
			return internal.FieldValue{}, err
		}
		return internal.FieldValue{Kind: internal.ValueText, Text: plate, Raw: raw}, nil
	case fields.KindIdentifier:
		id, err := normalize.Identifier(raw)
		if err != nil {
			return internal.FieldValue{}, err
		}
		return internal.FieldValue{Kind: internal.ValueText, Text: id, Raw: raw}, nil
	case fields.KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return internal.FieldValue{}, err
		}
		return internal.FieldValue{Kind: internal.ValueInt, Number: n, Raw: raw}, nil
	default:
		text := strings.TrimRight(raw, " ·.:")
		return internal.FieldValue{Kind: internal.ValueText, Text: text, Raw: raw}, nil
	}
}

func fixedValue(fixed string) internal.FieldValue {
	if n, err := strconv.Atoi(fixed); err == nil {
		return internal.FieldValue{Kind: internal.ValueInt, Number: n, Raw: fixed}
	}
	return internal.FieldValue{Kind: internal.ValueText, Text: fixed, Raw: fixed}
}
