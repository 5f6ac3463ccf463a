package pipeline

import (
	"github.com/nachoviau/automatizacion-broker/internal/normalize"
)

// ResolveOption picks the dropdown label that corresponds to a desired
// value. Tiers, strictest first: exact string equality, equality after
// case/accent/punctuation folding, then containment of the desired token
// sequence inside a label. Containment prefers the shortest label so
// "Enero" lands on "ENERO" rather than "ENERO Y FEBRERO"; within a tier
// the first label in form order wins. No tier matching means the option
// list simply does not carry the value and the field is reported instead
// of guessed.
func ResolveOption(desired string, candidates []string) (string, bool) {
	for _, c := range candidates {
		if c == desired {
			return c, true
		}
	}

	want := normalize.ForComparison(desired)
	if want == "" {
		return "", false
	}
	for _, c := range candidates {
		if normalize.ForComparison(c) == want {
			return c, true
		}
	}

	wantTokens := normalize.Tokens(desired)
	best := ""
	bestLen := -1
	for _, c := range candidates {
		tokens := normalize.Tokens(c)
		if !containsTokenSeq(tokens, wantTokens) {
			continue
		}
		if bestLen == -1 || len(tokens) < bestLen {
			best = c
			bestLen = len(tokens)
		}
	}
	if bestLen >= 0 {
		return best, true
	}
	return "", false
}

// containsTokenSeq reports whether seq appears contiguously inside tokens.
func containsTokenSeq(tokens, seq []string) bool {
	if len(seq) == 0 || len(seq) > len(tokens) {
		return false
	}
	for i := 0; i+len(seq) <= len(tokens); i++ {
		match := true
		for j := range seq {
			if tokens[i+j] != seq[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
