package pipeline

import "strings"

type DetectResult struct {
	IsPolicy bool
	Score    float64
	Reason   string
}

var detectKeywords = []string{"póliza", "poliza", "vigencia", "prima", "premio", "asegurado", "patente", "allianz", "endoso"}

// DetectPolicy scores an incoming mail for the chance that it carries an
// issued auto policy worth processing. Pure keyword rules, no remote calls.
func DetectPolicy(subject, text string, attachmentNames []string) DetectResult {
	subject = strings.ToLower(subject)
	text = strings.ToLower(text)

	score := 0.0
	for _, kw := range detectKeywords {
		if strings.Contains(subject, kw) {
			score += 0.2
		}
		if strings.Contains(text, kw) {
			score += 0.1
		}
	}

	for _, name := range attachmentNames {
		if strings.HasSuffix(strings.ToLower(name), ".pdf") {
			score += 0.3
			break
		}
	}

	if score > 1 {
		score = 1
	}

	isPolicy := score >= 0.4
	reason := "rules_negative"
	if isPolicy {
		reason = "rules_positive"
	}
	return DetectResult{IsPolicy: isPolicy, Score: score, Reason: reason}
}
