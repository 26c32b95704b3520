// Package moderation screens free text against keyword dictionaries. Threat
// terms block the text outright; profanity is masked in place.
package moderation

import (
	"strings"
)

// Action is the screening decision for a piece of text.
type Action string

const (
	ActionNone       Action = "none"
	ActionSoftFilter Action = "soft_filter"
	// ActionAdminReview is reserved for content needing human triage. No rule
	// produces it yet.
	ActionAdminReview Action = "admin_review"
	ActionHardFilter  Action = "hard_filter"
)

// Hint is the moderation severity of a piece of text. It is independent of
// the submission severity levels.
type Hint string

const (
	HintNone   Hint = "none"
	HintLow    Hint = "low"
	HintMedium Hint = "medium"
	HintHigh   Hint = "high"
)

// Result is the outcome of assessing one text value.
type Result struct {
	Action        Action   `json:"action"`
	SanitizedText string   `json:"sanitized_text"`
	Flagged       bool     `json:"flagged"`
	Severity      Hint     `json:"severity"`
	DetectedTerms []string `json:"detected_terms"`
}

// Assessor matches whitespace-delimited tokens against the high-severity and
// profanity dictionaries. It holds no mutable state and is safe for
// concurrent use.
type Assessor struct {
	norm      *Normalizer
	high      []string
	profanity []string
}

// NewAssessor compiles dictionary entries into their canonical form so they
// compare directly against canonical tokens.
func NewAssessor(d *Dictionaries) *Assessor {
	norm := NewNormalizer(d.Substitutions)
	return &Assessor{
		norm:      norm,
		high:      canonicalTerms(norm, d.HighSeverity),
		profanity: canonicalTerms(norm, d.ProfanityTerms()),
	}
}

// Normalizer returns the normalizer built from the dictionary substitutions.
func (a *Assessor) Normalizer() *Normalizer {
	return a.norm
}

// Assess screens text. Empty text yields ActionNone with the input echoed back.
// SanitizedText carries masked tokens only for ActionSoftFilter; for
// ActionHardFilter the text must be discarded by the caller.
func (a *Assessor) Assess(text string) Result {
	result := Result{
		Action:        ActionNone,
		SanitizedText: text,
		Severity:      HintNone,
		DetectedTerms: []string{},
	}

	if text == "" {
		return result
	}

	tokens := strings.Fields(text)
	out := make([]string, len(tokens))
	high, low := false, false

	for i, tok := range tokens {
		canon := a.norm.Canonical(tok)

		switch {
		case containsAny(canon, a.high):
			high = true
			result.DetectedTerms = append(result.DetectedTerms, tok)
			out[i] = tok
		case containsAny(canon, a.profanity):
			low = true
			result.DetectedTerms = append(result.DetectedTerms, tok)
			out[i] = Mask(tok)
		default:
			out[i] = tok
		}
	}

	switch {
	case high:
		result.Action = ActionHardFilter
		result.Severity = HintHigh
		result.Flagged = true
	case low:
		result.Action = ActionSoftFilter
		result.Severity = HintLow
		result.Flagged = true
		result.SanitizedText = strings.Join(out, " ")
	}

	return result
}

// Mask keeps the first and last characters of token and replaces the rest
// with '*'. Tokens of two characters or fewer are masked entirely.
func Mask(token string) string {
	runes := []rune(token)
	n := len(runes)
	if n <= 2 {
		return strings.Repeat("*", n)
	}
	return string(runes[0]) + strings.Repeat("*", n-2) + string(runes[n-1])
}

func canonicalTerms(norm *Normalizer, entries []string) []string {
	seen := make(map[string]struct{}, len(entries))
	terms := make([]string, 0, len(entries))
	for _, e := range entries {
		c := norm.Canonical(e)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		terms = append(terms, c)
	}
	return terms
}

func containsAny(s string, terms []string) bool {
	if s == "" {
		return false
	}
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
