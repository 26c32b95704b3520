// Package severity ranks submissions by urgency. The level decides whether
// an operator is alerted.
package severity

import (
	"fmt"
	"strings"
)

// Level is the urgency of a submission.
type Level string

const (
	Critical Level = "CRITICAL"
	High     Level = "HIGH"
	Medium   Level = "MEDIUM"
	Low      Level = "LOW"
)

// Levels lists every level from most to least urgent.
var Levels = []Level{Critical, High, Medium, Low}

// Rank orders levels so that a larger rank is more urgent. Unknown levels rank 0.
func (l Level) Rank() int {
	switch l {
	case Critical:
		return 4
	case High:
		return 3
	case Medium:
		return 2
	case Low:
		return 1
	default:
		return 0
	}
}

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if l.Rank() == 0 {
		return "", fmt.Errorf("unknown severity level %q", s)
	}
	return l, nil
}

// Signals carries what the classifier reads from a submission. Ratings are
// nil when the form did not supply them.
type Signals struct {
	Text               string
	SafetyRating       *int
	ExperienceRating   *int
	SatisfactionRating *int
}

// Normalizer canonicalizes text before keyword matching.
type Normalizer interface {
	Normalize(text string) string
}

// Classifier applies the escalation rules in order; the first rule that
// matches decides the level.
type Classifier struct {
	norm      Normalizer
	emergency []string
}

// DefaultRating stands in when a submission carries no usable rating.
const DefaultRating = 5

// NewClassifier builds a Classifier over the emergency keyword list.
func NewClassifier(norm Normalizer, emergency []string) *Classifier {
	terms := make([]string, 0, len(emergency))
	for _, kw := range emergency {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			terms = append(terms, kw)
		}
	}
	return &Classifier{norm: norm, emergency: terms}
}

// Classify returns the level for sig.
func (c *Classifier) Classify(sig Signals) Level {
	if c.hasEmergency(sig.Text) {
		return Critical
	}

	if sig.SafetyRating != nil && *sig.SafetyRating <= 2 {
		return Critical
	}

	rating := DefaultRating
	switch {
	case sig.ExperienceRating != nil:
		rating = *sig.ExperienceRating
	case sig.SatisfactionRating != nil:
		rating = *sig.SatisfactionRating
	}

	switch {
	case rating <= 2:
		return High
	case rating == 3:
		return Medium
	default:
		return Low
	}
}

// hasEmergency matches against normalized text, which catches everything
// the lower-cased text would plus obfuscated spellings.
func (c *Classifier) hasEmergency(text string) bool {
	if text == "" {
		return false
	}
	normalized := c.norm.Normalize(text)
	for _, kw := range c.emergency {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}
