package moderation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var nonWord = regexp.MustCompile(`[^\w]`)

// Normalizer canonicalizes text for keyword matching: lower-case, then each
// obfuscation character is swapped for its letter. Repeated characters are
// left alone.
type Normalizer struct {
	table map[rune]rune
}

// NewNormalizer builds a Normalizer from a one-character substitution table.
func NewNormalizer(substitutions map[string]string) *Normalizer {
	table := make(map[rune]rune, len(substitutions))
	for from, to := range substitutions {
		f, _ := utf8.DecodeRuneInString(from)
		t, _ := utf8.DecodeRuneInString(to)
		table[f] = t
	}
	return &Normalizer{table: table}
}

// Normalize returns the canonical form of text.
func (n *Normalizer) Normalize(text string) string {
	return strings.Map(func(r rune) rune {
		if sub, ok := n.table[r]; ok {
			return sub
		}
		return r
	}, strings.ToLower(text))
}

// Canonical normalizes text and strips every non-word character.
func (n *Normalizer) Canonical(text string) string {
	return nonWord.ReplaceAllString(n.Normalize(text), "")
}
