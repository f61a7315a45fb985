// Package keyword extracts lowercase keyword tokens from theme text.
package keyword

import (
	"regexp"
	"strings"
)

// wordRe matches runs of Latin or Cyrillic letters of length >= 3.
var wordRe = regexp.MustCompile(`[a-zA-Zа-яА-ЯёЁ]{3,}`)

// Set is a deduplicated collection of lowercase tokens.
type Set map[string]struct{}

// Has reports whether the token is in the set.
func (s Set) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// Extract tokenizes text into a deduplicated set of lowercase words. Tokens
// shorter than three letters and non-letter characters are discarded.
func Extract(text string) Set {
	out := make(Set)
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		out[w] = struct{}{}
	}
	return out
}
