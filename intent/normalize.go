// Package intent holds the text normalizer and the rule-based intent
// classifiers the dialogue router consults before falling back to the model.
package intent

import (
	"regexp"
	"strings"
)

// Word characters are Unicode letters, digits and underscore.
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// Normalize lowercases s, turns every run of non-word characters into a single
// space, collapses whitespace and trims. It never fails and is idempotent.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = nonWord.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
