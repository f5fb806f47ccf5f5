package intent

import (
	"regexp"
	"strings"
)

var timeKeyphrases = []string{
	"what time is it",
	"whats the time",
	"what s the time",
	"current time",
	"time now",
	"what time now",
	"what time right now",
	"tell me the time",
}

var interrogatives = map[string]struct{}{
	"what": {}, "why": {}, "when": {}, "where": {}, "which": {}, "how": {}, "hows": {},
	"do": {}, "does": {}, "did": {}, "is": {}, "are": {}, "am": {},
	"can": {}, "could": {}, "would": {}, "should": {}, "will": {}, "shall": {},
}

var greetingStarts = map[string]struct{}{
	"hi": {}, "hello": {}, "hey": {}, "yo": {}, "hiya": {},
}

// \b in Go's regexp is an ASCII word boundary, so "éwatch" still counts as "watch".
var (
	movieRe      = regexp.MustCompile(`(?i)\b(recommend|suggest|watch|try|movie|film)\b`)
	followupRe   = regexp.MustCompile(`(?i)\b(why.*(choose|pick|recommend).*(that|this)\s*movie|why\s+that\s+movie)\b`)
	preferenceRe = regexp.MustCompile(`(?i)\bfavou?rite\b|\bwhat.?do.?you.?like\b`)
)

// IsTimeQuestion reports whether s asks for the current time.
func IsTimeQuestion(s string) bool {
	padded := " " + Normalize(s) + " "
	for _, k := range timeKeyphrases {
		if strings.Contains(padded, " "+k+" ") {
			return true
		}
	}
	return false
}

// IsGreeting reports whether s is a short bare greeting. Anything phrased as a
// question is left to the other branches, including "how are you" because its
// first token is interrogative.
func IsGreeting(s string) bool {
	if strings.Contains(s, "?") {
		return false
	}
	tokens := strings.Fields(Normalize(s))
	if len(tokens) == 0 || len(tokens) > 3 {
		return false
	}
	for _, tok := range tokens {
		if _, ok := interrogatives[tok]; ok {
			return false
		}
	}
	if strings.Join(tokens, " ") == "how are you" {
		return true
	}
	_, ok := greetingStarts[tokens[0]]
	return ok
}

// IsMovieIntent reports whether s asks for something to watch.
func IsMovieIntent(s string) bool {
	return movieRe.MatchString(s)
}

// RefersPreviousMovie reports whether s asks why the last title was suggested.
func RefersPreviousMovie(s string) bool {
	return followupRe.MatchString(s)
}

// IsPreferenceQuery reports whether s asks about the assistant's tastes.
func IsPreferenceQuery(s string) bool {
	return preferenceRe.MatchString(s)
}
