package llm

import (
	"regexp"
	"strings"
)

// EmptyReply replaces a generated answer that cleaned down to nothing.
const EmptyReply = "Got it."

// Default budgets for Shorten.
const (
	DefaultMaxSentences = 2
	DefaultMaxChars     = 160
)

var (
	hashtagRe    = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	disallowedRe = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Zs}.,!?'\-:()]+`)
	sentenceEnd  = regexp.MustCompile(`[.!?]\s+`)
	roleMarkerRe = regexp.MustCompile(`(?i)\s*\b(?:user|assistant)\s*:`)

	disclaimerRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bAs an (?:AI|artificial intelligence)[^.!\n]*[.!\n]?\s*`),
		regexp.MustCompile(`(?i)\bI (?:do not|don't) have personal (?:preferences|opinions)[^.!\n]*[.!\n]?\s*`),
	}
)

const assistantMarker = "Assistant:"

// Clean strips surrounding quotes and a leading colon, drops hashtags and
// removes any character that is not a word character, whitespace or basic
// punctuation.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"`)
	s = strings.Trim(s, "“”")
	s = strings.TrimLeft(s, ":")
	s = strings.TrimSpace(s)
	s = hashtagRe.ReplaceAllString(s, "")
	return disallowedRe.ReplaceAllString(s, "")
}

// Debloat removes self-referential AI disclaimers and trims stray
// separators left at either end.
func Debloat(s string) string {
	for _, re := range disclaimerRes {
		s = re.ReplaceAllString(s, "")
	}
	return strings.Trim(s, " ,.-")
}

// Shorten keeps the first maxSentences sentences of s and truncates the
// result to maxChars characters, marking a cut with "...".
func Shorten(s string, maxSentences, maxChars int) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return t
	}

	var parts []string
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(t, -1) {
		parts = append(parts, t[start:loc[0]+1])
		start = loc[1]
	}
	parts = append(parts, t[start:])
	if len(parts) > maxSentences {
		parts = parts[:maxSentences]
	}
	t = strings.TrimSpace(strings.Join(parts, " "))

	if r := []rune(t); len(r) > maxChars {
		t = strings.TrimRight(string(r[:maxChars]), " \t\r\n") + "..."
	}
	return t
}

// ExtractReply pulls the assistant's answer out of raw model output: the text
// after the first "Assistant:" marker, up to the next role marker.
func ExtractReply(raw string) string {
	if i := strings.Index(raw, assistantMarker); i >= 0 {
		raw = raw[i+len(assistantMarker):]
	}
	if loc := roleMarkerRe.FindStringIndex(raw); loc != nil {
		raw = raw[:loc[0]]
	}
	return strings.TrimSpace(raw)
}

// Finalize runs the whole cleaning pipeline on raw model output.
func Finalize(raw string, maxSentences, maxChars int) string {
	s := Shorten(Debloat(Clean(ExtractReply(raw))), maxSentences, maxChars)
	if s == "" {
		return EmptyReply
	}
	return s
}
