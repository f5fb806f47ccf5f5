package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"quotes and colon", `  ": Hello there"  `, "Hello there"},
		{"curly quotes", "“Sure thing”", "Sure thing"},
		{"hashtags", "Have fun #weekend #fun_times!", "Have fun  !"},
		{"emoji and symbols", "Great idea 🎉 * ~ @home", "Great idea    home"},
		{"keeps punctuation", "Well, (maybe) it's fine: yes-no?", "Well, (maybe) it's fine: yes-no?"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestDebloat(t *testing.T) {
	assert.Equal(t, "Pizza is great",
		Debloat("As an AI language model, I cannot eat. Pizza is great."))
	assert.Equal(t, "But many people love jazz",
		Debloat("I don't have personal preferences, but still. But many people love jazz."))
	assert.Equal(t, "Try tea",
		Debloat("as an artificial intelligence I abstain!\nTry tea"))
	assert.Equal(t, "Hello", Debloat(" - Hello, "))
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "One. Two!", Shorten("One. Two! Three?", 2, 160))
	assert.Equal(t, "One.", Shorten("One.   Two.", 1, 160))
	assert.Equal(t, "", Shorten("   ", 1, 90))
	assert.Equal(t, "No split.here", Shorten("No split.here", 1, 90))

	long := strings.Repeat("word ", 30)
	got := Shorten(long, 1, 20)
	assert.Equal(t, "word word word word...", got)
}

func TestShorten_IdempotentWithinBudget(t *testing.T) {
	inputs := []string{
		"Hello there.",
		"Sure. Why not?",
		"A fairly short reply without a full stop",
	}
	for _, in := range inputs {
		once := Shorten(in, 2, 160)
		assert.Equal(t, in, once)
		assert.Equal(t, once, Shorten(once, 2, 160))
	}
}

func TestShorten_CountsRunes(t *testing.T) {
	s := "ééééé"
	assert.Equal(t, s, Shorten(s, 1, 5))
	assert.Equal(t, "éé...", Shorten(s, 1, 2))
}

func TestExtractReply(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no marker", "  Just text  ", "Just text"},
		{"after marker", "User: hi\nAssistant: Hello! User: more", "Hello!"},
		{"cut at user", "Sounds fun.\nUser: and then", "Sounds fun."},
		{"cut case-insensitive", "Okay then USER: next", "Okay then"},
		{"cut at second assistant", "Assistant: one\nassistant : two", "one"},
		{"username is not a marker", "Pick a username: anything", "Pick a username: anything"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractReply(tt.in))
		})
	}
}

func TestFinalize(t *testing.T) {
	assert.Equal(t, EmptyReply, Finalize("Assistant: 🎉🎉", 1, 90))
	assert.Equal(t, "Paris is lovely in spring.",
		Finalize(`Assistant: "As an AI, I can't travel. Paris is lovely in spring. You should go." User: ok`, 1, 90))
}
