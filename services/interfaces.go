package services

import "context"

// GenerateParams are the sampling knobs passed to the language model.
type GenerateParams struct {
	MaxNewTokens      int
	Temperature       float64
	TopP              float64
	RepetitionPenalty float64
}

// Voice selects the speaker and prosody for synthesis.
type Voice struct {
	Name  string
	Rate  string // signed percent, e.g. "+10%"
	Pitch string // signed hertz, e.g. "-5Hz"
}

// STTService defines the interface for a Speech-to-Text service.
type STTService interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// LLMService defines the interface for a Large Language Model service.
type LLMService interface {
	Generate(ctx context.Context, prompt string, params GenerateParams) (string, error)
}

// TTSService defines the interface for a Text-to-Speech service.
// Implementations return MP3 bytes.
type TTSService interface {
	Synthesize(ctx context.Context, text string, voice Voice) ([]byte, error)
}

// Pinger is implemented by collaborators that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping calls f(ctx).
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }
