package stt

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/EasterCompany/dex-voice-service/services"
	openai "github.com/sashabaranov/go-openai"
)

// WhisperTranscriber talks to any OpenAI-compatible transcription endpoint,
// including self-hosted whisper servers.
type WhisperTranscriber struct {
	client   *openai.Client
	model    string
	language string
}

var _ services.STTService = (*WhisperTranscriber)(nil)

// NewWhisper creates a transcriber. baseURL may be empty for the public API.
func NewWhisper(apiKey, baseURL, model, languageCode string) *WhisperTranscriber {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.Whisper1
	}
	// Whisper takes ISO-639-1, "en-US" becomes "en".
	lang, _, _ := strings.Cut(languageCode, "-")
	return &WhisperTranscriber{client: openai.NewClientWithConfig(cfg), model: model, language: lang}
}

// Transcribe uploads the clip and returns the recognized text.
func (w *WhisperTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	tr, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		Reader:   bytes.NewReader(audio),
		FilePath: "audio" + Sniff(audio).Ext(),
		Language: w.language,
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return strings.TrimSpace(tr.Text), nil
}
