package tts

import (
	"context"
	"fmt"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/EasterCompany/dex-voice-service/services"
	"google.golang.org/api/option"
)

// GoogleSynthesizer renders MP3 speech with Google Cloud Text-to-Speech.
type GoogleSynthesizer struct {
	client       *texttospeech.Client
	languageCode string
}

var _ services.TTSService = (*GoogleSynthesizer)(nil)

// NewGoogle creates a synthesizer. Without a credentials file it relies on
// Application Default Credentials.
func NewGoogle(ctx context.Context, languageCode, credentialsFile string, opts ...option.ClientOption) (*GoogleSynthesizer, error) {
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create text-to-speech client: %w", err)
	}
	return &GoogleSynthesizer{client: client, languageCode: languageCode}, nil
}

// Close cleans up the client connection.
func (g *GoogleSynthesizer) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Synthesize renders text with the requested voice.
func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text string, voice services.Voice) ([]byte, error) {
	req, err := synthesisRequest(text, voice, g.languageCode)
	if err != nil {
		return nil, err
	}
	resp, err := g.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("synthesize speech failed: %w", err)
	}
	return resp.AudioContent, nil
}

func synthesisRequest(text string, voice services.Voice, fallbackLanguage string) (*texttospeechpb.SynthesizeSpeechRequest, error) {
	rate, err := SpeakingRate(voice.Rate)
	if err != nil {
		return nil, err
	}
	pitch, err := Semitones(voice.Pitch)
	if err != nil {
		return nil, err
	}
	languageCode, name := voiceSelection(voice.Name, fallbackLanguage)

	return &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: languageCode,
			Name:         name,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			SpeakingRate:  rate,
			Pitch:         pitch,
		},
	}, nil
}
