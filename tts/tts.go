package tts

import (
	"context"
	"fmt"

	"github.com/EasterCompany/dex-voice-service/config"
	"github.com/EasterCompany/dex-voice-service/services"
)

// New builds the text-to-speech backend named in cfg.Backend.
func New(ctx context.Context, cfg config.TTSConfig) (services.TTSService, error) {
	switch cfg.Backend {
	case "google":
		return NewGoogle(ctx, cfg.LanguageCode, cfg.CredentialsFile)
	case "stub":
		return &services.StubTTSService{}, nil
	default:
		return nil, fmt.Errorf("unknown tts backend %q", cfg.Backend)
	}
}

// DefaultVoice returns the voice used when a request leaves fields blank.
func DefaultVoice(cfg config.TTSConfig) services.Voice {
	return services.Voice{Name: cfg.Voice, Rate: cfg.Rate, Pitch: cfg.Pitch}
}

// WithDefaults fills blank fields of v from def.
func WithDefaults(v, def services.Voice) services.Voice {
	if v.Name == "" {
		v.Name = def.Name
	}
	if v.Rate == "" {
		v.Rate = def.Rate
	}
	if v.Pitch == "" {
		v.Pitch = def.Pitch
	}
	return v
}
