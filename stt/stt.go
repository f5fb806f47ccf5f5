// eastercompany/dex-voice-service/stt/stt.go
package stt

import (
	"context"
	"fmt"

	"github.com/EasterCompany/dex-voice-service/config"
	"github.com/EasterCompany/dex-voice-service/services"
)

// New builds the speech-to-text backend named in cfg.Backend.
func New(ctx context.Context, cfg config.STTConfig) (services.STTService, error) {
	switch cfg.Backend {
	case "google":
		return NewGoogle(ctx, cfg.LanguageCode, cfg.CredentialsFile)
	case "whisper":
		return NewWhisper(cfg.APIKey, cfg.URL, cfg.Model, cfg.LanguageCode), nil
	case "stub":
		return &services.StubSTTService{}, nil
	default:
		return nil, fmt.Errorf("unknown stt backend %q", cfg.Backend)
	}
}
