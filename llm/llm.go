package llm

import (
	"context"
	"fmt"

	"github.com/EasterCompany/dex-voice-service/config"
	"github.com/EasterCompany/dex-voice-service/services"
)

// New builds the language model backend named in cfg.Backend.
func New(ctx context.Context, cfg config.LLMConfig) (services.LLMService, error) {
	switch cfg.Backend {
	case "ollama":
		return NewOllamaClient(cfg.URL, cfg.Model, cfg.Timeout.Duration), nil
	case "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.URL, cfg.Model), nil
	case "stub":
		return &services.StubLLMService{}, nil
	default:
		return nil, fmt.Errorf("unknown llm backend %q", cfg.Backend)
	}
}

// Params extracts the sampling parameters from cfg.
func Params(cfg config.LLMConfig) services.GenerateParams {
	return services.GenerateParams{
		MaxNewTokens:      cfg.MaxNewTokens,
		Temperature:       cfg.Temperature,
		TopP:              cfg.TopP,
		RepetitionPenalty: cfg.RepetitionPenalty,
	}
}
