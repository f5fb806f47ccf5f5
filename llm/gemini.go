package llm

import (
	"context"
	"fmt"

	"github.com/EasterCompany/dex-voice-service/services"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiClient generates completions with the Google Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

var _ services.LLMService = (*GeminiClient)(nil)

// NewGeminiClient creates a Gemini client. An empty model selects the default.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{client: gc, model: model}, nil
}

// Generate sends prompt as a single user turn.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, params services.GenerateParams) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), geminiConfig(params))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	return resp.Text(), nil
}

func geminiConfig(params services.GenerateParams) *genai.GenerateContentConfig {
	temp := float32(params.Temperature)
	topP := float32(params.TopP)
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(params.MaxNewTokens),
		Temperature:     &temp,
		TopP:            &topP,
		StopSequences:   []string{"\nUser:"},
	}
	if params.RepetitionPenalty > 1 {
		penalty := float32(params.RepetitionPenalty - 1)
		config.FrequencyPenalty = &penalty
	}
	return config
}
