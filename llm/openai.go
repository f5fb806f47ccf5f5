package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/EasterCompany/dex-voice-service/services"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient generates completions with any OpenAI-compatible chat API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

var _ services.LLMService = (*OpenAIClient)(nil)

// NewOpenAIClient creates a client. baseURL may point at a local
// OpenAI-compatible server; empty keeps the public endpoint.
func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg), model: model}
}

// Generate sends prompt as a single user message.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string, params services.GenerateParams) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   params.MaxNewTokens,
		Temperature: float32(params.Temperature),
		TopP:        float32(params.TopP),
		Stop:        []string{"\nUser:"},
	}
	if params.RepetitionPenalty > 1 {
		req.FrequencyPenalty = float32(params.RepetitionPenalty - 1)
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
