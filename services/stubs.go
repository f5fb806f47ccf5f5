package services

import (
	"context"

	logger "github.com/EasterCompany/dex-voice-service/log"
	"go.uber.org/zap"
)

// StubSTTService is a mock implementation of the STTService.
type StubSTTService struct{}

// Transcribe returns a canned transcription.
func (s *StubSTTService) Transcribe(_ context.Context, audio []byte) (string, error) {
	logger.Debug("stub stt transcribe", zap.Int("bytes", len(audio)))
	return "[transcribed audio]", nil
}

// StubLLMService is a mock implementation of the LLMService.
type StubLLMService struct{}

// Generate echoes a canned assistant line.
func (s *StubLLMService) Generate(_ context.Context, prompt string, params GenerateParams) (string, error) {
	logger.Debug("stub llm generate", zap.Int("prompt_len", len(prompt)), zap.Int("max_new_tokens", params.MaxNewTokens))
	return "I'm running without a language model right now.", nil
}

// StubTTSService is a mock implementation of the TTSService.
type StubTTSService struct{}

// Synthesize returns a single silent MPEG frame header.
func (s *StubTTSService) Synthesize(_ context.Context, text string, voice Voice) ([]byte, error) {
	logger.Debug("stub tts synthesize", zap.String("text", text), zap.String("voice", voice.Name))
	return []byte{0xFF, 0xFB, 0x90, 0x00}, nil
}
