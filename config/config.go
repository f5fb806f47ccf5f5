// eastercompany/dex-voice-service/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultFileName is the config file looked up in ~/Dexter/config.
	DefaultFileName = "voice-service.json"

	// MaxUploadBytes caps audio uploads accepted by /asr.
	MaxUploadBytes = 25 * 1024 * 1024
)

// Config reflects the structure of voice-service.json.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server" toml:"server"`
	Log     LogConfig     `json:"log" yaml:"log" toml:"log"`
	Session SessionConfig `json:"session" yaml:"session" toml:"session"`
	Redis   RedisConfig   `json:"redis" yaml:"redis" toml:"redis"`
	LLM     LLMConfig     `json:"llm" yaml:"llm" toml:"llm"`
	STT     STTConfig     `json:"stt" yaml:"stt" toml:"stt"`
	TTS     TTSConfig     `json:"tts" yaml:"tts" toml:"tts"`
}

// Defaults returns the configuration used when no file exists yet.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			RequestTimeout:  Duration{120 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
			AllowedOrigins:  []string{"*"},
			MaxUploadBytes:  MaxUploadBytes,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Session: SessionConfig{
			Backend: "memory",
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "dex-voice-service:",
		},
		LLM: LLMConfig{
			Backend:           "ollama",
			URL:               "http://localhost:11434",
			Model:             "qwen2.5:1.5b-instruct",
			MaxNewTokens:      60,
			Temperature:       0.4,
			TopP:              0.9,
			RepetitionPenalty: 1.2,
			MaxSentences:      1,
			MaxChars:          90,
			Warmup:            true,
			Timeout:           Duration{120 * time.Second},
		},
		STT: STTConfig{
			Backend:      "google",
			LanguageCode: "en-US",
			Model:        "whisper-1",
		},
		TTS: TTSConfig{
			Backend:      "google",
			Voice:        "en-US-AriaNeural",
			Rate:         "+0%",
			Pitch:        "+0Hz",
			LanguageCode: "en-US",
		},
	}
}

var (
	sessionBackends = []string{"memory", "redis"}
	llmBackends     = []string{"ollama", "gemini", "openai", "stub"}
	sttBackends     = []string{"google", "whisper", "stub"}
	ttsBackends     = []string{"google", "stub"}
)

// Validate checks that every backend name is known and numeric limits make sense.
func (c *Config) Validate() error {
	if err := oneOf("session.backend", c.Session.Backend, sessionBackends); err != nil {
		return err
	}
	if err := oneOf("llm.backend", c.LLM.Backend, llmBackends); err != nil {
		return err
	}
	if err := oneOf("stt.backend", c.STT.Backend, sttBackends); err != nil {
		return err
	}
	if err := oneOf("tts.backend", c.TTS.Backend, ttsBackends); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.LLM.MaxSentences < 1 || c.LLM.MaxChars < 1 {
		return fmt.Errorf("llm.max_sentences and llm.max_chars must be positive")
	}
	if c.LLM.HistoryTurns < 0 {
		return fmt.Errorf("llm.history_turns must not be negative")
	}
	if c.LLM.Backend == "gemini" && c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required for the gemini backend")
	}
	return nil
}

// applyEnv lets secrets live outside the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("DEX_VOICE_LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("DEX_VOICE_STT_API_KEY"); v != "" {
		c.STT.APIKey = v
	}
	if v := os.Getenv("DEX_VOICE_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("DEX_VOICE_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

func oneOf(field, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s: unknown value %q (expected one of %s)", field, value, strings.Join(allowed, ", "))
}
