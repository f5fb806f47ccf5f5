package config

import (
	"fmt"
	"time"
)

// Duration wraps time.Duration so config files can say "30s" instead of nanoseconds.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText renders the duration in Go syntax.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr            string   `json:"addr" yaml:"addr" toml:"addr"`
	RequestTimeout  Duration `json:"request_timeout" yaml:"request_timeout" toml:"request_timeout"`
	ShutdownTimeout Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" toml:"shutdown_timeout"`
	AllowedOrigins  []string `json:"allowed_origins" yaml:"allowed_origins" toml:"allowed_origins"`
	MaxUploadBytes  int64    `json:"max_upload_bytes" yaml:"max_upload_bytes" toml:"max_upload_bytes"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level     string `json:"level" yaml:"level" toml:"level"`
	Format    string `json:"format" yaml:"format" toml:"format"` // console, json
	RedisSink bool   `json:"redis_sink" yaml:"redis_sink" toml:"redis_sink"`
}

// SessionConfig selects the conversation store
type SessionConfig struct {
	Backend string   `json:"backend" yaml:"backend" toml:"backend"` // memory, redis
	TTL     Duration `json:"ttl" yaml:"ttl" toml:"ttl"`             // redis only, 0 keeps sessions forever
}

// RedisConfig holds the connection details for the local cache
type RedisConfig struct {
	Addr      string `json:"addr" yaml:"addr" toml:"addr"`
	Username  string `json:"username" yaml:"username" toml:"username"`
	Password  string `json:"password" yaml:"password" toml:"password"`
	DB        int    `json:"db" yaml:"db" toml:"db"`
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix" toml:"key_prefix"`
}

// LLMConfig holds generative fallback settings
type LLMConfig struct {
	Backend           string   `json:"backend" yaml:"backend" toml:"backend"` // ollama, gemini, openai, stub
	URL               string   `json:"url" yaml:"url" toml:"url"`
	Model             string   `json:"model" yaml:"model" toml:"model"`
	APIKey            string   `json:"api_key" yaml:"api_key" toml:"api_key"`
	MaxNewTokens      int      `json:"max_new_tokens" yaml:"max_new_tokens" toml:"max_new_tokens"`
	Temperature       float64  `json:"temperature" yaml:"temperature" toml:"temperature"`
	TopP              float64  `json:"top_p" yaml:"top_p" toml:"top_p"`
	RepetitionPenalty float64  `json:"repetition_penalty" yaml:"repetition_penalty" toml:"repetition_penalty"`
	HistoryTurns      int      `json:"history_turns" yaml:"history_turns" toml:"history_turns"`
	MaxSentences      int      `json:"max_sentences" yaml:"max_sentences" toml:"max_sentences"`
	MaxChars          int      `json:"max_chars" yaml:"max_chars" toml:"max_chars"`
	Warmup            bool     `json:"warmup" yaml:"warmup" toml:"warmup"`
	Timeout           Duration `json:"timeout" yaml:"timeout" toml:"timeout"`
}

// STTConfig holds speech-to-text settings
type STTConfig struct {
	Backend         string `json:"backend" yaml:"backend" toml:"backend"` // google, whisper, stub
	LanguageCode    string `json:"language_code" yaml:"language_code" toml:"language_code"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file" toml:"credentials_file"`
	URL             string `json:"url" yaml:"url" toml:"url"`
	Model           string `json:"model" yaml:"model" toml:"model"`
	APIKey          string `json:"api_key" yaml:"api_key" toml:"api_key"`
}

// TTSConfig holds text-to-speech settings
type TTSConfig struct {
	Backend         string `json:"backend" yaml:"backend" toml:"backend"` // google, stub
	Voice           string `json:"voice" yaml:"voice" toml:"voice"`
	Rate            string `json:"rate" yaml:"rate" toml:"rate"`
	Pitch           string `json:"pitch" yaml:"pitch" toml:"pitch"`
	LanguageCode    string `json:"language_code" yaml:"language_code" toml:"language_code"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file" toml:"credentials_file"`
}
