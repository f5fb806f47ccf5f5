// eastercompany/dex-voice-service/config/config_test.go
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestEnvironment creates a temporary home with a Dexter config directory.
// It returns the path to the config directory.
func setupTestEnvironment(t *testing.T) string {
	tempDir := t.TempDir()

	dexterConfigPath := filepath.Join(tempDir, "Dexter", "config")
	require.NoError(t, os.MkdirAll(dexterConfigPath, 0755))

	originalHomeDirFunc := osUserHomeDir
	osUserHomeDir = func() (string, error) {
		return tempDir, nil
	}
	t.Cleanup(func() { osUserHomeDir = originalHomeDirFunc })

	return dexterConfigPath
}

func TestLoad_JSON(t *testing.T) {
	dexterPath := setupTestEnvironment(t)

	raw := map[string]any{
		"server": map[string]any{"addr": ":9000", "request_timeout": "5s"},
		"llm":    map[string]any{"backend": "stub", "max_chars": 40},
		"tts":    map[string]any{"voice": "en-GB-Neural2-A"},
	}
	data, err := json.Marshal(raw)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dexterPath, DefaultFileName), data, 0644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout.Duration)
	assert.Equal(t, "stub", cfg.LLM.Backend)
	assert.Equal(t, 40, cfg.LLM.MaxChars)
	assert.Equal(t, "en-GB-Neural2-A", cfg.TTS.Voice)

	// Unset fields keep their defaults.
	assert.Equal(t, 60, cfg.LLM.MaxNewTokens)
	assert.Equal(t, "+0%", cfg.TTS.Rate)
	assert.Equal(t, "memory", cfg.Session.Backend)
}

func TestLoad_FileCreation(t *testing.T) {
	dexterPath := setupTestEnvironment(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)

	_, err = os.Stat(filepath.Join(dexterPath, DefaultFileName))
	assert.NoError(t, err, "default config file should have been written")
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voice.yaml")
	content := `
session:
  backend: redis
  ttl: 30m
redis:
  addr: "cache:6379"
llm:
  backend: openai
  model: gpt-4o-mini
  history_turns: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL.Duration)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "openai", cfg.LLM.Backend)
	assert.Equal(t, 2, cfg.LLM.HistoryTurns)
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voice.toml")
	content := `
[stt]
backend = "whisper"
url = "http://localhost:9090/v1"

[tts]
backend = "stub"
pitch = "+10Hz"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "whisper", cfg.STT.Backend)
	assert.Equal(t, "http://localhost:9090/v1", cfg.STT.URL)
	assert.Equal(t, "stub", cfg.TTS.Backend)
	assert.Equal(t, "+10Hz", cfg.TTS.Pitch)
}

func TestLoad_InvalidBackend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voice.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"llm":{"backend":"gpt9"}}`), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.backend")
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voice.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server":`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voice.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"llm":{"backend":"gemini"}}`), 0644))

	t.Setenv("DEX_VOICE_LLM_API_KEY", "secret")
	t.Setenv("DEX_VOICE_REDIS_PASSWORD", "hunter2")
	t.Setenv("DEX_VOICE_ADDR", "127.0.0.1:8123")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.LLM.APIKey)
	assert.Equal(t, "hunter2", cfg.Redis.Password)
	assert.Equal(t, "127.0.0.1:8123", cfg.Server.Addr)
}

func TestSave_RoundTripsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "voice.yml")
	cfg := Defaults()
	cfg.LLM.Model = "llama3.2:1b"
	cfg.Session.TTL = Duration{time.Hour}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestExpandPath(t *testing.T) {
	setupTestEnvironment(t)
	home, _ := osUserHomeDir()

	p, err := expandPath("~/Dexter/config/x.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Dexter", "config", "x.json"), p)

	p, err = expandPath("/etc/dexter.json")
	require.NoError(t, err)
	assert.Equal(t, "/etc/dexter.json", p)
}
