package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_PATH", "PORT", "HTTP_ADDRESS", "HTTP_MAX_BODY_BYTES", "ALLOWED_ORIGINS",
		"LLM_PROVIDER", "GOOGLE_API_KEY", "OPENAI_API_KEY", "LLM_API_KEY", "LLM_BASE_URL",
		"LLM_MODEL", "LLM_TEMPERATURE", "LLM_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8000", cfg.HTTP.Address)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	require.Equal(t, ProviderGemini, cfg.LLM.Provider)
	require.Equal(t, "gemini-1.5-flash", cfg.LLM.Model)
	require.Equal(t, "test-key", cfg.LLM.APIKey)
	require.Equal(t, int64(1<<20), cfg.HTTP.MaxBodyBytes)
	require.Nil(t, cfg.LLM.Temperature)
}

func TestLoadZeroTemperatureIsKept(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("LLM_TEMPERATURE", "0")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg.LLM.Temperature)
	require.Zero(t, *cfg.LLM.Temperature)
}

func TestLoadReadsConfigPathFromDotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.Unsetenv("CONFIG_PATH"))
	require.NoError(t, os.Unsetenv("GOOGLE_API_KEY"))

	dir := t.TempDir()
	path := filepath.Join(dir, "hermate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  address: \":7100\"\n"), 0o600))
	dotenv := "CONFIG_PATH=" + path + "\nGOOGLE_API_KEY=dotenv-key\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":7100", cfg.HTTP.Address)
	require.Equal(t, "dotenv-key", cfg.LLM.APIKey)
}

func TestLoadMissingCredentialFails(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "GOOGLE_API_KEY environment variable not set")
}

func TestLoadOpenAIProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("GOOGLE_API_KEY", "ignored")

	_, err := Load()
	require.ErrorContains(t, err, "OPENAI_API_KEY")

	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	require.Equal(t, "sk-test", cfg.LLM.APIKey)
	require.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://hermate.app, http://localhost:5173 ,")
	t.Setenv("LLM_MODEL", "gemini-1.5-pro")
	t.Setenv("LLM_TEMPERATURE", "0.4")
	t.Setenv("LLM_TIMEOUT", "15s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, []string{"https://hermate.app", "http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	require.Equal(t, "gemini-1.5-pro", cfg.LLM.Model)
	require.NotNil(t, cfg.LLM.Temperature)
	require.InDelta(t, 0.4, *cfg.LLM.Temperature, 0.0001)
	require.Equal(t, 15*time.Second, cfg.LLM.Timeout)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
http:
  address: ":7000"
cors:
  allowedOrigins: ["https://example.com"]
llm:
  apiKey: "file-key"
  timeout: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":7000", cfg.HTTP.Address)
	require.Equal(t, []string{"https://example.com"}, cfg.CORS.AllowedOrigins)
	require.Equal(t, "file-key", cfg.LLM.APIKey)
	require.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	require.Equal(t, "gemini-1.5-flash", cfg.LLM.Model)
}

func TestValidateRejectsBadOrigin(t *testing.T) {
	cfg := defaultConfig()
	cfg.LLM.APIKey = "key"
	cfg.CORS.AllowedOrigins = []string{"localhost:3000"}
	require.ErrorContains(t, cfg.Validate(), "localhost:3000")

	cfg.CORS.AllowedOrigins = []string{"*"}
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	cfg := defaultConfig()
	cfg.LLM.Provider = "llama"
	cfg.LLM.APIKey = "key"
	require.ErrorContains(t, cfg.Validate(), "not supported")
}

func TestValidateRejectsLLMTimeoutBeyondWriteTimeout(t *testing.T) {
	cfg := defaultConfig()
	cfg.LLM.APIKey = "key"
	cfg.LLM.Timeout = 120 * time.Second
	require.ErrorContains(t, cfg.Validate(), "llm.timeout")

	cfg.LLM.Timeout = cfg.HTTP.WriteTimeout
	require.ErrorContains(t, cfg.Validate(), "http.writeTimeout")

	cfg.LLM.Timeout = cfg.HTTP.WriteTimeout - time.Second
	require.NoError(t, cfg.Validate())
}

func TestLoadRejectsLLMTimeoutBeyondWriteTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("LLM_TIMEOUT", "120s")

	_, err := Load()
	require.ErrorContains(t, err, "must be shorter than http.writeTimeout")
}
