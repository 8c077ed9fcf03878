package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Model)
	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.Equal(t, 3, cfg.RetryCount)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, "0.0.0.0:5000", cfg.Addr())
	assert.InDelta(t, 0.4, cfg.Temperature, 1e-6)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "OPENAI_API_KEY=sk-file\nHISTORY_LIMIT=4\nPORT=6000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("PORT", "7000")
	// registered so t.Setenv restores them after godotenv sets them
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("HISTORY_LIMIT", "")
	require.NoError(t, os.Unsetenv("OPENAI_API_KEY"))
	require.NoError(t, os.Unsetenv("HISTORY_LIMIT"))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-file", cfg.OpenAIKey)
	assert.Equal(t, 4, cfg.HistoryLimit)
	assert.Equal(t, 7000, cfg.Port)
}

func TestLoad_TelegramAllowList(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ALLOWED_TELEGRAM_USER_IDS", "10,20")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20}, cfg.AllowedTelegramUserIDs)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Provider:            ProviderOpenAI,
		OpenAIKey:           "sk",
		ContextWindow:       4096,
		SafetyMargin:        256,
		MinCompletionTokens: 256,
		MaxCompletionTokens: 1024,
		HistoryLimit:        10,
		RetryCount:          3,
		TimeoutSeconds:      30,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing openai key", func(c *Config) { c.OpenAIKey = "" }, "OPENAI_API_KEY"},
		{"missing gemini key", func(c *Config) { c.Provider = ProviderGemini }, "GEMINI_API_KEY"},
		{"unknown provider", func(c *Config) { c.Provider = "llama" }, "LLM_PROVIDER"},
		{"zero history", func(c *Config) { c.HistoryLimit = 0 }, "HISTORY_LIMIT"},
		{"zero retries", func(c *Config) { c.RetryCount = 0 }, "RETRY_COUNT"},
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }, "TIMEOUT_SECONDS"},
		{"floor above ceiling", func(c *Config) { c.MinCompletionTokens = 2048 }, "MIN_TOKENS/MAX_TOKENS"},
		{"margin eats window", func(c *Config) { c.SafetyMargin = 4096 }, "LLM_CONTEXT_WINDOW"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}
