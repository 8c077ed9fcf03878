package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"vet-assistant-relay/internal/core"
	logx "vet-assistant-relay/pkg/logger"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	Environment string `envconfig:"APP_ENV" default:"development"`
	Port        int    `envconfig:"PORT" default:"5000"`

	Provider      string `envconfig:"LLM_PROVIDER" default:"openai"`
	OpenAIKey     string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`
	GeminiKey     string `envconfig:"GEMINI_API_KEY"`

	Model               string  `envconfig:"LLM_MODEL" default:"gpt-3.5-turbo"`
	Temperature         float32 `envconfig:"LLM_TEMPERATURE" default:"0.4"`
	ContextWindow       int     `envconfig:"LLM_CONTEXT_WINDOW" default:"4096"`
	SafetyMargin        int     `envconfig:"LLM_SAFETY_MARGIN" default:"256"`
	MinCompletionTokens int     `envconfig:"MIN_TOKENS" default:"256"`
	MaxCompletionTokens int     `envconfig:"MAX_TOKENS" default:"1024"`

	HistoryLimit   int `envconfig:"HISTORY_LIMIT" default:"10"`
	RetryCount     int `envconfig:"RETRY_COUNT" default:"3"`
	TimeoutSeconds int `envconfig:"TIMEOUT_SECONDS" default:"30"`

	PromptsPath string `envconfig:"PROMPTS_CONFIG_PATH"`

	TelegramToken          string  `envconfig:"TELEGRAM_BOT_TOKEN"`
	AllowedTelegramUserIDs []int64 `envconfig:"ALLOWED_TELEGRAM_USER_IDS"`
}

// Load reads the optional .env file at path, then the process environment.
// Variables already set in the environment win over the file.
func Load(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		logx.Warn().Err(err).Str("path", path).Msg("could not read .env")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("process environment: %w", err)
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Env() core.Environment {
	return core.ParseEnvironment(c.Environment)
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}

func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIKey == "" {
			return &ConfigError{Field: "OPENAI_API_KEY", Message: "required"}
		}
	case ProviderGemini:
		if c.GeminiKey == "" {
			return &ConfigError{Field: "GEMINI_API_KEY", Message: "required"}
		}
	default:
		return &ConfigError{Field: "LLM_PROVIDER", Message: fmt.Sprintf("unknown provider %q", c.Provider)}
	}

	if c.HistoryLimit <= 0 {
		return &ConfigError{Field: "HISTORY_LIMIT", Message: "must be positive"}
	}
	if c.RetryCount <= 0 {
		return &ConfigError{Field: "RETRY_COUNT", Message: "must be positive"}
	}
	if c.TimeoutSeconds <= 0 {
		return &ConfigError{Field: "TIMEOUT_SECONDS", Message: "must be positive"}
	}
	if c.MinCompletionTokens <= 0 || c.MinCompletionTokens > c.MaxCompletionTokens {
		return &ConfigError{Field: "MIN_TOKENS/MAX_TOKENS", Message: "need 0 < MIN_TOKENS <= MAX_TOKENS"}
	}
	if c.ContextWindow <= c.SafetyMargin {
		return &ConfigError{Field: "LLM_CONTEXT_WINDOW", Message: "must exceed LLM_SAFETY_MARGIN"}
	}
	return nil
}

// ConfigError names the offending setting.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
