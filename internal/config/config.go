// Package config loads agent settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/petasbytes/sandbox-agent/internal/provider"
	"github.com/petasbytes/sandbox-agent/internal/safety"
)

type Config struct {
	WorkingDir string `env:"AGT_WORKING_DIR" envDefault:"./calculator"`
	Provider   string `env:"AGT_PROVIDER" envDefault:"gemini"`
	// Model is empty for the provider's default.
	Model string `env:"AGT_MODEL"`

	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL"`

	MaxIters      int           `env:"AGT_MAX_ITERS" envDefault:"20"`
	MaxToolRounds int           `env:"AGT_MAX_TOOL_ROUNDS" envDefault:"1"`
	MaxTokens     int64         `env:"AGT_MAX_TOKENS" envDefault:"1024"`
	ScriptTimeout time.Duration `env:"AGT_SCRIPT_TIMEOUT" envDefault:"30s"`
	Interpreter   string        `env:"AGT_INTERPRETER" envDefault:"python3"`

	ObserveJSON      bool   `env:"AGT_OBSERVE_JSON"`
	ArtifactsDir     string `env:"AGT_ARTIFACTS_DIR" envDefault:".agent"`
	ConversationFile string `env:"AGT_CONVERSATION_FILE"`
	LogFile          string `env:"AGT_LOG_FILE"`
	Debug            bool   `env:"AGT_DEBUG"`
}

// Load reads .env from the current directory when present, then parses the
// environment. Variables already set win over .env entries.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// APIKey returns the key for the selected provider.
func (c Config) APIKey() string {
	switch c.Provider {
	case provider.NameAnthropic:
		return c.AnthropicAPIKey
	case provider.NameOpenAI:
		return c.OpenAIAPIKey
	default:
		return c.GeminiAPIKey
	}
}

func (c Config) apiKeyVar() string {
	switch c.Provider {
	case provider.NameAnthropic:
		return "ANTHROPIC_API_KEY"
	case provider.NameOpenAI:
		return "OPENAI_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	switch c.Provider {
	case provider.NameGemini, provider.NameAnthropic, provider.NameOpenAI:
	default:
		return fmt.Errorf("unknown provider %q (want gemini, anthropic or openai)", c.Provider)
	}
	// OpenAI-compatible local servers often run without a key.
	if c.APIKey() == "" && !(c.Provider == provider.NameOpenAI && c.OpenAIBaseURL != "") {
		return fmt.Errorf("missing %s; export it or add it to .env", c.apiKeyVar())
	}
	if c.MaxIters <= 0 {
		return fmt.Errorf("AGT_MAX_ITERS must be positive, got %d", c.MaxIters)
	}
	if c.MaxToolRounds < 0 {
		return fmt.Errorf("AGT_MAX_TOOL_ROUNDS must not be negative, got %d", c.MaxToolRounds)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("AGT_MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	if c.ScriptTimeout <= 0 {
		return fmt.Errorf("AGT_SCRIPT_TIMEOUT must be positive, got %s", c.ScriptTimeout)
	}
	if c.Interpreter == "" {
		return errors.New("AGT_INTERPRETER must not be empty")
	}
	return nil
}

// Root resolves the working directory to an absolute, symlink-free path.
func (c Config) Root() (string, error) {
	return safety.InitWorkingRoot(c.WorkingDir)
}

// Oracle returns the provider settings.
func (c Config) Oracle() provider.Settings {
	return provider.Settings{
		Name:      c.Provider,
		Model:     c.Model,
		APIKey:    c.APIKey(),
		BaseURL:   c.OpenAIBaseURL,
		MaxTokens: c.MaxTokens,
	}
}
