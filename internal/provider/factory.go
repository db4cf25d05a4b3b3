package provider

import (
	"context"
	"fmt"
)

const (
	NameGemini    = "gemini"
	NameAnthropic = "anthropic"
	NameOpenAI    = "openai"
)

// Settings selects and configures an Oracle.
type Settings struct {
	Name      string
	Model     string
	APIKey    string
	BaseURL   string
	MaxTokens int64
}

// DefaultModel returns the model used for name when none is configured.
func DefaultModel(name string) string {
	switch name {
	case NameAnthropic:
		return string(DefaultAnthropicModel)
	case NameOpenAI:
		return DefaultOpenAIModel
	default:
		return DefaultGeminiModel
	}
}

// New builds the Oracle named by s.Name.
func New(ctx context.Context, s Settings) (Oracle, error) {
	switch s.Name {
	case NameGemini, "":
		c, err := NewGeminiClient(ctx, s.APIKey, nil, s.BaseURL)
		if err != nil {
			return nil, err
		}
		return NewGemini(c, s.Model, s.MaxTokens), nil
	case NameAnthropic:
		return NewAnthropic(NewAnthropicClient(s.APIKey), s.Model, s.MaxTokens), nil
	case NameOpenAI:
		return NewOpenAI(NewOpenAIClient(s.APIKey, s.BaseURL, nil), s.Model, s.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", s.Name)
	}
}
