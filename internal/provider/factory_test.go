package provider_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/petasbytes/sandbox-agent/internal/provider"
)

func TestNew_SelectsAdapter(t *testing.T) {
	ctx := context.Background()

	o, err := provider.New(ctx, provider.Settings{Name: provider.NameAnthropic, APIKey: "k", MaxTokens: 10})
	require.NoError(t, err)
	require.IsType(t, &provider.Anthropic{}, o)

	o, err = provider.New(ctx, provider.Settings{Name: provider.NameOpenAI, APIKey: "k", BaseURL: "http://localhost:1/v1"})
	require.NoError(t, err)
	require.IsType(t, &provider.OpenAI{}, o)

	o, err = provider.New(ctx, provider.Settings{Name: provider.NameGemini, APIKey: "k", Model: "gemini-x"})
	require.NoError(t, err)
	require.IsType(t, &provider.Gemini{}, o)
	require.Equal(t, "gemini-x", o.(*provider.Gemini).Model)

	_, err = provider.New(ctx, provider.Settings{Name: "llama"})
	require.ErrorContains(t, err, "unknown provider")
}

func TestDefaultModel(t *testing.T) {
	require.Equal(t, provider.DefaultGeminiModel, provider.DefaultModel(provider.NameGemini))
	require.Equal(t, string(provider.DefaultAnthropicModel), provider.DefaultModel(provider.NameAnthropic))
	require.Equal(t, provider.DefaultOpenAIModel, provider.DefaultModel(provider.NameOpenAI))
}
