package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/petasbytes/sandbox-agent/memory"
	"github.com/petasbytes/sandbox-agent/tools"
)

const DefaultOpenAIModel = openai.GPT4oMini

// ChatClient is the part of the go-openai client the adapter uses, so tests
// can substitute a fake.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

var _ ChatClient = (*openai.Client)(nil)

// NewOpenAIClient returns a client for the OpenAI API or any compatible
// endpoint at baseURL.
func NewOpenAIClient(apiKey, baseURL string, httpClient *http.Client) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return openai.NewClientWithConfig(cfg)
}

// OpenAI is an Oracle backed by chat completions.
type OpenAI struct {
	Client    ChatClient
	Model     string
	MaxTokens int
}

func NewOpenAI(client ChatClient, model string, maxTokens int64) *OpenAI {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{Client: client, Model: model, MaxTokens: int(maxTokens)}
}

func (o *OpenAI) Invoke(ctx context.Context, req Request) (Turn, error) {
	creq := openai.ChatCompletionRequest{
		Model:     o.Model,
		Messages:  openaiMessages(req.System, req.History),
		Tools:     openaiTools(req.Tools),
		MaxTokens: o.MaxTokens,
	}
	resp, err := o.Client.CreateChatCompletion(ctx, creq)
	if err != nil {
		return Turn{}, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Turn{}, errors.New("openai: response has no choices")
	}

	msg := resp.Choices[0].Message
	parts := appendText(nil, msg.Content)
	for _, tc := range msg.ToolCalls {
		parts = append(parts, memory.Part{ToolCall: &memory.ToolCall{
			ID:   callID(tc.ID),
			Name: tc.Function.Name,
			Args: argsOrEmpty([]byte(tc.Function.Arguments)),
		}})
	}
	return Turn{
		Message: memory.Message{Role: memory.RoleAssistant, Parts: parts},
		Usage: Usage{
			InputTokens:  int64(resp.Usage.PromptTokens),
			OutputTokens: int64(resp.Usage.CompletionTokens),
		},
	}, nil
}

func openaiMessages(system string, history []memory.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if system != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	for _, m := range history {
		switch m.Role {
		case memory.RoleTool:
			// One tool message per result.
			for _, r := range m.ToolResults() {
				out = append(out, openai.ChatCompletionMessage{
					Role:       openai.ChatMessageRoleTool,
					Content:    r.Content,
					Name:       r.Name,
					ToolCallID: r.CallID,
				})
			}
		case memory.RoleAssistant:
			msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: m.Text()}
			for _, c := range m.ToolCalls() {
				msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
					ID:   c.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      c.Name,
						Arguments: string(argsOrEmpty(c.Args)),
					},
				})
			}
			out = append(out, msg)
		default:
			out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: m.Text()})
		}
	}
	return out
}

func openaiTools(decls []tools.Declaration) []openai.Tool {
	if len(decls) == 0 {
		return nil
	}
	out := make([]openai.Tool, 0, len(decls))
	for _, d := range decls {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  d.Schema,
			},
		})
	}
	return out
}
