package provider

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/petasbytes/sandbox-agent/memory"
	"github.com/petasbytes/sandbox-agent/tools"
)

const DefaultAnthropicModel = anthropic.ModelClaudeSonnet4_5

// NewAnthropicClient returns a client for apiKey. An empty key falls back to
// ANTHROPIC_API_KEY from the environment.
func NewAnthropicClient(apiKey string, opts ...option.RequestOption) *anthropic.Client {
	if apiKey != "" {
		opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	}
	c := anthropic.NewClient(opts...)
	return &c
}

// Anthropic is an Oracle backed by the Messages API.
type Anthropic struct {
	Client    *anthropic.Client
	Model     anthropic.Model
	MaxTokens int64
}

func NewAnthropic(client *anthropic.Client, model string, maxTokens int64) *Anthropic {
	if model == "" {
		model = string(DefaultAnthropicModel)
	}
	return &Anthropic{Client: client, Model: anthropic.Model(model), MaxTokens: maxTokens}
}

func (a *Anthropic) Invoke(ctx context.Context, req Request) (Turn, error) {
	params := anthropic.MessageNewParams{
		Model:     a.Model,
		MaxTokens: a.MaxTokens,
		Messages:  anthropicMessages(req.History),
		Tools:     anthropicTools(req.Tools),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := a.Client.Messages.New(ctx, params)
	if err != nil {
		return Turn{}, fmt.Errorf("anthropic: %w", err)
	}

	var parts []memory.Part
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			parts = appendText(parts, b.Text)
		case anthropic.ToolUseBlock:
			parts = append(parts, memory.Part{ToolCall: &memory.ToolCall{
				ID:   callID(b.ID),
				Name: b.Name,
				Args: argsOrEmpty(b.Input),
			}})
		}
	}
	return Turn{
		Message: memory.Message{Role: memory.RoleAssistant, Parts: parts},
		Usage:   Usage{InputTokens: msg.Usage.InputTokens, OutputTokens: msg.Usage.OutputTokens},
	}, nil
}

func anthropicMessages(history []memory.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(history))
	for _, m := range history {
		var blocks []anthropic.ContentBlockParamUnion
		for _, p := range m.Parts {
			switch {
			case p.ToolCall != nil:
				blocks = append(blocks, anthropic.NewToolUseBlock(p.ToolCall.ID, argsOrEmpty(p.ToolCall.Args), p.ToolCall.Name))
			case p.ToolResult != nil:
				blocks = append(blocks, anthropic.NewToolResultBlock(p.ToolResult.CallID, p.ToolResult.Content, p.ToolResult.IsError))
			case p.Text != "":
				blocks = append(blocks, anthropic.NewTextBlock(p.Text))
			}
		}
		if len(blocks) == 0 {
			// The API rejects empty content.
			continue
		}
		if m.Role == memory.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		} else {
			// Tool results travel in a user message.
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}
	return out
}

func anthropicTools(decls []tools.Declaration) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(decls))
	for _, d := range decls {
		schema := anthropic.ToolInputSchemaParam{}
		if d.Schema != nil {
			schema.Properties = d.Schema.Properties
			schema.Required = d.Schema.Required
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        d.Name,
			Description: anthropic.String(d.Description),
			InputSchema: schema,
		}})
	}
	return out
}
