package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/invopop/jsonschema"
	"google.golang.org/genai"

	"github.com/petasbytes/sandbox-agent/memory"
	"github.com/petasbytes/sandbox-agent/tools"
)

const DefaultGeminiModel = "gemini-2.0-flash-001"

// NewGeminiClient returns a Gemini API client. httpClient and baseURL are
// optional.
func NewGeminiClient(ctx context.Context, apiKey string, httpClient *http.Client, baseURL string) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cfg.HTTPOptions.BaseURL = baseURL
	}
	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return c, nil
}

// Gemini is an Oracle backed by generateContent.
type Gemini struct {
	Client    *genai.Client
	Model     string
	MaxTokens int32
}

func NewGemini(client *genai.Client, model string, maxTokens int64) *Gemini {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{Client: client, Model: model, MaxTokens: int32(maxTokens)}
}

func (g *Gemini) Invoke(ctx context.Context, req Request) (Turn, error) {
	contents, err := geminiContents(req.History)
	if err != nil {
		return Turn{}, err
	}
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: g.MaxTokens,
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if len(req.Tools) > 0 {
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: geminiDeclarations(req.Tools)}}
	}

	resp, err := g.Client.Models.GenerateContent(ctx, g.Model, contents, cfg)
	if err != nil {
		return Turn{}, fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return Turn{}, fmt.Errorf("gemini: prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return Turn{}, errors.New("gemini: response has no candidates")
	}

	var parts []memory.Part
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		if p.FunctionCall != nil {
			args, err := json.Marshal(p.FunctionCall.Args)
			if err != nil || p.FunctionCall.Args == nil {
				args = []byte("{}")
			}
			parts = append(parts, memory.Part{ToolCall: &memory.ToolCall{
				ID:   callID(p.FunctionCall.ID),
				Name: p.FunctionCall.Name,
				Args: args,
			}})
			continue
		}
		parts = appendText(parts, p.Text)
	}

	turn := Turn{Message: memory.Message{Role: memory.RoleAssistant, Parts: parts}}
	if u := resp.UsageMetadata; u != nil {
		turn.Usage = Usage{InputTokens: int64(u.PromptTokenCount), OutputTokens: int64(u.CandidatesTokenCount)}
	}
	return turn, nil
}

func geminiContents(history []memory.Message) ([]*genai.Content, error) {
	out := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		role := genai.RoleUser
		if m.Role == memory.RoleAssistant {
			role = genai.RoleModel
		}
		var parts []*genai.Part
		for _, p := range m.Parts {
			switch {
			case p.ToolCall != nil:
				var args map[string]any
				if len(p.ToolCall.Args) > 0 {
					if err := json.Unmarshal(p.ToolCall.Args, &args); err != nil {
						// Arguments that never decoded are replayed empty.
						args = map[string]any{}
					}
				}
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   p.ToolCall.ID,
					Name: p.ToolCall.Name,
					Args: args,
				}})
			case p.ToolResult != nil:
				key, content := "result", p.ToolResult.Content
				if p.ToolResult.IsError {
					// The "error" key already labels the failure.
					key, content = "error", strings.TrimPrefix(content, tools.ErrorPrefix)
				}
				parts = append(parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
					ID:       p.ToolResult.CallID,
					Name:     p.ToolResult.Name,
					Response: map[string]any{key: content},
				}})
			case p.Text != "":
				parts = append(parts, &genai.Part{Text: p.Text})
			}
		}
		if len(parts) == 0 {
			continue
		}
		out = append(out, &genai.Content{Role: role, Parts: parts})
	}
	if len(out) == 0 {
		return nil, errors.New("gemini: empty history")
	}
	return out, nil
}

func geminiDeclarations(decls []tools.Declaration) []*genai.FunctionDeclaration {
	out := make([]*genai.FunctionDeclaration, 0, len(decls))
	for _, d := range decls {
		out = append(out, &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  geminiSchema(d.Schema),
		})
	}
	return out
}

// geminiSchema converts the JSON Schema subset produced by tools.GenerateSchema
// into Gemini's OpenAPI-style schema.
func geminiSchema(s *jsonschema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        geminiType(s.Type),
		Description: s.Description,
		Required:    s.Required,
	}
	if s.Items != nil {
		out.Items = geminiSchema(s.Items)
	}
	if s.Properties != nil && s.Properties.Len() > 0 {
		out.Properties = make(map[string]*genai.Schema, s.Properties.Len())
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			out.Properties[pair.Key] = geminiSchema(pair.Value)
			out.PropertyOrdering = append(out.PropertyOrdering, pair.Key)
		}
	}
	return out
}

func geminiType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}
