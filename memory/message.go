package memory

import (
	"encoding/json"
	"strings"

	"github.com/petasbytes/sandbox-agent/internal/safety"
)

// Role identifies who authored a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry of the conversation history.
type Message struct {
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
}

// Part is exactly one of text, a tool call or a tool result.
type Part struct {
	Text       string      `json:"text,omitempty"`
	ToolCall   *ToolCall   `json:"tool_call,omitempty"`
	ToolResult *ToolResult `json:"tool_result,omitempty"`
}

// ToolCall is a model request to run a named tool with JSON arguments.
type ToolCall struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

// ToolResult answers the ToolCall with the matching CallID. Content is the
// rendered text handed back to the model.
type ToolResult struct {
	CallID  string      `json:"call_id"`
	Name    string      `json:"name"`
	Content string      `json:"content"`
	IsError bool        `json:"is_error,omitempty"`
	Kind    safety.Kind `json:"kind,omitempty"`
}

// UserText builds a user message holding a single text part.
func UserText(text string) Message {
	return Message{Role: RoleUser, Parts: []Part{{Text: text}}}
}

// ToolResultsMessage builds the tool-role message answering a batch of calls.
func ToolResultsMessage(results []ToolResult) Message {
	parts := make([]Part, 0, len(results))
	for i := range results {
		r := results[i]
		parts = append(parts, Part{ToolResult: &r})
	}
	return Message{Role: RoleTool, Parts: parts}
}

// Text concatenates the text parts of m.
func (m Message) Text() string {
	var b strings.Builder
	for _, p := range m.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// ToolCalls returns the tool calls of m in order.
func (m Message) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, p := range m.Parts {
		if p.ToolCall != nil {
			calls = append(calls, *p.ToolCall)
		}
	}
	return calls
}

// ToolResults returns the tool results of m in order.
func (m Message) ToolResults() []ToolResult {
	var results []ToolResult
	for _, p := range m.Parts {
		if p.ToolResult != nil {
			results = append(results, *p.ToolResult)
		}
	}
	return results
}
