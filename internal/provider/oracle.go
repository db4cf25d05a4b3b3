// Package provider adapts model vendors to the Oracle interface used by the
// runner. Adapters translate the provider-neutral memory.Message history and
// tools.Declaration catalog into each vendor's wire types and back.
package provider

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/petasbytes/sandbox-agent/memory"
	"github.com/petasbytes/sandbox-agent/tools"
)

// Request is one model invocation.
type Request struct {
	System  string
	History []memory.Message
	Tools   []tools.Declaration
}

// Usage reports token counts for a single invocation.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Turn is the model's reply: an assistant message holding text, tool calls
// or both.
type Turn struct {
	Message memory.Message
	Usage   Usage
}

// Text returns the concatenated text of the turn.
func (t Turn) Text() string { return t.Message.Text() }

// ToolCalls returns the tool calls requested in the turn, in order.
func (t Turn) ToolCalls() []memory.ToolCall { return t.Message.ToolCalls() }

// Oracle produces the next assistant turn for a conversation.
type Oracle interface {
	Invoke(ctx context.Context, req Request) (Turn, error)
}

// callID returns id, or a fresh one when the vendor did not supply it.
func callID(id string) string {
	if id != "" {
		return id
	}
	return "call_" + uuid.NewString()
}

// argsOrEmpty returns raw when it holds JSON, "{}" when empty, and otherwise
// raw quoted as a JSON string so the history stays serializable and the
// dispatcher reports the arguments as invalid.
func argsOrEmpty(raw []byte) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("{}")
	}
	if json.Valid(raw) {
		return json.RawMessage(raw)
	}
	quoted, _ := json.Marshal(string(raw))
	return quoted
}

// appendText adds a text part unless text is empty.
func appendText(parts []memory.Part, text string) []memory.Part {
	if text == "" {
		return parts
	}
	return append(parts, memory.Part{Text: text})
}
