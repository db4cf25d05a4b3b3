package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrMalformedHistory is returned for a history whose tool calls and tool
// results do not pair up.
var ErrMalformedHistory = errors.New("malformed conversation history")

// LoadConversation reads a history saved by SaveConversation. A missing file
// yields a nil history and no error. A history that fails Validate is
// rejected.
func LoadConversation(path string) ([]Message, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var msgs []Message
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := Validate(msgs); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return msgs, nil
}

// SaveConversation writes msgs to path, creating parent directories. The file
// is replaced atomically so an interrupted save leaves the previous copy.
func SaveConversation(path string, msgs []Message) error {
	b, err := json.MarshalIndent(msgs, "", " ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Validate checks that every assistant message carrying tool calls is
// followed by a tool message answering each call once, in order, and that
// tool messages appear nowhere else.
func Validate(msgs []Message) error {
	for i, m := range msgs {
		switch m.Role {
		case RoleUser:
		case RoleAssistant:
			calls := m.ToolCalls()
			if len(calls) == 0 {
				continue
			}
			if i+1 >= len(msgs) || msgs[i+1].Role != RoleTool {
				return fmt.Errorf("%w: message %d has tool calls without results", ErrMalformedHistory, i)
			}
			results := msgs[i+1].ToolResults()
			if len(results) != len(calls) {
				return fmt.Errorf("%w: message %d has %d calls but %d results", ErrMalformedHistory, i, len(calls), len(results))
			}
			for j := range calls {
				if results[j].CallID != calls[j].ID {
					return fmt.Errorf("%w: result %d of message %d answers %q, want %q", ErrMalformedHistory, j, i+1, results[j].CallID, calls[j].ID)
				}
			}
		case RoleTool:
			if i == 0 || len(msgs[i-1].ToolCalls()) == 0 {
				return fmt.Errorf("%w: tool message %d does not follow tool calls", ErrMalformedHistory, i)
			}
		default:
			return fmt.Errorf("%w: message %d has unknown role %q", ErrMalformedHistory, i, m.Role)
		}
	}
	return nil
}
