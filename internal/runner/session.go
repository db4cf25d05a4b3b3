package runner

import (
	"github.com/google/uuid"

	"github.com/petasbytes/sandbox-agent/memory"
)

// State is the position of a session in the turn cycle.
type State int

const (
	AwaitingInput State = iota
	ModelTurn
	ToolExecution
	Exhausted
)

func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting_input"
	case ModelTurn:
		return "model_turn"
	case ToolExecution:
		return "tool_execution"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Session is one conversation. Clearing a conversation means starting a new
// Session.
type Session struct {
	ID         string
	History    []memory.Message
	Iterations int
	state      State
}

// NewSession returns an empty session with a fresh ID.
func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// RestoreSession resumes a saved history. Each user text message counts as
// one past iteration.
func RestoreSession(history []memory.Message) *Session {
	s := NewSession()
	s.History = history
	for _, m := range history {
		if m.Role == memory.RoleUser {
			s.Iterations++
		}
	}
	return s
}

// State reports where the session is in the turn cycle.
func (s *Session) State() State { return s.state }
