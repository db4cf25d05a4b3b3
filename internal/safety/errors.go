package safety

import (
	"errors"
	"io/fs"
)

// Kind classifies why a tool call failed. The set is closed; callers match
// on it instead of inspecting message text.
type Kind string

const (
	KindContainment       Kind = "ERR_PATH_OUTSIDE_SANDBOX"
	KindNotFound          Kind = "ERR_NOT_FOUND"
	KindWrongType         Kind = "ERR_WRONG_TYPE"
	KindExecutionFault    Kind = "ERR_EXECUTION_FAULT"
	KindTimeout           Kind = "ERR_TIMEOUT"
	KindUnknownTool       Kind = "ERR_UNKNOWN_TOOL"
	KindInvalidArguments  Kind = "ERR_INVALID_ARGUMENTS"
	KindRoundLimit        Kind = "ERR_ROUND_LIMIT"
	KindProtocolViolation Kind = "ERR_PROTOCOL_VIOLATION"
)

// ToolError is a classified, human-readable failure that is surfaced back to
// the model as text rather than aborting the turn.
type ToolError struct {
	Kind    Kind   `json:"code"`
	Message string `json:"message"`
}

func (e ToolError) Error() string { return e.Message }

// KindOf reports the Kind carried by err. Plain I/O errors are mapped to
// KindNotFound or KindExecutionFault. A nil error has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var te ToolError
	if errors.As(err, &te) {
		return te.Kind
	}
	if errors.Is(err, fs.ErrNotExist) {
		return KindNotFound
	}
	return KindExecutionFault
}
