package tools

import (
	"errors"

	"github.com/petasbytes/sandbox-agent/internal/safety"
)

// Result is the outcome of one tool call. A zero Kind means success.
type Result struct {
	Output string
	Kind   safety.Kind
}

// Ok wraps successful output.
func Ok(output string) Result { return Result{Output: output} }

// Err builds a failed result of the given kind.
func Err(kind safety.Kind, msg string) Result { return Result{Output: msg, Kind: kind} }

// FromError classifies err into a failed Result.
func FromError(err error) Result {
	var te safety.ToolError
	if errors.As(err, &te) {
		return Err(te.Kind, te.Message)
	}
	return Err(safety.KindOf(err), err.Error())
}

// fromOutput is the usual tail of a tool: output on success, classified error otherwise.
func fromOutput(out string, err error) Result {
	if err != nil {
		return FromError(err)
	}
	return Ok(out)
}

// IsOk reports whether the call succeeded.
func (r Result) IsOk() bool { return r.Kind == "" }

// ErrorPrefix starts the rendered text of every failed result.
const ErrorPrefix = "Error: "

// String renders the result as the text the model receives.
func (r Result) String() string {
	if r.IsOk() {
		return r.Output
	}
	return ErrorPrefix + r.Output
}
