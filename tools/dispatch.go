package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/petasbytes/sandbox-agent/internal/safety"
	"github.com/petasbytes/sandbox-agent/internal/telemetry"
	"github.com/petasbytes/sandbox-agent/memory"
)

// Dispatcher runs tool calls against a fixed working root. The root is never
// taken from call arguments.
type Dispatcher struct {
	Root    string
	Scripts ScriptRunner
	Logger  zerolog.Logger
	// Verbose adds call arguments to the trace.
	Verbose bool
	// OnCall, when set, is told about each call before it runs.
	OnCall func(name string, args json.RawMessage)
}

// NewDispatcher returns a Dispatcher for root using scripts to run programs.
func NewDispatcher(root string, scripts ScriptRunner, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{Root: root, Scripts: scripts, Logger: logger}
}

// Dispatch decodes and runs a single named call. It always returns a Result:
// unknown names, bad arguments and panics become Err results.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args json.RawMessage) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			d.Logger.Error().Str("tool", name).Interface("panic", p).Msg("tool panicked")
			res = Err(safety.KindExecutionFault, fmt.Sprintf("internal error while running %s: %v", name, p))
		}
	}()

	d.trace(name, args)

	call, err := ParseCall(name, args)
	if err != nil {
		return FromError(err)
	}
	return d.Run(ctx, call)
}

// Run executes an already decoded call.
func (d *Dispatcher) Run(ctx context.Context, call Call) Result {
	switch c := call.(type) {
	case GetFilesInfo:
		return d.getFilesInfo(c)
	case GetFileContent:
		return d.getFileContent(c)
	case RunPythonFile:
		return d.runPythonFile(ctx, c)
	case WriteFile:
		return d.writeFile(c)
	default:
		return Err(safety.KindUnknownTool, fmt.Sprintf("Unknown function: %s", call.ToolName()))
	}
}

// Execute runs calls strictly in order and returns one result per call, each
// carrying the ID of the call it answers.
func (d *Dispatcher) Execute(ctx context.Context, calls []memory.ToolCall) []memory.ToolResult {
	results := make([]memory.ToolResult, 0, len(calls))
	for _, c := range calls {
		start := time.Now()
		res := d.Dispatch(ctx, c.Name, c.Args)
		d.emit(ctx, c, res, time.Since(start))

		results = append(results, memory.ToolResult{
			CallID:  c.ID,
			Name:    c.Name,
			Content: res.String(),
			IsError: !res.IsOk(),
			Kind:    res.Kind,
		})
	}
	return results
}

func (d *Dispatcher) trace(name string, args json.RawMessage) {
	ev := d.Logger.Info().Str("tool", name)
	if d.Verbose {
		ev = ev.RawJSON("args", validJSON(args))
	}
	ev.Msg("tool call")

	if d.OnCall != nil {
		d.OnCall(name, args)
	}
}

// emit records a tool_exec event. Only the error kind is recorded, never the
// message, so paths and file content stay out of the event log.
func (d *Dispatcher) emit(ctx context.Context, c memory.ToolCall, res Result, elapsed time.Duration) {
	fields := telemetry.IDs(ctx)
	fields["tool_name"] = c.Name
	fields["duration_ms"] = elapsed.Milliseconds()
	fields["input_size"] = len(c.Args)
	fields["output_size"] = len(res.Output)
	if res.IsOk() {
		fields["error"] = nil
	} else {
		fields["error"] = string(res.Kind)
	}
	telemetry.Emit("tool_exec", fields)
}

func validJSON(raw json.RawMessage) []byte {
	if len(raw) == 0 || !json.Valid(raw) {
		return []byte("null")
	}
	return raw
}
