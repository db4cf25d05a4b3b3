package tools

import (
	"context"

	"github.com/petasbytes/sandbox-agent/internal/fsops"
)

const RunPythonFileName = "run_python_file"

// RunPythonFile executes a Python script under the working root.
type RunPythonFile struct {
	FilePath string   `json:"file_path" validate:"required" jsonschema_description:"The path to the Python file to execute, relative to the working directory."`
	Args     []string `json:"args,omitempty" jsonschema_description:"Optional command-line arguments passed to the script."`
}

func (RunPythonFile) ToolName() string { return RunPythonFileName }
func (RunPythonFile) isCall()          {}

var RunPythonFileDeclaration = Declaration{
	Name:        RunPythonFileName,
	Description: "Executes a Python file with optional arguments, constrained to the working directory, and returns its output and non-zero exit code.",
	Schema:      GenerateSchema[RunPythonFile](),
}

func (d *Dispatcher) runPythonFile(ctx context.Context, c RunPythonFile) Result {
	return fromOutput(d.Scripts.Run(ctx, d.Root, c.FilePath, c.Args))
}

// ScriptRunner executes a script found under root.
type ScriptRunner interface {
	Run(ctx context.Context, root, relPath string, args []string) (string, error)
}

var _ ScriptRunner = fsops.ScriptRunner{}
