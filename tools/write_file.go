package tools

import "github.com/petasbytes/sandbox-agent/internal/fsops"

const WriteFileName = "write_file"

// WriteFile creates or overwrites a file under the working root.
type WriteFile struct {
	FilePath string `json:"file_path" validate:"required" jsonschema_description:"The path of the file to write, relative to the working directory. Missing parent directories are created."`
	Content  string `json:"content" jsonschema_description:"The full content to write to the file."`
}

func (WriteFile) ToolName() string { return WriteFileName }
func (WriteFile) isCall()          {}

var WriteFileDeclaration = Declaration{
	Name:        WriteFileName,
	Description: "Writes content to a file, creating or overwriting it, constrained to the working directory.",
	Schema:      GenerateSchema[WriteFile](),
}

func (d *Dispatcher) writeFile(c WriteFile) Result {
	return fromOutput(fsops.WriteFile(d.Root, c.FilePath, c.Content))
}
