package tools

import (
	"fmt"

	"github.com/petasbytes/sandbox-agent/internal/fsops"
)

const GetFileContentName = "get_file_content"

// GetFileContent reads a text file under the working root.
type GetFileContent struct {
	FilePath string `json:"file_path" validate:"required" jsonschema_description:"The path to the file to read, relative to the working directory."`
}

func (GetFileContent) ToolName() string { return GetFileContentName }
func (GetFileContent) isCall()          {}

var GetFileContentDeclaration = Declaration{
	Name: GetFileContentName,
	Description: fmt.Sprintf(
		"Reads the content of a file, constrained to the working directory. Content longer than %d characters is truncated.",
		fsops.MaxReadChars,
	),
	Schema: GenerateSchema[GetFileContent](),
}

func (d *Dispatcher) getFileContent(c GetFileContent) Result {
	return fromOutput(fsops.ReadFile(d.Root, c.FilePath))
}
