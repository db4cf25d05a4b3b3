package tools

import "github.com/petasbytes/sandbox-agent/internal/fsops"

const GetFilesInfoName = "get_files_info"

// GetFilesInfo lists a directory under the working root.
type GetFilesInfo struct {
	Directory string `json:"directory,omitempty" jsonschema_description:"The directory to list files from, relative to the working directory. If not provided, lists files in the working directory itself."`
}

func (GetFilesInfo) ToolName() string { return GetFilesInfoName }
func (GetFilesInfo) isCall()          {}

var GetFilesInfoDeclaration = Declaration{
	Name:        GetFilesInfoName,
	Description: "Lists files in the specified directory along with their sizes, constrained to the working directory.",
	Schema:      GenerateSchema[GetFilesInfo](),
}

func (d *Dispatcher) getFilesInfo(c GetFilesInfo) Result {
	return fromOutput(fsops.ListDirectory(d.Root, c.Directory))
}
