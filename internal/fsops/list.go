// Package fsops implements the sandboxed file operations behind the agent's
// tools. Every operation takes the working root explicitly and resolves its
// path through the safety package before touching the filesystem.
package fsops

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/petasbytes/sandbox-agent/internal/safety"
)

// ListDirectory describes the immediate entries of a directory under root,
// one line per entry sorted by name:
//
//	- main.py: file_size=576 bytes, is_dir=false
//
// An empty relDir lists root itself. An empty directory yields "".
func ListDirectory(root, relDir string) (string, error) {
	if relDir == "" {
		relDir = "."
	}
	absDir, err := safety.ResolvePath(root, relDir)
	if err != nil {
		return "", outside("list", relDir, err)
	}

	fi, err := os.Stat(absDir)
	if err != nil || !fi.IsDir() {
		return "", safety.ToolError{Kind: safety.KindWrongType, Message: fmt.Sprintf("%q is not a directory", relDir)}
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return "", safety.ToolError{Kind: safety.KindExecutionFault, Message: fmt.Sprintf("listing %q: %v", relDir, err)}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			// Entry vanished between ReadDir and Info.
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: file_size=%d bytes, is_dir=%t", e.Name(), info.Size(), e.IsDir()))
	}
	return strings.Join(lines, "\n"), nil
}
