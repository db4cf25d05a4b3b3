package fsops

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/petasbytes/sandbox-agent/internal/safety"
)

// WriteFile creates or overwrites a file under root with content, creating
// parent directories as needed. It returns the confirmation shown to the model.
func WriteFile(root, relPath, content string) (string, error) {
	absPath, err := safety.ResolvePath(root, relPath)
	if err != nil {
		return "", outside("write to", relPath, err)
	}

	if fi, err := os.Stat(absPath); err == nil && fi.IsDir() {
		return "", safety.ToolError{Kind: safety.KindWrongType, Message: fmt.Sprintf("Cannot write to %q as it is a directory", relPath)}
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", safety.ToolError{Kind: safety.KindExecutionFault, Message: fmt.Sprintf("creating parent directories for %q: %v", relPath, err)}
	}
	if err := os.WriteFile(absPath, []byte(content), 0o644); err != nil {
		return "", safety.ToolError{Kind: safety.KindExecutionFault, Message: fmt.Sprintf("writing %q: %v", relPath, err)}
	}
	return fmt.Sprintf("Successfully wrote to %q (%d bytes written)", relPath, len(content)), nil
}
