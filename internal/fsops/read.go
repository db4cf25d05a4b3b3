package fsops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/petasbytes/sandbox-agent/internal/safety"
)

// MaxReadChars caps how many characters ReadFile returns.
const MaxReadChars = 10000

// ReadFile returns the text content of a regular file under root. Content
// longer than MaxReadChars is cut to that many characters and followed by a
// marker naming the file.
func ReadFile(root, relPath string) (string, error) {
	absPath, err := safety.ResolvePath(root, relPath)
	if err != nil {
		return "", outside("read", relPath, err)
	}

	fi, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", safety.ToolError{Kind: safety.KindNotFound, Message: fmt.Sprintf("File not found or is not a regular file: %q", relPath)}
		}
		return "", safety.ToolError{Kind: safety.KindExecutionFault, Message: fmt.Sprintf("reading %q: %v", relPath, err)}
	}
	if !fi.Mode().IsRegular() {
		return "", safety.ToolError{Kind: safety.KindWrongType, Message: fmt.Sprintf("File not found or is not a regular file: %q", relPath)}
	}

	b, err := os.ReadFile(absPath)
	if err != nil {
		return "", safety.ToolError{Kind: safety.KindExecutionFault, Message: fmt.Sprintf("reading %q: %v", relPath, err)}
	}
	if !utf8.Valid(b) {
		return "", safety.ToolError{Kind: safety.KindWrongType, Message: fmt.Sprintf("reading %q: content is not valid UTF-8 text", relPath)}
	}

	content, truncated := clampRunes(string(b), MaxReadChars)
	if truncated {
		content += fmt.Sprintf("[...File %q truncated at %d characters]", relPath, MaxReadChars)
	}
	return content, nil
}

// clampRunes cuts s to at most n runes.
func clampRunes(s string, n int) (string, bool) {
	if utf8.RuneCountInString(s) <= n {
		return s, false
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], true
		}
		i++
	}
	return s, false
}
