// Package safety confines tool paths to a single working root.
package safety

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// InitWorkingRoot resolves dir to the canonical absolute path used as the
// working root for every tool call. An empty dir means the current directory.
func InitWorkingRoot(dir string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = cwd
	}
	root, err := canonicalRoot(dir)
	if err != nil {
		return "", err
	}
	return root, nil
}

// canonicalRoot makes root absolute, resolves symlinks and requires it to be
// an existing directory.
func canonicalRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("abs(%s): %w", root, err)
	}
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		abs = r
	}
	fi, err := os.Stat(abs)
	if err != nil || !fi.IsDir() {
		return "", ToolError{Kind: KindWrongType, Message: fmt.Sprintf("working directory %q is not a directory", root)}
	}
	return abs, nil
}

// ResolvePath joins relPath onto root and returns the resulting absolute path
// if, after cleaning and symlink resolution, it is root itself or lies below
// it. Absolute inputs, parent traversal and symlink escapes are rejected with
// a KindContainment ToolError.
func ResolvePath(root, relPath string) (string, error) {
	absRoot, err := canonicalRoot(root)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(relPath) {
		return "", ToolError{Kind: KindContainment, Message: fmt.Sprintf("%q is outside the permitted working directory", relPath)}
	}

	cleaned := filepath.Clean(relPath)
	candidate, ok := resolveExisting(filepath.Join(absRoot, cleaned))
	if !ok || !Within(absRoot, candidate) {
		return "", ToolError{Kind: KindContainment, Message: fmt.Sprintf("%q is outside the permitted working directory", relPath)}
	}
	return candidate, nil
}

// ResolveScript resolves relPath like ResolvePath and additionally requires
// an existing regular file carrying the given extension.
func ResolveScript(root, relPath, ext string) (string, error) {
	p, err := ResolvePath(root, relPath)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(p)
	if err != nil {
		return "", ToolError{Kind: KindNotFound, Message: fmt.Sprintf("File %q not found", relPath)}
	}
	if !fi.Mode().IsRegular() {
		return "", ToolError{Kind: KindWrongType, Message: fmt.Sprintf("%q is not a regular file", relPath)}
	}
	if ext != "" && !strings.EqualFold(filepath.Ext(p), ext) {
		return "", ToolError{Kind: KindWrongType, Message: fmt.Sprintf("Cannot run %q as it is not a %s file", relPath, ext)}
	}
	return p, nil
}

// Within reports whether p equals root or is a descendant of it. The check
// compares whole path segments, so a sibling such as root+"-evil" is not
// within root.
func Within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// maxLinkHops bounds manual link following, matching the kernel's limit.
const maxLinkHops = 40

// resolveExisting resolves symlinks on the deepest existing ancestor of p and
// rejoins the remaining segments, which exposes escapes through a symlinked
// parent even when the leaf does not exist yet. Dangling links are followed
// by hand so their target is checked as well. It reports false when a link
// cannot be read or the chain is too long.
func resolveExisting(p string) (string, bool) {
	return resolveHops(p, 0)
}

func resolveHops(p string, hops int) (string, bool) {
	rest := ""
	for cur := p; ; {
		if resolved, err := filepath.EvalSymlinks(cur); err == nil {
			return filepath.Join(resolved, rest), true
		}
		if fi, err := os.Lstat(cur); err == nil && fi.Mode()&os.ModeSymlink != 0 {
			if hops >= maxLinkHops {
				return "", false
			}
			target, err := os.Readlink(cur)
			if err != nil {
				return "", false
			}
			if !filepath.IsAbs(target) {
				target = filepath.Join(filepath.Dir(cur), target)
			}
			return resolveHops(filepath.Join(target, rest), hops+1)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return p, true
		}
		rest = filepath.Join(filepath.Base(cur), rest)
		cur = parent
	}
}
