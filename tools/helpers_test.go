package tools_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// newRoot returns a fresh canonical working root.
func newRoot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if r, err := filepath.EvalSymlinks(dir); err == nil {
		dir = r
	}
	return dir
}

func mustWrite(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}
}

// fakeScripts records the root and arguments it was asked to run with.
type fakeScripts struct {
	root   string
	path   string
	args   []string
	output string
	err    error
	panics bool
}

func (f *fakeScripts) Run(_ context.Context, root, relPath string, args []string) (string, error) {
	if f.panics {
		panic("interpreter exploded")
	}
	f.root, f.path, f.args = root, relPath, args
	return f.output, f.err
}
