package telemetry_test

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/petasbytes/sandbox-agent/internal/telemetry"
)

// observeInto turns emission on into a fresh directory for the duration of t.
func observeInto(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	telemetry.Configure(true, base)
	t.Cleanup(func() { telemetry.Configure(false, "") })
	return base
}

// readJSONL returns every non-empty JSON object in baseDir/events.jsonl.
func readJSONL(t *testing.T, baseDir string) ([]map[string]any, error) {
	t.Helper()
	f, err := os.Open(filepath.Join(baseDir, telemetry.EventsFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []map[string]any
	s := bufio.NewScanner(f)
	for s.Scan() {
		txt := strings.TrimSpace(s.Text())
		if txt == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(txt), &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, s.Err()
}

// readLastJSONL returns the last JSON object in baseDir/events.jsonl.
func readLastJSONL(t *testing.T, baseDir string) (map[string]any, error) {
	t.Helper()
	all, err := readJSONL(t, baseDir)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, errors.New("no lines found")
	}
	return all[len(all)-1], nil
}
