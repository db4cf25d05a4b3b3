// Package telemetry writes structured agent events as JSON lines.
//
// Events are appended to <ArtifactsDir>/events.jsonl only while observation is
// enabled. Emission never fails the caller: problems are reported on stderr.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// EventsFile is the JSONL file name inside the artifacts directory.
const EventsFile = "events.jsonl"

// Emit writes a single JSON line carrying fields plus an RFC3339Nano "time"
// and the event name. Caller keys named "time" or "event" are dropped.
func Emit(name string, fields map[string]any) {
	if !ObserveEnabled() {
		return
	}

	filtered := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == "time" || k == "event" {
			continue
		}
		filtered[k] = v
	}

	dir := ArtifactsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: mkdir %s: %v\n", dir, err)
		return
	}

	path := filepath.Join(dir, EventsFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: open %s: %v\n", path, err)
		return
	}
	defer f.Close()

	enc := zerolog.New(f)
	enc.Log().
		Fields(filtered).
		Str("time", time.Now().UTC().Format(time.RFC3339Nano)).
		Str("event", name).
		Send()
}
