package telemetry

import "sync"

// DefaultArtifactsDir is where events.jsonl is written unless configured otherwise.
const DefaultArtifactsDir = ".agent"

var (
	mu           sync.RWMutex
	observe      bool
	artifactsDir = DefaultArtifactsDir
)

// Configure enables or disables JSONL emission and sets the directory events
// are written to. An empty dir keeps DefaultArtifactsDir. It is called once at
// startup from the loaded configuration.
func Configure(enabled bool, dir string) {
	mu.Lock()
	defer mu.Unlock()
	observe = enabled
	if dir == "" {
		dir = DefaultArtifactsDir
	}
	artifactsDir = dir
}

// ObserveEnabled reports whether JSONL emission is on.
func ObserveEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return observe
}

// ArtifactsDir returns the directory holding events.jsonl.
func ArtifactsDir() string {
	mu.RLock()
	defer mu.RUnlock()
	return artifactsDir
}
