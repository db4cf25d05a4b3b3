package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/petasbytes/sandbox-agent/internal/config"
)

// clearEnv blanks every variable Config reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"AGT_WORKING_DIR", "AGT_PROVIDER", "AGT_MODEL",
		"GEMINI_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_API_KEY", "OPENAI_BASE_URL",
		"AGT_MAX_ITERS", "AGT_MAX_TOOL_ROUNDS", "AGT_MAX_TOKENS", "AGT_SCRIPT_TIMEOUT",
		"AGT_INTERPRETER", "AGT_OBSERVE_JSON", "AGT_ARTIFACTS_DIR",
		"AGT_CONVERSATION_FILE", "AGT_LOG_FILE", "AGT_DEBUG",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WorkingDir != "./calculator" || cfg.Provider != "gemini" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.MaxIters != 20 || cfg.MaxToolRounds != 1 || cfg.MaxTokens != 1024 {
		t.Fatalf("unexpected limits: %+v", cfg)
	}
	if cfg.ScriptTimeout != 30*time.Second || cfg.Interpreter != "python3" {
		t.Fatalf("unexpected script settings: %+v", cfg)
	}
	if cfg.ArtifactsDir != ".agent" || cfg.ObserveJSON || cfg.ConversationFile != "" {
		t.Fatalf("unexpected artifacts settings: %+v", cfg)
	}
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("AGT_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "k")
	t.Setenv("AGT_MAX_TOOL_ROUNDS", "3")
	t.Setenv("AGT_SCRIPT_TIMEOUT", "5s")
	t.Setenv("AGT_OBSERVE_JSON", "true")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != "anthropic" || cfg.APIKey() != "k" {
		t.Fatalf("provider/key: %+v", cfg)
	}
	if cfg.MaxToolRounds != 3 || cfg.ScriptTimeout != 5*time.Second || !cfg.ObserveJSON {
		t.Fatalf("parsed values: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	s := cfg.Oracle()
	if s.Name != "anthropic" || s.APIKey != "k" || s.MaxTokens != 1024 {
		t.Fatalf("oracle settings: %+v", s)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	if err := os.WriteFile(".env", []byte("GEMINI_API_KEY=from-file\nAGT_MAX_ITERS=7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AGT_MAX_ITERS", "9")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GeminiAPIKey != "from-file" {
		t.Fatalf("key from .env not loaded: %+v", cfg)
	}
	if cfg.MaxIters != 9 {
		t.Fatalf("environment should win over .env, got %d", cfg.MaxIters)
	}
}

func TestLoad_BadValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("AGT_MAX_ITERS", "many")
	if _, err := config.Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	valid := config.Config{
		Provider:      "gemini",
		GeminiAPIKey:  "k",
		MaxIters:      20,
		MaxToolRounds: 1,
		MaxTokens:     1024,
		ScriptTimeout: time.Second,
		Interpreter:   "python3",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"unknown provider", func(c *config.Config) { c.Provider = "llama" }, "unknown provider"},
		{"missing key", func(c *config.Config) { c.GeminiAPIKey = "" }, "GEMINI_API_KEY"},
		{"missing anthropic key", func(c *config.Config) { c.Provider = "anthropic" }, "ANTHROPIC_API_KEY"},
		{"zero iterations", func(c *config.Config) { c.MaxIters = 0 }, "AGT_MAX_ITERS"},
		{"negative rounds", func(c *config.Config) { c.MaxToolRounds = -1 }, "AGT_MAX_TOOL_ROUNDS"},
		{"zero tokens", func(c *config.Config) { c.MaxTokens = 0 }, "AGT_MAX_TOKENS"},
		{"zero timeout", func(c *config.Config) { c.ScriptTimeout = 0 }, "AGT_SCRIPT_TIMEOUT"},
		{"no interpreter", func(c *config.Config) { c.Interpreter = "" }, "AGT_INTERPRETER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("want error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestValidate_OpenAIBaseURLWithoutKey(t *testing.T) {
	c := config.Config{
		Provider:      "openai",
		OpenAIBaseURL: "http://localhost:11434/v1",
		MaxIters:      1,
		MaxTokens:     1,
		ScriptTimeout: time.Second,
		Interpreter:   "python3",
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("local endpoint without key should be accepted: %v", err)
	}
}

func TestRoot(t *testing.T) {
	dir := t.TempDir()
	c := config.Config{WorkingDir: dir}
	root, err := c.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	want, _ := filepath.EvalSymlinks(dir)
	if root != want {
		t.Fatalf("Root = %q, want %q", root, want)
	}

	c.WorkingDir = filepath.Join(dir, "missing")
	if _, err := c.Root(); err == nil {
		t.Fatal("expected error for missing working dir")
	}
}
