// Command agent is a coding assistant that can inspect, run and edit files
// inside one working directory.
//
//	agent [--verbose] [--provider name] [--model id] [prompt...]
//
// With a prompt it answers once and exits; without one it starts a REPL.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/petasbytes/sandbox-agent/internal/config"
	"github.com/petasbytes/sandbox-agent/internal/fsops"
	"github.com/petasbytes/sandbox-agent/internal/logging"
	"github.com/petasbytes/sandbox-agent/internal/provider"
	"github.com/petasbytes/sandbox-agent/internal/runner"
	"github.com/petasbytes/sandbox-agent/internal/telemetry"
	"github.com/petasbytes/sandbox-agent/tools"
)

func main() {
	verbose := flag.Bool("verbose", false, "print token usage and full tool call arguments")
	providerName := flag.String("provider", "", "model provider: gemini, anthropic or openai (overrides AGT_PROVIDER)")
	model := flag.String("model", "", "model id (overrides AGT_MODEL)")
	flag.Parse()

	os.Exit(run(*verbose, *providerName, *model, strings.Join(flag.Args(), " ")))
}

func run(verbose bool, providerName, model, prompt string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	if providerName != "" {
		cfg.Provider = providerName
	}
	if model != "" {
		cfg.Model = model
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	logger, closer, err := logging.New(cfg.Debug, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file: %v\n", err)
		return 1
	}
	defer closer.Close()

	telemetry.Configure(cfg.ObserveJSON, cfg.ArtifactsDir)

	root, err := cfg.Root()
	if err != nil {
		fmt.Fprintf(os.Stderr, "working directory: %v\n", err)
		return 1
	}

	// Ctrl-C cancels the in-flight turn, including a running script, and ends
	// the session.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	oracle, err := provider.New(ctx, cfg.Oracle())
	if err != nil {
		fmt.Fprintf(os.Stderr, "provider: %v\n", err)
		return 1
	}

	scripts := fsops.DefaultScriptRunner()
	scripts.Interpreter = cfg.Interpreter
	scripts.Timeout = cfg.ScriptTimeout

	dispatcher := tools.NewDispatcher(root, scripts, logger)
	dispatcher.Verbose = verbose

	r := runner.New(oracle, dispatcher, tools.Catalog())
	r.MaxIters = cfg.MaxIters
	r.MaxToolRounds = cfg.MaxToolRounds
	r.Logger = logger

	c := &chat{
		runner:   r,
		session:  restore(cfg.ConversationFile, logger),
		out:      os.Stdout,
		verbose:  verbose,
		convPath: cfg.ConversationFile,
		logger:   logger,
	}
	dispatcher.OnCall = c.echoCall

	logger.Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Str("root", root).
		Msg("agent started")

	if prompt != "" {
		if err := c.turn(ctx, prompt); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	historyFile := ""
	if cfg.ArtifactsDir != "" {
		if err := os.MkdirAll(cfg.ArtifactsDir, 0o755); err == nil {
			historyFile = filepath.Join(cfg.ArtifactsDir, "history")
		}
	}
	if err := repl(ctx, c, historyFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
