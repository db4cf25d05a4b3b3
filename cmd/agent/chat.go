package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/petasbytes/sandbox-agent/internal/runner"
	"github.com/petasbytes/sandbox-agent/memory"
)

// chat binds a runner and the current session to the terminal.
type chat struct {
	runner  *runner.Runner
	session *runner.Session
	out     io.Writer
	verbose bool
	// convPath, when set, is where the history is saved after every turn.
	convPath string
	logger   zerolog.Logger
}

// echoCall is installed as the dispatcher's OnCall hook.
func (c *chat) echoCall(name string, args json.RawMessage) {
	if c.verbose {
		fmt.Fprintf(c.out, " - Calling function: %s(%s)\n", name, args)
		return
	}
	fmt.Fprintf(c.out, " - Calling function: %s\n", name)
}

// turn submits one prompt and prints the reply.
func (c *chat) turn(ctx context.Context, prompt string) error {
	reply, err := c.runner.Submit(ctx, c.session, prompt)
	if err != nil {
		return err
	}
	if reply.Text != "" {
		fmt.Fprintln(c.out, reply.Text)
	}
	if reply.RoundLimited {
		fmt.Fprintln(c.out, "(tool round limit reached; some calls were not executed)")
	}
	if c.verbose {
		fmt.Fprintln(c.out, strings.Repeat("-", 50))
		fmt.Fprintf(c.out, "User prompt: %s\n", prompt)
		fmt.Fprintf(c.out, "Prompt tokens: %d\n", reply.Usage.InputTokens)
		fmt.Fprintf(c.out, "Response tokens: %d\n", reply.Usage.OutputTokens)
	}
	if reply.Exhausted && reply.Text != runner.ExhaustedNotice(c.runner.MaxIters) {
		fmt.Fprintln(c.out, runner.ExhaustedNotice(c.runner.MaxIters))
	}
	c.save()
	return nil
}

// command handles a slash command and reports whether the REPL should stop.
func (c *chat) command(line string) (quit bool) {
	switch strings.Fields(line)[0] {
	case "/quit", "/exit":
		return true
	case "/clear":
		c.session = runner.NewSession()
		c.save()
		fmt.Fprintln(c.out, "Conversation cleared.")
	case "/help":
		fmt.Fprintln(c.out, "/clear  start a new conversation")
		fmt.Fprintln(c.out, "/quit   exit")
	default:
		fmt.Fprintf(c.out, "Unknown command %s (try /help)\n", line)
	}
	return false
}

func (c *chat) save() {
	if c.convPath == "" {
		return
	}
	if err := memory.SaveConversation(c.convPath, c.session.History); err != nil {
		c.logger.Warn().Err(err).Str("path", c.convPath).Msg("save conversation")
	}
}

// restore loads a saved history when persistence is on.
func restore(path string, logger zerolog.Logger) *runner.Session {
	if path == "" {
		return runner.NewSession()
	}
	hist, err := memory.LoadConversation(path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("load conversation; starting fresh")
		return runner.NewSession()
	}
	return runner.RestoreSession(hist)
}
