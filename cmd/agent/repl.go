package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/petasbytes/sandbox-agent/internal/runner"
)

// repl reads prompts until /quit, EOF or ctx is done. Only protocol
// violations end the loop with an error; other turn failures are reported
// and the user may retry.
func repl(ctx context.Context, c *chat, historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\u001b[94mYou\u001b[0m: ",
		HistoryFile:     historyFile,
		AutoComplete:    readline.NewPrefixCompleter(readline.PcItem("/clear"), readline.PcItem("/help"), readline.PcItem("/quit")),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(c.out, "Chat with the agent (/help for commands, Ctrl-D to quit)")
	for ctx.Err() == nil {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if c.command(line) {
				return nil
			}
			continue
		}

		if err := c.turn(ctx, line); err != nil {
			if errors.Is(err, runner.ErrProtocolViolation) {
				return err
			}
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return nil
}
