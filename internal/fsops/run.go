package fsops

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/petasbytes/sandbox-agent/internal/safety"
)

// DefaultScriptTimeout bounds a single script execution.
const DefaultScriptTimeout = 30 * time.Second

// noOutput is returned when a script writes nothing to either stream.
const noOutput = "No output produced."

// ScriptRunner executes scripts found under the working root with an external
// interpreter.
type ScriptRunner struct {
	Interpreter string
	// InterpreterArgs are placed before the script path.
	InterpreterArgs []string
	Extension       string
	Timeout         time.Duration
	// WaitDelay bounds how long Run waits for output pipes after the
	// process has been killed.
	WaitDelay time.Duration
}

// DefaultScriptRunner runs .py files with python3 under a 30 second timeout.
func DefaultScriptRunner() ScriptRunner {
	return ScriptRunner{
		Interpreter: "python3",
		Extension:   ".py",
		Timeout:     DefaultScriptTimeout,
		WaitDelay:   2 * time.Second,
	}
}

// Run executes relPath with optional args, working directory set to root.
// A non-zero exit status is reported inside the returned text, not as an
// error. Errors are safety.ToolError values: containment, not found, wrong
// type, timeout or a generic execution fault.
func (r ScriptRunner) Run(ctx context.Context, root, relPath string, args []string) (string, error) {
	absRoot, err := safety.InitWorkingRoot(root)
	if err != nil {
		return "", err
	}
	if _, err := safety.ResolveScript(absRoot, relPath, r.Extension); err != nil {
		return "", outside("execute", relPath, err)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultScriptTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	argv := make([]string, 0, len(r.InterpreterArgs)+1+len(args))
	argv = append(argv, r.InterpreterArgs...)
	argv = append(argv, relPath)
	argv = append(argv, args...)

	cmd := exec.CommandContext(runCtx, r.Interpreter, argv...)
	cmd.Dir = absRoot
	cmd.Env = filterEnvironment(os.Environ())
	cmd.WaitDelay = r.WaitDelay
	setProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	code := 0
	if err := cmd.Run(); err != nil {
		switch {
		case runCtx.Err() != nil && ctx.Err() != nil:
			return "", safety.ToolError{Kind: safety.KindExecutionFault, Message: fmt.Sprintf("executing Python file: %v", ctx.Err())}
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			return "", safety.ToolError{Kind: safety.KindTimeout, Message: fmt.Sprintf("executing Python file: timeout after %s", timeout)}
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", safety.ToolError{Kind: safety.KindExecutionFault, Message: fmt.Sprintf("executing Python file: %v", err)}
		}
		code = exitErr.ExitCode()
	}

	return FormatOutput(
		strings.ToValidUTF8(stdout.String(), "�"),
		strings.ToValidUTF8(stderr.String(), "�"),
		code,
	), nil
}

// FormatOutput renders captured streams and the exit code as the text handed
// back to the model. Empty streams are omitted and a zero exit code is not
// mentioned.
func FormatOutput(stdout, stderr string, code int) string {
	var parts []string
	if stdout != "" {
		parts = append(parts, "STDOUT:\n"+stdout)
	}
	if stderr != "" {
		parts = append(parts, "STDERR:\n"+stderr)
	}
	if code != 0 {
		parts = append(parts, fmt.Sprintf("Process exited with code %d", code))
	}
	if len(parts) == 0 {
		return noOutput
	}
	return strings.Join(parts, "\n")
}

// sensitiveEnvSuffixes mark variables that never reach a script.
var sensitiveEnvSuffixes = []string{"_API_KEY", "_TOKEN", "_SECRET", "_PASSWORD", "_CREDENTIAL"}

// filterEnvironment drops credentials from env so model-written scripts
// cannot read the provider keys.
func filterEnvironment(env []string) []string {
	out := make([]string, 0, len(env))
	for _, kv := range env {
		name, _, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if isSensitiveEnvVar(name) {
			continue
		}
		out = append(out, kv)
	}
	return out
}

func isSensitiveEnvVar(name string) bool {
	upper := strings.ToUpper(name)
	for _, suffix := range sensitiveEnvSuffixes {
		if strings.HasSuffix(upper, suffix) {
			return true
		}
	}
	return false
}
