package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/petasbytes/sandbox-agent/internal/provider"
	"github.com/petasbytes/sandbox-agent/internal/safety"
	"github.com/petasbytes/sandbox-agent/internal/telemetry"
	"github.com/petasbytes/sandbox-agent/memory"
	"github.com/petasbytes/sandbox-agent/tools"
)

const (
	DefaultMaxIters      = 20
	DefaultMaxToolRounds = 1
)

// ErrProtocolViolation means the tool results handed back do not pair
// one-to-one, in order, with the calls of the preceding assistant turn.
var ErrProtocolViolation = errors.New("tool protocol violation")

// Executor runs a batch of tool calls and answers each one.
type Executor interface {
	Execute(ctx context.Context, calls []memory.ToolCall) []memory.ToolResult
}

type Runner struct {
	Oracle  provider.Oracle
	Tools   Executor
	Catalog []tools.Declaration
	System  string
	// MaxIters caps user submissions per session.
	MaxIters int
	// MaxToolRounds caps tool executions per submission. Calls requested
	// after that are refused with ERR_ROUND_LIMIT.
	MaxToolRounds int
	Logger        zerolog.Logger
}

func New(oracle provider.Oracle, exec Executor, catalog []tools.Declaration) *Runner {
	return &Runner{
		Oracle:        oracle,
		Tools:         exec,
		Catalog:       catalog,
		System:        DefaultSystemPrompt,
		MaxIters:      DefaultMaxIters,
		MaxToolRounds: DefaultMaxToolRounds,
		Logger:        zerolog.Nop(),
	}
}

// Reply is what one submission produced.
type Reply struct {
	Text string
	// Exhausted is set once the session has used its last iteration. The
	// submission that reaches the ceiling still carries its text.
	Exhausted bool
	// RoundLimited reports that the model asked for more tool rounds than
	// allowed and the extra calls were refused.
	RoundLimited bool
	ToolCalls    int
	Usage        provider.Usage
}

// ExhaustedNotice is shown when a session refuses further submissions.
func ExhaustedNotice(maxIters int) string {
	return fmt.Sprintf("Maximum of %d iterations reached. Clear the conversation to start again.", maxIters)
}

// Submit runs one user submission to completion: the model is invoked,
// requested tools are executed and their results fed back until the model
// answers with text or the round budget is spent.
//
// On error the session is rolled back to what it was before the submission:
// the history stays well-formed and the failed attempt does not use up an
// iteration.
func (r *Runner) Submit(ctx context.Context, s *Session, text string) (Reply, error) {
	if s.Iterations >= r.maxIters() {
		s.state = Exhausted
		return Reply{Text: ExhaustedNotice(r.maxIters()), Exhausted: true}, nil
	}
	s.Iterations++

	ctx = telemetry.WithSessionID(ctx, s.ID)
	if _, ok := telemetry.TurnIDFromContext(ctx); !ok {
		ctx = telemetry.WithTurnID(ctx, uuid.NewString())
	}
	started := telemetry.IDs(ctx)
	started["iteration"] = s.Iterations
	telemetry.Emit("turn_started", started)
	telemetry.EmitLocalFeatures(ctx, text)

	checkpoint := len(s.History)
	s.History = append(s.History, memory.UserText(text))

	reply, err := r.loop(ctx, s)
	if err != nil {
		s.History = s.History[:checkpoint]
		s.Iterations--
		s.state = AwaitingInput
		r.finish(ctx, s, reply, err)
		return reply, err
	}

	s.state = AwaitingInput
	if s.Iterations >= r.maxIters() {
		s.state = Exhausted
		reply.Exhausted = true
	}
	r.finish(ctx, s, reply, nil)
	return reply, nil
}

func (r *Runner) loop(ctx context.Context, s *Session) (Reply, error) {
	var reply Reply
	for round := 0; ; round++ {
		s.state = ModelTurn
		turn, err := r.Oracle.Invoke(ctx, provider.Request{
			System:  r.System,
			History: s.History,
			Tools:   r.Catalog,
		})
		if err != nil {
			return reply, fmt.Errorf("invoke model: %w", err)
		}
		reply.Usage.InputTokens += turn.Usage.InputTokens
		reply.Usage.OutputTokens += turn.Usage.OutputTokens

		msg := turn.Message
		msg.Role = memory.RoleAssistant
		s.History = append(s.History, msg)

		calls := msg.ToolCalls()
		r.Logger.Debug().
			Int("round", round).
			Int("tool_calls", len(calls)).
			Int64("input_tokens", turn.Usage.InputTokens).
			Int64("output_tokens", turn.Usage.OutputTokens).
			Msg("model turn")
		if len(calls) == 0 {
			reply.Text = msg.Text()
			return reply, nil
		}
		reply.ToolCalls += len(calls)

		var results []memory.ToolResult
		if round >= r.maxToolRounds() {
			results = refuse(calls)
			reply.RoundLimited = true
		} else {
			s.state = ToolExecution
			results = r.Tools.Execute(ctx, calls)
		}
		if err := checkPairing(calls, results); err != nil {
			return reply, err
		}
		s.History = append(s.History, memory.ToolResultsMessage(results))

		if reply.RoundLimited {
			reply.Text = msg.Text()
			return reply, nil
		}
	}
}

func (r *Runner) finish(ctx context.Context, s *Session, reply Reply, err error) {
	fields := telemetry.IDs(ctx)
	fields["iteration"] = s.Iterations
	fields["tool_calls"] = reply.ToolCalls
	fields["round_limited"] = reply.RoundLimited
	fields["exhausted"] = reply.Exhausted
	fields["input_tokens"] = reply.Usage.InputTokens
	fields["output_tokens"] = reply.Usage.OutputTokens
	if err != nil {
		fields["error"] = err.Error()
	} else {
		fields["error"] = nil
	}
	telemetry.Emit("turn_finished", fields)
}

// refuse answers every call with a round-limit error so the history stays
// paired even though nothing ran.
func refuse(calls []memory.ToolCall) []memory.ToolResult {
	out := make([]memory.ToolResult, 0, len(calls))
	for _, c := range calls {
		res := tools.Err(safety.KindRoundLimit, fmt.Sprintf("tool round limit reached; %s was not executed", c.Name))
		out = append(out, memory.ToolResult{
			CallID:  c.ID,
			Name:    c.Name,
			Content: res.String(),
			IsError: true,
			Kind:    res.Kind,
		})
	}
	return out
}

func checkPairing(calls []memory.ToolCall, results []memory.ToolResult) error {
	if len(calls) != len(results) {
		return fmt.Errorf("%w: %d results for %d calls", ErrProtocolViolation, len(results), len(calls))
	}
	for i := range calls {
		if results[i].CallID != calls[i].ID {
			return fmt.Errorf("%w: result %d answers %q, want %q", ErrProtocolViolation, i, results[i].CallID, calls[i].ID)
		}
	}
	return nil
}

func (r *Runner) maxIters() int {
	if r.MaxIters <= 0 {
		return DefaultMaxIters
	}
	return r.MaxIters
}

func (r *Runner) maxToolRounds() int {
	if r.MaxToolRounds < 0 {
		return 0
	}
	return r.MaxToolRounds
}
