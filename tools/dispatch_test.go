package tools_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/petasbytes/sandbox-agent/internal/safety"
	"github.com/petasbytes/sandbox-agent/internal/telemetry"
	"github.com/petasbytes/sandbox-agent/memory"
	"github.com/petasbytes/sandbox-agent/tools"
)

func call(id, name, args string) memory.ToolCall {
	return memory.ToolCall{ID: id, Name: name, Args: json.RawMessage(args)}
}

func TestDispatch_FileTools(t *testing.T) {
	root := newRoot(t)
	mustWrite(t, root, "main.py", "print(1)\n")
	mustWrite(t, root, "pkg/render.py", "x")
	d := tools.NewDispatcher(root, &fakeScripts{}, zerolog.Nop())
	ctx := context.Background()

	res := d.Dispatch(ctx, "get_files_info", json.RawMessage(`{}`))
	if !res.IsOk() || !strings.Contains(res.Output, "- main.py: file_size=9 bytes, is_dir=false") {
		t.Fatalf("get_files_info: %#v", res)
	}

	res = d.Dispatch(ctx, "get_file_content", json.RawMessage(`{"file_path":"pkg/render.py"}`))
	if !res.IsOk() || res.Output != "x" {
		t.Fatalf("get_file_content: %#v", res)
	}

	res = d.Dispatch(ctx, "get_file_content", json.RawMessage(`{"file_path":"../main.py"}`))
	if res.Kind != safety.KindContainment {
		t.Fatalf("escape not rejected: %#v", res)
	}
	if want := `Error: Cannot read "../main.py" as it is outside the permitted working directory`; res.String() != want {
		t.Fatalf("rendered: %q", res.String())
	}

	res = d.Dispatch(ctx, "write_file", json.RawMessage(`{"file_path":"out/x.txt","content":"hello"}`))
	if !res.IsOk() || res.Output != `Successfully wrote to "out/x.txt" (5 bytes written)` {
		t.Fatalf("write_file: %#v", res)
	}
	if b, err := os.ReadFile(filepath.Join(root, "out", "x.txt")); err != nil || string(b) != "hello" {
		t.Fatalf("written content: %q, %v", b, err)
	}
}

func TestDispatch_RootIsInjected(t *testing.T) {
	root := newRoot(t)
	scripts := &fakeScripts{output: "STDOUT:\n8"}
	d := tools.NewDispatcher(root, scripts, zerolog.Nop())

	res := d.Dispatch(context.Background(), "run_python_file",
		json.RawMessage(`{"file_path":"main.py","args":["3 + 5"],"working_directory":"/"}`))
	if !res.IsOk() || res.Output != "STDOUT:\n8" {
		t.Fatalf("run_python_file: %#v", res)
	}
	if scripts.root != root {
		t.Fatalf("script ran under %q, want %q", scripts.root, root)
	}
	if scripts.path != "main.py" || len(scripts.args) != 1 || scripts.args[0] != "3 + 5" {
		t.Fatalf("script invocation: %q %v", scripts.path, scripts.args)
	}
}

func TestDispatch_ErrorsBecomeResults(t *testing.T) {
	root := newRoot(t)
	d := tools.NewDispatcher(root, &fakeScripts{panics: true}, zerolog.Nop())
	ctx := context.Background()

	cases := []struct {
		name, args string
		kind       safety.Kind
	}{
		{"nope", `{}`, safety.KindUnknownTool},
		{"get_file_content", `{}`, safety.KindInvalidArguments},
		{"get_file_content", `{"file_path":"missing.txt"}`, safety.KindNotFound},
		{"get_files_info", `{"directory":"/etc"}`, safety.KindContainment},
		{"run_python_file", `{"file_path":"main.py"}`, safety.KindExecutionFault},
	}
	for _, tc := range cases {
		res := d.Dispatch(ctx, tc.name, json.RawMessage(tc.args))
		if res.Kind != tc.kind {
			t.Errorf("%s %s: kind %q want %q (%s)", tc.name, tc.args, res.Kind, tc.kind, res.Output)
		}
		if !strings.HasPrefix(res.String(), "Error: ") {
			t.Errorf("%s: rendered without error prefix: %q", tc.name, res.String())
		}
	}

	if got := d.Dispatch(ctx, "nope", nil).String(); got != "Error: Unknown function: nope" {
		t.Fatalf("unknown tool text: %q", got)
	}
}

func TestExecute_OrderAndPairing(t *testing.T) {
	root := newRoot(t)
	d := tools.NewDispatcher(root, &fakeScripts{}, zerolog.Nop())

	var seen []string
	d.OnCall = func(name string, _ json.RawMessage) { seen = append(seen, name) }

	calls := []memory.ToolCall{
		call("c1", "write_file", `{"file_path":"x.txt","content":"hello"}`),
		call("c2", "get_file_content", `{"file_path":"x.txt"}`),
		call("c3", "bogus", `{}`),
	}
	results := d.Execute(context.Background(), calls)

	if len(results) != len(calls) {
		t.Fatalf("got %d results for %d calls", len(results), len(calls))
	}
	for i, r := range results {
		if r.CallID != calls[i].ID || r.Name != calls[i].Name {
			t.Fatalf("result %d answers %s/%s, want %s/%s", i, r.CallID, r.Name, calls[i].ID, calls[i].Name)
		}
	}
	// The read observes the preceding write.
	if results[1].Content != "hello" || results[1].IsError {
		t.Fatalf("read after write: %#v", results[1])
	}
	if !results[2].IsError || results[2].Kind != safety.KindUnknownTool {
		t.Fatalf("unknown tool result: %#v", results[2])
	}
	if strings.Join(seen, ",") != "write_file,get_file_content,bogus" {
		t.Fatalf("OnCall order: %v", seen)
	}
}

func TestExecute_EmitsToolExecEvents(t *testing.T) {
	base := t.TempDir()
	telemetry.Configure(true, base)
	t.Cleanup(func() { telemetry.Configure(false, "") })

	root := newRoot(t)
	d := tools.NewDispatcher(root, &fakeScripts{}, zerolog.Nop())
	ctx := telemetry.WithTurnID(context.Background(), "turn-1")

	d.Execute(ctx, []memory.ToolCall{
		call("a", "get_files_info", `{}`),
		call("b", "get_file_content", `{"file_path":"secret-name.txt"}`),
	})

	b, err := os.ReadFile(filepath.Join(base, telemetry.EventsFile))
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 events, got %d", len(lines))
	}
	var ok, failed map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &ok); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &failed); err != nil {
		t.Fatal(err)
	}
	if ok["event"] != "tool_exec" || ok["tool_name"] != "get_files_info" || ok["turn_id"] != "turn-1" || ok["error"] != nil {
		t.Fatalf("ok event: %#v", ok)
	}
	if failed["error"] != string(safety.KindNotFound) {
		t.Fatalf("failed event: %#v", failed)
	}
	if strings.Contains(string(b), "secret-name") {
		t.Fatal("tool arguments leaked into events")
	}
}
