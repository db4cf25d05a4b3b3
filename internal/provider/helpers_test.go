package provider_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/petasbytes/sandbox-agent/internal/safety"
	"github.com/petasbytes/sandbox-agent/memory"
)

type capture struct {
	method string
	url    string
	body   []byte
}

type fakeTransport struct {
	respStatus int
	respBody   []byte
	captured   *capture
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var b []byte
	if req.Body != nil {
		b, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}
	if f.captured != nil {
		f.captured.method = req.Method
		f.captured.url = req.URL.String()
		f.captured.body = b
	}
	resp := &http.Response{
		StatusCode: f.respStatus,
		Body:       io.NopCloser(bytes.NewReader(f.respBody)),
		Header:     make(http.Header),
		Request:    req,
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

// toolRoundHistory is a user prompt followed by one completed tool round.
func toolRoundHistory() []memory.Message {
	return []memory.Message{
		memory.UserText("run the tests"),
		{Role: memory.RoleAssistant, Parts: []memory.Part{
			{Text: "Running them."},
			{ToolCall: &memory.ToolCall{ID: "c1", Name: "run_python_file", Args: json.RawMessage(`{"file_path":"tests.py"}`)}},
		}},
		memory.ToolResultsMessage([]memory.ToolResult{{
			CallID:  "c1",
			Name:    "run_python_file",
			Content: "Error: executing Python file: timeout after 30s",
			IsError: true,
			Kind:    safety.KindTimeout,
		}}),
	}
}
