package runner

import (
	"context"
	"io"
	"strings"
	"sync"
)

// Response is a canned answer for one command line in MockRunner.
type Response struct {
	ExitCode int
	Output   []string
	// Stdout is the raw stream written by RunTo. If empty, Output is joined with newlines.
	Stdout string
	Err    error
}

// MockRunner is a test double for Runner.
// Commands are looked up by their arguments joined with single spaces.
// Unknown commands exit with status 1 and no output.
type MockRunner struct {
	Responses map[string]Response

	mu    sync.Mutex
	calls [][]string
}

// NewMockRunner creates a MockRunner with no canned responses.
func NewMockRunner() *MockRunner {
	return &MockRunner{Responses: make(map[string]Response)}
}

// On registers a response for the given argument vector.
func (m *MockRunner) On(resp Response, args ...string) *MockRunner {
	m.Responses[strings.Join(args, " ")] = resp
	return m
}

// Run returns the canned result for args.
func (m *MockRunner) Run(_ context.Context, args ...string) (Result, error) {
	resp := m.lookup(args)
	if resp.Err != nil {
		return Result{ExitCode: -1}, resp.Err
	}
	return Result{ExitCode: resp.ExitCode, Output: resp.Output}, nil
}

// RunTo writes the canned stdout for args into w.
func (m *MockRunner) RunTo(_ context.Context, w io.Writer, args ...string) (int, error) {
	resp := m.lookup(args)
	if resp.Err != nil {
		return -1, resp.Err
	}
	out := resp.Stdout
	if out == "" && len(resp.Output) > 0 {
		out = strings.Join(resp.Output, "\n") + "\n"
	}
	if _, err := io.WriteString(w, out); err != nil {
		return -1, err
	}
	return resp.ExitCode, nil
}

// Calls returns the argument vectors received so far, in order.
func (m *MockRunner) Calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockRunner) lookup(args []string) Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, append([]string(nil), args...))

	if resp, ok := m.Responses[strings.Join(args, " ")]; ok {
		return resp
	}
	return Response{ExitCode: 1}
}
