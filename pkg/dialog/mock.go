package dialog

import (
	"context"
	"sync"
)

// Mock implements Engine for testing.
type Mock struct {
	// MessageFunc is called when Message is invoked.
	// If nil, echoes the input with an empty context.
	MessageFunc func(ctx context.Context, text string, dctx Context) (*Response, error)

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records one Message invocation for verification.
type MockCall struct {
	Text    string
	Context Context
}

// Message calls MessageFunc and records the call. The context is cloned at
// call time so later coordinator mutations do not alter the record.
func (m *Mock) Message(ctx context.Context, text string, dctx Context) (*Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Text: text, Context: dctx.Clone()})
	m.mu.Unlock()

	if m.MessageFunc != nil {
		return m.MessageFunc(ctx, text, dctx)
	}
	return &Response{Output: []string{text}, Context: Context{}}, nil
}

// Calls returns the recorded invocations.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// ContextWithTurn builds a context whose system block carries the given
// dialog turn counter, the way the engine returns it.
func ContextWithTurn(turn int) Context {
	return Context{
		"system": map[string]any{"dialog_turn_counter": float64(turn)},
	}
}

// Verify Mock implements Engine at compile time.
var _ Engine = (*Mock)(nil)
