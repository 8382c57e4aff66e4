package tone

import (
	"context"
	"sync"
)

// Mock implements Analyzer for testing.
type Mock struct {
	// AnalyzeFunc is called when Analyze is invoked.
	// If nil, returns the zero Result.
	AnalyzeFunc func(ctx context.Context, text string) (Result, error)

	mu    sync.Mutex
	calls []string
}

// Analyze calls AnalyzeFunc and records the call.
func (m *Mock) Analyze(ctx context.Context, text string) (Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()

	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, text)
	}
	return Result{}, nil
}

// Calls returns the texts Analyze was invoked with.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Verify Mock implements Analyzer at compile time.
var _ Analyzer = (*Mock)(nil)
