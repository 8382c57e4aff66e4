package vision

import (
	"context"
	"sync"
)

// Mock implements Classifier for testing.
type Mock struct {
	// ClassifyFunc is called when Classify is invoked.
	// If nil, returns no classes.
	ClassifyFunc func(ctx context.Context, imagePath string) ([]Class, error)

	mu    sync.Mutex
	calls []string
}

// Classify calls ClassifyFunc and records the call.
func (m *Mock) Classify(ctx context.Context, imagePath string) ([]Class, error) {
	m.mu.Lock()
	m.calls = append(m.calls, imagePath)
	m.mu.Unlock()

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, imagePath)
	}
	return nil, nil
}

// Calls returns the image paths Classify was invoked with.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Verify Mock implements Classifier at compile time.
var _ Classifier = (*Mock)(nil)
