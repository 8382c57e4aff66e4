package stt

import (
	"context"
	"sync"
)

// Mock is a push-style transcriber for tests: the test emits transcripts
// and the system under test consumes them like real speech.
type Mock struct {
	mu      sync.Mutex
	out     chan string
	started bool
	closed  bool
}

// NewMock creates a mock transcriber.
func NewMock() *Mock {
	return &Mock{out: make(chan string, 16)}
}

// Start marks the mock as started.
func (m *Mock) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
	return nil
}

// Emit pushes a transcript into the stream. No-op after Close.
func (m *Mock) Emit(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.out <- text
}

// Transcripts returns the transcript channel.
func (m *Mock) Transcripts() <-chan string {
	return m.out
}

// Close closes the transcript channel.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.out)
	}
	return nil
}

// Verify Mock implements Transcriber at compile time.
var _ Transcriber = (*Mock)(nil)
