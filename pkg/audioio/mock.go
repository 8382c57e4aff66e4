package audioio

import (
	"context"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"
)

// MockSource is a mock audio source for testing.
// It generates synthetic audio (silence or sine wave).
type MockSource struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	paused  bool
	closed  bool
	chunkCh chan Chunk
	stopCh  chan struct{}

	// Synthetic audio generation
	phase     float64
	frequency float64 // Hz, 0 = silence
	amplitude float64 // 0.0 to 1.0
}

// MockSourceOption configures a MockSource.
type MockSourceOption func(*MockSource)

// WithSineWave configures the mock to generate a sine wave.
func WithSineWave(frequency, amplitude float64) MockSourceOption {
	return func(m *MockSource) {
		m.frequency = frequency
		m.amplitude = amplitude
	}
}

// NewMockSource creates a new mock audio source.
func NewMockSource(cfg Config, logger *slog.Logger, opts ...MockSourceOption) *MockSource {
	if logger == nil {
		logger = slog.Default()
	}

	m := &MockSource{
		cfg:       cfg,
		logger:    logger,
		chunkCh:   make(chan Chunk, 10),
		stopCh:    make(chan struct{}),
		frequency: 0, // Silence by default
		amplitude: 0.5,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Start begins generating audio.
func (m *MockSource) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return io.ErrClosedPipe
	}
	if m.running {
		return nil
	}

	m.running = true
	m.stopCh = make(chan struct{})

	go m.generateLoop(ctx)

	m.logger.Debug("mock audio source started",
		"sample_rate", m.cfg.SampleRate,
		"frequency", m.frequency,
	)

	return nil
}

func (m *MockSource) generateLoop(ctx context.Context) {
	defer close(m.chunkCh)

	ticker := time.NewTicker(m.cfg.BufferDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case <-ticker.C:
		}

		m.mu.Lock()
		paused := m.paused
		m.mu.Unlock()
		if paused {
			continue
		}

		chunk := m.generateChunk()
		select {
		case m.chunkCh <- chunk:
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		}
	}
}

func (m *MockSource) generateChunk() Chunk {
	n := m.cfg.BufferSize()
	samples := make([]int16, n)

	if m.frequency > 0 {
		step := 2 * math.Pi * m.frequency / float64(m.cfg.SampleRate)
		for i := range samples {
			samples[i] = int16(m.amplitude * math.MaxInt16 * math.Sin(m.phase))
			m.phase += step
		}
	}

	return Chunk{
		Samples:    samples,
		SampleRate: m.cfg.SampleRate,
		Channels:   m.cfg.Channels,
	}
}

// Chunks returns the generated audio channel.
func (m *MockSource) Chunks() <-chan Chunk {
	return m.chunkCh
}

// Pause stops chunk delivery.
func (m *MockSource) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = true
	return nil
}

// Resume restarts chunk delivery.
func (m *MockSource) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = false
	return nil
}

// Paused reports whether the source is currently paused.
func (m *MockSource) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// Name returns the backend name.
func (m *MockSource) Name() string { return string(BackendMock) }

// Close stops the source permanently.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	if m.running {
		close(m.stopCh)
		m.running = false
	}
	return nil
}

// Verify MockSource implements Source at compile time.
var _ Source = (*MockSource)(nil)
