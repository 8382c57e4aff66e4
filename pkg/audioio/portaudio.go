package audioio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// PortAudioSource captures audio through PortAudio.
// This is the production implementation on the device.
//
// While paused the device keeps draining (so its buffer never overruns)
// but captured chunks are discarded instead of delivered.
type PortAudioSource struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	stream  *portaudio.Stream
	running bool
	paused  bool
	closed  bool

	buf     []int16
	chunkCh chan Chunk
	stopCh  chan struct{}
}

// NewPortAudioSource creates a new PortAudio microphone source.
// PortAudio itself is initialized on Start.
func NewPortAudioSource(cfg Config, logger *slog.Logger) (*PortAudioSource, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("audioio: invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PortAudioSource{
		cfg:     cfg,
		logger:  logger.With("component", "audioio.portaudio"),
		chunkCh: make(chan Chunk, 10),
		stopCh:  make(chan struct{}),
	}, nil
}

// Start opens the default input stream and begins capture.
func (s *PortAudioSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return io.ErrClosedPipe
	}
	if s.running {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audioio: initialize portaudio: %w", err)
	}

	s.buf = make([]int16, s.cfg.BufferSize())
	stream, err := portaudio.OpenDefaultStream(
		s.cfg.Channels, 0, float64(s.cfg.SampleRate), len(s.buf)/s.cfg.Channels, s.buf)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audioio: open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("audioio: start input stream: %w", err)
	}

	s.stream = stream
	s.running = true
	s.stopCh = make(chan struct{})

	go s.captureLoop(ctx)

	s.logger.Info("microphone started",
		"sample_rate", s.cfg.SampleRate,
		"channels", s.cfg.Channels,
		"buffer_samples", len(s.buf),
	)
	return nil
}

func (s *PortAudioSource) captureLoop(ctx context.Context) {
	defer close(s.chunkCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		default:
		}

		s.mu.Lock()
		stream, paused := s.stream, s.paused
		s.mu.Unlock()
		if stream == nil {
			return
		}

		if err := stream.Read(); err != nil {
			s.logger.Error("capture read failed", "error", err)
			return
		}
		if paused {
			continue
		}

		samples := make([]int16, len(s.buf))
		copy(samples, s.buf)
		chunk := Chunk{
			Samples:    samples,
			SampleRate: s.cfg.SampleRate,
			Channels:   s.cfg.Channels,
		}

		select {
		case s.chunkCh <- chunk:
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		}
	}
}

// Chunks returns the captured audio channel.
func (s *PortAudioSource) Chunks() <-chan Chunk {
	return s.chunkCh
}

// Pause discards captured audio without stopping the device.
func (s *PortAudioSource) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
	return nil
}

// Resume restarts chunk delivery after a Pause.
func (s *PortAudioSource) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = false
	return nil
}

// Name returns the backend name.
func (s *PortAudioSource) Name() string { return string(BackendPortAudio) }

// Close stops capture and releases PortAudio.
func (s *PortAudioSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.running {
		close(s.stopCh)
		s.running = false
	}
	var err error
	if s.stream != nil {
		err = s.stream.Close()
		s.stream = nil
	}
	portaudio.Terminate()
	return err
}

// Verify PortAudioSource implements Source at compile time.
var _ Source = (*PortAudioSource)(nil)
