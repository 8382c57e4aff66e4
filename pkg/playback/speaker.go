// Package playback speaks dialog responses through the system audio output.
//
// Each response is synthesized, written to a fixed local path (overwritten
// every call), probed for duration, and played. Capture is suspended for the
// probed duration so the microphone does not hear the robot's own voice.
package playback

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/teslashibe/go-tjbot/pkg/tts"
)

// Gate is the capture suspend signal. Implemented by audioio.Gate.
type Gate interface {
	Suspend(d time.Duration)
}

// Speaker converts response text to audio and plays it.
type Speaker struct {
	provider  tts.Provider
	gate      Gate
	outPath   string
	playerCmd string
	timeout   time.Duration
	logger    *slog.Logger

	// Serializes playbacks so overlapping Say calls cannot interleave audio.
	mu sync.Mutex
}

// Option configures a Speaker.
type Option func(*Speaker)

// WithOutputPath sets the fixed audio file path (default "output.wav").
func WithOutputPath(path string) Option {
	return func(s *Speaker) { s.outPath = path }
}

// WithPlayerCommand sets the audio player binary (default "aplay").
func WithPlayerCommand(cmd string) Option {
	return func(s *Speaker) { s.playerCmd = cmd }
}

// WithTimeout bounds the synthesis call (default 30s).
func WithTimeout(d time.Duration) Option {
	return func(s *Speaker) { s.timeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Speaker) { s.logger = logger }
}

// New creates a Speaker.
func New(provider tts.Provider, gate Gate, opts ...Option) *Speaker {
	s := &Speaker{
		provider:  provider,
		gate:      gate,
		outPath:   "output.wav",
		playerCmd: "aplay",
		timeout:   30 * time.Second,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "playback")
	return s
}

// Say speaks text without blocking the caller. Failures are logged, never
// propagated: a bad playback simply means no spoken response.
func (s *Speaker) Say(text string) {
	go func() {
		if err := s.Speak(context.Background(), text); err != nil {
			s.logger.Error("playback failed", "error", err)
		}
	}()
}

// Speak synthesizes, persists, probes, suspends capture, and plays. It
// blocks until playback finishes; use Say for fire-and-forget.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.provider.Synthesize(sctx, text)
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.outPath, res.Audio, 0o644); err != nil {
		return err
	}

	if d, err := ProbeDuration(res.Audio, res.Format); err != nil {
		// Play anyway; the worst case is the microphone hears the clip.
		s.logger.Warn("duration probe failed", "error", err)
	} else {
		s.gate.Suspend(d)
		s.logger.Debug("speaking", "chars", len(text), "duration", d)
	}

	cmd := exec.CommandContext(ctx, s.playerCmd, s.outPath)
	if err := cmd.Run(); err != nil {
		return err
	}
	return nil
}
