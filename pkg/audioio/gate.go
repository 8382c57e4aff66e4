package audioio

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Gate wraps a Source with timed suspend/resume. Playback suspends capture
// for the measured duration of the spoken audio so the robot does not hear
// itself; the gate then resumes capture automatically.
//
// A Suspend while already suspended replaces the pending resume timer, so
// the last requested duration wins and capture resumes exactly once.
type Gate struct {
	src    Source
	logger *slog.Logger

	mu        sync.Mutex
	timer     *time.Timer
	suspended bool
}

// NewGate creates a gate around the given source.
func NewGate(src Source, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		src:    src,
		logger: logger.With("component", "audioio.gate"),
	}
}

// Start starts the underlying source.
func (g *Gate) Start(ctx context.Context) error {
	return g.src.Start(ctx)
}

// Chunks returns the underlying source's audio channel.
func (g *Gate) Chunks() <-chan Chunk {
	return g.src.Chunks()
}

// Suspend pauses capture for approximately d, then resumes automatically.
// A pending resume timer is cancelled and replaced; the later duration wins.
func (g *Gate) Suspend(d time.Duration) {
	if d <= 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.timer != nil {
		g.timer.Stop()
	}
	if !g.suspended {
		if err := g.src.Pause(); err != nil {
			g.logger.Error("pause capture failed", "error", err)
			return
		}
		g.suspended = true
	}
	g.timer = time.AfterFunc(d, g.Resume)

	g.logger.Info("capture suspended", "duration", d)
}

// Resume restarts capture immediately. Safe to call while not suspended.
func (g *Gate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	if !g.suspended {
		return
	}
	if err := g.src.Resume(); err != nil {
		g.logger.Error("resume capture failed", "error", err)
		return
	}
	g.suspended = false

	g.logger.Info("capture resumed")
}

// Suspended reports whether capture is currently suspended.
func (g *Gate) Suspended() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.suspended
}

// Close releases the underlying source.
func (g *Gate) Close() error {
	g.mu.Lock()
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.mu.Unlock()
	return g.src.Close()
}
