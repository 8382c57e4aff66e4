// Package session contains the dialog session coordinator: the turn-taking
// state machine that decides when the robot is idle-listening versus in an
// active dialog, merges tone and character into the conversational context,
// and drives the dialog engine one turn per utterance.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/teslashibe/go-tjbot/pkg/dialog"
	"github.com/teslashibe/go-tjbot/pkg/tone"
)

// State is the coordinator's dialog state.
type State int

const (
	// StateIdle means transcripts are only scanned for the attention word.
	StateIdle State = iota
	// StateActive means every transcript drives a dialog turn.
	StateActive
)

// String returns a human-readable state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// turnLimit is the dialog turn counter value at which a session ends.
const turnLimit = 2

// Speaker voices a dialog reply without blocking the coordinator.
// Implemented by playback.Speaker.
type Speaker interface {
	Say(text string)
}

// Coordinator is the dialog session state machine.
//
// HandleTranscript must only be called from a single goroutine (the event
// loop); turns are therefore strictly serialized in arrival order.
// SetCharacter is the one cross-goroutine entry point and is mutex-guarded.
type Coordinator struct {
	attention string
	tones     tone.Analyzer
	engine    dialog.Engine
	speaker   Speaker
	logger    *slog.Logger

	state State
	dctx  dialog.Context

	mu        sync.Mutex
	character string
}

// New creates a coordinator in the idle state with an empty context.
func New(attentionWord string, tones tone.Analyzer, engine dialog.Engine, speaker Speaker, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		attention: strings.ToLower(attentionWord),
		tones:     tones,
		engine:    engine,
		speaker:   speaker,
		logger:    logger.With("component", "session"),
		state:     StateIdle,
		dctx:      dialog.Context{},
	}
}

// State returns the current dialog state.
func (c *Coordinator) State() State {
	return c.state
}

// SetCharacter caches the identified character label for all later turns.
// Safe to call from the identification goroutine.
func (c *Coordinator) SetCharacter(label string) {
	c.mu.Lock()
	c.character = label
	c.mu.Unlock()
	c.logger.Info("character identified", "character", label)
}

// Character returns the cached character label, empty if identification has
// not completed.
func (c *Coordinator) Character() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.character
}

// HandleTranscript processes one utterance. While idle it scans for the
// attention word (case-insensitive substring) and otherwise discards the
// transcript; the activating transcript itself becomes the first turn.
func (c *Coordinator) HandleTranscript(ctx context.Context, text string) {
	lowered := strings.ToLower(text)
	c.logger.Info("heard", "text", lowered)

	if c.state == StateIdle {
		if !strings.Contains(lowered, c.attention) {
			c.logger.Debug("waiting for attention word", "attention", c.attention)
			return
		}
		c.state = StateActive
		c.logger.Info("dialog session started")
	}

	c.turn(ctx, lowered)
}

// turn runs one dialog exchange. Provider failures degrade the turn (unset
// emotion, no spoken reply) but never end the session or crash the loop.
func (c *Coordinator) turn(ctx context.Context, text string) {
	emotion := ""
	if res, err := c.tones.Analyze(ctx, text); err != nil {
		c.logger.Warn("tone detection failed", "error", err)
	} else {
		emotion = res.Label
	}

	c.dctx[dialog.KeyEmotion] = emotion
	c.dctx[dialog.KeyCharacter] = c.Character()

	resp, err := c.engine.Message(ctx, text, c.dctx)
	if err != nil {
		// The session stays active; the next transcript gets a fresh turn.
		c.logger.Error("dialog turn failed", "error", err)
		return
	}

	c.dctx = resp.Context

	if reply, err := resp.Text(); err != nil {
		c.logger.Warn("dialog reply unusable", "error", err)
	} else {
		c.logger.Info("robot says", "text", reply)
		c.speaker.Say(reply)
	}

	if c.dctx.TurnCounter() == turnLimit {
		c.state = StateIdle
		c.dctx = dialog.Context{}
		c.logger.Info("dialog session ended", "turns", turnLimit)
	}
}
