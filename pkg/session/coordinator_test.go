package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/teslashibe/go-tjbot/pkg/dialog"
	"github.com/teslashibe/go-tjbot/pkg/tone"
)

// recordingSpeaker captures spoken replies.
type recordingSpeaker struct {
	mu    sync.Mutex
	lines []string
}

func (s *recordingSpeaker) Say(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, text)
}

func (s *recordingSpeaker) spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// engineScript replies with canned responses in order.
type engineScript struct {
	mock      dialog.Mock
	responses []*dialog.Response
}

func scriptedEngine(responses ...*dialog.Response) *engineScript {
	e := &engineScript{responses: responses}
	i := 0
	e.mock.MessageFunc = func(ctx context.Context, text string, dctx dialog.Context) (*dialog.Response, error) {
		if i >= len(responses) {
			return &dialog.Response{Output: []string{"..."}, Context: dialog.Context{}}, nil
		}
		r := responses[i]
		i++
		return r, nil
	}
	return e
}

func reply(text string, turn int) *dialog.Response {
	return &dialog.Response{Output: []string{text}, Context: dialog.ContextWithTurn(turn)}
}

func newCoordinator(engine dialog.Engine, tones tone.Analyzer) (*Coordinator, *recordingSpeaker) {
	if tones == nil {
		tones = &tone.Mock{}
	}
	speaker := &recordingSpeaker{}
	return New("hello tj", tones, engine, speaker, nil), speaker
}

func TestIdleIgnoresTranscriptsWithoutAttentionWord(t *testing.T) {
	engine := &dialog.Mock{}
	c, speaker := newCoordinator(engine, nil)

	for _, text := range []string{"nice weather", "what time is it", "hello jim"} {
		c.HandleTranscript(context.Background(), text)
	}

	if c.State() != StateIdle {
		t.Error("coordinator left idle without attention word")
	}
	if got := len(engine.Calls()); got != 0 {
		t.Errorf("dialog engine called %d times while idle", got)
	}
	if got := len(speaker.spoken()); got != 0 {
		t.Errorf("spoke %d replies while idle", got)
	}
}

func TestAttentionWordActivatesAndSubmitsFirstTurn(t *testing.T) {
	engine := scriptedEngine(reply("Doing great!", 1))
	c, _ := newCoordinator(&engine.mock, nil)

	c.HandleTranscript(context.Background(), "Hello TJ how are you")

	if c.State() != StateActive {
		t.Fatal("attention word did not activate session")
	}
	calls := engine.mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected exactly one dialog call, got %d", len(calls))
	}
	// The activating transcript itself is the first turn, lowercased.
	if calls[0].Text != "hello tj how are you" {
		t.Errorf("first turn text: got %q", calls[0].Text)
	}
}

func TestAttentionWordInsideLongerWordActivates(t *testing.T) {
	engine := scriptedEngine(reply("yes?", 1))
	c, _ := newCoordinator(&engine.mock, nil)

	// Pure substring containment, not token match.
	c.HandleTranscript(context.Background(), "I said hello tjohnson")

	if c.State() != StateActive {
		t.Error("substring attention word did not activate")
	}
}

func TestSessionEndsAtTurnLimit(t *testing.T) {
	engine := scriptedEngine(
		reply("Doing great!", 1),
		reply("See you later!", 2),
	)
	c, speaker := newCoordinator(&engine.mock, nil)

	c.HandleTranscript(context.Background(), "hello tj how are you")
	if c.State() != StateActive {
		t.Fatal("session not active after turn 1")
	}

	c.HandleTranscript(context.Background(), "goodbye")
	if c.State() != StateIdle {
		t.Fatal("session still active after turn counter hit the limit")
	}

	// Context must be cleared: a fresh activation starts with only the
	// merged keys, no stale provider state.
	engine2 := scriptedEngine(reply("hi again", 1))
	c.engine = &engine2.mock
	c.HandleTranscript(context.Background(), "hello tj again")

	calls := engine2.mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected one call after reactivation, got %d", len(calls))
	}
	if _, ok := calls[0].Context["system"]; ok {
		t.Error("stale system context survived session reset")
	}

	want := []string{"Doing great!", "See you later!", "hi again"}
	got := speaker.spoken()
	if len(got) != len(want) {
		t.Fatalf("spoken replies: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("reply %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEmotionAndCharacterMergedIntoContext(t *testing.T) {
	tones := &tone.Mock{AnalyzeFunc: func(ctx context.Context, text string) (tone.Result, error) {
		return tone.Result{Label: "joy", Score: 0.8}, nil
	}}
	engine := scriptedEngine(reply("nice!", 1))
	c, _ := newCoordinator(&engine.mock, tones)

	c.SetCharacter("grumpy_bear")
	c.HandleTranscript(context.Background(), "hello tj I am so happy")

	calls := engine.mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected one call, got %d", len(calls))
	}
	if calls[0].Context[dialog.KeyEmotion] != "joy" {
		t.Errorf("emotion not merged: %v", calls[0].Context)
	}
	if calls[0].Context[dialog.KeyCharacter] != "grumpy_bear" {
		t.Errorf("character not merged: %v", calls[0].Context)
	}
}

func TestUnsetCharacterMergedAsEmpty(t *testing.T) {
	engine := scriptedEngine(reply("hello!", 1))
	c, _ := newCoordinator(&engine.mock, nil)

	c.HandleTranscript(context.Background(), "hello tj")

	calls := engine.mock.Calls()
	if calls[0].Context[dialog.KeyCharacter] != "" {
		t.Errorf("expected empty character sentinel, got %v", calls[0].Context[dialog.KeyCharacter])
	}
}

func TestCharacterReadUnchangedAcrossTurns(t *testing.T) {
	engine := &dialog.Mock{MessageFunc: func(ctx context.Context, text string, dctx dialog.Context) (*dialog.Response, error) {
		return &dialog.Response{Output: []string{"ok"}, Context: dialog.ContextWithTurn(1)}, nil
	}}
	c, _ := newCoordinator(engine, nil)

	c.SetCharacter("dog")
	c.HandleTranscript(context.Background(), "hello tj")
	c.HandleTranscript(context.Background(), "tell me something")
	c.HandleTranscript(context.Background(), "another one")

	for i, call := range engine.Calls() {
		if call.Context[dialog.KeyCharacter] != "dog" {
			t.Errorf("turn %d: character changed to %v", i, call.Context[dialog.KeyCharacter])
		}
	}
}

func TestToneFailureDegradesToUnsetEmotion(t *testing.T) {
	tones := &tone.Mock{AnalyzeFunc: func(ctx context.Context, text string) (tone.Result, error) {
		return tone.Result{}, errors.New("tone service down")
	}}
	engine := scriptedEngine(reply("still here", 1))
	c, _ := newCoordinator(&engine.mock, tones)

	c.HandleTranscript(context.Background(), "hello tj")

	if c.State() != StateActive {
		t.Error("tone failure ended the session")
	}
	calls := engine.mock.Calls()
	if len(calls) != 1 {
		t.Fatal("tone failure suppressed the dialog call")
	}
	if calls[0].Context[dialog.KeyEmotion] != "" {
		t.Errorf("expected unset emotion, got %v", calls[0].Context[dialog.KeyEmotion])
	}
}

func TestEngineFailureKeepsSessionActive(t *testing.T) {
	calls := 0
	engine := &dialog.Mock{MessageFunc: func(ctx context.Context, text string, dctx dialog.Context) (*dialog.Response, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("engine down")
		}
		return &dialog.Response{Output: []string{"recovered"}, Context: dialog.ContextWithTurn(1)}, nil
	}}
	c, speaker := newCoordinator(engine, nil)

	c.HandleTranscript(context.Background(), "hello tj")
	if c.State() != StateActive {
		t.Fatal("engine failure ended the session")
	}
	if len(speaker.spoken()) != 0 {
		t.Error("failed turn produced a spoken reply")
	}

	// The next transcript gets a fresh turn.
	c.HandleTranscript(context.Background(), "are you there")
	if got := speaker.spoken(); len(got) != 1 || got[0] != "recovered" {
		t.Errorf("recovery turn not spoken: %v", got)
	}
}

func TestEmptyEngineOutputSkipsPlaybackOnly(t *testing.T) {
	engine := scriptedEngine(&dialog.Response{Output: nil, Context: dialog.ContextWithTurn(2)})
	c, speaker := newCoordinator(&engine.mock, nil)

	c.HandleTranscript(context.Background(), "hello tj")

	if len(speaker.spoken()) != 0 {
		t.Error("empty output was spoken")
	}
	// The context replacement and turn-counter check still apply.
	if c.State() != StateIdle {
		t.Error("turn counter in the returned context was ignored")
	}
}

func TestScenarioHelloTJ(t *testing.T) {
	// "hello tj how are you" activates and becomes turn 1;
	// "goodbye" is turn 2 and resets the session.
	engine := scriptedEngine(
		reply("I am fine, how are you?", 1),
		reply("Bye bye!", 2),
	)
	c, speaker := newCoordinator(&engine.mock, nil)

	c.HandleTranscript(context.Background(), "hello tj how are you")
	if c.State() != StateActive {
		t.Fatal("not active after activation")
	}

	c.HandleTranscript(context.Background(), "goodbye")
	if c.State() != StateIdle {
		t.Fatal("not idle after final turn")
	}

	calls := engine.mock.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(calls))
	}
	if calls[0].Text != "hello tj how are you" || calls[1].Text != "goodbye" {
		t.Errorf("turn texts: %q, %q", calls[0].Text, calls[1].Text)
	}
	if got := speaker.spoken(); len(got) != 2 || got[1] != "Bye bye!" {
		t.Errorf("spoken: %v", got)
	}
}

func TestStateString(t *testing.T) {
	if StateIdle.String() != "idle" || StateActive.String() != "active" {
		t.Error("unexpected state names")
	}
	if State(99).String() != "unknown" {
		t.Error("unexpected fallback state name")
	}
}
