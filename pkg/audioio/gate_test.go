package audioio

import (
	"testing"
	"time"
)

func newTestGate(t *testing.T) (*Gate, *MockSource) {
	t.Helper()
	src := NewMockSource(DefaultConfig(), nil)
	return NewGate(src, nil), src
}

func TestGateSuspendPausesSource(t *testing.T) {
	gate, src := newTestGate(t)

	gate.Suspend(time.Hour)

	if !gate.Suspended() {
		t.Fatal("expected gate to report suspended")
	}
	if !src.Paused() {
		t.Fatal("expected underlying source to be paused")
	}

	gate.Resume()

	if gate.Suspended() {
		t.Fatal("expected gate to report resumed")
	}
	if src.Paused() {
		t.Fatal("expected underlying source to be resumed")
	}
}

func TestGateAutoResume(t *testing.T) {
	gate, src := newTestGate(t)

	gate.Suspend(20 * time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for gate.Suspended() {
		if time.Now().After(deadline) {
			t.Fatal("gate did not resume automatically")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if src.Paused() {
		t.Fatal("source still paused after automatic resume")
	}
}

func TestGateDoubleSuspendLastWriteWins(t *testing.T) {
	gate, _ := newTestGate(t)

	// A long suspend followed by a short one: the short timer must replace
	// the long one, so the gate resumes on the second duration.
	gate.Suspend(time.Hour)
	gate.Suspend(20 * time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for gate.Suspended() {
		if time.Now().After(deadline) {
			t.Fatal("replacement timer did not fire")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestGateShortThenLongSuspend(t *testing.T) {
	gate, _ := newTestGate(t)

	gate.Suspend(10 * time.Millisecond)
	gate.Suspend(200 * time.Millisecond)

	// The first timer was cancelled; well after 10ms the gate must still be
	// suspended because the later (longer) duration won.
	time.Sleep(60 * time.Millisecond)
	if !gate.Suspended() {
		t.Fatal("cancelled timer resumed the gate early")
	}
}

func TestGateResumeIdempotent(t *testing.T) {
	gate, _ := newTestGate(t)

	// Resume without a suspend must not panic or change state.
	gate.Resume()
	if gate.Suspended() {
		t.Fatal("resume on idle gate left it suspended")
	}

	gate.Suspend(time.Hour)
	gate.Resume()
	gate.Resume()
	if gate.Suspended() {
		t.Fatal("double resume left gate suspended")
	}
}

func TestGateIgnoresNonPositiveDuration(t *testing.T) {
	gate, _ := newTestGate(t)

	gate.Suspend(0)
	if gate.Suspended() {
		t.Fatal("zero duration must not suspend")
	}
	gate.Suspend(-time.Second)
	if gate.Suspended() {
		t.Fatal("negative duration must not suspend")
	}
}

func TestChunkBytesAndDuration(t *testing.T) {
	c := Chunk{
		Samples:    make([]int16, 16000),
		SampleRate: 16000,
		Channels:   1,
	}
	if got := c.Duration(); got != 1.0 {
		t.Errorf("expected 1s duration, got %f", got)
	}
	if got := len(c.Bytes()); got != 32000 {
		t.Errorf("expected 32000 bytes, got %d", got)
	}

	c.Samples = []int16{0x1234}
	b := c.Bytes()
	if b[0] != 0x34 || b[1] != 0x12 {
		t.Errorf("expected little-endian encoding, got % x", b)
	}
}
