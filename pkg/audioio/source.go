// Package audioio provides microphone capture for the robot.
//
// Two backends are supported: PortAudio for real hardware and a mock for
// CI/testing without a microphone. The Gate type wraps a Source and
// implements the suspend/resume behavior used to keep the robot from
// hearing its own spoken output.
package audioio

import (
	"context"
	"io"
)

// Chunk represents a chunk of captured audio.
type Chunk struct {
	// Samples contains PCM16 audio samples (little-endian).
	Samples []int16

	// SampleRate is the sample rate of this chunk.
	SampleRate int

	// Channels is the number of channels in this chunk.
	Channels int
}

// Bytes returns the raw bytes of the audio chunk.
func (c *Chunk) Bytes() []byte {
	buf := make([]byte, len(c.Samples)*2)
	for i, s := range c.Samples {
		buf[i*2] = byte(s)
		buf[i*2+1] = byte(s >> 8)
	}
	return buf
}

// Duration returns the duration of this audio chunk in seconds.
func (c *Chunk) Duration() float64 {
	if c.SampleRate == 0 || c.Channels == 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate*c.Channels)
}

// Source captures audio from a microphone or other input device.
type Source interface {
	// Start begins audio capture.
	// After calling Start, audio chunks are delivered via Chunks.
	Start(ctx context.Context) error

	// Chunks returns the channel that receives captured audio.
	// The channel is closed when the source stops or hits an
	// unrecoverable capture error.
	Chunks() <-chan Chunk

	// Pause stops delivering audio without releasing the device.
	// It is safe to call Pause while already paused.
	Pause() error

	// Resume restarts delivery after a Pause.
	// It is safe to call Resume while not paused.
	Resume() error

	// Name returns the backend name (e.g., "portaudio", "mock").
	Name() string

	// Close releases all resources.
	// After Close, the source cannot be restarted.
	io.Closer
}
