// Package tts synthesizes response text into playable audio.
package tts

import "context"

// Format identifies the audio container of a synthesis result.
type Format string

const (
	// FormatWAV is linear PCM in a RIFF container (accept: audio/wav).
	FormatWAV Format = "wav"
	// FormatMP3 is MPEG audio (accept: audio/mp3).
	FormatMP3 Format = "mp3"
)

// MIME returns the accept header value for the format.
func (f Format) MIME() string {
	switch f {
	case FormatMP3:
		return "audio/mp3"
	default:
		return "audio/wav"
	}
}

// AudioResult is a complete synthesis result.
type AudioResult struct {
	// Audio contains the encoded audio bytes.
	Audio []byte

	// Format is the audio container.
	Format Format
}

// Provider converts text to speech audio.
type Provider interface {
	Synthesize(ctx context.Context, text string) (*AudioResult, error)
}
