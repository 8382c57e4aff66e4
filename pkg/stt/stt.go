// Package stt provides streaming speech-to-text.
//
// The production implementation streams microphone audio to the Watson
// Speech to Text WebSocket recognize endpoint and emits final transcripts.
// A mock transcriber is provided for tests.
package stt

import "context"

// Transcriber converts a continuous audio stream into utterance transcripts.
type Transcriber interface {
	// Start connects to the recognizer and begins streaming.
	Start(ctx context.Context) error

	// Transcripts returns the channel of final utterance transcripts.
	// The channel is closed on an unrecoverable stream error or Close.
	Transcripts() <-chan string

	// Close tears down the connection and stops the stream.
	Close() error
}
