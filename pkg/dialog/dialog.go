// Package dialog drives the turn-based conversation engine.
//
// The engine is an opaque black box: each turn submits the utterance text
// plus the accumulated Context and gets back a reply and a replacement
// Context. The Context carries the emotion and character keys this system
// merges in, plus whatever provider-managed state came back last turn.
package dialog

import (
	"context"
	"fmt"

	"github.com/teslashibe/go-tjbot/pkg/watson"
)

// Context keys written by the coordinator before each turn.
const (
	KeyEmotion   = "emotion"
	KeyCharacter = "character"
)

// Context is the accumulated conversational state passed into each turn.
// Beyond the emotion and character keys it is opaque provider state and is
// replaced wholesale by each engine response.
type Context map[string]any

// Clone returns a shallow copy of the context.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// TurnCounter reads the provider-managed dialog turn counter from the
// context's system block. Returns 0 when the counter is absent or has an
// unexpected shape, tolerating both JSON numbers and Go ints.
func (c Context) TurnCounter() int {
	system, ok := c["system"].(map[string]any)
	if !ok {
		return 0
	}
	switch v := system["dialog_turn_counter"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// Response is one engine reply: the response lines plus the replacement
// conversational context.
type Response struct {
	Output  []string
	Context Context
}

// Text returns the first response line. An empty output is a malformed
// response per the error taxonomy, not a valid silent reply.
func (r *Response) Text() (string, error) {
	if len(r.Output) == 0 {
		return "", fmt.Errorf("%w: empty dialog output", watson.ErrMalformedResponse)
	}
	return r.Output[0], nil
}

// Engine is the turn-based dialog engine interface.
type Engine interface {
	// Message submits one utterance with the prior context and returns the
	// engine's reply.
	Message(ctx context.Context, text string, dctx Context) (*Response, error)
}
