package stt

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-tjbot/pkg/audioio"
	"github.com/teslashibe/go-tjbot/pkg/watson"
)

const providerSTT = "speech-to-text"

// Watson streams audio to the Watson Speech to Text WebSocket API.
type Watson struct {
	creds      watson.Credentials
	baseURL    string
	model      string
	sampleRate int
	channels   int
	audio      <-chan audioio.Chunk
	logger     *slog.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	started bool
	closed  bool
	out     chan string
}

// WatsonOption configures the Watson transcriber.
type WatsonOption func(*Watson)

// WithModel sets the recognition model.
func WithModel(model string) WatsonOption {
	return func(w *Watson) { w.model = model }
}

// WithBaseURL overrides the WebSocket base URL (used in tests).
func WithBaseURL(url string) WatsonOption {
	return func(w *Watson) { w.baseURL = url }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) WatsonOption {
	return func(w *Watson) { w.logger = logger }
}

// NewWatson creates a Watson streaming transcriber reading from audio.
func NewWatson(creds watson.Credentials, audio <-chan audioio.Chunk, sampleRate, channels int, opts ...WatsonOption) (*Watson, error) {
	if creds.Empty() {
		return nil, watson.WrapError(providerSTT, watson.ErrNoCredentials)
	}
	w := &Watson{
		creds:      creds,
		baseURL:    watson.SpeechToTextWSURL,
		model:      "en-US_BroadbandModel",
		sampleRate: sampleRate,
		channels:   channels,
		audio:      audio,
		logger:     slog.Default(),
		out:        make(chan string, 4),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("component", "stt.watson")
	return w, nil
}

// startAction is the session-opening control message.
type startAction struct {
	Action            string `json:"action"`
	ContentType       string `json:"content-type"`
	InterimResults    bool   `json:"interim_results"`
	InactivityTimeout int    `json:"inactivity_timeout"`
}

// recognizeMessage is a typed server frame: either a state echo, a result
// batch, or an error.
type recognizeMessage struct {
	State   string `json:"state"`
	Error   string `json:"error"`
	Results []struct {
		Final        bool `json:"final"`
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
}

// Start dials the recognize endpoint and begins pumping audio.
func (w *Watson) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}

	url := fmt.Sprintf("%s/v1/recognize?model=%s", w.baseURL, w.model)

	header := http.Header{}
	auth := base64.StdEncoding.EncodeToString([]byte(w.creds.Username + ":" + w.creds.Password))
	header.Set("Authorization", "Basic "+auth)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return watson.WrapError(providerSTT, &watson.APIError{
				StatusCode: resp.StatusCode,
				Message:    err.Error(),
				Provider:   providerSTT,
			})
		}
		return watson.WrapError(providerSTT, err)
	}

	start := startAction{
		Action:            "start",
		ContentType:       fmt.Sprintf("audio/l16; rate=%d; channels=%d", w.sampleRate, w.channels),
		InterimResults:    false,
		InactivityTimeout: -1,
	}
	if err := conn.WriteJSON(start); err != nil {
		conn.Close()
		return watson.WrapError(providerSTT, fmt.Errorf("send start action: %w", err))
	}

	w.conn = conn
	w.started = true

	go w.writeLoop(ctx)
	go w.readLoop()

	w.logger.Info("transcriber connected", "model", w.model, "rate", w.sampleRate)
	return nil
}

// writeLoop forwards audio chunks as binary frames until the audio channel
// closes or the context is cancelled.
func (w *Watson) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case chunk, ok := <-w.audio:
			if !ok {
				w.sendStop()
				return
			}
			w.mu.Lock()
			conn := w.conn
			w.mu.Unlock()
			if conn == nil {
				return
			}
			if err := conn.WriteMessage(websocket.BinaryMessage, chunk.Bytes()); err != nil {
				w.logger.Error("audio write failed", "error", err)
				return
			}
		}
	}
}

func (w *Watson) sendStop() {
	w.mu.Lock()
	conn := w.conn
	w.mu.Unlock()
	if conn != nil {
		_ = conn.WriteJSON(map[string]string{"action": "stop"})
	}
}

// readLoop decodes server frames and emits final transcripts.
func (w *Watson) readLoop() {
	defer close(w.out)

	for {
		w.mu.Lock()
		conn := w.conn
		w.mu.Unlock()
		if conn == nil {
			return
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			w.mu.Lock()
			closed := w.closed
			w.mu.Unlock()
			if !closed {
				w.logger.Error("transcript stream ended", "error", err)
			}
			return
		}

		for _, text := range decodeTranscripts(data, w.logger) {
			w.out <- text
		}
	}
}

// decodeTranscripts extracts final transcripts from one server frame.
// Malformed frames are logged and skipped rather than ending the stream.
func decodeTranscripts(data []byte, logger *slog.Logger) []string {
	var msg recognizeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.Warn("skipping malformed recognizer frame", "error", err)
		return nil
	}
	if msg.Error != "" {
		logger.Warn("recognizer reported error", "error", msg.Error)
		return nil
	}
	if msg.State != "" {
		logger.Debug("recognizer state", "state", msg.State)
		return nil
	}

	var out []string
	for _, r := range msg.Results {
		if !r.Final || len(r.Alternatives) == 0 {
			continue
		}
		text := strings.TrimSpace(r.Alternatives[0].Transcript)
		if text != "" {
			out = append(out, text)
		}
	}
	return out
}

// Transcripts returns the final-transcript channel.
func (w *Watson) Transcripts() <-chan string {
	return w.out
}

// Close tears down the WebSocket connection.
func (w *Watson) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.conn != nil {
		err := w.conn.Close()
		w.conn = nil
		return err
	}
	return nil
}

// Verify Watson implements Transcriber at compile time.
var _ Transcriber = (*Watson)(nil)
