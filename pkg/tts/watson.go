package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/teslashibe/go-tjbot/internal/httpc"
	"github.com/teslashibe/go-tjbot/pkg/watson"
)

const providerTTS = "text-to-speech"

// Watson implements Provider against the Watson Text to Speech v1 API.
type Watson struct {
	creds   watson.Credentials
	voice   string
	format  Format
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// WatsonOption configures the Watson synthesizer.
type WatsonOption func(*Watson)

// WithBaseURL overrides the API base URL (used in tests).
func WithBaseURL(url string) WatsonOption {
	return func(w *Watson) { w.baseURL = url }
}

// WithFormat sets the requested audio container.
func WithFormat(format Format) WatsonOption {
	return func(w *Watson) { w.format = format }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) WatsonOption {
	return func(w *Watson) { w.logger = logger }
}

// NewWatson creates a Text to Speech client bound to one voice.
func NewWatson(creds watson.Credentials, voice string, opts ...WatsonOption) (*Watson, error) {
	if creds.Empty() {
		return nil, watson.WrapError(providerTTS, watson.ErrNoCredentials)
	}
	if voice == "" {
		return nil, watson.WrapError(providerTTS, fmt.Errorf("voice required"))
	}
	w := &Watson{
		creds:   creds,
		voice:   voice,
		format:  FormatWAV,
		baseURL: watson.TextToSpeechURL,
		client:  httpc.Client,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("component", "tts.watson")
	return w, nil
}

// Synthesize converts text to audio, returning the complete audio buffer.
func (w *Watson) Synthesize(ctx context.Context, text string) (*AudioResult, error) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, watson.WrapError(providerTTS, fmt.Errorf("marshal payload: %w", err))
	}

	endpoint := fmt.Sprintf("%s/v1/synthesize?voice=%s", w.baseURL, url.QueryEscape(w.voice))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, watson.WrapError(providerTTS, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", w.format.MIME())
	w.creds.Apply(req)

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, watson.WrapError(providerTTS, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, watson.WrapError(providerTTS, fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &watson.APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Provider:   providerTTS,
		}
	}
	if len(body) == 0 {
		return nil, watson.WrapError(providerTTS, fmt.Errorf("%w: empty audio", watson.ErrMalformedResponse))
	}

	w.logger.Debug("synthesized audio",
		"chars", len(text),
		"bytes", len(body),
		"voice", w.voice,
	)

	return &AudioResult{Audio: body, Format: w.format}, nil
}

// Verify Watson implements Provider at compile time.
var _ Provider = (*Watson)(nil)
