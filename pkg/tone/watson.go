package tone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/teslashibe/go-tjbot/internal/httpc"
	"github.com/teslashibe/go-tjbot/pkg/watson"
)

const (
	providerTone = "tone-analyzer"
	toneVersion  = "2016-05-19"
)

// Watson implements Analyzer against the Watson Tone Analyzer v3 API.
type Watson struct {
	creds   watson.Credentials
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// WatsonOption configures the Watson analyzer.
type WatsonOption func(*Watson)

// WithBaseURL overrides the API base URL (used in tests).
func WithBaseURL(url string) WatsonOption {
	return func(w *Watson) { w.baseURL = url }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) WatsonOption {
	return func(w *Watson) { w.logger = logger }
}

// NewWatson creates a Tone Analyzer client.
func NewWatson(creds watson.Credentials, opts ...WatsonOption) (*Watson, error) {
	if creds.Empty() {
		return nil, watson.WrapError(providerTone, watson.ErrNoCredentials)
	}
	w := &Watson{
		creds:   creds,
		baseURL: watson.ToneAnalyzerURL,
		client:  httpc.Client,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("component", "tone.watson")
	return w, nil
}

// toneResponse is the typed shape of the v3 tone endpoint.
type toneResponse struct {
	DocumentTone struct {
		ToneCategories []struct {
			CategoryID string `json:"category_id"`
			Tones      []struct {
				ToneID string  `json:"tone_id"`
				Score  float64 `json:"score"`
			} `json:"tones"`
		} `json:"tone_categories"`
	} `json:"document_tone"`
}

// Analyze resolves the dominant tone of text from the first category group.
func (w *Watson) Analyze(ctx context.Context, text string) (Result, error) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return Result{}, watson.WrapError(providerTone, fmt.Errorf("marshal payload: %w", err))
	}

	url := fmt.Sprintf("%s/v3/tone?version=%s", w.baseURL, toneVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Result{}, watson.WrapError(providerTone, err)
	}
	req.Header.Set("Content-Type", "application/json")
	w.creds.Apply(req)

	resp, err := w.client.Do(req)
	if err != nil {
		return Result{}, watson.WrapError(providerTone, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, watson.WrapError(providerTone, fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, &watson.APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Provider:   providerTone,
		}
	}

	var decoded toneResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Result{}, watson.WrapError(providerTone, fmt.Errorf("%w: %v", watson.ErrMalformedResponse, err))
	}

	cats := decoded.DocumentTone.ToneCategories
	if len(cats) == 0 {
		w.logger.Debug("no tone categories returned", "chars", len(text))
		return Result{}, nil
	}

	tones := make([]Tone, 0, len(cats[0].Tones))
	for _, t := range cats[0].Tones {
		tones = append(tones, Tone{ID: t.ToneID, Score: t.Score})
	}

	res := Dominant(tones)
	w.logger.Debug("tone detected", "label", res.Label, "score", res.Score)
	return res, nil
}

// Verify Watson implements Analyzer at compile time.
var _ Analyzer = (*Watson)(nil)
