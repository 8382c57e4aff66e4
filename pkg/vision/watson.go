package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/teslashibe/go-tjbot/internal/httpc"
	"github.com/teslashibe/go-tjbot/pkg/watson"
)

const (
	providerVision = "visual-recognition"
	visionVersion  = "2016-05-19"
)

// Watson implements Classifier against the Visual Recognition v3 API.
type Watson struct {
	apiKey       string
	classifierID string
	threshold    float64
	baseURL      string
	client       *http.Client
	logger       *slog.Logger
}

// WatsonOption configures the Watson classifier.
type WatsonOption func(*Watson)

// WithBaseURL overrides the API base URL (used in tests).
func WithBaseURL(url string) WatsonOption {
	return func(w *Watson) { w.baseURL = url }
}

// WithThreshold sets the minimum class score returned by the service.
// The default of 0 returns every trained class so ranking happens locally.
func WithThreshold(threshold float64) WatsonOption {
	return func(w *Watson) { w.threshold = threshold }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) WatsonOption {
	return func(w *Watson) { w.logger = logger }
}

// NewWatson creates a Visual Recognition client bound to one custom classifier.
func NewWatson(apiKey, classifierID string, opts ...WatsonOption) (*Watson, error) {
	if apiKey == "" {
		return nil, watson.WrapError(providerVision, watson.ErrNoCredentials)
	}
	if classifierID == "" {
		return nil, watson.WrapError(providerVision, fmt.Errorf("classifier id required"))
	}
	w := &Watson{
		apiKey:       apiKey,
		classifierID: classifierID,
		baseURL:      watson.VisualRecognitionURL,
		client:       httpc.Client,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("component", "vision.watson")
	return w, nil
}

// classifyResponse is the typed shape of the v3 classify endpoint.
type classifyResponse struct {
	Images []struct {
		Classifiers []struct {
			ClassifierID string `json:"classifier_id"`
			Classes      []struct {
				Class string  `json:"class"`
				Score float64 `json:"score"`
			} `json:"classes"`
		} `json:"classifiers"`
	} `json:"images"`
}

// Classify uploads the image and returns the scored classes from the bound
// classifier.
func (w *Watson) Classify(ctx context.Context, imagePath string) ([]Class, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return nil, watson.WrapError(providerVision, fmt.Errorf("open image: %w", err))
	}
	defer file.Close()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("images_file", filepath.Base(imagePath))
	if err != nil {
		return nil, watson.WrapError(providerVision, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, watson.WrapError(providerVision, fmt.Errorf("copy image: %w", err))
	}

	params, _ := json.Marshal(map[string]any{
		"classifier_ids": []string{w.classifierID},
		"threshold":      w.threshold,
	})
	if err := form.WriteField("parameters", string(params)); err != nil {
		return nil, watson.WrapError(providerVision, err)
	}
	if err := form.Close(); err != nil {
		return nil, watson.WrapError(providerVision, err)
	}

	url := fmt.Sprintf("%s/v3/classify?api_key=%s&version=%s", w.baseURL, w.apiKey, visionVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, watson.WrapError(providerVision, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, watson.WrapError(providerVision, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, watson.WrapError(providerVision, fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &watson.APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Provider:   providerVision,
		}
	}

	var decoded classifyResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, watson.WrapError(providerVision, fmt.Errorf("%w: %v", watson.ErrMalformedResponse, err))
	}
	if len(decoded.Images) == 0 || len(decoded.Images[0].Classifiers) == 0 {
		return nil, watson.WrapError(providerVision, fmt.Errorf("%w: no classifier results", watson.ErrMalformedResponse))
	}

	raw := decoded.Images[0].Classifiers[0].Classes
	classes := make([]Class, 0, len(raw))
	for _, c := range raw {
		classes = append(classes, Class{Label: c.Class, Score: c.Score})
	}

	w.logger.Debug("image classified", "classes", len(classes))
	return classes, nil
}

// Verify Watson implements Classifier at compile time.
var _ Classifier = (*Watson)(nil)
