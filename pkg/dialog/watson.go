package dialog

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
	providerDialog = "conversation"
	dialogVersion  = "2016-07-11"
)

// Watson implements Engine against the Watson Conversation v1 workspace API.
type Watson struct {
	creds       watson.Credentials
	workspaceID string
	baseURL     string
	client      *http.Client
	logger      *slog.Logger
}

// WatsonOption configures the Watson engine.
type WatsonOption func(*Watson)

// WithBaseURL overrides the API base URL (used in tests).
func WithBaseURL(url string) WatsonOption {
	return func(w *Watson) { w.baseURL = url }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) WatsonOption {
	return func(w *Watson) { w.logger = logger }
}

// NewWatson creates a Conversation client bound to one workspace.
func NewWatson(creds watson.Credentials, workspaceID string, opts ...WatsonOption) (*Watson, error) {
	if creds.Empty() {
		return nil, watson.WrapError(providerDialog, watson.ErrNoCredentials)
	}
	if workspaceID == "" {
		return nil, watson.WrapError(providerDialog, fmt.Errorf("workspace id required"))
	}
	w := &Watson{
		creds:       creds,
		workspaceID: workspaceID,
		baseURL:     watson.ConversationURL,
		client:      httpc.Client,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("component", "dialog.watson")
	return w, nil
}

// messageRequest is the workspace message payload.
type messageRequest struct {
	Input   messageInput `json:"input"`
	Context Context      `json:"context,omitempty"`
}

type messageInput struct {
	Text string `json:"text"`
}

// messageResponse is the typed shape of the workspace message endpoint.
type messageResponse struct {
	Output struct {
		Text []string `json:"text"`
	} `json:"output"`
	Context Context `json:"context"`
}

// Message submits one turn to the workspace.
func (w *Watson) Message(ctx context.Context, text string, dctx Context) (*Response, error) {
	payload, err := json.Marshal(messageRequest{
		Input:   messageInput{Text: text},
		Context: dctx,
	})
	if err != nil {
		return nil, watson.WrapError(providerDialog, fmt.Errorf("marshal payload: %w", err))
	}

	url := fmt.Sprintf("%s/v1/workspaces/%s/message?version=%s", w.baseURL, w.workspaceID, dialogVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, watson.WrapError(providerDialog, err)
	}
	req.Header.Set("Content-Type", "application/json")
	w.creds.Apply(req)

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, watson.WrapError(providerDialog, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, watson.WrapError(providerDialog, fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &watson.APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Provider:   providerDialog,
		}
	}

	var decoded messageResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, watson.WrapError(providerDialog, fmt.Errorf("%w: %v", watson.ErrMalformedResponse, err))
	}
	if decoded.Context == nil {
		return nil, watson.WrapError(providerDialog, fmt.Errorf("%w: missing context", watson.ErrMalformedResponse))
	}

	w.logger.Debug("dialog turn completed",
		"turn_counter", decoded.Context.TurnCounter(),
		"output_lines", len(decoded.Output.Text),
	)

	return &Response{
		Output:  decoded.Output.Text,
		Context: decoded.Context,
	}, nil
}

// Verify Watson implements Engine at compile time.
var _ Engine = (*Watson)(nil)
