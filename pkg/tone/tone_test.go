package tone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/teslashibe/go-tjbot/pkg/watson"
)

func TestDominant(t *testing.T) {
	tests := []struct {
		name      string
		tones     []Tone
		wantLabel string
		wantScore float64
	}{
		{
			name:      "strict maximum wins",
			tones:     []Tone{{"joy", 0.3}, {"anger", 0.7}, {"sadness", 0.5}},
			wantLabel: "anger",
			wantScore: 0.7,
		},
		{
			name:      "tie keeps first encountered",
			tones:     []Tone{{"joy", 0.6}, {"fear", 0.6}},
			wantLabel: "joy",
			wantScore: 0.6,
		},
		{
			name:      "empty input",
			tones:     nil,
			wantLabel: "",
			wantScore: 0,
		},
		{
			name:      "all zero scores stay unset",
			tones:     []Tone{{"joy", 0}, {"fear", 0}},
			wantLabel: "",
			wantScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dominant(tt.tones)
			if got.Label != tt.wantLabel || got.Score != tt.wantScore {
				t.Errorf("got (%q, %v), want (%q, %v)", got.Label, got.Score, tt.wantLabel, tt.wantScore)
			}
		})
	}
}

func TestWatsonAnalyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if _, _, ok := r.BasicAuth(); !ok {
			t.Error("expected basic auth on request")
		}
		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
			t.Errorf("bad request body: %v", err)
		}

		rw.Header().Set("Content-Type", "application/json")
		rw.Write([]byte(`{"document_tone":{"tone_categories":[
			{"category_id":"emotion_tone","tones":[
				{"tone_id":"joy","score":0.3},
				{"tone_id":"anger","score":0.7},
				{"tone_id":"sadness","score":0.5}
			]},
			{"category_id":"language_tone","tones":[{"tone_id":"analytical","score":0.99}]}
		]}}`))
	}))
	defer srv.Close()

	w, err := NewWatson(watson.Credentials{Username: "u", Password: "p"}, WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("new watson: %v", err)
	}

	res, err := w.Analyze(context.Background(), "I am so annoyed")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	// Only the first category group counts; analytical 0.99 must not win.
	if res.Label != "anger" || res.Score != 0.7 {
		t.Errorf("got (%q, %v), want (anger, 0.7)", res.Label, res.Score)
	}
}

func TestWatsonAnalyzeNoCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.Write([]byte(`{"document_tone":{"tone_categories":[]}}`))
	}))
	defer srv.Close()

	w, err := NewWatson(watson.Credentials{Username: "u", Password: "p"}, WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("new watson: %v", err)
	}

	res, err := w.Analyze(context.Background(), "hm")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Label != "" || res.Score != 0 {
		t.Errorf("expected zero result, got (%q, %v)", res.Label, res.Score)
	}
}

func TestWatsonAnalyzeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		http.Error(rw, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	w, err := NewWatson(watson.Credentials{Username: "u", Password: "p"}, WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("new watson: %v", err)
	}

	_, err = w.Analyze(context.Background(), "hello")
	apiErr, ok := err.(*watson.APIError)
	if !ok {
		t.Fatalf("expected *watson.APIError, got %T: %v", err, err)
	}
	if !apiErr.IsRateLimited() || !apiErr.IsRetryable() {
		t.Errorf("expected rate-limited retryable error, got %+v", apiErr)
	}
}
