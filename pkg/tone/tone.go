// Package tone detects the dominant emotional tone of an utterance.
package tone

import "context"

// Result is the dominant tone for one utterance. Label is empty and Score
// zero when the provider returned no tone categories.
type Result struct {
	Label string
	Score float64
}

// Tone is a single scored tone candidate returned by a provider.
type Tone struct {
	ID    string
	Score float64
}

// Analyzer resolves the dominant emotional tone of a piece of text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (Result, error)
}

// Dominant selects the strictly maximum-score tone; ties keep the first
// encountered. An empty slice yields the zero Result.
func Dominant(tones []Tone) Result {
	var res Result
	for _, t := range tones {
		if t.Score > res.Score {
			res.Label = t.ID
			res.Score = t.Score
		}
	}
	return res
}
