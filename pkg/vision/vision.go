// Package vision identifies the character persona from a captured photo.
package vision

import "context"

// Class is a single scored class label returned by a classifier.
type Class struct {
	Label string
	Score float64
}

// Classifier scores an image against a trained set of class labels.
type Classifier interface {
	Classify(ctx context.Context, imagePath string) ([]Class, error)
}

// BestClass selects the maximum-score class; ties keep the first
// encountered. An empty slice yields the empty label.
func BestClass(classes []Class) string {
	if len(classes) == 0 {
		return ""
	}
	best := classes[0]
	for _, c := range classes[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best.Label
}

// Identify runs the classifier on the captured photo and resolves the single
// best-guess character label.
func Identify(ctx context.Context, c Classifier, imagePath string) (string, error) {
	classes, err := c.Classify(ctx, imagePath)
	if err != nil {
		return "", err
	}
	return BestClass(classes), nil
}
