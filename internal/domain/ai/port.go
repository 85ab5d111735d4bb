package ai

import (
	"context"

	"github.com/bryanwahyu/shoplens/internal/domain/analysis"
)

// Classifier port (interface untuk backend klasifikasi review)
type Classifier interface {
	// Classify returns the sentiment and up to three topic tags for one review text.
	Classify(ctx context.Context, text string) (analysis.Sentiment, []string, error)
	// Summarize produces a one-sentence narrative over the classified reviews.
	Summarize(ctx context.Context, product *analysis.Product, reviews []analysis.Review) (string, error)
}
