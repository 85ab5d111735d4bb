package fallback

import (
	"context"
	"strings"

	"github.com/bryanwahyu/shoplens/internal/domain/ai"
	domain "github.com/bryanwahyu/shoplens/internal/domain/analysis"
)

const maxTopics = 3

var positiveWords = []string{"great", "excellent", "good", "amazing", "love", "recommend", "happy", "satisfied"}

var negativeWords = []string{"bad", "poor", "worst", "terrible", "disappointed", "useless", "waste"}

// topik diurut sesuai whitelist, bukan posisi di teks
var knownTopics = []string{"quality", "delivery", "price", "fit", "color", "size", "packaging", "material"}

// Keyword is the deterministic classifier used when no model backend is
// configured or a model call fails. Same text always yields the same output.
type Keyword struct{}

func New() Keyword { return Keyword{} }

// Classify implementasi Classifier port; tidak pernah error
func (Keyword) Classify(_ context.Context, text string) (domain.Sentiment, []string, error) {
	lower := strings.ToLower(text)

	pos := 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	neg := 0
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			neg++
		}
	}

	sentiment := domain.SentimentNeutral
	if pos > neg {
		sentiment = domain.SentimentPositive
	} else if neg > pos {
		sentiment = domain.SentimentNegative
	}

	topics := make([]string, 0, maxTopics)
	for _, topic := range knownTopics {
		if strings.Contains(lower, topic) {
			topics = append(topics, topic)
			if len(topics) == maxTopics {
				break
			}
		}
	}

	return sentiment, topics, nil
}

// Summarize has no backend; callers keep their templated summary.
func (Keyword) Summarize(context.Context, *domain.Product, []domain.Review) (string, error) {
	return "", ai.ErrNoBackend
}
