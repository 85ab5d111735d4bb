package insights

import (
	"fmt"
	"math"
	"sort"
	"strings"

	domain "github.com/bryanwahyu/shoplens/internal/domain/analysis"
)

// Buyer style / sales behavior labels
const (
	BuyerRepeat = "Repeat Customers"
	BuyerGift   = "Gift Buyers"
	BuyerMixed  = "Mixed Buyers"

	EngagementHigh     = "High Engagement"
	EngagementModerate = "Moderate Engagement"
)

const maxTopTopics = 5

// Aggregate turns classified reviews + product into Insights. Pure and
// deterministic; OverallSummary is set to the templated fallback and may be
// overwritten by a model-generated narrative afterwards.
func Aggregate(product *domain.Product, reviews []domain.Review) domain.Insights {
	var summary domain.SentimentSummary
	for _, r := range reviews {
		switch r.Sentiment {
		case domain.SentimentPositive:
			summary.Positive++
		case domain.SentimentNegative:
			summary.Negative++
		default:
			summary.Neutral++
		}
	}

	// Tally topik; posisi kemunculan pertama dipakai sebagai tiebreak
	counts := map[string]int{}
	firstSeen := map[string]int{}
	order := 0
	for _, r := range reviews {
		for _, topic := range r.Topics {
			if _, ok := counts[topic]; !ok {
				firstSeen[topic] = order
				order++
			}
			counts[topic]++
		}
	}
	topTopics := make([]domain.TopicCount, 0, len(counts))
	for topic, count := range counts {
		topTopics = append(topTopics, domain.TopicCount{Topic: topic, Count: count})
	}
	sort.SliceStable(topTopics, func(i, j int) bool {
		if topTopics[i].Count != topTopics[j].Count {
			return topTopics[i].Count > topTopics[j].Count
		}
		return firstSeen[topTopics[i].Topic] < firstSeen[topTopics[j].Topic]
	})
	if len(topTopics) > maxTopTopics {
		topTopics = topTopics[:maxTopTopics]
	}

	// avg rating didefinisikan 0 kalau tidak ada review
	verified := 0
	avgRating := 0.0
	if len(reviews) > 0 {
		sum := 0.0
		for _, r := range reviews {
			sum += r.Rating
			if r.Verified {
				verified++
			}
		}
		avgRating = sum / float64(len(reviews))
	}

	buyerStyle := BuyerMixed
	if len(reviews) > 0 && float64(verified)/float64(len(reviews)) > 0.7 {
		buyerStyle = BuyerRepeat
	} else if avgRating > 4.5 {
		buyerStyle = BuyerGift
	}

	salesBehavior := EngagementModerate
	if avgRating > 4 {
		salesBehavior = EngagementHigh
	}

	// heuristik revenue, dipertahankan apa adanya
	revenue := int(math.Round(float64(product.RatingCount) * product.Price * 0.1))
	if revenue < 0 {
		revenue = 0
	}

	return domain.Insights{
		SentimentSummary:        summary,
		TopTopics:               topTopics,
		BuyerStyle:              buyerStyle,
		SalesBehavior:           salesBehavior,
		OverallSummary:          FallbackSummary(summary, buyerStyle),
		EstimatedMonthlyRevenue: revenue,
	}
}

// FallbackSummary is the deterministic narrative used when no model backend
// is available or the summary call fails.
func FallbackSummary(s domain.SentimentSummary, buyerStyle string) string {
	trend := "neutrally"
	if s.Positive > s.Negative {
		trend = "positively"
	}
	return fmt.Sprintf("Overall this product is trending %s with consistent pricing and %s.",
		trend, strings.ToLower(buyerStyle))
}
