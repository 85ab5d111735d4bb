package prompt

import (
	"encoding/json"

	domain "github.com/bryanwahyu/shoplens/internal/domain/analysis"
)

// GetClassifySystemPrompt instruksi untuk klasifikasi satu review
func GetClassifySystemPrompt() string {
	return "Analyze this product review and return JSON with sentiment (positive/neutral/negative) and topics array (max 3 keywords like 'quality', 'delivery', 'fit', etc.)"
}

// GetSummarySystemPrompt instruksi untuk narrative summary
func GetSummarySystemPrompt() string {
	return "Summarize the product reviews and data in one concise sentence focusing on trends, sentiment, and buying behavior."
}

const summaryReviewLimit = 10

// GetSummaryUserPrompt packs the product plus the first reviews as JSON.
func GetSummaryUserPrompt(product *domain.Product, reviews []domain.Review) string {
	sample := reviews
	if len(sample) > summaryReviewLimit {
		sample = sample[:summaryReviewLimit]
	}
	payload, err := json.Marshal(map[string]any{
		"product":     product,
		"reviewCount": len(reviews),
		"reviews":     sample,
	})
	if err != nil {
		return ""
	}
	return string(payload)
}
