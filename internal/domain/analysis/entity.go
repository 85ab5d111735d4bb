package analysis

import (
	"math"
	"time"
)

// Sentiment enum
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Product adalah snapshot satu halaman produk pada saat analisa
type Product struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	Image         string    `json:"image"`
	Seller        string    `json:"seller"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"originalPrice"`
	Discount      int       `json:"discount"`
	Rating        float64   `json:"rating"`
	RatingCount   int       `json:"ratingCount"`
	Stock         string    `json:"stock"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DiscountPercent menghitung diskon dari original price vs price
func DiscountPercent(originalPrice, price float64) int {
	if originalPrice <= 0 {
		return 0
	}
	return int(math.Round((originalPrice - price) / originalPrice * 100))
}

// Review milik satu run; sentiment dan topics diisi oleh classifier
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	Rating    float64   `json:"rating"`
	Text      string    `json:"text"`
	Date      time.Time `json:"date"`
	Verified  bool      `json:"verified"`
	Sentiment Sentiment `json:"sentiment"`
	Topics    []string  `json:"topics"`
}

// PricePoint satu titik harga; saat ini tepat satu per run,
// di-seed dari harga saat analisa
type PricePoint struct {
	ProductID string    `json:"productId"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// SentimentSummary histogram 3 bucket, jumlahnya = total review
type SentimentSummary struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// Insights ringkasan hasil agregasi review + product
type Insights struct {
	SentimentSummary        SentimentSummary `json:"sentimentSummary"`
	TopTopics               []TopicCount     `json:"topTopics"`
	BuyerStyle              string           `json:"buyerStyle"`
	SalesBehavior           string           `json:"salesBehavior"`
	OverallSummary          string           `json:"overallSummary"`
	EstimatedMonthlyRevenue int              `json:"estimatedMonthlyRevenue"`
}

// Aggregate Root: AnalysisResult
// Immutable setelah ditulis ke store; jangan mutate, selalu copy.
type Result struct {
	Product      Product      `json:"product"`
	Reviews      []Review     `json:"reviews"`
	PriceHistory []PricePoint `json:"priceHistory"`
	Insights     Insights     `json:"insights"`
}

// TimeRange enum untuk filter price history
type TimeRange string

const (
	Range1M   TimeRange = "1m"
	Range6M   TimeRange = "6m"
	RangeLife TimeRange = "life"
)

// ParseTimeRange default ke 1m kalau kosong atau tidak dikenal
func ParseTimeRange(s string) TimeRange {
	switch TimeRange(s) {
	case Range6M:
		return Range6M
	case RangeLife:
		return RangeLife
	default:
		return Range1M
	}
}

// Window returns the lookback duration; unbounded=true for "life".
func (tr TimeRange) Window() (d time.Duration, unbounded bool) {
	switch tr {
	case Range1M:
		return 30 * 24 * time.Hour, false
	case Range6M:
		return 180 * 24 * time.Hour, false
	default:
		return 0, true
	}
}

// FilterPriceHistory returns a shallow copy of r with PriceHistory limited to
// points newer than now minus the range window. The receiver is not modified
// so a cached Result stays intact.
func (r Result) FilterPriceHistory(tr TimeRange, now time.Time) Result {
	window, unbounded := tr.Window()
	if unbounded {
		return r
	}
	filtered := make([]PricePoint, 0, len(r.PriceHistory))
	for _, p := range r.PriceHistory {
		if now.Sub(p.Timestamp) < window {
			filtered = append(filtered, p)
		}
	}
	r.PriceHistory = filtered
	return r
}
