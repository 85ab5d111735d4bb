package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/shoplens/internal/domain/analysis"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

const productPage = `<!doctype html>
<html>
<head>
<script type="application/ld+json">{"name":"Super Cotton Kurta","category":"Clothing","image":"https://img.example/kurta.jpg"}</script>
</head>
<body>
<h1>Ignored Heading</h1>
<span data-testid="product-price">₹299</span>
<span data-testid="product-mrp">₹599</span>
<span data-testid="product-rating">4.2</span>
<span data-testid="rating-count">1,234 ratings</span>
<span data-testid="seller-name"> SuperSeller </span>
<div data-testid="review-item">
  <p data-testid="review-text">Great quality, love it</p>
  <span data-testid="review-rating">5</span>
  <span data-testid="verified-badge"></span>
</div>
<div data-testid="review-item">
  <p data-testid="review-text"></p>
</div>
<div data-testid="review-item">
  <p data-testid="review-text">Terrible delivery</p>
  <span data-testid="review-rating">2</span>
</div>
</body>
</html>`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchParsesProduct(t *testing.T) {
	srv := serve(t, http.StatusOK, productPage)
	clock := fixedClock{t: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)}
	m := NewMeesho(srv.Client(), "", clock)

	product, reviews, err := m.Fetch(context.Background(), srv.URL+"/super-kurta/p/abc123?ref=home")
	require.NoError(t, err)

	assert.Equal(t, "abc123", product.ID)
	assert.Equal(t, "Super Cotton Kurta", product.Title)
	assert.Equal(t, "Clothing", product.Category)
	assert.Equal(t, "https://img.example/kurta.jpg", product.Image)
	assert.Equal(t, "SuperSeller", product.Seller)
	assert.Equal(t, 299.0, product.Price)
	assert.Equal(t, 599.0, product.OriginalPrice)
	assert.Equal(t, 50, product.Discount)
	assert.Equal(t, 4.2, product.Rating)
	assert.Equal(t, 1234, product.RatingCount)
	assert.Equal(t, "In Stock", product.Stock)
	assert.Equal(t, clock.t, product.CreatedAt)

	// review kosong di-skip, sisanya urut dokumen
	require.Len(t, reviews, 2)
	assert.Equal(t, "review-abc123-0", reviews[0].ID)
	assert.Equal(t, "Great quality, love it", reviews[0].Text)
	assert.Equal(t, 5.0, reviews[0].Rating)
	assert.True(t, reviews[0].Verified)
	assert.Equal(t, domain.SentimentNeutral, reviews[0].Sentiment)

	// item kosong di tengah di-skip, ordinal tetap nyambung
	assert.Equal(t, "review-abc123-1", reviews[1].ID)
	assert.Equal(t, "Terrible delivery", reviews[1].Text)
	assert.False(t, reviews[1].Verified)
}

func TestFetchSynthesizesPlaceholderReviews(t *testing.T) {
	srv := serve(t, http.StatusOK, `<html><body><h1>Bare Product</h1></body></html>`)
	clock := fixedClock{t: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)}
	m := NewMeesho(srv.Client(), "", clock)

	product, reviews, err := m.Fetch(context.Background(), srv.URL+"/p/xyz789")
	require.NoError(t, err)

	assert.Equal(t, "Bare Product", product.Title)
	assert.Equal(t, "General", product.Category)
	assert.Equal(t, "Unknown Seller", product.Seller)

	require.Len(t, reviews, 5)
	for i, rv := range reviews {
		assert.Equal(t, "xyz789", rv.ProductID)
		assert.NotEmpty(t, rv.Text)
		assert.Equal(t, clock.t.AddDate(0, 0, -i), rv.Date)
	}
	verified := 0
	for _, rv := range reviews {
		if rv.Verified {
			verified++
		}
	}
	assert.Equal(t, 3, verified)
}

func TestFetchFailsOnBadStatus(t *testing.T) {
	srv := serve(t, http.StatusBadGateway, "upstream error")
	m := NewMeesho(srv.Client(), "", fixedClock{t: time.Now()})

	_, _, err := m.Fetch(context.Background(), srv.URL+"/p/abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestProductIDFromURL(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.meesho.com/super-kurta/p/abc123", "abc123"},
		{"https://www.meesho.com/super-kurta/p/abc123?ref=home", "abc123"},
		{"https://www.meesho.com/super-kurta/p/abc123/", "abc123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, productIDFromURL(tt.url, now))
	}
}
