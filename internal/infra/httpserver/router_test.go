package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/shoplens/internal/application"
	appanalysis "github.com/bryanwahyu/shoplens/internal/application/analysis"
	domain "github.com/bryanwahyu/shoplens/internal/domain/analysis"
	"github.com/bryanwahyu/shoplens/internal/infra/ai/fallback"
	"github.com/bryanwahyu/shoplens/internal/infra/httpserver"
	"github.com/bryanwahyu/shoplens/internal/infra/store"
)

const testURL = "https://www.meesho.com/super-kurta/p/abc123"

type staticFetcher struct{}

func (staticFetcher) Fetch(_ context.Context, url string) (*domain.Product, []domain.Review, error) {
	product := &domain.Product{
		ID: "abc123", URL: url, Title: "Super Kurta",
		Price: 299, OriginalPrice: 599, Discount: 50,
		Rating: 4.2, RatingCount: 1000, Stock: "In Stock",
	}
	reviews := []domain.Review{
		{ID: "review-abc123-0", ProductID: "abc123", Rating: 5, Text: "Great quality, love it", Verified: true, Sentiment: domain.SentimentNeutral, Topics: []string{}},
	}
	return product, reviews, nil
}

func newTestServer(t *testing.T) (*httptest.Server, chan domain.Status) {
	t.Helper()
	done := make(chan domain.Status, 4)
	keyword := fallback.New()
	svc := &appanalysis.Service{
		Store:      store.NewMemory(),
		Fetcher:    staticFetcher{},
		Classifier: keyword,
		Fallback:   keyword,
		Clock:      application.SystemClock{},
		Domain:     "meesho.com",
	}
	svc.OnPipelineDone = func(_ domain.JobID, status domain.Status) { done <- status }

	srv := httptest.NewServer(httpserver.NewRouter(svc))
	t.Cleanup(srv.Close)
	return srv, done
}

func postAnalyze(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/analyze", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func waitDone(t *testing.T, done chan domain.Status) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not finish")
	}
}

func TestAnalyzeRejectsInvalidURL(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing url", `{}`},
		{"wrong domain", `{"url":"https://example.com/p/x"}`},
		{"bad scheme", `{"url":"ftp://meesho.com/p/x"}`},
		{"not json", `nope`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postAnalyze(t, srv, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decode(t, resp)
			assert.Contains(t, body["error"], "Invalid Meesho URL")
		})
	}
}

func TestAnalyzeStartsJob(t *testing.T) {
	srv, done := newTestServer(t)

	resp := postAnalyze(t, srv, `{"url":"`+testURL+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)

	assert.Equal(t, "started", body["status"])
	jobID, ok := body["jobId"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(jobID, "job-"))

	waitDone(t, done)

	// status terminal setelah pipeline selesai
	statusResp, err := http.Get(srv.URL + "/status/" + jobID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, statusResp.StatusCode)
	job := decode(t, statusResp)
	assert.Equal(t, "completed", job["status"])
	assert.Equal(t, float64(100), job["progress"])

	// hasil penuh
	resultResp, err := http.Get(srv.URL + "/results/" + jobID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resultResp.StatusCode)
	result := decode(t, resultResp)
	product := result["product"].(map[string]any)
	assert.Equal(t, "abc123", product["id"])
	assert.Len(t, result["priceHistory"], 1)
}

func TestAnalyzeReturnsCachedResultDirectly(t *testing.T) {
	srv, done := newTestServer(t)

	first := postAnalyze(t, srv, `{"url":"`+testURL+`"}`)
	require.Equal(t, http.StatusOK, first.StatusCode)
	decode(t, first)
	waitDone(t, done)

	second := postAnalyze(t, srv, `{"url":"`+testURL+`"}`)
	require.Equal(t, http.StatusOK, second.StatusCode)
	body := decode(t, second)

	// caller bedakan cache hit lewat field product, bukan jobId
	_, hasJobID := body["jobId"]
	assert.False(t, hasJobID)
	require.Contains(t, body, "product")
	product := body["product"].(map[string]any)
	assert.Equal(t, "abc123", product["id"])
}

func TestStatusUnknownJob(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/status/job-unknown")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "Job not found", body["error"])
}

func TestResultsUnknownJob(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/results/job-unknown?range=life")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "Result not found", body["error"])
}

func TestStatusUnreachableStore(t *testing.T) {
	done := make(chan domain.Status, 1)
	keyword := fallback.New()
	svc := &appanalysis.Service{
		Store:      store.Noop{},
		Fetcher:    staticFetcher{},
		Classifier: keyword,
		Fallback:   keyword,
		Clock:      application.SystemClock{},
		Domain:     "meesho.com",
	}
	svc.OnPipelineDone = func(_ domain.JobID, status domain.Status) { done <- status }
	srv := httptest.NewServer(httpserver.NewRouter(svc))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status/job-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
