package analysis

import (
	"context"
	"time"
)

// Store port (interface untuk key-value cache dengan TTL).
// Semua write bawa TTL eksplisit; read setelah expiry = ErrMiss.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Fetcher port (interface untuk scraping halaman produk)
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Product, []Review, error)
}

// Store key namespaces and TTLs. Logical layout:
// job:<id> and result:<id> live for an hour, analysis:<url> for 15 minutes.
const (
	JobTTL      = time.Hour
	ResultTTL   = time.Hour
	AnalysisTTL = 15 * time.Minute
)

func JobKey(id JobID) string    { return "job:" + string(id) }
func ResultKey(id JobID) string { return "result:" + string(id) }
func AnalysisKey(url string) string { return "analysis:" + url }
