package store

import (
	"context"
	"time"

	domain "github.com/bryanwahyu/shoplens/internal/domain/analysis"
)

// Noop is the null store for the no-backend-configured branch. Every call
// reports ErrStoreNotConfigured so call sites stay free of nil checks.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error) {
	return nil, domain.ErrStoreNotConfigured
}

func (Noop) Set(context.Context, string, []byte, time.Duration) error {
	return domain.ErrStoreNotConfigured
}

func (Noop) Ping(context.Context) error {
	return domain.ErrStoreNotConfigured
}
