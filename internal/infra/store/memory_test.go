package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/shoplens/internal/domain/analysis"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "job:1", []byte(`{"id":"job-1"}`), time.Minute))

	got, err := m.Get(ctx, "job:1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":"job-1"}`), got)
}

func TestMemoryMiss(t *testing.T) {
	m := NewMemory()

	_, err := m.Get(context.Background(), "job:missing")
	assert.ErrorIs(t, err, domain.ErrMiss)
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "analysis:url", []byte("x"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := m.Get(ctx, "analysis:url")
	assert.ErrorIs(t, err, domain.ErrMiss)
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", value, time.Minute))
	value[0] = 'x'

	first, err := m.Get(ctx, "k")
	require.NoError(t, err)
	first[0] = 'z'

	second, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), second, "stored entry must not be mutable through Set input or Get output")
}

func TestNoop(t *testing.T) {
	n := Noop{}
	ctx := context.Background()

	_, err := n.Get(ctx, "job:1")
	assert.ErrorIs(t, err, domain.ErrStoreNotConfigured)
	assert.ErrorIs(t, n.Set(ctx, "job:1", nil, time.Minute), domain.ErrStoreNotConfigured)
	assert.ErrorIs(t, n.Ping(ctx), domain.ErrStoreNotConfigured)
}
