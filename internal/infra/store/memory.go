package store

import (
	"context"
	"sync"
	"time"

	domain "github.com/bryanwahyu/shoplens/internal/domain/analysis"
)

const janitorInterval = time.Minute

type entry struct {
	value    []byte
	deadline time.Time
}

// Memory implementasi Store in-process, dipakai kalau Redis tidak
// dikonfigurasi dan di test. Expiry dicek lazy saat read plus
// janitor berkala.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewMemory() *Memory {
	m := &Memory{entries: make(map[string]entry)}
	go m.janitor()
	return m
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || time.Now().After(e.deadline) {
		return nil, domain.ErrMiss
	}
	// copy supaya caller tidak bisa mutate entry tersimpan
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	m.entries[key] = entry{value: stored, deadline: time.Now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		m.mu.Lock()
		for key, e := range m.entries {
			if now.After(e.deadline) {
				delete(m.entries, key)
			}
		}
		m.mu.Unlock()
	}
}
