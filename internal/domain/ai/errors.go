package ai

import "errors"

// ErrNoBackend indicates no model backend is available; callers should use
// their deterministic fallback instead.
var ErrNoBackend = errors.New("ai backend not available")
