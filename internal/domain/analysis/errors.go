package analysis

import "errors"

// ErrInvalidURL indicates the submitted URL is not a supported product page.
var ErrInvalidURL = errors.New("invalid product url")

// ErrMiss indicates the key is absent from the store or its TTL expired.
var ErrMiss = errors.New("store: key not found")

// ErrStoreNotConfigured indicates no cache backend is configured (null store).
var ErrStoreNotConfigured = errors.New("store: not configured")

// ErrJobNotFound / ErrResultNotFound map to 404 at the gateway.
var (
	ErrJobNotFound    = errors.New("job not found")
	ErrResultNotFound = errors.New("result not found")
)
