// Package kv is a small key-value abstraction used for caching. Keys are
// hierarchical paths joined with ':'.
//
// Backends: [Memory] for tests and single-process use, [Badger] for an
// embedded on-disk cache, and [Redis] for a cache shared between processes.
package kv

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("kv: not found")

// Key is a hierarchical key such as {"translate", "hindi", "9f2c"}.
type Key []string

// String joins the segments with ':'.
func (k Key) String() string {
	return strings.Join(k, ":")
}

// Store is a key-value store with optional per-entry expiry.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set stores value under key. A positive ttl expires the entry.
	Set(ctx context.Context, key Key, value []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key Key) error

	Close() error
}
