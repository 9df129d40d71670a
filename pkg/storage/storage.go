// Package storage persists the knowledge index artifacts.
//
// A [Store] is a flat namespace of named blobs. The local implementation
// maps names to files under a directory; the S3 implementation maps them to
// object keys under a bucket prefix. Artifact writes become visible only
// when the writer is closed without error.
package storage

import (
	"context"
	"io"
)

// Store reads and writes named artifacts.
//
// Names are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use.
type Store interface {
	// Open opens the named artifact. A missing artifact yields an error
	// wrapping os.ErrNotExist.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Create returns a writer for the named artifact. The artifact is
	// replaced when the writer is closed.
	Create(ctx context.Context, name string) (io.WriteCloser, error)

	// Exists reports whether the named artifact exists.
	Exists(ctx context.Context, name string) (bool, error)

	// Remove deletes the named artifact. Removing a missing artifact is
	// not an error.
	Remove(ctx context.Context, name string) error

	// String describes the store location for logs.
	String() string
}
