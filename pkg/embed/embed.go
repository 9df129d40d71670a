// Package embed turns text into dense vectors for the knowledge index.
//
// The same [Embedder] must be used to build the index and to encode
// queries at serve time; [Embedder.Dimension] is checked against the
// persisted index when it is loaded.
package embed

import (
	"context"
	"errors"
)

// Embedder converts text into float32 vectors.
type Embedder interface {
	// Embed returns the vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns vectors for texts, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the output vector length.
	Dimension() int
}

// ErrEmptyInput is returned when there is nothing to embed.
var ErrEmptyInput = errors.New("embed: empty input")
