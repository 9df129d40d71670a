// Package vecstore provides exact nearest-neighbor search over dense
// float32 vectors.
//
// Vectors are addressed by insertion position, which lets callers keep
// side tables (such as a knowledge table) aligned with the index without
// an ID mapping. Distances are squared Euclidean: lower means closer.
package vecstore

import "errors"

// ErrDimension is returned when a vector's length differs from the index
// dimensionality.
var ErrDimension = errors.New("vecstore: dimension mismatch")

// Searcher is the read side of an index. Implementations must be safe for
// concurrent use.
type Searcher interface {
	// Search returns up to topK nearest positions ordered by ascending
	// distance. Ties keep insertion order.
	Search(query []float32, topK int) ([]Match, error)

	// Len returns the number of vectors in the index.
	Len() int

	// Dim returns the vector dimensionality.
	Dim() int
}

// Match is a single search result.
type Match struct {
	// Pos is the insertion position of the matched vector.
	Pos int

	// Distance is the squared L2 distance to the query.
	Distance float32
}
