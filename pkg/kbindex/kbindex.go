// Package kbindex builds, persists and loads the semantic index over the
// knowledge table.
//
// An index is two artifacts in a [storage.Store]: the vector file
// ([IndexArtifact]) and the metadata sidecar holding the parallel record
// arrays ([MetaArtifact]). Position i in the vector file corresponds to
// position i in the sidecar.
package kbindex

import (
	"errors"

	"github.com/Madhu3782/Crop-Recommendation/pkg/knowledge"
	"github.com/Madhu3782/Crop-Recommendation/pkg/vecstore"
)

// Artifact names.
const (
	IndexArtifact = "kb.index"
	MetaArtifact  = "kb.meta"
)

var (
	// ErrUnavailable means an artifact is absent. Callers degrade to the
	// keyword path instead of failing.
	ErrUnavailable = errors.New("kbindex: index unavailable")

	// ErrDimensionMismatch means the persisted vectors do not match the
	// embedder. This is a configuration error and must stop startup.
	ErrDimensionMismatch = errors.New("kbindex: dimension mismatch")

	// ErrCorrupt means the vector file and sidecar disagree on length.
	ErrCorrupt = errors.New("kbindex: vector count does not match metadata")
)

// Index pairs the vectors with the records they were built from.
// It is read-only once loaded.
type Index struct {
	Table   *knowledge.Table
	Vectors *vecstore.Flat
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return ix.Table.Len()
}

// Dim returns the vector dimensionality.
func (ix *Index) Dim() int {
	if ix == nil || ix.Vectors == nil {
		return 0
	}
	return ix.Vectors.Dim()
}
