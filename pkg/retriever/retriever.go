// Package retriever finds knowledge records semantically close to a query.
package retriever

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Madhu3782/Crop-Recommendation/pkg/embed"
	"github.com/Madhu3782/Crop-Recommendation/pkg/kbindex"
	"github.com/Madhu3782/Crop-Recommendation/pkg/knowledge"
)

// DefaultTopK is the number of snippets returned when k is not positive.
const DefaultTopK = 3

// Hit is one retrieved record.
type Hit struct {
	Pos      int
	Distance float32
	Record   knowledge.Record
}

// Snippet renders the hit as "[topic] Q: question | A: answer".
func (h Hit) Snippet() string {
	return knowledge.FormatSnippet(h.Record)
}

// Retriever embeds queries and searches a loaded index. It applies no
// distance threshold; consumers decide what is relevant.
type Retriever struct {
	embedder embed.Embedder
	index    *kbindex.Index
}

// New returns a retriever over ix. The embedder must produce vectors of
// the index dimensionality.
func New(e embed.Embedder, ix *kbindex.Index) (*Retriever, error) {
	if e == nil || ix == nil {
		return nil, fmt.Errorf("retriever: %w", kbindex.ErrUnavailable)
	}
	if e.Dimension() != ix.Dim() {
		return nil, fmt.Errorf("%w: index has %d, embedder produces %d", kbindex.ErrDimensionMismatch, ix.Dim(), e.Dimension())
	}
	return &Retriever{embedder: e, index: ix}, nil
}

// Index returns the index being searched.
func (r *Retriever) Index() *kbindex.Index { return r.index }

// Search returns at most k hits ordered by ascending distance. Positions
// outside the record table are skipped.
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]Hit, error) {
	if k <= 0 {
		k = DefaultTopK
	}
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retriever: embed query: %w", err)
	}
	matches, err := r.index.Vectors.Search(vec, k)
	if err != nil {
		return nil, fmt.Errorf("retriever: search: %w", err)
	}
	hits := make([]Hit, 0, len(matches))
	for _, m := range matches {
		rec, err := r.index.Table.At(m.Pos)
		if err != nil {
			slog.Warn("retriever: dropping hit", "pos", m.Pos, "err", err)
			continue
		}
		hits = append(hits, Hit{Pos: m.Pos, Distance: m.Distance, Record: rec})
	}
	return hits, nil
}

// Retrieve returns the formatted snippets of Search, nearest first.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]string, error) {
	hits, err := r.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Snippet()
	}
	return out, nil
}
