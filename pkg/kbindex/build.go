package kbindex

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Madhu3782/Crop-Recommendation/pkg/embed"
	"github.com/Madhu3782/Crop-Recommendation/pkg/knowledge"
	"github.com/Madhu3782/Crop-Recommendation/pkg/storage"
	"github.com/Madhu3782/Crop-Recommendation/pkg/vecstore"
)

// BuildOptions tunes index construction.
type BuildOptions struct {
	// BatchSize is the number of questions per embedding request.
	// Default 64.
	BatchSize int

	// Parallel bounds concurrent embedding requests. Default 4.
	Parallel int

	Logger *slog.Logger
}

func (o *BuildOptions) defaults() BuildOptions {
	out := BuildOptions{BatchSize: 64, Parallel: 4, Logger: slog.Default()}
	if o == nil {
		return out
	}
	if o.BatchSize > 0 {
		out.BatchSize = o.BatchSize
	}
	if o.Parallel > 0 {
		out.Parallel = o.Parallel
	}
	if o.Logger != nil {
		out.Logger = o.Logger
	}
	return out
}

// Build embeds every question in tbl and returns the resulting index.
func Build(ctx context.Context, tbl *knowledge.Table, e embed.Embedder, opts *BuildOptions) (*Index, error) {
	o := opts.defaults()
	questions := tbl.Questions()
	if len(questions) == 0 {
		return nil, fmt.Errorf("kbindex: build: %w", embed.ErrEmptyInput)
	}

	vecs := make([][]float32, len(questions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Parallel)
	for start := 0; start < len(questions); start += o.BatchSize {
		end := min(start+o.BatchSize, len(questions))
		g.Go(func() error {
			out, err := e.EmbedBatch(gctx, questions[start:end])
			if err != nil {
				return fmt.Errorf("kbindex: embed [%d:%d]: %w", start, end, err)
			}
			if len(out) != end-start {
				return fmt.Errorf("kbindex: embed [%d:%d]: got %d vectors", start, end, len(out))
			}
			copy(vecs[start:end], out)
			o.Logger.Debug("embedded batch", "start", start, "end", end)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	flat := vecstore.NewFlat(e.Dimension())
	if err := flat.Add(vecs...); err != nil {
		return nil, fmt.Errorf("kbindex: %w", err)
	}
	return &Index{Table: tbl, Vectors: flat}, nil
}

// Save writes the vector file and then the sidecar. Each artifact is
// committed when its writer closes.
func Save(ctx context.Context, st storage.Store, ix *Index) error {
	if err := writeArtifact(ctx, st, IndexArtifact, ix.Vectors.Save); err != nil {
		return err
	}
	return writeArtifact(ctx, st, MetaArtifact, func(w io.Writer) error {
		return knowledge.EncodeSidecar(w, ix.Table)
	})
}

func writeArtifact(ctx context.Context, st storage.Store, name string, encode func(io.Writer) error) error {
	w, err := st.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("kbindex: create %s: %w", name, err)
	}
	if err := encode(w); err != nil {
		w.Close()
		return fmt.Errorf("kbindex: write %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("kbindex: commit %s: %w", name, err)
	}
	return nil
}
