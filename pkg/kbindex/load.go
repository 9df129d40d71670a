package kbindex

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/Madhu3782/Crop-Recommendation/pkg/knowledge"
	"github.com/Madhu3782/Crop-Recommendation/pkg/storage"
	"github.com/Madhu3782/Crop-Recommendation/pkg/vecstore"
)

// Load reads both artifacts from st. A missing artifact yields an error
// wrapping ErrUnavailable. If dim is positive, the persisted vectors must
// have that dimensionality or ErrDimensionMismatch is returned.
func Load(ctx context.Context, st storage.Store, dim int) (*Index, error) {
	flat, err := loadVectors(ctx, st)
	if err != nil {
		return nil, err
	}
	if dim > 0 && flat.Dim() != dim {
		return nil, fmt.Errorf("%w: index has %d, embedder produces %d", ErrDimensionMismatch, flat.Dim(), dim)
	}
	tbl, err := LoadTable(ctx, st)
	if err != nil {
		return nil, err
	}
	if tbl.Len() != flat.Len() {
		return nil, fmt.Errorf("%w: %d vectors, %d records", ErrCorrupt, flat.Len(), tbl.Len())
	}
	return &Index{Table: tbl, Vectors: flat}, nil
}

// LoadTable reads only the metadata sidecar. The keyword path uses it
// when the vectors cannot be served.
func LoadTable(ctx context.Context, st storage.Store) (*knowledge.Table, error) {
	r, err := st.Open(ctx, MetaArtifact)
	if err != nil {
		return nil, openErr(MetaArtifact, st, err)
	}
	defer r.Close()
	tbl, err := knowledge.DecodeSidecar(r)
	if err != nil {
		return nil, fmt.Errorf("kbindex: %s: %w", MetaArtifact, err)
	}
	return tbl, nil
}

func loadVectors(ctx context.Context, st storage.Store) (*vecstore.Flat, error) {
	r, err := st.Open(ctx, IndexArtifact)
	if err != nil {
		return nil, openErr(IndexArtifact, st, err)
	}
	defer r.Close()
	flat, err := vecstore.LoadFlat(r)
	if err != nil {
		return nil, fmt.Errorf("kbindex: %s: %w", IndexArtifact, err)
	}
	return flat, nil
}

func openErr(name string, st storage.Store, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s not found in %s", ErrUnavailable, name, st)
	}
	return fmt.Errorf("kbindex: open %s: %w", name, err)
}
