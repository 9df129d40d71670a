package retriever

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Madhu3782/Crop-Recommendation/pkg/kbindex"
	"github.com/Madhu3782/Crop-Recommendation/pkg/knowledge"
	"github.com/Madhu3782/Crop-Recommendation/pkg/vecstore"
)

// wordEmbedder puts a 1 in the slot of every vocabulary word present.
type wordEmbedder struct {
	vocab []string
	err   error
}

func (w wordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if w.err != nil {
		return nil, w.err
	}
	v := make([]float32, len(w.vocab))
	lower := strings.ToLower(text)
	for i, word := range w.vocab {
		if strings.Contains(lower, word) {
			v[i] = 1
		}
	}
	return v, nil
}

func (w wordEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i], _ = w.Embed(ctx, t)
	}
	return out, w.err
}

func (w wordEmbedder) Dimension() int { return len(w.vocab) }

var vocab = []string{"potato", "blight", "wheat", "price", "soil", "clay"}

func testIndex(t *testing.T) *kbindex.Index {
	t.Helper()
	tbl := knowledge.NewTable([]knowledge.Record{
		{Topic: "Potato", Question: "potato blight treatment", Answer: "Spray mancozeb."},
		{Topic: "Wheat", Question: "wheat price", Answer: "Check mandi rates."},
		{Topic: "Soil", Question: "clay soil", Answer: "Add compost."},
		{Topic: "Potato", Question: "potato price", Answer: "Stable this week."},
	})
	ix, err := kbindex.Build(context.Background(), tbl, wordEmbedder{vocab: vocab}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return ix
}

func TestRetrieveOrderedAndBounded(t *testing.T) {
	r, err := New(wordEmbedder{vocab: vocab}, testIndex(t))
	if err != nil {
		t.Fatal(err)
	}
	hits, err := r.Search(context.Background(), "How to treat potato blight?", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("len = %d, want 2", len(hits))
	}
	if hits[0].Pos != 0 {
		t.Errorf("nearest = %d, want 0", hits[0].Pos)
	}
	if hits[1].Distance < hits[0].Distance {
		t.Errorf("distances not ascending: %v", hits)
	}

	snips, err := r.Retrieve(context.Background(), "How to treat potato blight?", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(snips) != DefaultTopK {
		t.Fatalf("default k returned %d snippets, want %d", len(snips), DefaultTopK)
	}
	want := "[Potato] Q: potato blight treatment | A: Spray mancozeb."
	if snips[0] != want {
		t.Errorf("snippet = %q, want %q", snips[0], want)
	}
}

func TestRetrieveKLargerThanIndex(t *testing.T) {
	r, _ := New(wordEmbedder{vocab: vocab}, testIndex(t))
	snips, err := r.Retrieve(context.Background(), "soil", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(snips) != 4 {
		t.Errorf("len = %d, want 4", len(snips))
	}
}

func TestRetrieveSkipsOutOfRangePositions(t *testing.T) {
	flat := vecstore.NewFlat(len(vocab))
	_ = flat.Add(make([]float32, len(vocab)), make([]float32, len(vocab)))
	ix := &kbindex.Index{
		Table:   knowledge.NewTable([]knowledge.Record{{Topic: "t", Question: "q", Answer: "a"}}),
		Vectors: flat,
	}
	r, _ := New(wordEmbedder{vocab: vocab}, ix)
	snips, err := r.Retrieve(context.Background(), "q", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(snips) != 1 {
		t.Errorf("len = %d, want 1", len(snips))
	}
}

func TestNewRejectsMismatchedEmbedder(t *testing.T) {
	_, err := New(wordEmbedder{vocab: vocab[:2]}, testIndex(t))
	if !errors.Is(err, kbindex.ErrDimensionMismatch) {
		t.Fatalf("err = %v, want ErrDimensionMismatch", err)
	}
	if _, err := New(wordEmbedder{vocab: vocab}, nil); !errors.Is(err, kbindex.ErrUnavailable) {
		t.Fatalf("nil index err = %v, want ErrUnavailable", err)
	}
}

func TestSearchEmbedError(t *testing.T) {
	r, _ := New(wordEmbedder{vocab: vocab}, testIndex(t))
	r.embedder = wordEmbedder{vocab: vocab, err: errors.New("down")}
	if _, err := r.Search(context.Background(), "x", 1); err == nil {
		t.Fatal("expected error")
	}
}
