package embed_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Madhu3782/Crop-Recommendation/pkg/embed"
)

// newEmbeddingServer answers OpenAI embedding requests with vectors whose
// first component is the input position plus one.
func newEmbeddingServer(t *testing.T, dim int, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		type item struct {
			Object    string    `json:"object"`
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		}
		data := make([]item, len(req.Input))
		for i := range req.Input {
			vec := make([]float64, dim)
			vec[0] = float64(i + 1)
			data[i] = item{Object: "embedding", Index: i, Embedding: vec}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  "test",
			"data":   data,
			"usage":  map[string]int{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIEmbed(t *testing.T) {
	srv := newEmbeddingServer(t, 4, nil)
	e := embed.NewOpenAI("test-key", embed.WithBaseURL(srv.URL), embed.WithDimension(4))

	vec, err := e.Embed(context.Background(), "how to grow rice")
	if err != nil {
		t.Fatal(err)
	}
	if len(vec) != 4 || vec[0] != 1 {
		t.Fatalf("vec = %v", vec)
	}
	if e.Dimension() != 4 {
		t.Errorf("Dimension = %d, want 4", e.Dimension())
	}
}

func TestOpenAIEmbedBatchOrder(t *testing.T) {
	srv := newEmbeddingServer(t, 3, nil)
	e := embed.NewOpenAI("k", embed.WithBaseURL(srv.URL), embed.WithDimension(3))

	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range vecs {
		if v[0] != float32(i+1) {
			t.Errorf("vecs[%d][0] = %v, want %d", i, v[0], i+1)
		}
	}
}

func TestOpenAIDimensionMismatch(t *testing.T) {
	srv := newEmbeddingServer(t, 8, nil)
	e := embed.NewOpenAI("k", embed.WithBaseURL(srv.URL), embed.WithDimension(4))
	if _, err := e.Embed(context.Background(), "x"); err == nil {
		t.Fatal("expected dimension error")
	}
}

func TestOpenAIEmptyInput(t *testing.T) {
	e := embed.NewOpenAI("k")
	if _, err := e.Embed(context.Background(), ""); !errors.Is(err, embed.ErrEmptyInput) {
		t.Errorf("Embed err = %v, want ErrEmptyInput", err)
	}
	if _, err := e.EmbedBatch(context.Background(), nil); !errors.Is(err, embed.ErrEmptyInput) {
		t.Errorf("EmbedBatch err = %v, want ErrEmptyInput", err)
	}
}

func TestOpenAINoRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := embed.NewOpenAI("k", embed.WithBaseURL(srv.URL))
	if _, err := e.Embed(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}
