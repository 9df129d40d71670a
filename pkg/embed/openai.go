package embed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// ModelTextEmbedding3Small supports custom dimensions.
	ModelTextEmbedding3Small = "text-embedding-3-small"

	// DefaultDimension is the vector length requested by default.
	DefaultDimension = 384

	maxBatch       = 2048
	defaultTimeout = 30 * time.Second
)

// OpenAI embeds text through the OpenAI embeddings API or any compatible
// server (Ollama, vLLM, SiliconFlow, ...).
type OpenAI struct {
	client  *openai.Client
	model   string
	dim     int
	timeout time.Duration
}

var _ Embedder = (*OpenAI)(nil)

// NewOpenAI creates an embedder. Requests are not retried.
func NewOpenAI(apiKey string, opts ...Option) *OpenAI {
	cfg := config{
		model:      ModelTextEmbedding3Small,
		dim:        DefaultDimension,
		timeout:    defaultTimeout,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(&cfg)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(cfg.httpClient),
		option.WithMaxRetries(0),
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}
	client := openai.NewClient(clientOpts...)
	return &OpenAI{client: &client, model: cfg.model, dim: cfg.dim, timeout: cfg.timeout}
}

func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}
	vecs, err := o.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch splits texts into requests of at most 2048 inputs.
func (o *OpenAI) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatch {
		end := min(start+maxBatch, len(texts))
		vecs, err := o.request(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed: batch [%d:%d]: %w", start, end, err)
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (o *OpenAI) Dimension() int { return o.dim }

// Model returns the model identifier.
func (o *OpenAI) Model() string { return o.model }

func (o *OpenAI) request(ctx context.Context, texts []string) ([][]float32, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model:          o.model,
		Input:          openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Dimensions:     openai.Int(int64(o.dim)),
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	})
	if err != nil {
		return nil, err
	}

	vecs := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= int64(len(texts)) {
			return nil, fmt.Errorf("embedding index %d outside batch of %d", item.Index, len(texts))
		}
		v := make([]float32, len(item.Embedding))
		for i, f := range item.Embedding {
			v[i] = float32(f)
		}
		if len(v) != o.dim {
			return nil, fmt.Errorf("embedding %d has %d dims, want %d", item.Index, len(v), o.dim)
		}
		vecs[item.Index] = v
	}
	for i, v := range vecs {
		if v == nil {
			return nil, fmt.Errorf("missing embedding %d", i)
		}
	}
	return vecs, nil
}
