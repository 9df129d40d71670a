// Package brain runs the question-answering pipeline: translate the query
// to English, detect intent and entities, retrieve context, add insights,
// generate the answer and translate it back.
//
// A [Brain] is built once by the host with [New] and shared by all
// requests. Its components are read-only after construction; the only
// mutable state is the index pointer swapped by [Brain.SwapIndex] and the
// insight registry, both replaced atomically.
package brain

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Madhu3782/Crop-Recommendation/pkg/embed"
	"github.com/Madhu3782/Crop-Recommendation/pkg/entity"
	"github.com/Madhu3782/Crop-Recommendation/pkg/generator"
	"github.com/Madhu3782/Crop-Recommendation/pkg/insight"
	"github.com/Madhu3782/Crop-Recommendation/pkg/intent"
	"github.com/Madhu3782/Crop-Recommendation/pkg/kbindex"
	"github.com/Madhu3782/Crop-Recommendation/pkg/keyword"
	"github.com/Madhu3782/Crop-Recommendation/pkg/knowledge"
	"github.com/Madhu3782/Crop-Recommendation/pkg/retriever"
	"github.com/Madhu3782/Crop-Recommendation/pkg/stage"
	"github.com/Madhu3782/Crop-Recommendation/pkg/translate"
)

// DefaultLanguage is the response language when none is requested.
const DefaultLanguage = "English"

// Capabilities records which optional components were available at
// construction.
type Capabilities struct {
	EmbeddingStack    bool `json:"embedding_stack" yaml:"embedding_stack"`
	IntentModel       bool `json:"intent_model" yaml:"intent_model"`
	NLP               bool `json:"nlp" yaml:"nlp"`
	GenerationService bool `json:"generation_service" yaml:"generation_service"`
}

// Request is one question.
type Request struct {
	Query string
	// MLData holds caller-supplied insight lines; they override generated
	// insights with the same key.
	MLData   map[string]string
	Language string
}

// Response is the answer to one question.
type Response struct {
	AnswerEN         string `json:"answer_en" yaml:"answer_en"`
	AnswerTranslated string `json:"answer_translated" yaml:"answer_translated"`
	Language         string `json:"language" yaml:"language"`
}

// Trace records how each stage produced its output.
type Trace struct {
	RequestID       string            `json:"request_id" yaml:"request_id"`
	EnglishQuery    string            `json:"english_query" yaml:"english_query"`
	Intent          string            `json:"intent" yaml:"intent"`
	Entities        entity.Entities   `json:"entities" yaml:"entities"`
	Context         []string          `json:"context" yaml:"context"`
	Insights        map[string]string `json:"insights" yaml:"insights"`
	QueryTranslate  stage.Outcome     `json:"query_translate" yaml:"query_translate"`
	Intents         stage.Outcome     `json:"intent_outcome" yaml:"intent_outcome"`
	Retrieval       stage.Outcome     `json:"retrieval" yaml:"retrieval"`
	Generation      stage.Outcome     `json:"generation" yaml:"generation"`
	AnswerTranslate stage.Outcome     `json:"answer_translate" yaml:"answer_translate"`
}

// Config wires a Brain. Only Table is required; every other component
// degrades to its documented fallback when nil.
type Config struct {
	// Table backs the keyword path. It is replaced by the index table
	// when an index is present.
	Table *knowledge.Table

	// Embedder and Index enable semantic retrieval. Both are needed.
	Embedder embed.Embedder
	Index    *kbindex.Index

	Intent     intent.Classifier
	Entities   *entity.Extractor
	Generator  *generator.Generator
	Translator *translate.Translator
	Registry   *insight.Registry

	// TopK is the number of snippets retrieved. Default 3.
	TopK int

	// MaxDistance drops retrieved snippets at or beyond this squared-L2
	// distance, and gates keyword.Engine's semantic answers. Zero disables
	// the filter.
	MaxDistance float64

	Logger *slog.Logger
}

// Brain is the pipeline. It is safe for concurrent use.
type Brain struct {
	embedder    embed.Embedder
	intent      intent.Classifier
	entities    *entity.Extractor
	generator   *generator.Generator
	translator  *translate.Translator
	injector    *insight.Injector
	topK        int
	maxDistance float64
	logger      *slog.Logger

	retriever atomic.Pointer[retriever.Retriever]
	keywords  atomic.Pointer[keyword.Engine]
	table     *knowledge.Table
}

// New builds a Brain and logs once for every capability that is missing.
// It fails only when the index and embedder disagree on dimensionality.
func New(cfg Config) (*Brain, error) {
	b := &Brain{
		embedder:    cfg.Embedder,
		intent:      cfg.Intent,
		entities:    cfg.Entities,
		generator:   cfg.Generator,
		translator:  cfg.Translator,
		injector:    insight.NewInjector(cfg.Registry),
		topK:        cfg.TopK,
		maxDistance: cfg.MaxDistance,
		logger:      cfg.Logger,
		table:       cfg.Table,
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.topK <= 0 {
		b.topK = retriever.DefaultTopK
	}
	if b.entities == nil {
		b.entities = entity.NewExtractor(nil)
	}
	if b.generator == nil {
		b.generator = generator.New(nil, b.logger)
	}
	if b.translator == nil {
		b.translator = translate.New(nil, translate.WithLogger(b.logger))
	}

	if cfg.Index != nil && cfg.Embedder != nil {
		if err := b.SwapIndex(cfg.Index); err != nil {
			return nil, err
		}
	} else {
		b.keywords.Store(b.newKeywordEngine(nil, b.table))
	}

	caps := b.Capabilities()
	if !caps.EmbeddingStack {
		b.logger.Warn("brain: semantic index unavailable, using keyword retrieval", "records", b.Keywords().Table().Len())
	}
	if !caps.IntentModel {
		b.logger.Warn("brain: no intent model, every query is classified as general")
	}
	if !caps.NLP {
		b.logger.Info("brain: no entity model, only crop names are extracted")
	}
	if !caps.GenerationService {
		b.logger.Warn("brain: no generation service, answers come from retrieved context")
	}
	return b, nil
}

// SwapIndex replaces the semantic index. In-flight requests keep using the
// index they started with.
func (b *Brain) SwapIndex(ix *kbindex.Index) error {
	r, err := retriever.New(b.embedder, ix)
	if err != nil {
		return fmt.Errorf("brain: %w", err)
	}
	b.retriever.Store(r)
	b.keywords.Store(b.newKeywordEngine(r, ix.Table))
	b.logger.Info("brain: index loaded", "records", ix.Len(), "dim", ix.Dim())
	return nil
}

func (b *Brain) newKeywordEngine(r *retriever.Retriever, tbl *knowledge.Table) *keyword.Engine {
	opts := []keyword.Option{keyword.WithMaxDistance(b.maxDistance), keyword.WithLogger(b.logger)}
	if r != nil {
		opts = append(opts, keyword.WithRetriever(r))
	}
	return keyword.New(tbl, opts...)
}

// Capabilities reports which optional components are active.
func (b *Brain) Capabilities() Capabilities {
	return Capabilities{
		EmbeddingStack:    b.retriever.Load() != nil,
		IntentModel:       b.intent != nil,
		NLP:               b.entities.HasNER(),
		GenerationService: b.generator.Available(),
	}
}

// Registry returns the insight registry models are registered in.
func (b *Brain) Registry() *insight.Registry { return b.injector.Registry() }

// RegisterModels stores the host's model handles.
func (b *Brain) RegisterModels(m insight.Models) {
	b.injector.Registry().Register(m)
}

// Keywords returns the standalone answer engine for the current index.
func (b *Brain) Keywords() *keyword.Engine { return b.keywords.Load() }

// Translate is the public translation call; it returns text unchanged on
// failure.
func (b *Brain) Translate(ctx context.Context, text, lang string) string {
	out, _ := b.translator.Translate(ctx, text, lang)
	return out
}

// GenerateResponse answers query in language. It never fails: missing
// components and service errors degrade the content of the response.
func (b *Brain) GenerateResponse(ctx context.Context, query string, mlData map[string]string, language string) Response {
	resp, _ := b.Run(ctx, Request{Query: query, MLData: mlData, Language: language})
	return resp
}

// Run answers req and reports how each stage went.
func (b *Brain) Run(ctx context.Context, req Request) (Response, Trace) {
	lang := req.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	tr := Trace{RequestID: uuid.NewString()}
	log := b.logger.With("request_id", tr.RequestID)

	// 1. Normalize the query to English.
	tr.EnglishQuery, tr.QueryTranslate = req.Query, stage.Skipped
	if !translate.IsEnglish(lang) {
		tr.EnglishQuery, tr.QueryTranslate = b.translator.ToEnglish(ctx, req.Query)
	}

	// 2. Intent and entities.
	var ok bool
	tr.Intent, ok = intent.Detect(b.intent, tr.EnglishQuery)
	tr.Intents = stage.OK
	if !ok {
		tr.Intents = stage.Degraded
	}
	tr.Entities = b.entities.Extract(tr.EnglishQuery)

	// 3. Context.
	tr.Context, tr.Retrieval = b.retrieve(ctx, log, tr.EnglishQuery)

	// 4. Insights, caller data on top.
	tr.Insights = insight.Merge(b.injector.Inject(tr.EnglishQuery, tr.Intent, tr.Entities), req.MLData)

	// 5. Answer, then translate it back.
	answer, outcome := b.generator.Generate(ctx, generator.Input{
		Query:    tr.EnglishQuery,
		Intent:   tr.Intent,
		Entities: tr.Entities,
		Context:  tr.Context,
		Insights: tr.Insights,
	})
	tr.Generation = outcome

	translated := answer
	tr.AnswerTranslate = stage.Skipped
	if !translate.IsEnglish(lang) {
		translated, tr.AnswerTranslate = b.translator.Translate(ctx, answer, lang)
	}

	log.DebugContext(ctx, "brain: answered",
		"intent", tr.Intent,
		"snippets", len(tr.Context),
		"retrieval", tr.Retrieval,
		"generation", tr.Generation,
		"translate", tr.AnswerTranslate,
	)
	return Response{AnswerEN: answer, AnswerTranslated: translated, Language: lang}, tr
}

// retrieve returns context snippets. Without a semantic index, or when
// semantic retrieval fails, the best keyword match stands in as a single
// degraded snippet.
func (b *Brain) retrieve(ctx context.Context, log *slog.Logger, query string) ([]string, stage.Outcome) {
	if r := b.retriever.Load(); r != nil {
		hits, err := r.Search(ctx, query, b.topK)
		if err == nil {
			out := make([]string, 0, len(hits))
			for _, h := range hits {
				if b.maxDistance > 0 && float64(h.Distance) >= b.maxDistance {
					continue
				}
				out = append(out, h.Snippet())
			}
			return out, stage.OK
		}
		log.WarnContext(ctx, "brain: retrieval failed, using keyword match", "err", err)
	}

	if s, ok := b.Keywords().Snippet(query); ok {
		return []string{s}, stage.Degraded
	}
	return nil, stage.Unavailable
}
