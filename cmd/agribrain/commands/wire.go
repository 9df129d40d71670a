package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Madhu3782/Crop-Recommendation/pkg/brain"
	"github.com/Madhu3782/Crop-Recommendation/pkg/cli"
	"github.com/Madhu3782/Crop-Recommendation/pkg/embed"
	"github.com/Madhu3782/Crop-Recommendation/pkg/entity"
	"github.com/Madhu3782/Crop-Recommendation/pkg/generator"
	"github.com/Madhu3782/Crop-Recommendation/pkg/insight"
	"github.com/Madhu3782/Crop-Recommendation/pkg/intent"
	"github.com/Madhu3782/Crop-Recommendation/pkg/kbindex"
	"github.com/Madhu3782/Crop-Recommendation/pkg/keyword"
	"github.com/Madhu3782/Crop-Recommendation/pkg/knowledge"
	"github.com/Madhu3782/Crop-Recommendation/pkg/kv"
	"github.com/Madhu3782/Crop-Recommendation/pkg/llm"
	"github.com/Madhu3782/Crop-Recommendation/pkg/storage"
	"github.com/Madhu3782/Crop-Recommendation/pkg/translate"
)

// Default knowledge file names.
var (
	defaultSources = []string{"agriculture_knowledge.csv", "agriculture_knowledge_pro.csv"}
	defaultMerged  = "unified_knowledge_base.csv"
)

func knowledgeSources(c *cli.Context) []string {
	if len(c.Knowledge.Files) > 0 {
		return c.Knowledge.Files
	}
	return defaultSources
}

func mergedPath(c *cli.Context) string {
	if c.Knowledge.Merged != "" {
		return c.Knowledge.Merged
	}
	return defaultMerged
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// newStore opens the index artifact store of c.
func newStore(c *cli.Context) (storage.Store, error) {
	switch c.Index.Store {
	case "", "local":
		dir := c.Index.Dir
		if dir == "" {
			paths, err := cli.NewPaths()
			if err != nil {
				return nil, err
			}
			dir = paths.IndexDir(c.Name)
		}
		return storage.NewLocal(dir)
	case "s3":
		if c.Index.Bucket == "" {
			return nil, fmt.Errorf("index.bucket is required for the s3 store")
		}
		client := storage.NewS3Client(storage.S3Options{
			Region:    c.Index.Region,
			Endpoint:  c.Index.Endpoint,
			AccessKey: c.Index.AccessKey,
			SecretKey: c.Index.SecretKey,
			PathStyle: c.Index.PathStyle,
		})
		return storage.NewS3(client, c.Index.Bucket, c.Index.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown index store %q", c.Index.Store)
	}
}

// newEmbedder returns nil when no embedding key is configured.
func newEmbedder(c *cli.Context) embed.Embedder {
	if c.Embedding.APIKey == "" {
		return nil
	}
	var opts []embed.Option
	if c.Embedding.Model != "" {
		opts = append(opts, embed.WithModel(c.Embedding.Model))
	}
	if c.Embedding.Dimension > 0 {
		opts = append(opts, embed.WithDimension(c.Embedding.Dimension))
	}
	if c.Embedding.BaseURL != "" {
		opts = append(opts, embed.WithBaseURL(c.Embedding.BaseURL))
	}
	if c.Embedding.Timeout > 0 {
		opts = append(opts, embed.WithTimeout(seconds(c.Embedding.Timeout)))
	}
	return embed.NewOpenAI(c.Embedding.APIKey, opts...)
}

// newCompleter returns nil when no generation key is configured.
func newCompleter(ctx context.Context, c *cli.Context) (llm.Completer, error) {
	if c.LLM.APIKey == "" {
		return nil, nil
	}
	var opts []llm.Option
	if c.LLM.Model != "" {
		opts = append(opts, llm.WithModel(c.LLM.Model))
	}
	if c.LLM.BaseURL != "" {
		opts = append(opts, llm.WithBaseURL(c.LLM.BaseURL))
	}
	if c.LLM.Timeout > 0 {
		opts = append(opts, llm.WithTimeout(seconds(c.LLM.Timeout)))
	}

	switch c.Provider() {
	case llm.ProviderGemini:
		return llm.NewGemini(ctx, c.LLM.APIKey, opts...)
	case llm.ProviderOpenAI, llm.ProviderGroq:
		o := llm.NewOpenAI(c.LLM.APIKey, opts...)
		ep := o.Endpoint()
		slog.Debug("generation endpoint", "provider", ep.Provider, "model", ep.Model)
		return o, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
}

// newCache returns nil for cache type "none".
func newCache(ctx context.Context, c *cli.Context) (kv.Store, error) {
	switch c.Cache.Type {
	case "", "memory":
		return kv.NewMemory(), nil
	case "none":
		return nil, nil
	case "badger":
		dir := c.Cache.Dir
		if dir == "" {
			paths, err := cli.NewPaths()
			if err != nil {
				return nil, err
			}
			dir = paths.CachePath("translate")
		}
		return kv.NewBadger(kv.BadgerOptions{Dir: dir})
	case "redis":
		return kv.NewRedis(ctx, c.Cache.Addr, c.Cache.Password, c.Cache.DB, "agribrain")
	default:
		return nil, fmt.Errorf("unknown cache type %q", c.Cache.Type)
	}
}

func newTranslator(ctx context.Context, c *cli.Context, completer llm.Completer) (*translate.Translator, io.Closer, error) {
	cache, err := newCache(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	var closer io.Closer = nopCloser{}
	opts := []translate.Option{}
	if cache != nil {
		closer = cache
		opts = append(opts, translate.WithCache(cache, seconds(c.Cache.TTL)))
	}
	return translate.New(completer, opts...), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// loadIndex loads the index artifacts. A missing index is not an error:
// it returns nil and the caller falls back to keyword search.
func loadIndex(ctx context.Context, st storage.Store, e embed.Embedder) (*kbindex.Index, error) {
	if e == nil {
		return nil, nil
	}
	ix, err := kbindex.Load(ctx, st, e.Dimension())
	if errors.Is(err, kbindex.ErrUnavailable) {
		slog.Debug("index not found", "store", st.String(), "err", err)
		return nil, nil
	}
	return ix, err
}

// loadTable finds records for the keyword path: the index sidecar, then
// the merged CSV, then each source file, then the built-in records.
func loadTable(ctx context.Context, c *cli.Context, st storage.Store) *knowledge.Table {
	if st != nil {
		if tbl, err := kbindex.LoadTable(ctx, st); err == nil {
			return tbl
		}
	}
	for _, p := range append([]string{mergedPath(c)}, knowledgeSources(c)...) {
		recs, err := knowledge.ReadCSVFile(p)
		if err == nil && len(recs) > 0 {
			slog.Debug("knowledge loaded", "file", p, "records", len(recs))
			return knowledge.NewTable(recs)
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to read knowledge file", "file", p, "err", err)
		}
	}
	slog.Warn("no knowledge file found, using built-in records")
	return knowledge.NewTable(keyword.DefaultRecords)
}

// registry registers the host model artifacts that exist on disk.
func registry(c *cli.Context) *insight.Registry {
	handle := func(path string) any {
		if path == "" {
			return nil
		}
		if _, err := os.Stat(path); err != nil {
			slog.Warn("model artifact unavailable", "path", path, "err", err)
			return nil
		}
		return path
	}
	reg := &insight.Registry{}
	reg.Register(insight.Models{
		Price: handle(c.Models.Price),
		Crop:  handle(c.Models.Crop),
		Pest:  handle(c.Models.Pest),
	})
	return reg
}

// pipeline is a Brain with the resources it holds open.
type pipeline struct {
	*brain.Brain
	store    storage.Store
	embedder embed.Embedder
	closers  []io.Closer
}

func (p *pipeline) Close() error {
	var errs []error
	for _, c := range p.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// newPipeline wires every component configured in c. Missing optional
// pieces degrade; only configuration errors and index/embedder
// mismatches fail.
func newPipeline(ctx context.Context, c *cli.Context) (*pipeline, error) {
	logger := slog.Default()

	st, err := newStore(c)
	if err != nil {
		return nil, err
	}
	emb := newEmbedder(c)
	ix, err := loadIndex(ctx, st, emb)
	if err != nil {
		return nil, err
	}
	var tbl *knowledge.Table
	if ix == nil {
		tbl = loadTable(ctx, c, st)
	}

	completer, err := newCompleter(ctx, c)
	if err != nil {
		return nil, err
	}
	tr, cacheCloser, err := newTranslator(ctx, c, completer)
	if err != nil {
		return nil, err
	}

	var classifier intent.Classifier
	if c.Models.Intent != "" {
		m, err := intent.LoadLinear(c.Models.Intent)
		if err != nil {
			logger.Warn("intent model unavailable", "path", c.Models.Intent, "err", err)
		} else {
			classifier = m
		}
	}
	var ner entity.Recognizer
	if c.Models.Entity != "" {
		g, err := entity.LoadGazetteer(c.Models.Entity)
		if err != nil {
			logger.Warn("entity model unavailable", "path", c.Models.Entity, "err", err)
		} else {
			ner = g
		}
	}

	b, err := brain.New(brain.Config{
		Table:       tbl,
		Embedder:    emb,
		Index:       ix,
		Intent:      classifier,
		Entities:    entity.NewExtractor(ner),
		Generator:   generator.New(completer, logger),
		Translator:  tr,
		Registry:    registry(c),
		TopK:        c.TopK(),
		MaxDistance: c.MaxDistance(),
		Logger:      logger,
	})
	if err != nil {
		cacheCloser.Close()
		return nil, err
	}
	return &pipeline{Brain: b, store: st, embedder: emb, closers: []io.Closer{cacheCloser}}, nil
}
