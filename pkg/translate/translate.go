// Package translate translates text with the generation service and
// falls back to the input text when that fails.
package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/Madhu3782/Crop-Recommendation/pkg/kv"
	"github.com/Madhu3782/Crop-Recommendation/pkg/llm"
	"github.com/Madhu3782/Crop-Recommendation/pkg/stage"
)

// English is the canonical label that disables translation.
const English = "english"

// Sampling parameters for translation.
const (
	Temperature = 0.3
	MaxTokens   = 1000
)

// IsEnglish reports whether lang names English, ignoring case and
// surrounding space. An empty label counts as English.
func IsEnglish(lang string) bool {
	lang = strings.TrimSpace(lang)
	return lang == "" || strings.EqualFold(lang, English)
}

// Prompt builds the single instruction turn for a translation.
func Prompt(text, lang string) string {
	return "Translate the following text into " + lang + ". \n" +
		"Rules:\n" +
		"1. Accurately preserve meaning.\n" +
		"2. Keep it natural.\n" +
		"3. Return ONLY the translation, no intro/outro.\n" +
		"Text:\n" + text
}

// Translator translates through a Completer with an optional cache.
type Translator struct {
	llm      llm.Completer
	cache    kv.Store
	cacheTTL time.Duration
	logger   *slog.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithCache caches successful translations in s for ttl (0 keeps them).
func WithCache(s kv.Store, ttl time.Duration) Option {
	return func(t *Translator) { t.cache, t.cacheTTL = s, ttl }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Translator) { t.logger = l }
}

// New returns a translator. c may be nil, in which case every call is an
// identity passthrough.
func New(c llm.Completer, opts ...Option) *Translator {
	t := &Translator{llm: c, logger: slog.Default()}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Available reports whether a generation service is configured.
func (t *Translator) Available() bool { return t != nil && t.llm != nil }

// Translate returns text in lang. English targets and empty text return
// the input with stage.Skipped. Service failure returns the input with
// stage.Degraded.
func (t *Translator) Translate(ctx context.Context, text, lang string) (string, stage.Outcome) {
	if IsEnglish(lang) {
		return text, stage.Skipped
	}
	return t.translate(ctx, text, lang)
}

// ToEnglish normalizes text of unknown language to English. Unlike
// Translate it always asks the service, since the source language is not
// known. Failure returns the input with stage.Degraded.
func (t *Translator) ToEnglish(ctx context.Context, text string) (string, stage.Outcome) {
	return t.translate(ctx, text, "English")
}

func (t *Translator) translate(ctx context.Context, text, lang string) (string, stage.Outcome) {
	if strings.TrimSpace(text) == "" {
		return text, stage.Skipped
	}
	if !t.Available() {
		return text, stage.Unavailable
	}

	key := cacheKey(text, lang)
	if t.cache != nil {
		b, err := t.cache.Get(ctx, key)
		switch {
		case err == nil:
			return string(b), stage.OK
		case !errors.Is(err, kv.ErrNotFound):
			t.logger.WarnContext(ctx, "translate: cache get failed", "err", err)
		}
	}

	out, err := t.llm.Complete(ctx, llm.Prompt{
		User:        Prompt(text, lang),
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
	out = strings.TrimSpace(out)
	if err == nil && out == "" {
		err = llm.ErrEmptyCompletion
	}
	if err != nil {
		t.logger.WarnContext(ctx, "translate: service failed, returning input", "lang", lang, "err", err)
		return text, stage.Degraded
	}

	if t.cache != nil {
		if err := t.cache.Set(ctx, key, []byte(out), t.cacheTTL); err != nil {
			t.logger.WarnContext(ctx, "translate: cache set failed", "err", err)
		}
	}
	return out, stage.OK
}

// cacheKey renders as translate:<language>:<xxhash64 of text>.
func cacheKey(text, lang string) kv.Key {
	return kv.Key{"translate", strings.ToLower(strings.TrimSpace(lang)), fmt.Sprintf("%016x", xxhash.Sum64String(text))}
}
