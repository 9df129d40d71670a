// Package generator writes the English answer from the query, retrieved
// context and insights, falling back to the best snippet when the
// generation service is unreachable.
package generator

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Madhu3782/Crop-Recommendation/pkg/llm"
	"github.com/Madhu3782/Crop-Recommendation/pkg/stage"
)

// Sampling parameters for answers.
const (
	Temperature = 0.7
	MaxTokens   = 600
)

// FallbackPrefix marks answers produced without the generation service.
const FallbackPrefix = "**Fallback (API Unreachable):** "

// Apology is returned when neither the service nor any context is
// available.
const Apology = "I'm having trouble connecting to my brain right now. Please try again later."

// Generator produces answers. A nil Completer means no generation service
// is configured and every call takes the fallback path.
type Generator struct {
	llm    llm.Completer
	logger *slog.Logger
}

// New returns a generator. c may be nil.
func New(c llm.Completer, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{llm: c, logger: logger}
}

// Available reports whether a generation service is configured.
func (g *Generator) Available() bool { return g != nil && g.llm != nil }

// Generate calls the service once. Any failure yields the fallback answer
// with stage.Degraded; the error is logged, never returned.
func (g *Generator) Generate(ctx context.Context, in Input) (string, stage.Outcome) {
	if !g.Available() {
		return Fallback(in.Context), stage.Degraded
	}
	answer, err := g.llm.Complete(ctx, llm.Prompt{
		System:      SystemPrompt,
		User:        UserPrompt(in),
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
	if err != nil {
		g.logger.WarnContext(ctx, "generator: service failed, using fallback", "err", err)
		return Fallback(in.Context), stage.Degraded
	}
	return answer, stage.OK
}

// Fallback returns the answer portion of the first snippet (the text
// between the first "| A:" marker and the next one, if any), prefixed with
// FallbackPrefix, or Apology when there is no context.
func Fallback(snippets []string) string {
	if len(snippets) == 0 {
		return Apology
	}
	best := snippets[0]
	if _, answer, ok := strings.Cut(best, "| A:"); ok {
		answer, _, _ = strings.Cut(answer, "| A:")
		best = strings.TrimSpace(answer)
	}
	return FallbackPrefix + best
}
