// Package keyword answers questions directly from the knowledge table,
// without the generation service.
//
// With a semantic index attached, the nearest record is returned when its
// distance is under the configured threshold. Without one, or when the
// index query fails, records are scored by how many query words their
// question contains.
package keyword

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Madhu3782/Crop-Recommendation/pkg/knowledge"
	"github.com/Madhu3782/Crop-Recommendation/pkg/retriever"
)

// Messages returned when no record answers the query.
const (
	NoMatch      = "I don't have information on that yet. Try asking about crops, diseases, or fertilizers."
	NoData       = "Knowledge base unavailable."
	NotConfident = "I'm not sure about that. Can you ask in a valid farming context?"
)

// DefaultMaxDistance is the squared-L2 cutoff for semantic answers.
const DefaultMaxDistance = 1.5

// DefaultRecords is the table used when no knowledge file can be loaded.
var DefaultRecords = []knowledge.Record{
	{Intent: knowledge.DefaultIntent, Topic: "Tomato", Question: "tomato leaf", Answer: "Yellow leaves usually mean nitrogen deficiency."},
	{Intent: knowledge.DefaultIntent, Topic: "Irrigation", Question: "water", Answer: "Most crops need consistent irrigation."},
	{Intent: knowledge.DefaultIntent, Topic: "Market", Question: "price", Answer: "Check market trends in the dashboard."},
}

// Method says how an answer was found.
type Method string

const (
	MethodSemantic Method = "semantic"
	MethodKeyword  Method = "keyword"
	MethodNone     Method = "none"
)

// Result is a standalone answer.
type Result struct {
	Answer string `json:"answer"`
	Method Method `json:"method"`
	// Pos is the matched record position, or -1.
	Pos int `json:"pos"`
	// Score is the hit count (keyword) or distance (semantic).
	Score float64 `json:"score"`
}

// Engine is safe for concurrent use; it never mutates its table.
type Engine struct {
	table       *knowledge.Table
	semantic    *retriever.Retriever
	maxDistance float64
	logger      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRetriever enables the distance-gated semantic path.
func WithRetriever(r *retriever.Retriever) Option {
	return func(e *Engine) { e.semantic = r }
}

// WithMaxDistance sets the semantic cutoff. Zero or less disables it.
func WithMaxDistance(d float64) Option {
	return func(e *Engine) { e.maxDistance = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New returns an engine over table.
func New(table *knowledge.Table, opts ...Option) *Engine {
	e := &Engine{table: table, maxDistance: DefaultMaxDistance, logger: slog.Default()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Table returns the table the engine scores against.
func (e *Engine) Table() *knowledge.Table { return e.table }

// Answer returns the best standalone answer for query.
func (e *Engine) Answer(ctx context.Context, query string) Result {
	if e.semantic != nil {
		hits, err := e.semantic.Search(ctx, query, 1)
		if err == nil {
			if len(hits) > 0 && (e.maxDistance <= 0 || float64(hits[0].Distance) < e.maxDistance) {
				return Result{Answer: hits[0].Record.Answer, Method: MethodSemantic, Pos: hits[0].Pos, Score: float64(hits[0].Distance)}
			}
			return Result{Answer: NotConfident, Method: MethodNone, Pos: -1}
		}
		e.logger.WarnContext(ctx, "keyword: semantic lookup failed, scoring words", "err", err)
	}

	if e.table.Len() == 0 {
		return Result{Answer: NoData, Method: MethodNone, Pos: -1}
	}
	pos, hits := e.Best(query)
	if pos < 0 {
		return Result{Answer: NoMatch, Method: MethodNone, Pos: -1}
	}
	rec, _ := e.table.At(pos)
	return Result{Answer: rec.Answer, Method: MethodKeyword, Pos: pos, Score: float64(hits)}
}

// Best returns the position of the record whose question contains the
// most query words, and that count. The earliest record wins ties. It
// returns -1 when no record contains any query word.
func (e *Engine) Best(query string) (pos, hits int) {
	words := strings.Fields(strings.ToLower(query))
	pos = -1
	for i := 0; i < e.table.Len(); i++ {
		rec, _ := e.table.At(i)
		q := strings.ToLower(rec.Question)
		n := 0
		for _, w := range words {
			if strings.Contains(q, w) {
				n++
			}
		}
		if n > hits {
			pos, hits = i, n
		}
	}
	return pos, hits
}

// Snippet returns the best keyword match formatted as a context line.
func (e *Engine) Snippet(query string) (string, bool) {
	pos, _ := e.Best(query)
	if pos < 0 {
		return "", false
	}
	s, err := e.table.Snippet(pos)
	return s, err == nil
}
