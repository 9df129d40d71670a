// Package knowledge holds the question/answer table the assistant answers
// from.
//
// A [Table] stores records as four parallel arrays (questions, answers,
// intents, topics). A record is identified by its position, and the same
// position is used by the embedding index built over the questions, so the
// arrays are only ever appended to together and never reordered.
package knowledge

import (
	"errors"
	"fmt"
)

// DefaultIntent is assigned to records whose source carries no intent.
const DefaultIntent = "general"

// Sentinel errors.
var (
	// ErrMissingColumn is returned when a CSV lacks a required column.
	ErrMissingColumn = errors.New("knowledge: missing column")

	// ErrOutOfRange is returned for a position outside the table.
	ErrOutOfRange = errors.New("knowledge: position out of range")

	// ErrMisaligned is returned when parallel arrays differ in length.
	ErrMisaligned = errors.New("knowledge: parallel arrays differ in length")
)

// Record is a single knowledge entry.
type Record struct {
	Intent   string `json:"intent" yaml:"intent"`
	Topic    string `json:"topic" yaml:"topic"`
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// Table is an immutable, position-indexed set of records.
type Table struct {
	questions []string
	answers   []string
	intents   []string
	topics    []string
}

// NewTable builds a table from records, preserving their order.
func NewTable(records []Record) *Table {
	t := &Table{
		questions: make([]string, len(records)),
		answers:   make([]string, len(records)),
		intents:   make([]string, len(records)),
		topics:    make([]string, len(records)),
	}
	for i, r := range records {
		t.questions[i] = r.Question
		t.answers[i] = r.Answer
		t.intents[i] = r.Intent
		t.topics[i] = r.Topic
	}
	return t
}

// FromColumns builds a table from parallel arrays. The slices are copied.
func FromColumns(questions, answers, intents, topics []string) (*Table, error) {
	n := len(questions)
	if len(answers) != n || len(intents) != n || len(topics) != n {
		return nil, fmt.Errorf("%w: questions=%d answers=%d intents=%d topics=%d",
			ErrMisaligned, n, len(answers), len(intents), len(topics))
	}
	return &Table{
		questions: append([]string(nil), questions...),
		answers:   append([]string(nil), answers...),
		intents:   append([]string(nil), intents...),
		topics:    append([]string(nil), topics...),
	}, nil
}

// Len returns the number of records. A nil table is empty.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.questions)
}

// At returns the record at position i.
func (t *Table) At(i int) (Record, error) {
	if i < 0 || i >= t.Len() {
		return Record{}, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, t.Len())
	}
	return Record{
		Intent:   t.intents[i],
		Topic:    t.topics[i],
		Question: t.questions[i],
		Answer:   t.answers[i],
	}, nil
}

// Questions returns a copy of the question column.
func (t *Table) Questions() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.questions...)
}

// Records returns all records in position order.
func (t *Table) Records() []Record {
	out := make([]Record, t.Len())
	for i := range out {
		out[i], _ = t.At(i)
	}
	return out
}

// Snippet formats the record at position i as a labeled context line:
// "[topic] Q: question | A: answer".
func (t *Table) Snippet(i int) (string, error) {
	r, err := t.At(i)
	if err != nil {
		return "", err
	}
	return FormatSnippet(r), nil
}

// FormatSnippet renders a record as a context line.
func FormatSnippet(r Record) string {
	return fmt.Sprintf("[%s] Q: %s | A: %s", r.Topic, r.Question, r.Answer)
}
