package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Madhu3782/Crop-Recommendation/pkg/entity"
	"github.com/Madhu3782/Crop-Recommendation/pkg/llm"
	"github.com/Madhu3782/Crop-Recommendation/pkg/stage"
)

type fakeLLM struct {
	reply string
	err   error
	calls int
	last  llm.Prompt
}

func (f *fakeLLM) Complete(_ context.Context, p llm.Prompt) (string, error) {
	f.calls++
	f.last = p
	return f.reply, f.err
}

func TestGenerateOK(t *testing.T) {
	f := &fakeLLM{reply: "Diagnosis: late blight."}
	g := New(f, nil)
	got, outcome := g.Generate(context.Background(), Input{
		Query:    "How to treat potato blight?",
		Intent:   "pest",
		Entities: entity.Entities{"CROP": "potato"},
		Context:  []string{"[Potato] Q: blight | A: Spray mancozeb."},
	})
	if got != "Diagnosis: late blight." || outcome != stage.OK {
		t.Fatalf("Generate = %q, %v", got, outcome)
	}
	if f.last.System != SystemPrompt || f.last.Temperature != Temperature || f.last.MaxTokens != MaxTokens {
		t.Errorf("prompt params = %+v", f.last)
	}
}

func TestGenerateFallbackWithContext(t *testing.T) {
	f := &fakeLLM{err: errors.New("401 unauthorized")}
	g := New(f, nil)
	got, outcome := g.Generate(context.Background(), Input{
		Query:   "How to treat potato blight?",
		Context: []string{"[Potato] Q: How to treat potato blight? | A:  Spray mancozeb 2g/L. ", "[Other] Q: x | A: y"},
	})
	if outcome != stage.Degraded {
		t.Errorf("outcome = %v, want degraded", outcome)
	}
	if want := FallbackPrefix + "Spray mancozeb 2g/L."; got != want {
		t.Errorf("Generate = %q, want %q", got, want)
	}
	if f.calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry)", f.calls)
	}
}

func TestGenerateApology(t *testing.T) {
	g := New(&fakeLLM{err: errors.New("timeout")}, nil)
	got, outcome := g.Generate(context.Background(), Input{Query: "anything"})
	if got != Apology || outcome != stage.Degraded {
		t.Errorf("Generate = %q, %v; want apology", got, outcome)
	}
}

func TestGenerateWithoutService(t *testing.T) {
	g := New(nil, nil)
	if g.Available() {
		t.Error("Available = true without completer")
	}
	got, outcome := g.Generate(context.Background(), Input{Context: []string{"no answer marker"}})
	if got != FallbackPrefix+"no answer marker" || outcome != stage.Degraded {
		t.Errorf("Generate = %q, %v", got, outcome)
	}
}

func TestUserPrompt(t *testing.T) {
	p := UserPrompt(Input{
		Query:    "Onion price?",
		Intent:   "price",
		Entities: entity.Entities{"CROP": "onion", "GPE": "Nashik"},
		Context:  []string{"[Onion] Q: a | A: b", "[Onion] Q: c | A: d"},
		Insights: map[string]string{"Price Forecast": "stable", "Demand": "high"},
	})
	for _, want := range []string{
		"User Query: Onion price?\n\n",
		"Detected Intent: price\n",
		`Entities: {"CROP": "onion", "GPE": "Nashik"}`,
		"--- Knowledge Base Context ---\n[Onion] Q: a | A: b\n[Onion] Q: c | A: d\n\n",
		"--- Real-time Data ---\nML Model Predictions:\n- Demand: high\n- Price Forecast: stable\n",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q\n%s", want, p)
		}
	}
	if !strings.HasSuffix(p, "Please provide a detailed response:") {
		t.Errorf("prompt suffix wrong:\n%s", p)
	}
}

func TestUserPromptEmpty(t *testing.T) {
	p := UserPrompt(Input{Query: "q", Intent: "general"})
	if !strings.Contains(p, noContext) {
		t.Errorf("missing no-context marker:\n%s", p)
	}
	if strings.Contains(p, "ML Model Predictions") {
		t.Errorf("unexpected predictions header:\n%s", p)
	}
	if !strings.Contains(p, "Entities: {}") {
		t.Errorf("missing empty entities:\n%s", p)
	}
}

func TestFallback(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, Apology},
		{[]string{"[T] Q: q | A: answer"}, FallbackPrefix + "answer"},
		{[]string{"plain text"}, FallbackPrefix + "plain text"},
		{[]string{"[T] Q: q | A: a | A: b"}, FallbackPrefix + "a"},
	}
	for _, tt := range tests {
		if got := Fallback(tt.in); got != tt.want {
			t.Errorf("Fallback(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
