package keyword

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Madhu3782/Crop-Recommendation/pkg/kbindex"
	"github.com/Madhu3782/Crop-Recommendation/pkg/knowledge"
	"github.com/Madhu3782/Crop-Recommendation/pkg/retriever"
)

func TestAnswerKeywordScenario(t *testing.T) {
	tbl := knowledge.NewTable([]knowledge.Record{
		{Question: "tomato leaf", Answer: "Yellow leaves usually mean nitrogen deficiency."},
	})
	res := New(tbl).Answer(context.Background(), "why are my tomato leaves yellow")
	if res.Answer != "Yellow leaves usually mean nitrogen deficiency." || res.Method != MethodKeyword || res.Pos != 0 {
		t.Errorf("Answer = %+v", res)
	}
}

func TestAnswerExactQuestion(t *testing.T) {
	tbl := knowledge.NewTable([]knowledge.Record{
		{Question: "best time to sow wheat", Answer: "November."},
		{Question: "how to control aphids on mustard", Answer: "Spray neem oil."},
	})
	res := New(tbl).Answer(context.Background(), "How to control aphids on mustard")
	if res.Answer != "Spray neem oil." {
		t.Errorf("Answer = %+v", res)
	}
}

func TestBestTieKeepsFirst(t *testing.T) {
	tbl := knowledge.NewTable([]knowledge.Record{
		{Question: "rice water", Answer: "first"},
		{Question: "rice soil", Answer: "second"},
	})
	pos, hits := New(tbl).Best("rice")
	if pos != 0 || hits != 1 {
		t.Errorf("Best = %d, %d; want 0, 1", pos, hits)
	}
}

func TestAnswerNoMatchAndNoData(t *testing.T) {
	tbl := knowledge.NewTable(DefaultRecords)
	if res := New(tbl).Answer(context.Background(), "xyz qqq"); res.Answer != NoMatch || res.Pos != -1 {
		t.Errorf("no match = %+v", res)
	}
	if res := New(nil).Answer(context.Background(), "water"); res.Answer != NoData {
		t.Errorf("no data = %+v", res)
	}
}

func TestDefaultRecords(t *testing.T) {
	e := New(knowledge.NewTable(DefaultRecords))
	res := e.Answer(context.Background(), "what about the price")
	if res.Answer != "Check market trends in the dashboard." {
		t.Errorf("Answer = %+v", res)
	}
	s, ok := e.Snippet("water")
	if !ok || !strings.Contains(s, "| A: Most crops need consistent irrigation.") {
		t.Errorf("Snippet = %q, %v", s, ok)
	}
}

// axisEmbedder embeds text onto one axis per known word, scaled so
// distances are easy to reason about.
type axisEmbedder struct {
	words []string
	err   error
}

func (a axisEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if a.err != nil {
		return nil, a.err
	}
	v := make([]float32, len(a.words))
	for i, w := range a.words {
		if strings.Contains(strings.ToLower(text), w) {
			v[i] = 1
		}
	}
	return v, nil
}

func (a axisEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := a.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (a axisEmbedder) Dimension() int { return len(a.words) }

func semanticEngine(t *testing.T, emb axisEmbedder, opts ...Option) *Engine {
	t.Helper()
	tbl := knowledge.NewTable([]knowledge.Record{
		{Question: "potato blight", Answer: "Spray mancozeb."},
		{Question: "wheat rust", Answer: "Use resistant varieties."},
	})
	build := axisEmbedder{words: emb.words}
	ix, err := kbindex.Build(context.Background(), tbl, build, nil)
	if err != nil {
		t.Fatal(err)
	}
	r, err := retriever.New(emb, ix)
	if err != nil {
		t.Fatal(err)
	}
	return New(tbl, append([]Option{WithRetriever(r)}, opts...)...)
}

func TestAnswerSemanticGate(t *testing.T) {
	words := []string{"potato", "blight", "wheat", "rust", "banana"}
	e := semanticEngine(t, axisEmbedder{words: words})

	res := e.Answer(context.Background(), "potato blight help")
	if res.Method != MethodSemantic || res.Answer != "Spray mancozeb." || res.Score != 0 {
		t.Errorf("close query = %+v", res)
	}

	// "banana potato" is distance 2 from "potato blight": above the cutoff.
	res = e.Answer(context.Background(), "banana potato")
	if res.Answer != NotConfident || res.Method != MethodNone {
		t.Errorf("far query = %+v", res)
	}
}

func TestAnswerSemanticThresholdDisabled(t *testing.T) {
	words := []string{"potato", "blight", "wheat", "rust", "banana"}
	e := semanticEngine(t, axisEmbedder{words: words}, WithMaxDistance(0))
	res := e.Answer(context.Background(), "banana potato")
	if res.Method != MethodSemantic {
		t.Errorf("Answer = %+v, want semantic", res)
	}
}

func TestAnswerSemanticErrorFallsBackToKeywords(t *testing.T) {
	words := []string{"potato", "blight", "wheat", "rust"}
	e := semanticEngine(t, axisEmbedder{words: words, err: errors.New("model crashed")})
	res := e.Answer(context.Background(), "wheat rust")
	if res.Method != MethodKeyword || res.Answer != "Use resistant varieties." {
		t.Errorf("Answer = %+v", res)
	}
}
