package entity

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestMatchCrop(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"How to treat potato blight?", "potato", true},
		{"Wheat and rice prices", "wheat", true},
		{"best fertilizer for BRINJAL", "brinjal", true},
		{"why are my tomato leaves yellow", "tomato", true},
		{"tomatoes are red", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := MatchCrop(tt.text)
		if got != tt.want || ok != tt.ok {
			t.Errorf("MatchCrop(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtractorWithoutNER(t *testing.T) {
	e := NewExtractor(nil)
	if e.HasNER() {
		t.Error("HasNER = true without recognizer")
	}
	got := e.Extract("price of onion in Nashik")
	want := Entities{LabelCrop: "onion"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
	if got := e.Extract("hello"); len(got) != 0 {
		t.Errorf("Extract(hello) = %v, want empty", got)
	}
}

type fixedNER Entities

func (f fixedNER) Recognize(string) Entities { return Entities(f) }

func TestExtractorCropOverridesNER(t *testing.T) {
	e := NewExtractor(fixedNER{"GPE": "Punjab", LabelCrop: "paddy"})
	got := e.Extract("wheat yield in Punjab")
	want := Entities{"GPE": "Punjab", LabelCrop: "wheat"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
	// Without a crop token the recognizer value survives.
	got = e.Extract("paddy yield in Punjab")
	if got[LabelCrop] != "paddy" {
		t.Errorf("CROP = %q, want paddy", got[LabelCrop])
	}
}

func TestGazetteer(t *testing.T) {
	g, err := NewGazetteer(map[string][]string{
		"GPE":       {"punjab", "uttar pradesh"},
		"PESTICIDE": {"mancozeb"},
	})
	if err != nil {
		t.Fatal(err)
	}
	got := g.Recognize("Is Mancozeb allowed in Uttar  Pradesh or Punjab?")
	want := Entities{"GPE": "Uttar  Pradesh", "PESTICIDE": "Mancozeb"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Recognize = %v, want %v", got, want)
	}
	if got := g.Recognize("punjabi food"); len(got) != 0 {
		t.Errorf("Recognize matched inside a word: %v", got)
	}
}

func TestExtractDeterministic(t *testing.T) {
	g, _ := NewGazetteer(map[string][]string{"GPE": {"punjab", "haryana"}})
	e := NewExtractor(g)
	q := "cotton in haryana and punjab"
	first := e.Extract(q)
	for i := 0; i < 10; i++ {
		if got := e.Extract(q); !reflect.DeepEqual(got, first) {
			t.Fatalf("call %d = %v, first %v", i, got, first)
		}
	}
}

func TestLoadGazetteer(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadGazetteer(filepath.Join(dir, "none.yaml")); !errors.Is(err, ErrNoModel) {
		t.Errorf("missing file err = %v, want ErrNoModel", err)
	}
	path := filepath.Join(dir, "entities.yaml")
	if err := os.WriteFile(path, []byte("entities:\n  GPE: [karnataka]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := LoadGazetteer(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := g.Recognize("ragi in Karnataka"); got["GPE"] != "Karnataka" {
		t.Errorf("Recognize = %v", got)
	}
	empty := filepath.Join(dir, "empty.yaml")
	_ = os.WriteFile(empty, []byte("entities: {}\n"), 0o644)
	if _, err := LoadGazetteer(empty); !errors.Is(err, ErrNoModel) {
		t.Errorf("empty file err = %v, want ErrNoModel", err)
	}
}
