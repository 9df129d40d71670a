// Package entity extracts labeled values (crop names, places, ...) from a
// query.
package entity

import (
	"maps"
	"strings"
)

// LabelCrop is the label set by the crop matcher.
const LabelCrop = "CROP"

// Crops is the vocabulary recognised by the crop matcher.
var Crops = []string{
	"wheat", "rice", "tomato", "potato", "cotton", "maize",
	"sugarcane", "onion", "brinjal", "soybean", "mustard",
}

var cropSet = func() map[string]bool {
	m := make(map[string]bool, len(Crops))
	for _, c := range Crops {
		m[c] = true
	}
	return m
}()

// Entities maps a label to the extracted text.
type Entities map[string]string

// Recognizer finds named-entity spans. Implementations must be safe for
// concurrent use.
type Recognizer interface {
	Recognize(text string) Entities
}

// Extractor combines an optional Recognizer with the crop matcher.
type Extractor struct {
	ner Recognizer
}

// NewExtractor returns an extractor. ner may be nil, in which case only
// the crop matcher runs.
func NewExtractor(ner Recognizer) *Extractor {
	return &Extractor{ner: ner}
}

// HasNER reports whether a recognizer is attached.
func (e *Extractor) HasNER() bool {
	return e != nil && e.ner != nil
}

// Extract returns recognizer entities with the crop match applied on top.
func (e *Extractor) Extract(text string) Entities {
	out := Entities{}
	if e.HasNER() {
		maps.Copy(out, e.ner.Recognize(text))
	}
	if crop, ok := MatchCrop(text); ok {
		out[LabelCrop] = crop
	}
	return out
}

// MatchCrop returns the first whitespace-separated lowercase token of
// text that is a known crop.
func MatchCrop(text string) (string, bool) {
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if cropSet[w] {
			return w, true
		}
	}
	return "", false
}
