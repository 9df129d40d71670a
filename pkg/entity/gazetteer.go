package entity

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoModel is returned when a gazetteer file is absent or empty.
var ErrNoModel = errors.New("entity: no model")

// Gazetteer recognizes entities by phrase lookup. For each label the
// earliest matching phrase in the text wins, and its value is the span as
// written in the input.
type Gazetteer struct {
	labels   []string
	patterns map[string][]*regexp.Regexp
}

var _ Recognizer = (*Gazetteer)(nil)

// gazetteerFile is the on-disk form:
//
//	entities:
//	  GPE: [punjab, karnataka, uttar pradesh]
//	  PESTICIDE: [mancozeb, imidacloprid]
type gazetteerFile struct {
	Entities map[string][]string `yaml:"entities"`
}

// LoadGazetteer reads a gazetteer YAML file.
func LoadGazetteer(path string) (*Gazetteer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoModel, path)
		}
		return nil, fmt.Errorf("entity: %w", err)
	}
	var f gazetteerFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("entity: parse %s: %w", path, err)
	}
	return NewGazetteer(f.Entities)
}

// NewGazetteer compiles phrase lists keyed by label.
func NewGazetteer(phrases map[string][]string) (*Gazetteer, error) {
	g := &Gazetteer{patterns: make(map[string][]*regexp.Regexp)}
	for label, list := range phrases {
		for _, p := range list {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			words := strings.Fields(regexp.QuoteMeta(p))
			re, err := regexp.Compile(`(?i)\b` + strings.Join(words, `\s+`) + `\b`)
			if err != nil {
				return nil, fmt.Errorf("entity: phrase %q: %w", p, err)
			}
			g.patterns[label] = append(g.patterns[label], re)
		}
	}
	if len(g.patterns) == 0 {
		return nil, fmt.Errorf("%w: no phrases", ErrNoModel)
	}
	for label := range g.patterns {
		g.labels = append(g.labels, label)
	}
	slices.Sort(g.labels)
	return g, nil
}

func (g *Gazetteer) Recognize(text string) Entities {
	out := Entities{}
	for _, label := range g.labels {
		best := -1
		var span string
		for _, re := range g.patterns[label] {
			loc := re.FindStringIndex(text)
			if loc != nil && (best < 0 || loc[0] < best) {
				best, span = loc[0], text[loc[0]:loc[1]]
			}
		}
		if best >= 0 {
			out[label] = span
		}
	}
	return out
}
