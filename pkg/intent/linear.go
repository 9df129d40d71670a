package intent

import (
	"fmt"
	"maps"
	"math"
	"os"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Linear is a TF-IDF linear classifier exported from a trained model.
//
// Features are lowercase word n-grams. Each label has a weight per feature
// and a bias; the label with the highest score wins and the first label in
// Labels wins ties.
type Linear struct {
	Labels  []string                      `yaml:"labels"`
	NGram   [2]int                        `yaml:"ngram"`
	IDF     map[string]float64            `yaml:"idf"`
	Weights map[string]map[string]float64 `yaml:"weights"`
	Bias    map[string]float64            `yaml:"bias"`
}

var _ Classifier = (*Linear)(nil)

var tokenPattern = regexp.MustCompile(`\w\w+`)

// LoadLinear reads a model from a YAML file. A missing file yields an
// error wrapping ErrNoModel.
func LoadLinear(path string) (*Linear, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoModel, path)
		}
		return nil, fmt.Errorf("intent: %w", err)
	}
	return ParseLinear(data)
}

// ParseLinear decodes a YAML model.
func ParseLinear(data []byte) (*Linear, error) {
	var m Linear
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("intent: parse model: %w", err)
	}
	if len(m.Labels) == 0 {
		return nil, fmt.Errorf("%w: model has no labels", ErrNoModel)
	}
	if m.NGram == [2]int{} {
		m.NGram = [2]int{1, 2}
	}
	if m.NGram[0] < 1 || m.NGram[1] < m.NGram[0] {
		return nil, fmt.Errorf("intent: invalid ngram range %v", m.NGram)
	}
	return &m, nil
}

func (m *Linear) Classify(text string) (string, error) {
	x := m.features(text)
	// Sum in a fixed order so equal inputs give bit-identical scores.
	grams := slices.Sorted(maps.Keys(x))
	best, bestScore := "", math.Inf(-1)
	for _, label := range m.Labels {
		score := m.Bias[label]
		w := m.Weights[label]
		for _, g := range grams {
			score += w[g] * x[g]
		}
		if score > bestScore {
			best, bestScore = label, score
		}
	}
	return best, nil
}

// features returns the L2-normalized tf-idf vector of text, restricted to
// the model vocabulary.
func (m *Linear) features(text string) map[string]float64 {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tf := make(map[string]float64)
	for n := m.NGram[0]; n <= m.NGram[1]; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			gram := strings.Join(tokens[i:i+n], " ")
			if _, ok := m.IDF[gram]; ok {
				tf[gram]++
			}
		}
	}
	var norm float64
	for g, c := range tf {
		v := c * m.IDF[g]
		tf[g] = v
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for g := range tf {
			tf[g] /= norm
		}
	}
	return tf
}
