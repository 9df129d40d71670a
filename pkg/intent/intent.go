// Package intent maps a query to a coarse intent label such as "price",
// "pest" or "general".
package intent

import (
	"errors"
	"log/slog"
)

// General is the label used when no classifier is loaded or the
// classifier cannot decide.
const General = "general"

// ErrNoModel is returned when a model file is absent or empty.
var ErrNoModel = errors.New("intent: no model")

// Classifier maps text to an intent label. Implementations must be
// deterministic and safe for concurrent use.
type Classifier interface {
	Classify(text string) (string, error)
}

// Static always returns the same label.
type Static string

func (s Static) Classify(string) (string, error) { return string(s), nil }

// Detect runs c and returns General when c is nil, fails, or returns an
// empty label. ok reports whether the label came from the classifier.
func Detect(c Classifier, text string) (label string, ok bool) {
	if c == nil {
		return General, false
	}
	label, err := c.Classify(text)
	if err != nil {
		slog.Debug("intent: classify failed", "err", err)
		return General, false
	}
	if label == "" {
		return General, false
	}
	return label, true
}
