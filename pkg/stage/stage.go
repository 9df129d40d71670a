// Package stage defines the outcome tag each pipeline stage reports
// alongside its value.
package stage

// Outcome classifies how a stage produced its value.
type Outcome uint8

const (
	// OK means the primary path produced the value.
	OK Outcome = iota

	// Degraded means a fallback path produced a usable value.
	Degraded

	// Unavailable means the stage could not run and returned its empty value.
	Unavailable

	// Skipped means the stage had nothing to do (e.g. English passthrough).
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case Degraded:
		return "degraded"
	case Unavailable:
		return "unavailable"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so outcomes render as
// words in JSON and YAML output.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}
