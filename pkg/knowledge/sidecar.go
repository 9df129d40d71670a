package knowledge

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// sidecar is the persisted form of a Table: four parallel sequences.
type sidecar struct {
	Questions []string `msgpack:"questions"`
	Answers   []string `msgpack:"answers"`
	Intents   []string `msgpack:"intents"`
	Topics    []string `msgpack:"topics"`
}

// EncodeSidecar writes the table's parallel arrays to w as msgpack.
func EncodeSidecar(w io.Writer, t *Table) error {
	s := sidecar{}
	if t != nil {
		s = sidecar{
			Questions: t.questions,
			Answers:   t.answers,
			Intents:   t.intents,
			Topics:    t.topics,
		}
	}
	if err := msgpack.NewEncoder(w).Encode(&s); err != nil {
		return fmt.Errorf("knowledge: encode sidecar: %w", err)
	}
	return nil
}

// DecodeSidecar reads a table written by EncodeSidecar. Arrays of unequal
// length are rejected with ErrMisaligned.
func DecodeSidecar(r io.Reader) (*Table, error) {
	var s sidecar
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("knowledge: decode sidecar: %w", err)
	}
	return FromColumns(s.Questions, s.Answers, s.Intents, s.Topics)
}
