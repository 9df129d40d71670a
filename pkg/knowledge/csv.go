package knowledge

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Column names used in knowledge CSV files.
const (
	ColIntent   = "Intent"
	ColTopic    = "Topic"
	ColQuestion = "Question"
	ColAnswer   = "Answer"
)

// ReadCSV parses records from r. Columns are located by header name.
// A missing Intent column assigns [DefaultIntent] to every row; the other
// three columns are required. Rows with an empty question are skipped.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("knowledge: read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, name := range []string{ColTopic, ColQuestion, ColAnswer} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	intentCol, hasIntent := cols[ColIntent]

	field := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var out []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("knowledge: read line %d: %w", line, err)
		}
		rec := Record{
			Intent:   DefaultIntent,
			Topic:    field(row, cols[ColTopic]),
			Question: field(row, cols[ColQuestion]),
			Answer:   field(row, cols[ColAnswer]),
		}
		if hasIntent {
			if v := field(row, intentCol); v != "" {
				rec.Intent = v
			}
		}
		if rec.Question == "" {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReadCSVFile is ReadCSV on a file path.
func ReadCSVFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("knowledge: %w", err)
	}
	defer f.Close()
	recs, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// WriteCSV writes records with the header Intent, Topic, Question, Answer.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColIntent, ColTopic, ColQuestion, ColAnswer}); err != nil {
		return fmt.Errorf("knowledge: write header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write([]string{r.Intent, r.Topic, r.Question, r.Answer}); err != nil {
			return fmt.Errorf("knowledge: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Dedupe drops records whose question appears again later, so the last
// occurrence of each question survives at its own position.
func Dedupe(records []Record) []Record {
	last := make(map[string]int, len(records))
	for i, r := range records {
		last[r.Question] = i
	}
	out := make([]Record, 0, len(last))
	for i, r := range records {
		if last[r.Question] == i {
			out = append(out, r)
		}
	}
	return out
}

// Merge concatenates records from the given CSV files in order and dedupes
// them by question. Missing files are skipped and reported via skipped.
func Merge(paths ...string) (records []Record, skipped []string, err error) {
	var all []Record
	for _, p := range paths {
		recs, err := ReadCSVFile(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				skipped = append(skipped, p)
				continue
			}
			return nil, skipped, err
		}
		all = append(all, recs...)
	}
	return Dedupe(all), skipped, nil
}
