package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// OutputFormat selects how a command result is rendered.
type OutputFormat string

const (
	FormatYAML OutputFormat = "yaml"
	FormatJSON OutputFormat = "json"
	// FormatRaw prints answers as plain text: strings and byte slices
	// as-is, string slices one per line, Stringers by their String.
	// Anything else falls back to YAML.
	FormatRaw OutputFormat = "raw"
)

// OutputOptions configures Output.
type OutputOptions struct {
	Format OutputFormat

	// File receives the result instead of stdout. It is replaced
	// atomically, so a failed render leaves the previous file intact.
	File string

	// Writer overrides both stdout and File.
	Writer io.Writer
}

// Notices receives the Print* status lines. When nil they go to the
// current os.Stderr, keeping answers piped from stdout clean.
var Notices io.Writer

func notices() io.Writer {
	if Notices != nil {
		return Notices
	}
	return os.Stderr
}

// Output renders result according to opts.
func Output(result any, opts OutputOptions) error {
	switch {
	case opts.Writer != nil:
		return render(opts.Writer, result, opts.Format)
	case opts.File != "":
		return writeFileAtomic(opts.File, func(w io.Writer) error {
			return render(w, result, opts.Format)
		})
	default:
		return render(os.Stdout, result, opts.Format)
	}
}

func render(w io.Writer, result any, format OutputFormat) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(result)
	case FormatYAML, "":
		return renderYAML(w, result)
	case FormatRaw:
		return renderRaw(w, result)
	default:
		return fmt.Errorf("cli: unsupported output format %q", format)
	}
}

func renderYAML(w io.Writer, result any) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("cli: format output: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func renderRaw(w io.Writer, result any) error {
	switch v := result.(type) {
	case []byte:
		_, err := w.Write(v)
		return err
	case string:
		return writeLine(w, v)
	case []string:
		for _, s := range v {
			if err := writeLine(w, s); err != nil {
				return err
			}
		}
		return nil
	case fmt.Stringer:
		return writeLine(w, v.String())
	default:
		return renderYAML(w, result)
	}
}

func writeLine(w io.Writer, s string) error {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(w, s)
	return err
}

func writeFileAtomic(path string, fill func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("cli: create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := fill(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("cli: write output file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cli: write output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("cli: write output file: %w", err)
	}
	return nil
}

// PrintSuccess reports a completed action.
func PrintSuccess(format string, args ...any) {
	fmt.Fprintf(notices(), "✓ "+format+"\n", args...)
}

// PrintError reports a failure.
func PrintError(format string, args ...any) {
	fmt.Fprintf(notices(), "Error: "+format+"\n", args...)
}

func PrintInfo(format string, args ...any) {
	fmt.Fprintf(notices(), "ℹ "+format+"\n", args...)
}

// PrintWarning reports a degraded result, such as an untranslated answer.
func PrintWarning(format string, args ...any) {
	fmt.Fprintf(notices(), "⚠ "+format+"\n", args...)
}
