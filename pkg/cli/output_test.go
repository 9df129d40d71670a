package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]any{"answer_en": "Use <neem> oil", "language": "English"}

	if err := Output(data, OutputOptions{Format: FormatJSON, Writer: &buf}); err != nil {
		t.Fatalf("Output error: %v", err)
	}
	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if result["answer_en"] != "Use <neem> oil" {
		t.Errorf("answer_en = %v", result["answer_en"])
	}
	if !strings.Contains(buf.String(), "<neem>") {
		t.Errorf("HTML was escaped: %s", buf.String())
	}
}

func TestOutput_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Output(map[string]any{"name": "test"}, OutputOptions{Writer: &buf}); err != nil {
		t.Fatalf("Output error: %v", err)
	}
	if !strings.Contains(buf.String(), "name: test") {
		t.Errorf("Output should contain 'name: test', got: %s", buf.String())
	}
}

func TestOutput_Raw(t *testing.T) {
	var buf bytes.Buffer
	if err := Output("hello", OutputOptions{Format: FormatRaw, Writer: &buf}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "hello\n" {
		t.Errorf("raw = %q", buf.String())
	}

	buf.Reset()
	if err := Output([]byte("bytes"), OutputOptions{Format: FormatRaw, Writer: &buf}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "bytes" {
		t.Errorf("raw bytes = %q", buf.String())
	}
}

func TestOutput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := Output(map[string]int{"n": 1}, OutputOptions{Format: FormatJSON, File: path}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"n": 1`) {
		t.Errorf("file = %s", data)
	}
}

func TestOutput_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Output("x", OutputOptions{Format: "xml", Writer: &buf}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

type outcome string

func (o outcome) String() string { return "outcome=" + string(o) }

func TestOutput_RawLinesAndStringer(t *testing.T) {
	var buf bytes.Buffer
	snippets := []string{"[Potato] Q: blight | A: Spray mancozeb.", "[Wheat] Q: sowing | A: November.\n"}
	if err := Output(snippets, OutputOptions{Format: FormatRaw, Writer: &buf}); err != nil {
		t.Fatal(err)
	}
	want := "[Potato] Q: blight | A: Spray mancozeb.\n[Wheat] Q: sowing | A: November.\n"
	if buf.String() != want {
		t.Errorf("raw lines = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := Output(outcome("degraded"), OutputOptions{Format: FormatRaw, Writer: &buf}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "outcome=degraded\n" {
		t.Errorf("stringer = %q", buf.String())
	}
}

func TestOutput_FileKeptOnRenderError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "answer.txt")
	if err := os.WriteFile(path, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Output("x", OutputOptions{Format: "xml", File: path}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
	data, _ := os.ReadFile(path)
	if string(data) != "previous" {
		t.Errorf("file = %q, want previous content", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1 (no temp files left)", len(entries))
	}
}

func TestPrintNotices(t *testing.T) {
	var buf bytes.Buffer
	Notices = &buf
	t.Cleanup(func() { Notices = nil })

	PrintSuccess("Context %q added", "farm")
	PrintWarning("translation %s, showing input", "degraded")
	PrintError("no %s", "index")
	want := "✓ Context \"farm\" added\n⚠ translation degraded, showing input\nError: no index\n"
	if buf.String() != want {
		t.Errorf("notices = %q, want %q", buf.String(), want)
	}
}
