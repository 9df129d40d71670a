package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPaths(t *testing.T) {
	p := &Paths{HomeDir: "/home/farmer"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"BaseDir", p.BaseDir(), "/home/farmer/.agribrain"},
		{"ConfigFile", p.ConfigFile(), "/home/farmer/.agribrain/config.yaml"},
		{"IndexDir", p.IndexDir("prod"), "/home/farmer/.agribrain/index/prod"},
		{"CachePath", p.CachePath("translate"), "/home/farmer/.agribrain/cache/translate"},
		{"DataPath", p.DataPath("kb.csv"), "/home/farmer/.agribrain/data/kb.csv"},
	}
	for _, tt := range tests {
		if tt.got != filepath.FromSlash(tt.want) {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	got, err := EnsureDir(dir)
	if err != nil || got != dir {
		t.Fatalf("EnsureDir = %q, %v", got, err)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Errorf("dir not created: %v", err)
	}
}
