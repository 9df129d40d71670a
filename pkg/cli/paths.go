package cli

import (
	"os"
	"path/filepath"
)

// Paths provides access to the agribrain directory structure
type Paths struct {
	// HomeDir is the user's home directory
	HomeDir string
}

// NewPaths creates a new Paths instance
func NewPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{HomeDir: home}, nil
}

// BaseDir returns the base directory (~/.agribrain)
func (p *Paths) BaseDir() string {
	return filepath.Join(p.HomeDir, DefaultBaseDir)
}

// ConfigFile returns the config file path (~/.agribrain/config.yaml)
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.BaseDir(), DefaultConfigFile)
}

// IndexDir returns the default index artifact directory for a context
// (~/.agribrain/index/<context>)
func (p *Paths) IndexDir(context string) string {
	return filepath.Join(p.BaseDir(), "index", context)
}

// CacheDir returns the cache directory (~/.agribrain/cache)
func (p *Paths) CacheDir() string {
	return filepath.Join(p.BaseDir(), "cache")
}

// DataDir returns the data directory (~/.agribrain/data)
func (p *Paths) DataDir() string {
	return filepath.Join(p.BaseDir(), "data")
}

// EnsureDir creates dir if it doesn't exist and returns it
func EnsureDir(dir string) (string, error) {
	return dir, os.MkdirAll(dir, 0755)
}

// CachePath returns a path within the cache directory
func (p *Paths) CachePath(name string) string {
	return filepath.Join(p.CacheDir(), name)
}

// DataPath returns a path within the data directory
func (p *Paths) DataPath(name string) string {
	return filepath.Join(p.DataDir(), name)
}
