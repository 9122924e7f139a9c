// Package manifest handles permafrost.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest represents a permafrost.toml project configuration.
type Manifest struct {
	Project Project `toml:"project"`
	Source  Source  `toml:"source"`
	Freeze  Freeze  `toml:"freeze"`
	Output  Output  `toml:"output"`

	// Dir is the directory containing the permafrost.toml file (set at
	// load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Source configures which Starlark files are scanned. A root ending in /...
// is walked recursively.
type Source struct {
	Roots   []string `toml:"roots"`
	Exclude []string `toml:"exclude"`
}

// Freeze carries defaults applied to every freeze pass of a run.
type Freeze struct {
	EnforceGlobals bool     `toml:"enforce-globals"`
	Ignore         []string `toml:"ignore"`
}

// Output configures where rewritten sources and run reports land.
type Output struct {
	// Dir receives rewritten sources; empty means alongside the originals
	// with a .frozen.star suffix.
	Dir     string `toml:"dir"`
	Reports string `toml:"reports"`
}

// Load parses a permafrost.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "permafrost.toml")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if len(m.Source.Roots) == 0 {
		m.Source.Roots = []string{"./..."}
	}

	if m.Output.Reports == "" {
		m.Output.Reports = "permafrost-reports.toml"
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a permafrost.toml file, then
// loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "permafrost.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}

		dir = parent
	}
}

// RootPaths returns the configured scan roots resolved against the manifest
// directory. Roots given on the command line bypass this.
func (m *Manifest) RootPaths() []string {
	var paths []string

	for _, r := range m.Source.Roots {
		if filepath.IsAbs(r) {
			paths = append(paths, r)
			continue
		}

		paths = append(paths, filepath.Join(m.Dir, r))
	}

	return paths
}

// ReportsPath returns the absolute path of the run report file.
func (m *Manifest) ReportsPath() string {
	if filepath.IsAbs(m.Output.Reports) {
		return m.Output.Reports
	}

	return filepath.Join(m.Dir, m.Output.Reports)
}
