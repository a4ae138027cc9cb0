// Package manifest parses the triplang.yaml project configuration.
//
// The manifest tells the toolchain where imported modules live:
//
//	module: Arith
//	search_paths:
//	  - ./lib
//	  - ./vendor
//	registry: localhost:7878
//	cache: .triplang-cache.db
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/triplang/triplang/internal/config"
)

// Manifest represents the top-level triplang.yaml configuration.
type Manifest struct {
	// Module is the expected module name of the entry file. Optional;
	// when set, a mismatch is reported after the pipeline has run.
	Module string `yaml:"module,omitempty"`

	// SearchPaths lists directories (relative to the manifest) probed
	// for imported modules' source files.
	SearchPaths []string `yaml:"search_paths,omitempty"`

	// Registry is the host:port of a module registry to fall back to
	// when no search path has the module.
	Registry string `yaml:"registry,omitempty"`

	// Cache is the path of the resolved-program cache database.
	// Empty disables caching.
	Cache string `yaml:"cache,omitempty"`

	// Dir is the directory the manifest was loaded from; not part of
	// the file.
	Dir string `yaml:"-"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Dir = filepath.Dir(path)
	return &m, nil
}

// Find walks from startDir upward looking for triplang.yaml. It
// returns the manifest path and true when found.
func Find(startDir string) (string, bool) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, config.ManifestFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// ResolvedSearchPaths returns the search paths anchored at the
// manifest's directory.
func (m *Manifest) ResolvedSearchPaths() []string {
	out := make([]string, 0, len(m.SearchPaths)+1)
	out = append(out, m.Dir)
	for _, p := range m.SearchPaths {
		if filepath.IsAbs(p) {
			out = append(out, p)
		} else {
			out = append(out, filepath.Join(m.Dir, p))
		}
	}
	return out
}
