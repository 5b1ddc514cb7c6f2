package coder

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"swixter/config/models"
	"swixter/internal/registry"
)

// Sync carries the provider context resolved once per invocation: the
// profile's preset (nil when the provider id is unknown) and the effective
// credential environment variable name.
type Sync struct {
	Preset *registry.Preset
	EnvKey string
}

// Adapter translates a profile into one coder's native config file.
//
// Apply must be idempotent and must treat a missing or corrupt file as
// "start from empty". Verify reports whether the file is consistent with
// what Apply would write; it never errors on missing or corrupt content,
// it returns false. Remove is best-effort cleanup of the profile's
// footprint; a no-op is acceptable for coders without profile-scoped state.
type Adapter interface {
	Name() string
	Apply(sc Sync, p models.Profile) error
	Verify(sc Sync, p models.Profile) (bool, error)
	Remove(name string) error
}

// adapters maps coder name -> adapter, populated by init() in each
// adapter file.
var adapters = make(map[string]Adapter)

// Register registers an adapter under its coder name.
func Register(a Adapter) {
	adapters[a.Name()] = a
}

// Get returns the adapter for a coder name.
func Get(name string) (Adapter, error) {
	a, ok := adapters[name]
	if !ok {
		return nil, fmt.Errorf("unknown coder: %s", name)
	}
	return a, nil
}

// Names returns all registered coder names, sorted.
func Names() []string {
	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func joinHome(parts ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(append([]string{home}, parts...)...)
}
