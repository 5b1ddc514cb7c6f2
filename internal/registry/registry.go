package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog/log"

	"swixter/config/models"
	"swixter/internal/utils"
)

// FallbackEnvKey is the credential environment variable name used when
// neither the profile nor its preset names one.
const FallbackEnvKey = "SWIXTER_API_KEY"

// Registry merges built-in provider presets with user-defined ones.
// A user preset with the id of a builtin replaces it outright.
type Registry struct {
	presets map[string]Preset
}

// New loads the registry. userPath points at the user preset file (a JSON
// array of presets); a missing file is normal, an unreadable one is logged
// and skipped so a broken preset file never blocks a command.
func New(userPath string) *Registry {
	presets := make(map[string]Preset)
	for _, p := range builtins() {
		presets[p.ID] = p
	}

	if userPath != "" {
		for _, p := range loadUserPresets(userPath) {
			if p.ID == "" {
				continue
			}
			presets[p.ID] = p
		}
	}

	return &Registry{presets: presets}
}

func loadUserPresets(path string) []Preset {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("failed to read user provider presets")
		}
		return nil
	}

	var presets []Preset
	if err := json.Unmarshal(data, &presets); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("invalid user provider preset file, ignoring")
		return nil
	}
	return presets
}

// Resolve returns the preset for a provider id.
func (r *Registry) Resolve(id string) (*Preset, error) {
	p, ok := r.presets[id]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", id)
	}
	return &p, nil
}

// List returns all presets sorted by id.
func (r *Registry) List() []Preset {
	list := make([]Preset, 0, len(r.presets))
	for _, p := range r.presets {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// EffectiveEnvKey resolves the credential environment variable name for a
// profile: the profile's explicit override wins, then the preset default,
// then FallbackEnvKey. Every sync goes through this one function so the
// adapters can never disagree on the key name.
func EffectiveEnvKey(p models.Profile, preset *Preset) string {
	if p.EnvKey != "" {
		return p.EnvKey
	}
	if preset != nil && preset.EnvKey != "" {
		return preset.EnvKey
	}
	return FallbackEnvKey
}

// EffectiveBaseURL resolves the base URL for a profile: profile override,
// then preset default. Trailing slashes are dropped so the same endpoint
// always serializes and verifies identically.
func EffectiveBaseURL(p models.Profile, preset *Preset) string {
	if p.BaseURL != "" {
		return utils.TrimBaseURL(p.BaseURL)
	}
	if preset != nil {
		return utils.TrimBaseURL(preset.BaseURL)
	}
	return ""
}
