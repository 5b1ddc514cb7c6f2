package coder

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"swixter/config/models"
	"swixter/config/storage"
	"swixter/internal/registry"
)

// EntryPrefix namespaces every table entry this adapter owns, so entries
// the user created directly in the file are never touched.
const EntryPrefix = "swixter-"

// Codex writes the table-structured target: a TOML document with a
// root-level active profile pointer plus model_providers and profiles
// tables keyed by name.
//
// Credentials are never written as literal values here. Only the
// credential env key name is stored; codex resolves the value from its
// process environment at run time.
type Codex struct {
	path    string
	backups *storage.BackupManager
}

// NewCodex creates the adapter over an explicit config path.
func NewCodex(path string) *Codex {
	return &Codex{
		path:    path,
		backups: storage.NewBackupManager(storage.DefaultBackupRetention),
	}
}

func init() {
	Register(NewCodex(joinHome(".codex", "config.toml")))
}

// Name implements Adapter.
func (c *Codex) Name() string { return models.CoderCodex }

// EntryName returns the namespaced table key for a profile.
func EntryName(profile string) string {
	return EntryPrefix + profile
}

// readDocument parses the existing file into a generic document. An
// unparsable file is copied to a timestamped backup and replaced with an
// empty document, never silently dropped.
func (c *Codex) readDocument() (map[string]any, error) {
	doc := map[string]any{}

	raw, err := os.ReadFile(c.path)
	if err != nil || len(raw) == 0 {
		return doc, nil
	}

	if uerr := toml.Unmarshal(raw, &doc); uerr != nil {
		if _, berr := c.backups.CreateBackup(c.path); berr != nil {
			return nil, fmt.Errorf("failed to back up unparsable config: %w", berr)
		}
		return map[string]any{}, nil
	}

	return doc, nil
}

// table returns doc[key] as a mutable table, creating it when absent.
func table(doc map[string]any, key string) map[string]any {
	if t, ok := doc[key].(map[string]any); ok {
		return t
	}
	t := map[string]any{}
	doc[key] = t
	return t
}

// providerEntry builds the model_providers table entry for a profile.
func (c *Codex) providerEntry(sc Sync, p models.Profile) map[string]any {
	displayName := p.Provider
	wireAPI := registry.WireChat
	if sc.Preset != nil {
		displayName = sc.Preset.Name
		if sc.Preset.WireAPI != "" {
			wireAPI = sc.Preset.WireAPI
		}
	}

	entry := map[string]any{
		"name":     displayName,
		"base_url": registry.EffectiveBaseURL(p, sc.Preset),
		"wire_api": wireAPI,
		"env_key":  sc.EnvKey,
	}
	if sc.Preset != nil && len(sc.Preset.Headers) > 0 {
		entry["http_headers"] = sc.Preset.Headers
	}
	return entry
}

// profileEntry builds the profiles table entry for a profile.
func (c *Codex) profileEntry(p models.Profile) map[string]any {
	entry := map[string]any{
		"model_provider": EntryName(p.Name),
	}
	if p.Model != "" {
		entry["model"] = p.Model
	}
	return entry
}

// Apply implements Adapter. Only the two namespaced entries and the root
// pointers are written; every other root key, table and entry survives.
func (c *Codex) Apply(sc Sync, p models.Profile) error {
	doc, err := c.readDocument()
	if err != nil {
		return err
	}

	entry := EntryName(p.Name)
	table(doc, "model_providers")[entry] = c.providerEntry(sc, p)
	table(doc, "profiles")[entry] = c.profileEntry(p)
	doc["profile"] = entry
	doc["model_provider"] = entry // kept for older codex releases

	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	return storage.AtomicReplace(c.path, data, 0600)
}

// Verify implements Adapter.
func (c *Codex) Verify(sc Sync, p models.Profile) (bool, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return false, nil
	}

	doc := map[string]any{}
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return false, nil
	}

	entry := EntryName(p.Name)
	if doc["profile"] != entry {
		return false, nil
	}

	provider, ok := table(doc, "model_providers")[entry].(map[string]any)
	if !ok {
		return false, nil
	}
	if provider["env_key"] != sc.EnvKey {
		return false, nil
	}
	if provider["base_url"] != registry.EffectiveBaseURL(p, sc.Preset) {
		return false, nil
	}

	profile, ok := table(doc, "profiles")[entry].(map[string]any)
	if !ok {
		return false, nil
	}
	if profile["model_provider"] != entry {
		return false, nil
	}
	if p.Model != "" && profile["model"] != p.Model {
		return false, nil
	}

	return true, nil
}

// Remove implements Adapter. Deletes exactly the two namespaced entries;
// the root pointer is cleared only when it still names this profile, so a
// pointer at some other profile survives.
func (c *Codex) Remove(name string) error {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return nil
	}

	doc := map[string]any{}
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil
	}

	entry := EntryName(name)
	changed := false

	for _, tableName := range []string{"model_providers", "profiles"} {
		if t, ok := doc[tableName].(map[string]any); ok {
			if _, exists := t[entry]; exists {
				delete(t, entry)
				changed = true
			}
		}
	}
	for _, rootKey := range []string{"profile", "model_provider"} {
		if doc[rootKey] == entry {
			delete(doc, rootKey)
			changed = true
		}
	}

	if !changed {
		return nil
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	return storage.AtomicReplace(c.path, data, 0600)
}
