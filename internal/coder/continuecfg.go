package coder

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"swixter/config/models"
	"swixter/config/storage"
	"swixter/internal/registry"
)

// modelRoles is the fixed role set every written entry carries.
var modelRoles = []string{"chat", "edit", "apply"}

// providerTypes translates a provider id to the provider type the models
// list understands. Unmapped ids fall back to the generic
// OpenAI-compatible type.
var providerTypes = map[string]string{
	"anthropic": "anthropic",
	"openai":    "openai",
	"deepseek":  "deepseek",
	"ollama":    "ollama",
	"mistral":   "mistral",
}

// Continue writes the list-structured target: a YAML document whose
// top-level "models" list holds one entry per model. Entries are upserted
// by title, in place, so foreign entries and their order survive.
type Continue struct {
	path    string
	backups *storage.BackupManager
}

// NewContinue creates the adapter over an explicit config path.
func NewContinue(path string) *Continue {
	return &Continue{
		path:    path,
		backups: storage.NewBackupManager(storage.DefaultBackupRetention),
	}
}

func init() {
	Register(NewContinue(joinHome(".continue", "config.yaml")))
}

// Name implements Adapter.
func (c *Continue) Name() string { return models.CoderContinue }

// providerType maps a provider id to the external provider type.
func providerType(id string) string {
	if t, ok := providerTypes[id]; ok {
		return t
	}
	return "openai"
}

// modelEntry builds the list entry for a profile.
func (c *Continue) modelEntry(sc Sync, p models.Profile) map[string]any {
	entry := map[string]any{
		"title":    p.Name,
		"provider": providerType(p.Provider),
		"apiBase":  registry.EffectiveBaseURL(p, sc.Preset),
	}
	if cred := p.Credential(); cred != "" {
		entry["apiKey"] = cred
	}
	if p.Model != "" {
		entry["model"] = p.Model
	}
	roles := make([]any, len(modelRoles))
	for i, role := range modelRoles {
		roles[i] = role
	}
	entry["roles"] = roles
	return entry
}

// readDocument parses the existing file. Unparsable content is backed up
// and replaced with an empty document.
func (c *Continue) readDocument() (map[string]any, error) {
	doc := map[string]any{}

	raw, err := os.ReadFile(c.path)
	if err != nil || len(raw) == 0 {
		return doc, nil
	}

	if uerr := yaml.Unmarshal(raw, &doc); uerr != nil {
		if _, berr := c.backups.CreateBackup(c.path); berr != nil {
			return nil, fmt.Errorf("failed to back up unparsable config: %w", berr)
		}
		return map[string]any{}, nil
	}

	return doc, nil
}

// entryTitle extracts the title of a models-list entry, if it has one.
func entryTitle(item any) (string, bool) {
	m, ok := item.(map[string]any)
	if !ok {
		return "", false
	}
	title, ok := m["title"].(string)
	return title, ok
}

// Apply implements Adapter. Upsert by title: an existing entry with the
// profile's name is replaced at its list position, otherwise the entry is
// appended. Everything else in the document is preserved.
func (c *Continue) Apply(sc Sync, p models.Profile) error {
	doc, err := c.readDocument()
	if err != nil {
		return err
	}

	entry := c.modelEntry(sc, p)

	list, _ := doc["models"].([]any)
	replaced := false
	for i, item := range list {
		if title, ok := entryTitle(item); ok && title == p.Name {
			list[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, entry)
	}
	doc["models"] = list

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	return storage.AtomicReplace(c.path, data, 0600)
}

// Verify implements Adapter.
func (c *Continue) Verify(sc Sync, p models.Profile) (bool, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return false, nil
	}

	doc := map[string]any{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return false, nil
	}

	list, _ := doc["models"].([]any)
	for _, item := range list {
		title, ok := entryTitle(item)
		if !ok || title != p.Name {
			continue
		}
		m := item.(map[string]any)
		if m["provider"] != providerType(p.Provider) {
			return false, nil
		}
		if m["apiBase"] != registry.EffectiveBaseURL(p, sc.Preset) {
			return false, nil
		}
		if cred := p.Credential(); cred != "" && m["apiKey"] != cred {
			return false, nil
		}
		if p.Model != "" && m["model"] != p.Model {
			return false, nil
		}
		return true, nil
	}

	return false, nil
}

// Remove implements Adapter. Drops the single entry whose title matches
// and rewrites only when a removal actually occurred.
func (c *Continue) Remove(name string) error {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return nil
	}

	doc := map[string]any{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil
	}

	list, _ := doc["models"].([]any)
	filtered := make([]any, 0, len(list))
	removed := false
	for _, item := range list {
		if title, ok := entryTitle(item); ok && title == name && !removed {
			removed = true
			continue
		}
		filtered = append(filtered, item)
	}

	if !removed {
		return nil
	}

	doc["models"] = filtered
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	return storage.AtomicReplace(c.path, data, 0600)
}
