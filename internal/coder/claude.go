package coder

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"swixter/config/models"
	"swixter/config/storage"
	"swixter/internal/registry"
)

// Managed env keys inside the settings file. The env object is fully
// replaced on every apply: keys not produced for the current profile
// disappear, including ones added by hand. All sibling top-level sections
// (permissions, hooks, ...) pass through untouched.
const (
	claudeKeyAPIKey     = "ANTHROPIC_API_KEY"
	claudeKeyAuthToken  = "ANTHROPIC_AUTH_TOKEN"
	claudeKeyBaseURL    = "ANTHROPIC_BASE_URL"
	claudeKeyModel      = "ANTHROPIC_MODEL"
	claudeKeyFastModel  = "ANTHROPIC_SMALL_FAST_MODEL"
	claudeKeyOpusModel  = "ANTHROPIC_DEFAULT_OPUS_MODEL"
	claudeKeyHaikuModel = "ANTHROPIC_DEFAULT_HAIKU_MODEL"
)

// Claude writes the flat settings-block target: a single JSON document
// whose "env" object holds the variables Claude Code reads at startup.
type Claude struct {
	path    string
	backups *storage.BackupManager
}

// NewClaude creates the adapter over an explicit settings path.
func NewClaude(path string) *Claude {
	return &Claude{
		path:    path,
		backups: storage.NewBackupManager(storage.DefaultBackupRetention),
	}
}

func init() {
	Register(NewClaude(joinHome(".claude", "settings.json")))
}

// Name implements Adapter.
func (c *Claude) Name() string { return models.CoderClaude }

// managedEnv computes the full set of env keys for a profile. Keys with no
// value for this profile are omitted, so switching profiles drops them.
func (c *Claude) managedEnv(sc Sync, p models.Profile) map[string]string {
	env := make(map[string]string)

	if p.APIKey != "" {
		env[claudeKeyAPIKey] = p.APIKey
	}
	if p.AuthToken != "" {
		env[claudeKeyAuthToken] = p.AuthToken
	}
	if baseURL := registry.EffectiveBaseURL(p, sc.Preset); baseURL != "" {
		env[claudeKeyBaseURL] = baseURL
	}
	if p.Model != "" {
		env[claudeKeyModel] = p.Model
	}
	if m := p.RoleModel(models.RoleFast); m != "" {
		env[claudeKeyFastModel] = m
	}
	if m := p.RoleModel(models.RoleOpus); m != "" {
		env[claudeKeyOpusModel] = m
	}
	if m := p.RoleModel(models.RoleHaiku); m != "" {
		env[claudeKeyHaikuModel] = m
	}

	return env
}

// Apply implements Adapter.
func (c *Claude) Apply(sc Sync, p models.Profile) error {
	content := "{}"
	backedUp := false
	if raw, err := os.ReadFile(c.path); err == nil && len(raw) > 0 {
		if gjson.ValidBytes(raw) {
			content = string(raw)
		} else {
			// Unparsable settings: keep a copy, then start from empty
			if _, berr := c.backups.CreateBackup(c.path); berr != nil {
				return berr
			}
			backedUp = true
		}
	}

	envJSON, err := json.Marshal(c.managedEnv(sc, p))
	if err != nil {
		return fmt.Errorf("failed to marshal env block: %w", err)
	}

	updated, err := sjson.SetRaw(content, "env", string(envJSON))
	if err != nil {
		return fmt.Errorf("failed to update env block: %w", err)
	}

	if err := validateSiblingsUnchanged(content, updated); err != nil {
		return fmt.Errorf("update validation failed: %w", err)
	}

	if storage.FileExists(c.path) && !backedUp {
		if _, err := c.backups.CreateBackup(c.path); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
		defer c.backups.CleanupOldBackups(c.path)
	}

	if err := storage.AtomicReplace(c.path, []byte(updated), 0600); err != nil {
		// Put the previous content back if we can
		if restoreErr := c.backups.RestoreFromLatestBackup(c.path); restoreErr == nil {
			return fmt.Errorf("failed to write settings file, restored previous content: %w", err)
		}
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// validateSiblingsUnchanged checks that the surgical update touched only
// the env object: every other top-level section must survive raw-identical.
func validateSiblingsUnchanged(original, updated string) error {
	var mismatch error
	gjson.Parse(original).ForEach(func(key, value gjson.Result) bool {
		if key.Str == "env" {
			return true
		}
		if updatedValue := gjson.Get(updated, key.Str); updatedValue.Raw != value.Raw {
			mismatch = fmt.Errorf("top-level section '%s' was modified", key.Str)
			return false
		}
		return true
	})
	return mismatch
}

// Verify implements Adapter. Every credential the profile supplies must
// match the file; supplying only one of the two is enough, but a matching
// one never covers for a stale other.
func (c *Claude) Verify(sc Sync, p models.Profile) (bool, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil || !gjson.ValidBytes(raw) {
		return false, nil
	}

	env := gjson.GetBytes(raw, "env")
	expected := c.managedEnv(sc, p)

	if p.APIKey != "" && env.Get(claudeKeyAPIKey).Str != p.APIKey {
		return false, nil
	}
	if p.AuthToken != "" && env.Get(claudeKeyAuthToken).Str != p.AuthToken {
		return false, nil
	}

	for _, key := range []string{claudeKeyBaseURL, claudeKeyModel, claudeKeyFastModel, claudeKeyOpusModel, claudeKeyHaikuModel} {
		if env.Get(key).Str != expected[key] {
			return false, nil
		}
	}

	return true, nil
}

// Remove implements Adapter. The settings block holds no per-profile
// state, so removal clears the managed keys regardless of name.
func (c *Claude) Remove(name string) error {
	raw, err := os.ReadFile(c.path)
	if err != nil || !gjson.ValidBytes(raw) {
		return nil
	}

	content := string(raw)
	changed := false
	for _, key := range []string{
		claudeKeyAPIKey, claudeKeyAuthToken, claudeKeyBaseURL,
		claudeKeyModel, claudeKeyFastModel, claudeKeyOpusModel, claudeKeyHaikuModel,
	} {
		if !gjson.Get(content, "env."+key).Exists() {
			continue
		}
		updated, derr := sjson.Delete(content, "env."+key)
		if derr != nil {
			return fmt.Errorf("failed to clear env key %s: %w", key, derr)
		}
		content = updated
		changed = true
	}

	if !changed {
		return nil
	}
	return storage.AtomicReplace(c.path, []byte(content), 0600)
}
