package coder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"swixter/config/models"
)

func newTestContinue(t *testing.T) *Continue {
	t.Helper()
	return NewContinue(filepath.Join(t.TempDir(), "config.yaml"))
}

func parseYAML(t *testing.T, path string) map[string]any {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := map[string]any{}
	require.NoError(t, yaml.Unmarshal(raw, &doc))
	return doc
}

func modelsList(t *testing.T, doc map[string]any) []any {
	t.Helper()
	list, ok := doc["models"].([]any)
	require.True(t, ok, "expected a models list")
	return list
}

func TestContinueUpsertByTitle(t *testing.T) {
	c := newTestContinue(t)
	existing := `name: my-assistant
version: 1.0.0
models:
  - title: other
    provider: openai
    apiBase: https://api.openai.com/v1
    model: gpt-4o
context:
  - provider: code
`
	require.NoError(t, os.WriteFile(c.path, []byte(existing), 0600))

	p := models.Profile{Name: "mine", Provider: "anthropic", APIKey: "sk-1", Model: "claude-sonnet-4-20250514"}
	require.NoError(t, c.Apply(anthropicSync(), p))

	doc := parseYAML(t, c.path)
	list := modelsList(t, doc)
	require.Len(t, list, 2)

	// The foreign entry keeps its position and content
	other := list[0].(map[string]any)
	assert.Equal(t, "other", other["title"])
	assert.Equal(t, "gpt-4o", other["model"])

	// Ours is appended
	mine := list[1].(map[string]any)
	assert.Equal(t, "mine", mine["title"])
	assert.Equal(t, "anthropic", mine["provider"])
	assert.Equal(t, "https://api.anthropic.com", mine["apiBase"])
	assert.Equal(t, "sk-1", mine["apiKey"])
	assert.Equal(t, []any{"chat", "edit", "apply"}, mine["roles"])

	// Sibling top-level sections survive
	assert.Equal(t, "my-assistant", doc["name"])
	assert.NotNil(t, doc["context"])

	// Re-apply with a new base URL: same length, same index, updated entry
	p.BaseURL = "https://proxy.example.com"
	require.NoError(t, c.Apply(anthropicSync(), p))

	doc = parseYAML(t, c.path)
	list = modelsList(t, doc)
	require.Len(t, list, 2)
	assert.Equal(t, "other", list[0].(map[string]any)["title"])
	mine = list[1].(map[string]any)
	assert.Equal(t, "mine", mine["title"])
	assert.Equal(t, "https://proxy.example.com", mine["apiBase"])

	ok, err := c.Verify(anthropicSync(), p)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestContinueApplyFromEmpty(t *testing.T) {
	c := newTestContinue(t)
	p := models.Profile{Name: "work", Provider: "kimi", AuthToken: "tok-1"}

	require.NoError(t, c.Apply(Sync{EnvKey: "MOONSHOT_API_KEY"}, p))

	doc := parseYAML(t, c.path)
	list := modelsList(t, doc)
	require.Len(t, list, 1)
	entry := list[0].(map[string]any)
	assert.Equal(t, "work", entry["title"])
	// Unmapped provider ids fall back to the generic OpenAI-compatible type
	assert.Equal(t, "openai", entry["provider"])
	// The secondary credential doubles as the literal key when no API key is set
	assert.Equal(t, "tok-1", entry["apiKey"])
}

func TestContinueApplyIdempotent(t *testing.T) {
	c := newTestContinue(t)
	p := models.Profile{Name: "work", Provider: "anthropic", APIKey: "sk-1", Model: "claude-sonnet-4-20250514"}

	require.NoError(t, c.Apply(anthropicSync(), p))
	first, err := os.ReadFile(c.path)
	require.NoError(t, err)

	require.NoError(t, c.Apply(anthropicSync(), p))
	second, err := os.ReadFile(c.path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestContinueRemove(t *testing.T) {
	c := newTestContinue(t)
	existing := `models:
  - title: other
    provider: openai
  - title: mine
    provider: anthropic
`
	require.NoError(t, os.WriteFile(c.path, []byte(existing), 0600))

	require.NoError(t, c.Remove("mine"))

	doc := parseYAML(t, c.path)
	list := modelsList(t, doc)
	require.Len(t, list, 1)
	assert.Equal(t, "other", list[0].(map[string]any)["title"])
}

func TestContinueRemoveNoMatchDoesNotRewrite(t *testing.T) {
	c := newTestContinue(t)
	existing := "models:\n    - title: other\n      provider: openai\n"
	require.NoError(t, os.WriteFile(c.path, []byte(existing), 0600))

	require.NoError(t, c.Remove("ghost"))

	raw, err := os.ReadFile(c.path)
	require.NoError(t, err)
	assert.Equal(t, existing, string(raw), "no removal means no write at all")

	// Missing file is also a no-op
	require.NoError(t, os.Remove(c.path))
	assert.NoError(t, c.Remove("ghost"))
}

func TestContinueVerify(t *testing.T) {
	c := newTestContinue(t)
	sc := anthropicSync()
	p := models.Profile{Name: "work", Provider: "anthropic", APIKey: "sk-1"}

	// Missing and corrupt files are false, not errors
	ok, err := c.Verify(sc, p)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(c.path, []byte("{ not yaml"), 0600))
	ok, err = c.Verify(sc, p)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Apply(sc, p))
	ok, err = c.Verify(sc, p)
	require.NoError(t, err)
	assert.True(t, ok)

	// An entry written for a different credential does not verify
	ok, err = c.Verify(sc, models.Profile{Name: "work", Provider: "anthropic", APIKey: "sk-2"})
	require.NoError(t, err)
	assert.False(t, ok)
}
