package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swixter/config/models"
)

func TestEffectiveEnvKeyPrecedence(t *testing.T) {
	preset := &Preset{ID: "anthropic", EnvKey: "ANTHROPIC_API_KEY"}
	bare := &Preset{ID: "custom"}

	tests := []struct {
		name     string
		override string
		preset   *Preset
		want     string
	}{
		{"override wins over preset", "MY_KEY", preset, "MY_KEY"},
		{"override wins over nothing", "MY_KEY", bare, "MY_KEY"},
		{"override wins over nil preset", "MY_KEY", nil, "MY_KEY"},
		{"preset default", "", preset, "ANTHROPIC_API_KEY"},
		{"fallback when preset has none", "", bare, FallbackEnvKey},
		{"fallback when preset is nil", "", nil, FallbackEnvKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.Profile{Name: "work", Provider: "anthropic", EnvKey: tt.override}
			assert.Equal(t, tt.want, EffectiveEnvKey(p, tt.preset))
		})
	}
}

// The precedence chain is override -> preset default -> fallback, for every
// combination of present/absent values.
func TestEffectiveEnvKeyProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	maybeKey := gen.OneGenOf(gen.Const(""), gen.Identifier())

	properties.Property("resolved key is the first non-empty of override, preset, fallback", prop.ForAll(
		func(override, presetKey string) bool {
			p := models.Profile{Name: "work", Provider: "x", EnvKey: override}
			preset := &Preset{ID: "x", EnvKey: presetKey}
			got := EffectiveEnvKey(p, preset)
			switch {
			case override != "":
				return got == override
			case presetKey != "":
				return got == presetKey
			default:
				return got == FallbackEnvKey
			}
		},
		maybeKey,
		maybeKey,
	))

	properties.TestingRun(t)
}

func TestResolveBuiltins(t *testing.T) {
	reg := New("")

	p, err := reg.Resolve("anthropic")
	require.NoError(t, err)
	assert.Equal(t, "https://api.anthropic.com", p.BaseURL)
	assert.Equal(t, "ANTHROPIC_API_KEY", p.EnvKey)

	_, err = reg.Resolve("no-such-provider")
	assert.Error(t, err)
}

func TestUserPresetOverridesBuiltin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.json")
	userPresets := `[
  {"id": "anthropic", "name": "Anthropic Proxy", "base_url": "https://proxy.internal", "env_key": "PROXY_KEY"},
  {"id": "my-gateway", "name": "Gateway", "base_url": "https://gw.example.com"}
]`
	require.NoError(t, os.WriteFile(path, []byte(userPresets), 0600))

	reg := New(path)

	// Override semantics: the user preset replaces the builtin outright
	p, err := reg.Resolve("anthropic")
	require.NoError(t, err)
	assert.Equal(t, "https://proxy.internal", p.BaseURL)
	assert.Equal(t, "PROXY_KEY", p.EnvKey)
	assert.Empty(t, p.Models, "builtin fields must not be merged in")

	gw, err := reg.Resolve("my-gateway")
	require.NoError(t, err)
	assert.Equal(t, "https://gw.example.com", gw.BaseURL)
}

func TestUnreadableUserPresetsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	// Broken preset file never blocks the command; builtins still resolve
	reg := New(path)
	_, err := reg.Resolve("openai")
	assert.NoError(t, err)
}

func TestListSortedByID(t *testing.T) {
	reg := New("")
	list := reg.List()
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}
}

func TestEffectiveBaseURL(t *testing.T) {
	preset := &Preset{ID: "anthropic", BaseURL: "https://api.anthropic.com"}

	p := models.Profile{Name: "work", Provider: "anthropic"}
	assert.Equal(t, "https://api.anthropic.com", EffectiveBaseURL(p, preset))

	p.BaseURL = "https://proxy.example.com"
	assert.Equal(t, "https://proxy.example.com", EffectiveBaseURL(p, preset))

	assert.Equal(t, "https://proxy.example.com", EffectiveBaseURL(p, nil))

	// Trailing slashes never reach a config file
	p.BaseURL = "https://proxy.example.com/"
	assert.Equal(t, "https://proxy.example.com", EffectiveBaseURL(p, preset))
}
