package syncer

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swixter/config"
	"swixter/config/models"
	"swixter/internal/coder"
	"swixter/internal/registry"
)

// fakeAdapter records calls and plays back canned results.
type fakeAdapter struct {
	name        string
	applied     []models.Profile
	appliedSync []coder.Sync
	removed     []string
	verifyOK    bool
	applyErr    error
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Apply(sc coder.Sync, p models.Profile) error {
	f.applied = append(f.applied, p)
	f.appliedSync = append(f.appliedSync, sc)
	return f.applyErr
}

func (f *fakeAdapter) Verify(sc coder.Sync, p models.Profile) (bool, error) {
	return f.verifyOK, nil
}

func (f *fakeAdapter) Remove(name string) error {
	f.removed = append(f.removed, name)
	return nil
}

func setupSyncer(t *testing.T) (*Syncer, *config.Store, map[string]*fakeAdapter) {
	t.Helper()
	store := config.NewStoreAt(filepath.Join(t.TempDir(), "profiles.json"))

	fakes := map[string]*fakeAdapter{}
	for _, name := range models.Coders() {
		fakes[name] = &fakeAdapter{name: name, verifyOK: true}
	}

	s := New(store, registry.New(""))
	s.Adapters = func(name string) (coder.Adapter, error) {
		a, ok := fakes[name]
		if !ok {
			return nil, errors.New("unknown coder: " + name)
		}
		return a, nil
	}
	return s, store, fakes
}

func TestApplyResolvesActiveProfileAndEnvKey(t *testing.T) {
	s, store, fakes := setupSyncer(t)

	require.NoError(t, store.Upsert(models.Profile{Name: "work", Provider: "anthropic", APIKey: "sk-1"}, ""))

	verified, err := s.Apply(models.CoderClaude)
	require.NoError(t, err)
	assert.True(t, verified)

	fake := fakes[models.CoderClaude]
	require.Len(t, fake.applied, 1)
	assert.Equal(t, "work", fake.applied[0].Name)
	// The env key comes from the preset, through the one precedence function
	assert.Equal(t, "ANTHROPIC_API_KEY", fake.appliedSync[0].EnvKey)
	require.NotNil(t, fake.appliedSync[0].Preset)
	assert.Equal(t, "anthropic", fake.appliedSync[0].Preset.ID)
}

func TestApplyEnvKeyOverride(t *testing.T) {
	s, store, fakes := setupSyncer(t)

	require.NoError(t, store.Upsert(models.Profile{
		Name: "work", Provider: "anthropic", APIKey: "sk-1", EnvKey: "MY_PROXY_KEY",
	}, ""))

	_, err := s.Apply(models.CoderCodex)
	require.NoError(t, err)
	assert.Equal(t, "MY_PROXY_KEY", fakes[models.CoderCodex].appliedSync[0].EnvKey)
}

func TestApplyNoActiveProfile(t *testing.T) {
	s, _, _ := setupSyncer(t)

	_, err := s.Apply(models.CoderClaude)
	assert.Error(t, err)
}

func TestApplyUnknownProviderIsHardError(t *testing.T) {
	s, store, fakes := setupSyncer(t)

	require.NoError(t, store.Upsert(models.Profile{Name: "work", Provider: "gone", APIKey: "sk-1"}, ""))

	_, err := s.Apply(models.CoderClaude)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
	assert.Empty(t, fakes[models.CoderClaude].applied, "no file may be touched on unknown provider")
}

func TestApplyReportsFailedVerification(t *testing.T) {
	s, store, fakes := setupSyncer(t)
	require.NoError(t, store.Upsert(models.Profile{Name: "work", Provider: "anthropic", APIKey: "sk-1"}, ""))

	fakes[models.CoderClaude].verifyOK = false
	verified, err := s.Apply(models.CoderClaude)
	require.NoError(t, err, "a verify mismatch is a signal, not an error")
	assert.False(t, verified)
}

func TestVerifyAll(t *testing.T) {
	s, store, fakes := setupSyncer(t)
	require.NoError(t, store.Upsert(models.Profile{Name: "work", Provider: "anthropic", APIKey: "sk-1"}, ""))
	// First profile activates everywhere; knock out one pointer
	require.NoError(t, store.Upsert(models.Profile{Name: "other", Provider: "openai", APIKey: "sk-2"}, ""))
	require.NoError(t, store.Delete("work"))
	fakes[models.CoderCodex].verifyOK = false

	statuses := s.VerifyAll()
	require.Len(t, statuses, len(models.Coders()))
	byCoder := map[string]Status{}
	for _, st := range statuses {
		byCoder[st.Coder] = st
	}
	assert.True(t, byCoder[models.CoderClaude].Verified)
	assert.False(t, byCoder[models.CoderCodex].Verified)
	assert.Equal(t, "other", byCoder[models.CoderClaude].Active)
}

func TestRemoveProfileFansOut(t *testing.T) {
	s, _, fakes := setupSyncer(t)

	require.NoError(t, s.RemoveProfile("work"))
	for _, name := range models.Coders() {
		assert.Equal(t, []string{"work"}, fakes[name].removed)
	}
}

func TestLaunchMissingExecutable(t *testing.T) {
	s, store, _ := setupSyncer(t)
	require.NoError(t, store.Upsert(models.Profile{Name: "work", Provider: "anthropic", APIKey: "sk-1"}, ""))

	// Point the lookup at a binary that cannot exist
	t.Setenv("PATH", t.TempDir())

	_, err := s.Launch(models.CoderClaude, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCoderNotInstalled))
	assert.Contains(t, err.Error(), "installed")
}
