package syncer

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/rs/zerolog/log"

	"swixter/config"
	"swixter/config/models"
	"swixter/internal/coder"
	"swixter/internal/registry"
)

// ErrCoderNotInstalled marks a launch failure caused by a missing
// executable, so the command layer can print an install hint instead of a
// config error.
var ErrCoderNotInstalled = errors.New("coder executable not found")

// coderBinaries maps coder name -> executable name.
var coderBinaries = map[string]string{
	models.CoderClaude:   "claude",
	models.CoderCodex:    "codex",
	models.CoderContinue: "cn",
}

// Status is one coder's sync state, as reported by VerifyAll.
type Status struct {
	Coder    string
	Active   string
	Verified bool
}

// Syncer resolves a coder's active profile and pushes it through the
// matching adapter.
type Syncer struct {
	Store    *config.Store
	Registry *registry.Registry

	// Adapters resolves a coder name to its adapter. Defaults to the
	// package-level adapter registry; tests inject their own.
	Adapters func(name string) (coder.Adapter, error)
}

// New creates a Syncer over a store and a provider registry.
func New(store *config.Store, reg *registry.Registry) *Syncer {
	return &Syncer{
		Store:    store,
		Registry: reg,
		Adapters: coder.Get,
	}
}

// resolve loads the active profile for a coder and its provider context.
func (s *Syncer) resolve(coderName string) (*models.Profile, coder.Sync, error) {
	p, err := s.Store.GetActive(coderName)
	if err != nil {
		return nil, coder.Sync{}, err
	}

	preset, err := s.Registry.Resolve(p.Provider)
	if err != nil {
		return nil, coder.Sync{}, fmt.Errorf("profile '%s': %w", p.Name, err)
	}

	return p, coder.Sync{Preset: preset, EnvKey: registry.EffectiveEnvKey(*p, preset)}, nil
}

// Apply pushes the coder's active profile into its config file, then reads
// the file back. The returned boolean is the verify result; a false is a
// warning signal for the caller, not an error.
func (s *Syncer) Apply(coderName string) (bool, error) {
	p, sc, err := s.resolve(coderName)
	if err != nil {
		return false, err
	}

	adapter, err := s.Adapters(coderName)
	if err != nil {
		return false, err
	}

	if err := adapter.Apply(sc, *p); err != nil {
		return false, fmt.Errorf("failed to apply profile '%s' to %s: %w", p.Name, coderName, err)
	}

	verified, err := adapter.Verify(sc, *p)
	if err != nil {
		return false, err
	}
	if !verified {
		log.Warn().Str("coder", coderName).Str("profile", p.Name).Msg("verification failed after apply")
	}
	return verified, nil
}

// Verify reads a coder's config file back without writing anything.
func (s *Syncer) Verify(coderName string) (bool, error) {
	p, sc, err := s.resolve(coderName)
	if err != nil {
		return false, err
	}

	adapter, err := s.Adapters(coderName)
	if err != nil {
		return false, err
	}
	return adapter.Verify(sc, *p)
}

// VerifyAll reports the sync state of every known coder. Coders with no
// active profile are reported with an empty Active name.
func (s *Syncer) VerifyAll() []Status {
	statuses := make([]Status, 0, len(models.Coders()))
	for _, coderName := range models.Coders() {
		status := Status{Coder: coderName, Active: s.Store.ActiveName(coderName)}
		if status.Active != "" {
			verified, err := s.Verify(coderName)
			status.Verified = err == nil && verified
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// RemoveProfile clears a profile's footprint from every coder's config
// file. Best-effort: adapters treat missing state as a no-op.
func (s *Syncer) RemoveProfile(name string) error {
	for _, coderName := range models.Coders() {
		adapter, err := s.Adapters(coderName)
		if err != nil {
			continue
		}
		if err := adapter.Remove(name); err != nil {
			return fmt.Errorf("failed to remove profile '%s' from %s: %w", name, coderName, err)
		}
	}
	return nil
}

// Launch applies the coder's config, then hands off to the coder process
// attached to the current terminal. The child environment carries the
// profile's credential under its effective env key. Returns the child's
// exit code.
func (s *Syncer) Launch(coderName string, args []string) (int, error) {
	p, sc, err := s.resolve(coderName)
	if err != nil {
		return 1, err
	}

	adapter, err := s.Adapters(coderName)
	if err != nil {
		return 1, err
	}
	if err := adapter.Apply(sc, *p); err != nil {
		return 1, fmt.Errorf("failed to apply profile '%s' to %s: %w", p.Name, coderName, err)
	}

	binary, ok := coderBinaries[coderName]
	if !ok {
		binary = coderName
	}

	path, err := exec.LookPath(binary)
	if err != nil {
		return 1, fmt.Errorf("%w: '%s' (is %s installed and on your PATH?)", ErrCoderNotInstalled, binary, coderName)
	}

	env := os.Environ()
	if cred := p.Credential(); cred != "" {
		env = append(env, fmt.Sprintf("%s=%s", sc.EnvKey, cred))
	}

	cmd := exec.Command(path, args...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 1, fmt.Errorf("failed to run %s: %w", binary, err)
	}
	return 0, nil
}
