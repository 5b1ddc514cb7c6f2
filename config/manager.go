package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"swixter/config/models"
	"swixter/config/storage"
	"swixter/config/validation"
)

// ErrProfileNotFound is returned when an operation references an unknown
// profile name.
var ErrProfileNotFound = errors.New("profile does not exist")

// Store owns the root document: all profiles plus the per-coder active
// pointers. Every operation is a read-modify-write of the whole file;
// there is no cross-process locking, the last writer wins.
type Store struct {
	path string
}

// NewStore creates a Store rooted at the standard per-user config path.
func NewStore() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	// Honor XDG_CONFIG_HOME for custom config locations
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		xdgConfigHome = filepath.Join(homeDir, ".config")
	}

	configDir := filepath.Join(xdgConfigHome, "swixter")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	return &Store{path: filepath.Join(configDir, "profiles.json")}, nil
}

// NewStoreAt creates a Store over an explicit file path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Path returns the path to the root document.
func (s *Store) Path() string {
	return s.path
}

// UserPresetPath returns the sibling path of the user-defined provider
// preset file. It is a separate file so presets can be edited or shared
// without touching profile data.
func (s *Store) UserPresetPath() string {
	return filepath.Join(filepath.Dir(s.path), "providers.json")
}

// Load reads the root document. It never fails: a missing file creates and
// persists a default empty root, and unreadable or invalid content is
// logged and replaced in memory with a default root so a broken file never
// blocks the user's command.
func (s *Store) Load() *models.Root {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			root := models.NewRoot()
			if saveErr := s.Save(root); saveErr != nil {
				log.Warn().Err(saveErr).Str("path", s.path).Msg("failed to persist default root document")
			}
			return root
		}
		log.Warn().Err(err).Str("path", s.path).Msg("failed to read root document, starting from empty")
		return models.NewRoot()
	}

	if len(data) == 0 {
		return models.NewRoot()
	}

	root, err := parseRoot(data)
	if err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("invalid root document, starting from empty")
		return models.NewRoot()
	}

	if err := validation.NewValidator().ValidateRoot(root); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("root document failed validation, starting from empty")
		return models.NewRoot()
	}

	return root
}

// parseRoot decodes the root document, upgrading the v1 flat-active schema
// to the current per-coder schema when needed.
func parseRoot(data []byte) (*models.Root, error) {
	var root models.Root
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse root document: %w", err)
	}

	if root.Version < models.SchemaVersion {
		var legacy models.LegacyRoot
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, fmt.Errorf("failed to parse legacy root document: %w", err)
		}
		return legacy.Upgrade(), nil
	}

	if root.Profiles == nil {
		root.Profiles = map[string]models.Profile{}
	}
	if root.Coders == nil {
		root.Coders = map[string]models.CoderState{}
	}
	return &root, nil
}

// Save validates the root document and rewrites the whole file atomically.
func (s *Store) Save(root *models.Root) error {
	if err := validation.NewValidator().ValidateRoot(root); err != nil {
		return err
	}

	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize root document: %w", err)
	}

	return storage.AtomicReplace(s.path, data, 0600)
}

// Upsert inserts or replaces a profile by name, preserving the original
// CreatedAt on replace. When coderHint names a coder with no active profile
// yet, or this is the very first profile in the store, the profile is
// activated accordingly.
func (s *Store) Upsert(p models.Profile, coderHint string) error {
	if err := validation.NewValidator().ValidateProfile(p); err != nil {
		return err
	}

	root := s.Load()

	now := time.Now().UTC()
	if existing, ok := root.Profiles[p.Name]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	firstProfile := len(root.Profiles) == 0
	root.Profiles[p.Name] = p

	if firstProfile {
		for _, coder := range models.Coders() {
			root.Coders[coder] = models.CoderState{Active: p.Name}
		}
	} else if coderHint != "" && root.Coders[coderHint].Active == "" {
		root.Coders[coderHint] = models.CoderState{Active: p.Name}
	}

	return s.Save(root)
}

// Get returns a profile by name.
func (s *Store) Get(name string) (*models.Profile, error) {
	root := s.Load()
	p, ok := root.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile '%s': %w", name, ErrProfileNotFound)
	}
	return &p, nil
}

// List returns all profiles sorted by name.
func (s *Store) List() []models.Profile {
	root := s.Load()
	list := make([]models.Profile, 0, len(root.Profiles))
	for _, p := range root.Profiles {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// SetActive marks a profile as the active one for a coder.
func (s *Store) SetActive(coder, name string) error {
	root := s.Load()

	if _, ok := root.Profiles[name]; !ok {
		return fmt.Errorf("profile '%s': %w", name, ErrProfileNotFound)
	}

	root.Coders[coder] = models.CoderState{Active: name}
	return s.Save(root)
}

// GetActive returns the active profile for a coder, or an error when the
// coder has none.
func (s *Store) GetActive(coder string) (*models.Profile, error) {
	root := s.Load()

	active := root.Coders[coder].Active
	if active == "" {
		return nil, fmt.Errorf("no active profile for coder '%s'", coder)
	}

	p, ok := root.Profiles[active]
	if !ok {
		return nil, fmt.Errorf("active profile '%s': %w", active, ErrProfileNotFound)
	}
	return &p, nil
}

// ActiveName returns the active profile name for a coder, or "".
func (s *Store) ActiveName(coder string) string {
	return s.Load().Coders[coder].Active
}

// Delete removes a profile. Every coder pointing at it is reassigned to
// some remaining profile, or cleared when none remain.
func (s *Store) Delete(name string) error {
	root := s.Load()

	if _, ok := root.Profiles[name]; !ok {
		return fmt.Errorf("profile '%s': %w", name, ErrProfileNotFound)
	}
	delete(root.Profiles, name)

	fallback := ""
	remaining := make([]string, 0, len(root.Profiles))
	for n := range root.Profiles {
		remaining = append(remaining, n)
	}
	if len(remaining) > 0 {
		sort.Strings(remaining)
		fallback = remaining[0]
	}

	for coder, state := range root.Coders {
		if state.Active == name {
			root.Coders[coder] = models.CoderState{Active: fallback}
		}
	}

	return s.Save(root)
}
