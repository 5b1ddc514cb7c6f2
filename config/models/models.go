package models

import "time"

// SchemaVersion is the current root document schema version.
// Version 1 kept a single flat "active" pointer; version 2 tracks an
// active profile per coder.
const SchemaVersion = 2

// Known coder names. Each one has a matching adapter.
const (
	CoderClaude   = "claude"
	CoderCodex    = "codex"
	CoderContinue = "continue"
)

// Coders returns the known coder names in a stable order.
func Coders() []string {
	return []string{CoderClaude, CoderCodex, CoderContinue}
}

// Model roles for coders that expose multiple model slots.
const (
	RoleOpus  = "opus"
	RoleHaiku = "haiku"
	RoleFast  = "fast"
)

// Profile is a named bundle of provider id, credentials and overrides.
// Profiles are coder-agnostic: the same profile can be active for several
// coders at once.
type Profile struct {
	Name      string            `json:"name"`
	Provider  string            `json:"provider"`
	APIKey    string            `json:"api_key,omitempty"`
	AuthToken string            `json:"auth_token,omitempty"`
	BaseURL   string            `json:"base_url,omitempty"`
	Model     string            `json:"model,omitempty"`
	EnvKey    string            `json:"env_key,omitempty"`
	Models    map[string]string `json:"models,omitempty"` // role -> model name
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// RoleModel returns the model configured for a role, or "".
func (p Profile) RoleModel(role string) string {
	if p.Models == nil {
		return ""
	}
	return p.Models[role]
}

// Credential returns the primary credential value: the API key when set,
// otherwise the auth token.
func (p Profile) Credential() string {
	if p.APIKey != "" {
		return p.APIKey
	}
	return p.AuthToken
}

// CoderState holds the per-coder portion of the root document.
type CoderState struct {
	Active string `json:"active,omitempty"`
}

// Root is the persisted root document: all profiles plus, per coder,
// which profile is currently active.
type Root struct {
	Version  int                   `json:"version"`
	Profiles map[string]Profile    `json:"profiles"`
	Coders   map[string]CoderState `json:"coders"`
}

// NewRoot returns an empty root at the current schema version.
func NewRoot() *Root {
	return &Root{
		Version:  SchemaVersion,
		Profiles: map[string]Profile{},
		Coders:   map[string]CoderState{},
	}
}

// LegacyRoot is the version 1 schema with a single global active pointer.
// It is upgraded on load, never written back.
type LegacyRoot struct {
	Version  int                `json:"version"`
	Active   string             `json:"active,omitempty"`
	Profiles map[string]Profile `json:"profiles"`
}

// Upgrade converts a v1 root to the current schema. The flat active
// pointer becomes the active profile of every known coder.
func (l *LegacyRoot) Upgrade() *Root {
	root := NewRoot()
	for name, p := range l.Profiles {
		if p.Name == "" {
			p.Name = name
		}
		root.Profiles[name] = p
	}
	if l.Active != "" {
		if _, ok := root.Profiles[l.Active]; ok {
			for _, coder := range Coders() {
				root.Coders[coder] = CoderState{Active: l.Active}
			}
		}
	}
	return root
}

// ExportFile is the on-disk shape of an export. It reuses the Profile
// record 1:1; Sanitized marks exports whose credentials were masked.
type ExportFile struct {
	Version   int                `json:"version"`
	Sanitized bool               `json:"sanitized,omitempty"`
	Profiles  map[string]Profile `json:"profiles"`
}
