package validation

import (
	"fmt"
	"regexp"

	"swixter/config/models"
	"swixter/internal/utils"
)

// Profile names: letters, digits, underscore, hyphen; at least two characters.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{2,}$`)

// Validator validates profiles and root documents before they are persisted
type Validator struct {
}

// NewValidator creates a new Validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateProfile validates a single profile record
func (v *Validator) ValidateProfile(p models.Profile) error {
	if !namePattern.MatchString(p.Name) {
		return fmt.Errorf("invalid profile name '%s': use letters, digits, underscore or hyphen, minimum length 2", p.Name)
	}

	if p.Provider == "" {
		return fmt.Errorf("profile '%s' has no provider", p.Name)
	}

	if p.BaseURL != "" && !utils.ValidateURL(p.BaseURL) {
		return fmt.Errorf("invalid URL format: %s", p.BaseURL)
	}

	return nil
}

// ValidateRoot validates the whole root document: every profile is valid and
// every non-empty active pointer references an existing profile.
func (v *Validator) ValidateRoot(root *models.Root) error {
	if root.Version != models.SchemaVersion {
		return fmt.Errorf("unsupported schema version %d", root.Version)
	}

	for name, p := range root.Profiles {
		if p.Name != name {
			return fmt.Errorf("profile key '%s' does not match profile name '%s'", name, p.Name)
		}
		if err := v.ValidateProfile(p); err != nil {
			return err
		}
	}

	for coder, state := range root.Coders {
		if state.Active == "" {
			continue
		}
		if _, ok := root.Profiles[state.Active]; !ok {
			return fmt.Errorf("coder '%s' references unknown profile '%s'", coder, state.Active)
		}
	}

	return nil
}
