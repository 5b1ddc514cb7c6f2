package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"swixter/config"
	"swixter/config/models"
	"swixter/internal/utils"
)

// ErrSanitizedImport is returned when an import source was exported with
// masked credentials and the caller did not explicitly override.
var ErrSanitizedImport = errors.New("file was exported sanitized; its credentials are masked placeholders (use --force to import anyway)")

// Export writes the store's profiles to path. With sanitize set, every
// credential is masked (first and last four characters kept) and the file
// is flagged so an import can refuse it.
func Export(store *config.Store, path string, sanitize bool) (int, error) {
	file := models.ExportFile{
		Version:   models.SchemaVersion,
		Sanitized: sanitize,
		Profiles:  map[string]models.Profile{},
	}

	for _, p := range store.List() {
		if sanitize {
			p.APIKey = utils.MaskCredential(p.APIKey)
			p.AuthToken = utils.MaskCredential(p.AuthToken)
		}
		file.Profiles[p.Name] = p
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to serialize export: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return 0, fmt.Errorf("failed to write export file: %w", err)
	}
	return len(file.Profiles), nil
}

// Import reads profiles from path into the store. Sanitized files are
// rejected outright unless force is set; nothing is partially imported.
// With overwrite, an incoming profile replaces an existing one of the same
// name; otherwise it is skipped. Returns (imported, skipped).
func Import(store *config.Store, path string, overwrite, force bool) (int, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read import file: %w", err)
	}

	var file models.ExportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return 0, 0, fmt.Errorf("failed to parse import file: %w", err)
	}

	if file.Sanitized && !force {
		return 0, 0, ErrSanitizedImport
	}

	existing := map[string]bool{}
	for _, p := range store.List() {
		existing[p.Name] = true
	}

	imported, skipped := 0, 0
	for name, p := range file.Profiles {
		if p.Name == "" {
			p.Name = name
		}
		if existing[p.Name] && !overwrite {
			skipped++
			continue
		}
		if err := store.Upsert(p, ""); err != nil {
			return imported, skipped, fmt.Errorf("failed to import profile '%s': %w", p.Name, err)
		}
		imported++
	}

	return imported, skipped, nil
}
