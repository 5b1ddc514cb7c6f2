package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"swixter/config/models"
	"swixter/internal/registry"
)

var addFlags struct {
	provider   string
	apiKey     string
	authToken  string
	baseURL    string
	model      string
	envKey     string
	modelOpus  string
	modelHaiku string
	modelFast  string
	use        string
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or update a profile",
	Long: `Add a profile or replace an existing one of the same name.
The provider id must match a built-in or user-defined preset.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addFlags.provider, "provider", "p", "", "provider id (see 'swixter providers')")
	addCmd.Flags().StringVarP(&addFlags.apiKey, "key", "k", "", "API key")
	addCmd.Flags().StringVarP(&addFlags.authToken, "token", "t", "", "auth token (for dual-credential targets)")
	addCmd.Flags().StringVarP(&addFlags.baseURL, "url", "u", "", "base URL override")
	addCmd.Flags().StringVarP(&addFlags.model, "model", "m", "", "model name")
	addCmd.Flags().StringVar(&addFlags.envKey, "env-key", "", "credential environment variable name override")
	addCmd.Flags().StringVar(&addFlags.modelOpus, "model-opus", "", "model for the opus role")
	addCmd.Flags().StringVar(&addFlags.modelHaiku, "model-haiku", "", "model for the haiku role")
	addCmd.Flags().StringVar(&addFlags.modelFast, "model-fast", "", "model for the fast role")
	addCmd.Flags().StringVar(&addFlags.use, "use", "", "activate for this coder if it has no active profile yet")
	addCmd.MarkFlagRequired("provider")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}

	// Unknown provider is a hard error before any file is touched
	reg := registry.New(store.UserPresetPath())
	if _, err := reg.Resolve(addFlags.provider); err != nil {
		return err
	}

	profile := models.Profile{
		Name:      args[0],
		Provider:  addFlags.provider,
		APIKey:    addFlags.apiKey,
		AuthToken: addFlags.authToken,
		BaseURL:   addFlags.baseURL,
		Model:     addFlags.model,
		EnvKey:    addFlags.envKey,
	}

	roleModels := map[string]string{}
	if addFlags.modelOpus != "" {
		roleModels[models.RoleOpus] = addFlags.modelOpus
	}
	if addFlags.modelHaiku != "" {
		roleModels[models.RoleHaiku] = addFlags.modelHaiku
	}
	if addFlags.modelFast != "" {
		roleModels[models.RoleFast] = addFlags.modelFast
	}
	if len(roleModels) > 0 {
		profile.Models = roleModels
	}

	if err := store.Upsert(profile, addFlags.use); err != nil {
		return err
	}

	fmt.Printf("Saved profile '%s' (provider: %s)\n", profile.Name, profile.Provider)
	return nil
}
