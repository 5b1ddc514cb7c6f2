package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"swixter/internal/registry"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List provider presets",
	Long: `List built-in and user-defined provider presets. User presets live
next to the profile store and override builtins with the same id.`,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}

	reg := registry.New(store.UserPresetPath())
	for _, p := range reg.List() {
		fmt.Printf("%s %s\n", nameStyle.Render(p.ID), dimStyle.Render("("+p.Name+")"))
		fmt.Println(dimStyle.Render("    base url: " + p.BaseURL))
		envKey := p.EnvKey
		if envKey == "" {
			envKey = registry.FallbackEnvKey
		}
		fmt.Println(dimStyle.Render("    env key:  " + envKey))
		if len(p.Models) > 0 {
			fmt.Println(dimStyle.Render("    models:   " + strings.Join(p.Models, ", ")))
		}
	}
	return nil
}
