package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var removeKeepFiles bool

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete a profile",
	Long: `Delete a profile from the store. Coders whose active profile it was
fall back to another profile, or to none. The profile's footprint in the
coder config files is cleaned up unless --keep-files is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVar(&removeKeepFiles, "keep-files", false, "leave coder config files untouched")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	s, store, err := newSyncer()
	if err != nil {
		return err
	}

	name := args[0]
	if err := store.Delete(name); err != nil {
		return err
	}

	if !removeKeepFiles {
		// Best-effort cleanup; the store delete already succeeded
		if err := s.RemoveProfile(name); err != nil {
			log.Warn().Err(err).Str("profile", name).Msg("failed to clean up coder config files")
		}
	}

	fmt.Printf("Removed profile '%s'\n", name)
	return nil
}
