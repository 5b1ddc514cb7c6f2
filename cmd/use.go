package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"swixter/config/models"
)

var useCoder string

var useCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Activate a profile for a coder and apply it",
	Long: `Mark a profile as the active one for a coder, write the coder's
config file, and read it back to verify. With --coder all, the profile is
activated and applied for every known coder.`,
	Args: cobra.ExactArgs(1),
	RunE: runUse,
}

func init() {
	useCmd.Flags().StringVarP(&useCoder, "coder", "c", "all", "coder to activate for (claude, codex, continue, all)")
	rootCmd.AddCommand(useCmd)
}

func runUse(cmd *cobra.Command, args []string) error {
	s, store, err := newSyncer()
	if err != nil {
		return err
	}

	name := args[0]
	coders := []string{useCoder}
	if useCoder == "all" {
		coders = models.Coders()
	}

	for _, coderName := range coders {
		if err := store.SetActive(coderName, name); err != nil {
			return err
		}
		verified, err := s.Apply(coderName)
		if err != nil {
			return err
		}
		if verified {
			fmt.Printf("%s: now using '%s'\n", coderName, name)
		} else {
			fmt.Printf("%s: applied '%s', but verification failed. Check the config file\n", coderName, name)
		}
	}

	return nil
}
