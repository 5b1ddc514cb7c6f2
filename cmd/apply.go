package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply <coder>",
	Short: "Re-apply the coder's active profile to its config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	s, _, err := newSyncer()
	if err != nil {
		return err
	}

	verified, err := s.Apply(args[0])
	if err != nil {
		return err
	}
	if verified {
		fmt.Printf("%s: config is in sync\n", args[0])
	} else {
		fmt.Printf("%s: applied, but verification failed. Check the config file\n", args[0])
	}
	return nil
}
