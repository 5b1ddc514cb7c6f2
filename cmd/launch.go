package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var launchCmd = &cobra.Command{
	Use:   "launch <coder> [args...]",
	Short: "Apply the active profile and start the coder",
	Long: `Apply the coder's active profile to its config file, set the
credential in the child environment, and start the coder attached to this
terminal. swixter exits with the coder's exit code.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLaunch,
}

func init() {
	rootCmd.AddCommand(launchCmd)
}

func runLaunch(cmd *cobra.Command, args []string) error {
	s, _, err := newSyncer()
	if err != nil {
		return err
	}

	code, err := s.Launch(args[0], args[1:])
	if err != nil {
		return err
	}

	os.Exit(code)
	return nil
}
