package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the sync state of every coder",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, _, err := newSyncer()
	if err != nil {
		return err
	}

	for _, st := range s.VerifyAll() {
		switch {
		case st.Active == "":
			fmt.Printf("%-10s no active profile\n", st.Coder)
		case st.Verified:
			fmt.Printf("%-10s %s %s\n", st.Coder, st.Active, activeStyle.Render("(in sync)"))
		default:
			fmt.Printf("%-10s %s (out of sync, run 'swixter apply %s')\n", st.Coder, st.Active, st.Coder)
		}
	}
	return nil
}
