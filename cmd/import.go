package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"swixter/internal/transfer"
)

var importFlags struct {
	overwrite bool
	force     bool
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import profiles from an exported file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importFlags.overwrite, "overwrite", false, "replace existing profiles with the same name")
	importCmd.Flags().BoolVar(&importFlags.force, "force", false, "import even if the file was exported sanitized")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}

	imported, skipped, err := transfer.Import(store, args[0], importFlags.overwrite, importFlags.force)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d profile(s), skipped %d\n", imported, skipped)
	return nil
}
