package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"swixter/internal/transfer"
)

var exportSanitize bool

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export all profiles to a file",
	Long: `Export all profiles to a JSON file. With --sanitize, credentials are
masked so the file can be shared; a sanitized file is refused on import
unless forced.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportSanitize, "sanitize", false, "mask credentials in the export")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}

	count, err := transfer.Export(store, args[0], exportSanitize)
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d profile(s) to %s\n", count, args[0])
	return nil
}
