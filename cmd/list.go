package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"swixter/config/models"
	"swixter/internal/utils"
)

var (
	nameStyle   = lipgloss.NewStyle().Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}

	profiles := store.List()
	if len(profiles) == 0 {
		fmt.Println("No profiles yet. Create one with 'swixter add'.")
		return nil
	}

	activeFor := map[string][]string{}
	for _, coder := range models.Coders() {
		if active := store.ActiveName(coder); active != "" {
			activeFor[active] = append(activeFor[active], coder)
		}
	}

	for _, p := range profiles {
		line := nameStyle.Render(p.Name) + dimStyle.Render(" ("+p.Provider+")")
		if coders := activeFor[p.Name]; len(coders) > 0 {
			line += "  " + activeStyle.Render("active: "+strings.Join(coders, ", "))
		}
		fmt.Println(line)

		if cred := p.Credential(); cred != "" {
			fmt.Println(dimStyle.Render("    credential: " + utils.MaskCredential(cred)))
		}
		if p.BaseURL != "" {
			fmt.Println(dimStyle.Render("    base url:   " + p.BaseURL))
		}
		if p.Model != "" {
			fmt.Println(dimStyle.Render("    model:      " + p.Model))
		}
	}

	return nil
}
