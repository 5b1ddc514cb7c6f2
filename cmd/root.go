package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"swixter/config"
	"swixter/internal/registry"
	"swixter/internal/syncer"
)

// Version information
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo sets the version information
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "swixter",
	Short: "Profile switcher for AI coding tools",
	Long: `swixter keeps named provider profiles (credentials, base URL, models)
and pushes the active one into the native config files of claude, codex
and continue without touching anything else in those files.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute executes the root command
func Execute() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd.Version = version
	rootCmd.SetVersionTemplate(`swixter {{.Version}}
Commit: ` + commit + `
Date: ` + date + `
`)

	return rootCmd.Execute()
}

// newStore opens the profile store at the standard per-user path.
func newStore() (*config.Store, error) {
	return config.NewStore()
}

// newSyncer wires a store and its sibling provider registry together.
func newSyncer() (*syncer.Syncer, *config.Store, error) {
	store, err := newStore()
	if err != nil {
		return nil, nil, err
	}
	reg := registry.New(store.UserPresetPath())
	return syncer.New(store, reg), store, nil
}
