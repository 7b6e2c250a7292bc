// Package cmd is for command line interactions with the foldvedic
// application
package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sarat-asymmetrica/foldvedic/config"
)

var (
	// path to an optional settings.yaml overriding the defaults
	settingsPath string

	// verbose switches the logger to debug-level console output
	verbose bool
)

// RootCmd represents the base command when called without any
// subcommands
var RootCmd = &cobra.Command{
	Use: "foldvedic",
	Short: `Evaluate and refine candidate protein backbone conformations.
Candidates are gated on structural validity, refined by a configurable
strategy, and ranked by clash-penalized energy`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to
// happen once to the RootCmd
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "path to a settings.yaml overriding defaults")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log per-candidate decisions")
}

// initConfig installs defaults and reads the optional settings file
func initConfig() {
	config.SetDefaults()

	if settingsPath != "" {
		viper.SetConfigFile(settingsPath)
		if err := viper.ReadInConfig(); err != nil {
			log.Fatalf("failed to read settings file: %v", err)
		}
	}
}
