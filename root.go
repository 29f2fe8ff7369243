package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "notes",
	Short: "Notes HTTP service backed by MongoDB",
	Long: `notes serves create, list, update and delete of notes over HTTP.
Every listed note carries the username of its owner.

Running without a subcommand starts the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file; environment variables override it")
}
