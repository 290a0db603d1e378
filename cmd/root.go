// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "github-insights",
	Short: "A CLI tool to chart a GitHub user's contributions per repository.",
	Long: `github-insights collects a user's yearly activity (commits, PRs created,
PRs merged, issues) and code churn (additions, deletions) for every repository
the user owns, and draws them as bar charts in the terminal, as SVG files or
through a JSON API for a web client.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().Int("concurrency", 0, "Number of repositories queried at once (overrides github.concurrency)")
}
