package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "igpilot",
	Short: "Bounded, quota-aware automation sessions against a mobile app UI",
	Long: `igpilot drives bounded automation sessions against a paginated,
dynamically-loading app UI: it walks likers and commenters of a source
account's posts, interacts with each first-time account, and stops the
session the moment any quota is reached or the working-hours window
closes.

The UI driver itself is an external integration; igpilot ships with a
scripted driver for dry runs and tests.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(authCmd)
}

// globalFlags collects the root flags for the config merge.
func globalFlags() map[string]interface{} {
	flags := make(map[string]interface{})
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	return flags
}
