// Command hamlet converts test suites between frameworks.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// Populated at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfgFile     string
	profileName string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "hamlet",
	Short: "Migrate test suites between testing frameworks",
	Long: `hamlet parses test sources into a framework-agnostic representation and
re-emits them for another framework, marking what it could not convert and
reporting a confidence score per file.`,
	Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command with the process context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches .hamlet.yaml)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "named profile from the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(frameworksCmd)
}
