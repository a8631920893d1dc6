// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	plog "github.com/observatoire/plaintes/internal/log"
)

// Global flag values.
var (
	verbose    bool
	quiet      bool
	noColor    bool
	logFormat  string
	langFlag   string
	backendURL string
	nlpURL     string
)

// rootCmd is the base command for plaintes.
var rootCmd = &cobra.Command{
	Use:   "plaintes",
	Short: "Statistics and exports for citizen complaints",
	Long: `plaintes reads complaint statistics from the complaints backend and turns
them into rankings, trend classifications, urgency breakdowns, resolution
summaries and recommendations. Results print as reports or export to CSV,
JSON and PDF.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := plog.SetupWriter(cmd.ErrOrStderr(), logFormat, verbose, quiet); err != nil {
			return exitError(ExitInvalidArgs, "plaintes: %v", err)
		}
		if noColor {
			color.NoColor = true
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")
	pf.StringVar(&logFormat, "log-format", "text", "log format: text or json")
	pf.StringVar(&langFlag, "lang", "", "output language: fr or ar (default from config)")
	pf.StringVar(&backendURL, "backend-url", "", "complaints backend base URL (default from config)")
	pf.StringVar(&nlpURL, "nlp-url", "", "classification service base URL (default from config)")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(complaintsCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(rangeCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}
