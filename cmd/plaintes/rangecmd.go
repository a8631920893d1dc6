// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/observatoire/plaintes/internal/daterange"
)

var (
	matchFrom string
	matchTo   string
)

// rangeCmd is the parent command for period helpers.
var rangeCmd = &cobra.Command{
	Use:   "range",
	Short: "Resolve and match reporting periods",
}

var rangeResolveCmd = &cobra.Command{
	Use:       "resolve <token>",
	Short:     "Print the dates a preset period covers today",
	Long:      "Print the dates a preset period (7d, 30d, week, month, year) covers, ending now.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"7d", "30d", "week", "month", "year"},
	RunE: func(cmd *cobra.Command, args []string) error {
		tok, err := daterange.ParseToken(args[0])
		if err != nil {
			return exitError(ExitInvalidArgs, "plaintes: %v", err)
		}
		r, err := daterange.Resolve(tok, nowFunc())
		if err != nil {
			return exitError(ExitInvalidArgs, "plaintes: %v", err)
		}
		from, to := r.Query()
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", tok, from, to)
		return nil
	},
}

var rangeMatchCmd = &cobra.Command{
	Use:   "match",
	Short: "Find the preset period matching two dates",
	Long: `Find the first preset period whose bounds fall on the given dates, or
print "custom". A --to before --from is dropped, leaving an incomplete range.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		now := nowFunc()
		var r daterange.Range
		var err error
		if r.From, err = daterange.ParseDate(matchFrom, now.Location()); err != nil {
			return exitError(ExitInvalidArgs, "plaintes: %v", err)
		}
		if matchTo != "" {
			if r.To, err = daterange.ParseDate(matchTo, now.Location()); err != nil {
				return exitError(ExitInvalidArgs, "plaintes: %v", err)
			}
		}
		r = daterange.Repair(r)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", daterange.Match(r, now), r)
		return nil
	},
}

func init() {
	rangeMatchCmd.Flags().StringVar(&matchFrom, "from", "", "period start (YYYY-MM-DD)")
	rangeMatchCmd.Flags().StringVar(&matchTo, "to", "", "period end (YYYY-MM-DD)")
	_ = rangeMatchCmd.MarkFlagRequired("from")

	rangeCmd.AddCommand(rangeResolveCmd)
	rangeCmd.AddCommand(rangeMatchCmd)
}
