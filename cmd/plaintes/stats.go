// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/observatoire/plaintes/internal/dashboard"
	"github.com/observatoire/plaintes/internal/report"
	"github.com/observatoire/plaintes/internal/stats"
)

// Stats-specific flag values.
var (
	statsPeriod   periodFlags
	statsZone     string
	statsCategory string
	statsTop      int
	statsDims     string
	statsSections string
	statsFormat   string
	statsSample   int
	statsNoLLM    bool
	statsOutput   string
)

// statsCmd prints the dashboard report for one period.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print complaint statistics for a period",
	Long: `Fetch frequency, trend, hourly and resolution statistics for a period and
print them as a report: zone ranking, trend classification, urgency
breakdown, resolution summary, hourly histogram and recommendations.

Examples:
  plaintes stats --range 7d
  plaintes stats --from 2025-05-01 --to 2025-05-14 --zone Agdal
  plaintes stats --sections ranking,trends --format json`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsPeriod.register(statsCmd)
	f := statsCmd.Flags()
	f.StringVar(&statsZone, "zone", "", "restrict to one zone")
	f.StringVar(&statsCategory, "category", "", "restrict to one category")
	f.IntVarP(&statsTop, "top", "n", 0, "ranking length (default from config, negative = all)")
	f.StringVar(&statsDims, "dims", "zone", "grouping dimensions: zone, category or zone,category")
	f.StringVar(&statsSections, "sections", "", "comma-separated report sections (default from config)")
	f.StringVarP(&statsFormat, "format", "f", "", "output format: text or json (default from config)")
	f.IntVar(&statsSample, "sample", 100, "recent complaints sampled for the urgency breakdown (0 disables)")
	f.BoolVar(&statsNoLLM, "no-llm", false, "skip LLM refinement of recommendations")
	f.StringVarP(&statsOutput, "output", "o", "", "output file path (default: stdout)")
}

// dashboardParams builds dashboard parameters from the shared flags.
func dashboardParams(e *env, pf *periodFlags, zone, category string, top int, dims string, sample int) (dashboard.Params, error) {
	tok, r, err := pf.resolve(e.cfg, nowFunc())
	if err != nil {
		return dashboard.Params{}, err
	}
	if top == 0 {
		top = e.cfg.TopN
	}
	return dashboard.Params{
		Token:           tok,
		Range:           r,
		Zone:            zone,
		Category:        category,
		TopN:            top,
		Dims:            stats.ParseDimensions(dims),
		ComplaintSample: sample,
	}, nil
}

func sectionFilter(flag string, fromConfig []string) []string {
	if flag == "" {
		return fromConfig
	}
	return splitAndTrim(flag)
}

func runStats(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	format := strings.ToLower(statsFormat)
	if format == "" {
		format = e.cfg.OutputFormat
	}
	if format == "" {
		format = "text"
	}
	if format != "text" && format != "json" {
		return exitError(ExitInvalidArgs, "plaintes: unsupported format %q (supported: text, json)", statsFormat)
	}

	p, err := dashboardParams(e, &statsPeriod, statsZone, statsCategory, statsTop, statsDims, statsSample)
	if err != nil {
		return err
	}
	client, err := e.client()
	if err != nil {
		return err
	}

	sessOpts := []dashboard.SessionOption{dashboard.WithClock(nowFunc)}
	if prov := e.provider(statsNoLLM); prov != nil {
		sessOpts = append(sessOpts, dashboard.WithProvider(prov))
	}
	sess := dashboard.NewSession(client, sessOpts...)
	defer sess.Close()

	slog.Info("loading statistics", "period", p.Range.String(), "zone", p.Zone, "category", p.Category)
	snap, _, err := sess.Reload(cmd.Context(), p)
	if err != nil {
		return classify(err)
	}
	if snap == nil {
		return exitError(ExitNothingProduced, "")
	}

	sections := sectionFilter(statsSections, e.cfg.Sections)
	var buf bytes.Buffer
	if format == "json" {
		err = report.RenderJSON(&buf, snap, sections, e.catalog)
	} else {
		err = report.RenderText(&buf, snap, sections, e.catalog)
	}
	if err != nil {
		if errors.Is(err, report.ErrDataNotAvailable) {
			return exitError(ExitNothingProduced, "plaintes: %v", err)
		}
		return classify(err)
	}

	out := statsOutput
	if out == "" {
		out = "-"
	}
	_, err = writeOutput(cmd.OutOrStdout(), e.cfg, out, buf.Bytes())
	return err
}

// splitAndTrim splits a comma-separated string and trims whitespace from each element.
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
