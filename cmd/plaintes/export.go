// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/observatoire/plaintes/internal/api"
	"github.com/observatoire/plaintes/internal/dashboard"
	"github.com/observatoire/plaintes/internal/export"
	"github.com/observatoire/plaintes/internal/model"
	"github.com/observatoire/plaintes/internal/stats"
)

// Export kinds.
const (
	kindRanking     = "ranking"
	kindTopCommunes = "top-communes"
	kindTrends      = "trends"
	kindHourly      = "hourly"
	kindResolution  = "resolution"
	kindComplaints  = "complaints"
	kindSnapshot    = "snapshot"
)

var exportKinds = []string{kindRanking, kindTopCommunes, kindTrends, kindHourly, kindResolution, kindComplaints, kindSnapshot}

// Export-specific flag values.
var (
	exportPeriod   periodFlags
	exportFormat   string
	exportOutput   string
	exportZone     string
	exportCategory string
	exportTop      int
	exportDims     string
	exportSort     string
	exportAsc      bool
	exportQuery    string
	exportStatus   string
	exportSize     int
)

// exportCmd writes one view to a CSV, JSON or PDF file.
var exportCmd = &cobra.Command{
	Use:   "export <kind>",
	Short: "Export statistics to CSV, JSON or PDF",
	Long: `Export one statistics view to a file.

Kinds:
  ranking       zone ranking with percentages and tiers
  top-communes  the backend's commune totals up to the end of the period
  trends        percentage change per zone and category
  hourly        complaints per hour of day
  resolution    resolution rates per commune and category (csv, json or pdf)
  complaints    the complaint listing
  snapshot      the full statistics snapshot (json only)

CSV files are UTF-8 with a byte order mark, ';' separated and fully quoted,
so spreadsheet software opens them directly. Without --output the file is
named after the kind and today's date.

Examples:
  plaintes export ranking --range 7d
  plaintes export top-communes --top 5 --format json -o -
  plaintes export resolution --format pdf -o rapport.pdf
  plaintes export complaints --status RESOLVED --format json -o -`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: exportKinds,
	RunE:      runExport,
}

func init() {
	exportPeriod.register(exportCmd)
	f := exportCmd.Flags()
	f.StringVarP(&exportFormat, "format", "f", "csv", "file format: csv, json or pdf")
	f.StringVarP(&exportOutput, "output", "o", "", "output file path, '-' for stdout")
	f.StringVar(&exportZone, "zone", "", "restrict to one zone (commune)")
	f.StringVar(&exportCategory, "category", "", "restrict to one category")
	f.IntVarP(&exportTop, "top", "n", -1, "ranking length (negative = all)")
	f.StringVar(&exportDims, "dims", "zone", "ranking dimensions: zone, category or zone,category")
	f.StringVar(&exportSort, "sort", "rate", "resolution sort column: commune, category, total, resolved, rate")
	f.BoolVar(&exportAsc, "asc", false, "sort resolution rows ascending")
	f.StringVar(&exportQuery, "query", "", "text filter (commune or category for resolution, full text for complaints)")
	f.StringVar(&exportStatus, "status", "", "complaint status filter: SUBMITTED, IN_PROGRESS, RESOLVED, REJECTED")
	f.IntVar(&exportSize, "size", 100, "number of complaints to export")
}

func runExport(cmd *cobra.Command, args []string) error {
	kind := strings.ToLower(args[0])
	if !slices.Contains(exportKinds, kind) {
		return exitError(ExitInvalidArgs, "plaintes: unknown export kind %q (supported: %s)", args[0], strings.Join(exportKinds, ", "))
	}
	format := strings.ToLower(exportFormat)
	switch {
	case format != "csv" && format != "json" && format != "pdf":
		return exitError(ExitInvalidArgs, "plaintes: unsupported format %q (supported: csv, json, pdf)", exportFormat)
	case format == "pdf" && kind != kindResolution:
		return exitError(ExitInvalidArgs, "plaintes: pdf export is only available for resolution (use 'complaints pdf' for one complaint)")
	case kind == kindSnapshot && format != "json":
		return exitError(ExitInvalidArgs, "plaintes: snapshot export is json only")
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	client, err := e.client()
	if err != nil {
		return err
	}

	var data []byte
	switch kind {
	case kindComplaints:
		data, err = exportComplaints(cmd, e, client, format)
	case kindTopCommunes:
		data, err = exportTopCommunes(cmd, e, client, format)
	default:
		data, err = exportStats(cmd, e, client, kind, format)
	}
	if err != nil {
		return classify(err)
	}

	out := exportOutput
	if out == "" {
		out = defaultFileName(kind, format, nowFunc())
	}
	path, err := writeOutput(cmd.OutOrStdout(), e.cfg, out, data)
	if err != nil {
		return err
	}
	if path != "-" && !quiet {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), path)
	}
	return nil
}

func exportStats(cmd *cobra.Command, e *env, src dashboard.Source, kind, format string) ([]byte, error) {
	p, err := dashboardParams(e, &exportPeriod, exportZone, exportCategory, exportTop, exportDims, 0)
	if err != nil {
		return nil, err
	}
	now := nowFunc()
	period, err := p.Period(now)
	if err != nil {
		return nil, err
	}
	d, err := dashboard.Load(cmd.Context(), src, period, 0)
	if err != nil {
		return nil, err
	}
	snap := dashboard.Build(d, p, now)

	switch kind {
	case kindRanking:
		return encodeRows(format, snap.Ranking, export.RankingRows(snap.Ranking, e.catalog))
	case kindTrends:
		return encodeRows(format, snap.Trends, export.TrendRows(snap.Trends, e.catalog))
	case kindHourly:
		return encodeRows(format, snap.Hourly, export.HourlyRows(snap.Hourly, e.catalog))
	case kindSnapshot:
		if snap.Total == 0 && len(snap.ResolutionRows) == 0 {
			return nil, export.ErrNothingToExport
		}
		return export.ToJSON(snap)
	}

	field, err := stats.ParseResolutionField(exportSort)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "plaintes: %v", err)
	}
	rows := stats.FilterResolution(snap.ResolutionRows, stats.ResolutionFilter{Query: exportQuery})
	rows = stats.SortResolution(rows, field, !exportAsc)

	if format == "pdf" {
		doc, err := export.ResolutionReport(rows, period, e.pdfCatalog(), now)
		if err != nil {
			return nil, err
		}
		return e.renderer().Render(cmd.Context(), doc)
	}
	return encodeRows(format, rows, export.ResolutionRows(rows, e.catalog))
}

// exportTopCommunes ranks the backend's per-commune totals, taken at the end
// of the selected period.
func exportTopCommunes(cmd *cobra.Command, e *env, client *api.Client, format string) ([]byte, error) {
	_, period, err := exportPeriod.resolve(e.cfg, nowFunc())
	if err != nil {
		return nil, err
	}
	rows, err := client.TopCommunes(cmd.Context(), period.To)
	if err != nil {
		return nil, err
	}
	if exportZone != "" {
		rows = filterCounts(rows, exportZone)
	}
	ranked := stats.Rank(stats.AggregateOrdered(rows, stats.DimZone), exportTop)
	return encodeRows(format, ranked, export.RankingRows(ranked, e.catalog))
}

func filterCounts(rows []model.CountBucket, zone string) []model.CountBucket {
	var out []model.CountBucket
	for _, r := range rows {
		if strings.EqualFold(r.Zone, zone) {
			out = append(out, r)
		}
	}
	return out
}

func exportComplaints(cmd *cobra.Command, e *env, client *api.Client, format string) ([]byte, error) {
	lp := api.ListParams{
		Size:     exportSize,
		SortBy:   "dateSoumission",
		SortDir:  "desc",
		Category: exportCategory,
		Commune:  exportZone,
		Query:    exportQuery,
	}
	if exportStatus != "" {
		st, err := model.ParseStatus(exportStatus)
		if err != nil {
			return nil, exitError(ExitInvalidArgs, "plaintes: %v", err)
		}
		lp.Status = st
	}
	page, err := client.ListComplaints(cmd.Context(), lp)
	if err != nil {
		return nil, err
	}
	slog.Debug("complaints fetched", "count", len(page.Content), "total", page.TotalElements)
	return encodeRows(format, page.Content, export.ComplaintRows(page.Content, e.catalog))
}

// encodeRows encodes rows as CSV, or v as JSON. Both fail with
// ErrNothingToExport when there are no rows.
func encodeRows[T any](format string, v []T, rows []export.Row) ([]byte, error) {
	if len(v) == 0 {
		return nil, export.ErrNothingToExport
	}
	if format == "json" {
		return export.ToJSON(v)
	}
	return export.ToCSV(rows)
}
