// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/observatoire/plaintes/internal/api"
	"github.com/observatoire/plaintes/internal/export"
	"github.com/observatoire/plaintes/internal/i18n"
	"github.com/observatoire/plaintes/internal/model"
	"github.com/observatoire/plaintes/internal/recommend"
	"github.com/observatoire/plaintes/internal/report"
	"github.com/observatoire/plaintes/internal/stats"
)

// Complaint list flag values.
var (
	listPage     int
	listSize     int
	listStatus   string
	listCategory string
	listCommune  string
	listQuery    string
	listSort     string
	listAsc      bool
	listFormat   string

	showFormat string
	pdfOutput  string
	pdfNoLLM   bool
)

// complaintsCmd is the parent command for complaint subcommands.
var complaintsCmd = &cobra.Command{
	Use:     "complaints",
	Aliases: []string{"plaintes"},
	Short:   "List, inspect and update complaints",
}

var complaintsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List complaints",
	Long: `List complaints page by page, newest first.

Examples:
  plaintes complaints list --status SUBMITTED
  plaintes complaints list --commune Agdal --query éclairage --size 50
  plaintes complaints list --format csv > plaintes.csv`,
	Args: cobra.NoArgs,
	RunE: runComplaintsList,
}

var complaintsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one complaint with its AI analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runComplaintsShow,
}

var complaintsStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Change the status of a complaint",
	Long: `Change the status of a complaint.

Statuses: SUBMITTED, IN_PROGRESS, RESOLVED, REJECTED.`,
	Args: cobra.ExactArgs(2),
	RunE: runComplaintsStatus,
}

var complaintsPDFCmd = &cobra.Command{
	Use:   "pdf <id>",
	Short: "Export one complaint as a PDF sheet",
	Long: `Render one complaint as a PDF sheet: details, description, attached
photo, AI score table and recommendations. The photo is left out when it
cannot be downloaded in time.`,
	Args: cobra.ExactArgs(1),
	RunE: runComplaintsPDF,
}

func init() {
	f := complaintsListCmd.Flags()
	f.IntVar(&listPage, "page", 0, "page number, starting at 0")
	f.IntVar(&listSize, "size", 20, "page size")
	f.StringVar(&listStatus, "status", "", "status filter")
	f.StringVar(&listCategory, "category", "", "category filter")
	f.StringVar(&listCommune, "commune", "", "commune filter")
	f.StringVar(&listQuery, "query", "", "full-text filter")
	f.StringVar(&listSort, "sort", "dateSoumission", "sort field")
	f.BoolVar(&listAsc, "asc", false, "sort ascending")
	f.StringVarP(&listFormat, "format", "f", "text", "output format: text, json or csv")

	complaintsShowCmd.Flags().StringVarP(&showFormat, "format", "f", "text", "output format: text or json")

	complaintsPDFCmd.Flags().StringVarP(&pdfOutput, "output", "o", "", "output file path (default: plainte_<id>.pdf)")
	complaintsPDFCmd.Flags().BoolVar(&pdfNoLLM, "no-llm", false, "skip LLM refinement of recommendations")

	complaintsCmd.AddCommand(complaintsListCmd)
	complaintsCmd.AddCommand(complaintsShowCmd)
	complaintsCmd.AddCommand(complaintsStatusCmd)
	complaintsCmd.AddCommand(complaintsPDFCmd)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, exitError(ExitInvalidArgs, "plaintes: invalid complaint id %q", s)
	}
	return id, nil
}

func runComplaintsList(cmd *cobra.Command, _ []string) error {
	format := strings.ToLower(listFormat)
	if format != "text" && format != "json" && format != "csv" {
		return exitError(ExitInvalidArgs, "plaintes: unsupported format %q (supported: text, json, csv)", listFormat)
	}
	lp := api.ListParams{
		Page:     listPage,
		Size:     listSize,
		SortBy:   listSort,
		SortDir:  "desc",
		Category: listCategory,
		Commune:  listCommune,
		Query:    listQuery,
	}
	if listAsc {
		lp.SortDir = "asc"
	}
	if listStatus != "" {
		st, err := model.ParseStatus(listStatus)
		if err != nil {
			return exitError(ExitInvalidArgs, "plaintes: %v", err)
		}
		lp.Status = st
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	client, err := e.client()
	if err != nil {
		return err
	}
	page, err := client.ListComplaints(cmd.Context(), lp)
	if err != nil {
		return classify(err)
	}

	w := cmd.OutOrStdout()
	switch format {
	case "json":
		data, err := export.ToJSON(page)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "csv":
		data, err := export.ToCSV(export.ComplaintRows(page.Content, e.catalog))
		if err != nil {
			return classify(err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	if len(page.Content) == 0 {
		_, _ = fmt.Fprintln(w, e.catalog.T("complaints.none"))
		return nil
	}
	tr := e.catalog
	tbl := report.NewTable(
		report.Column{Header: tr.T("field.id"), Align: report.AlignRight},
		report.Column{Header: tr.T("field.submitted")},
		report.Column{Header: tr.T("field.zone")},
		report.Column{Header: tr.T("field.category")},
		report.Column{Header: tr.T("field.status")},
		report.Column{Header: tr.T("field.urgency"), Color: report.ColorUrgency(tr)},
	)
	for _, c := range page.Content {
		tbl.AddRow(
			strconv.FormatInt(c.ID, 10),
			formatDate(c.SubmittedAt),
			c.Zone,
			c.Category,
			tr.T("status."+string(c.Status)),
			tr.T("urgency."+string(stats.BucketPriority(c.PriorityScore))),
		)
	}
	if err := tbl.Render(w); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "\n%s\n", tr.T("complaints.page", lp.Page+1, max(page.TotalPages, 1), page.TotalElements))
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006 15:04")
}

func runComplaintsShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	e, err := loadEnv()
	if err != nil {
		return err
	}
	client, err := e.client()
	if err != nil {
		return err
	}
	c, err := client.GetComplaint(cmd.Context(), id)
	if err != nil {
		return classify(err)
	}

	w := cmd.OutOrStdout()
	if strings.ToLower(showFormat) == "json" {
		data, err := export.ToJSON(c)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	return printComplaint(w, c, e.catalog)
}

func printComplaint(w io.Writer, c model.Complaint, tr *i18n.Catalog) error {
	field := func(key, value string) {
		if value == "" {
			value = tr.T("pdf.placeholder")
		}
		_, _ = fmt.Fprintf(w, "%-20s %s\n", tr.T(key)+" :", value)
	}

	_, _ = fmt.Fprintln(w, report.SectionTitle(tr.T("pdf.complaint.title", c.ID)))
	field("field.submitted", formatDate(c.SubmittedAt))
	field("field.zone", c.Zone)
	field("field.location", c.Location)
	field("field.category", c.Category)
	field("field.status", tr.T("status."+string(c.Status)))
	if c.PriorityScore != nil {
		field("field.priority", strconv.FormatFloat(*c.PriorityScore, 'f', 1, 64)+" / 20")
	}
	urgency := tr.T("urgency." + string(stats.BucketPriority(c.PriorityScore)))
	field("field.urgency", report.ColorUrgency(tr)(urgency))
	_, _ = fmt.Fprintf(w, "\n%s\n", c.Description)

	if len(c.AIScores) > 0 {
		_, _ = fmt.Fprintf(w, "\n%s\n", tr.T("pdf.complaint.scores"))
		type score struct {
			label string
			value float64
		}
		scores := make([]score, 0, len(c.AIScores))
		for k, v := range c.AIScores {
			scores = append(scores, score{k, v})
		}
		sort.Slice(scores, func(i, j int) bool {
			if scores[i].value != scores[j].value {
				return scores[i].value > scores[j].value
			}
			return scores[i].label < scores[j].label
		})
		tbl := report.NewTable(
			report.Column{Header: tr.T("field.category")},
			report.Column{Header: tr.T("pdf.complaint.score"), Align: report.AlignRight},
		)
		for _, s := range scores {
			tbl.AddRow(s.label, strconv.FormatFloat(s.value, 'f', 2, 64))
		}
		return tbl.Render(w)
	}
	return nil
}

func runComplaintsStatus(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	st, err := model.ParseStatus(args[1])
	if err != nil {
		return exitError(ExitInvalidArgs, "plaintes: %v", err)
	}
	e, err := loadEnv()
	if err != nil {
		return err
	}
	client, err := e.client()
	if err != nil {
		return err
	}
	c, err := client.UpdateStatus(cmd.Context(), id, st)
	if err != nil {
		return classify(err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d : %s\n", e.catalog.T("field.status"), c.ID, e.catalog.T("status."+string(c.Status)))
	return nil
}

func runComplaintsPDF(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	e, err := loadEnv()
	if err != nil {
		return err
	}
	client, err := e.client()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	c, err := client.GetComplaint(ctx, id)
	if err != nil {
		return classify(err)
	}

	in := recommend.Input{Buckets: []model.CountBucket{{Zone: c.Zone, Category: c.Category, Count: 1}}}
	recs := recommend.Generate(in)
	if prov := e.provider(pdfNoLLM); prov != nil {
		recs = recommend.Refine(ctx, prov, in, recs)
	}

	doc := export.ComplaintDocument(c, recs, e.pdfCatalog(), nowFunc())
	data, err := e.renderer().Render(ctx, doc)
	if err != nil {
		return classify(err)
	}

	out := pdfOutput
	if out == "" {
		out = fmt.Sprintf("plainte_%d.pdf", c.ID)
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
