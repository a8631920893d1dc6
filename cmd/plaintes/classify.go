// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/observatoire/plaintes/internal/export"
	"github.com/observatoire/plaintes/internal/report"
	"github.com/observatoire/plaintes/internal/stats"
)

var (
	classifyLocation string
	classifyFormat   string
)

// classifyResult is the JSON output of classify.
type classifyResult struct {
	Category string             `json:"categorie"`
	Priority *float64           `json:"priorite,omitempty"`
	Urgency  stats.Urgency      `json:"urgence"`
	Scores   map[string]float64 `json:"scores,omitempty"`
}

// classifyCmd sends a complaint text to the classification service.
var classifyCmd = &cobra.Command{
	Use:   "classify <description>",
	Short: "Classify a complaint description",
	Long: `Send a complaint description to the classification service and print the
predicted category, the priority score and its urgency tier.

Examples:
  plaintes classify "Dépôt sauvage de déchets devant l'école" --location Agdal
  plaintes classify --format json "Agression près de la gare"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyLocation, "location", "l", "", "where the complaint happened")
	classifyCmd.Flags().StringVarP(&classifyFormat, "format", "f", "text", "output format: text or json")
}

func runClassify(cmd *cobra.Command, args []string) error {
	description := strings.TrimSpace(strings.Join(args, " "))
	if description == "" {
		return exitError(ExitInvalidArgs, "plaintes: description is empty")
	}
	e, err := loadEnv()
	if err != nil {
		return err
	}
	client, err := e.nlp()
	if err != nil {
		return err
	}
	c, err := client.Classify(cmd.Context(), description, classifyLocation)
	if err != nil {
		return classify(err)
	}

	res := classifyResult{
		Category: c.Category,
		Priority: c.Priority,
		Urgency:  stats.BucketPriority(c.Priority),
		Scores:   c.Scores,
	}
	w := cmd.OutOrStdout()
	if strings.ToLower(classifyFormat) == "json" {
		data, err := export.ToJSON(res)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	tr := e.catalog
	priority := tr.T("pdf.placeholder")
	if res.Priority != nil {
		priority = strconv.FormatFloat(*res.Priority, 'f', 1, 64) + " / 20"
	}
	_, _ = fmt.Fprintf(w, "%s : %s\n", tr.T("field.category"), res.Category)
	_, _ = fmt.Fprintf(w, "%s : %s\n", tr.T("field.priority"), priority)
	_, _ = fmt.Fprintf(w, "%s : %s\n", tr.T("field.urgency"),
		report.ColorUrgency(tr)(tr.T("urgency."+string(res.Urgency))))

	if len(res.Scores) == 0 {
		return nil
	}
	labels := make([]string, 0, len(res.Scores))
	for k := range res.Scores {
		labels = append(labels, k)
	}
	sort.Slice(labels, func(i, j int) bool {
		a, b := res.Scores[labels[i]], res.Scores[labels[j]]
		if a != b {
			return a > b
		}
		return labels[i] < labels[j]
	})
	_, _ = fmt.Fprintln(w)
	tbl := report.NewTable(
		report.Column{Header: tr.T("field.category")},
		report.Column{Header: tr.T("pdf.complaint.score"), Align: report.AlignRight},
	)
	for _, l := range labels {
		tbl.AddRow(l, strconv.FormatFloat(res.Scores[l], 'f', 2, 64))
	}
	return tbl.Render(w)
}
