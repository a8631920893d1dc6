// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package export

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/observatoire/plaintes/internal/daterange"
	"github.com/observatoire/plaintes/internal/model"
	"github.com/observatoire/plaintes/internal/stats"
)

// Translator resolves message keys to localized text.
type Translator interface {
	T(key string, args ...any) string
}

// dateFR formats a date the way French reports print it.
func dateFR(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func rate1(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// ResolutionRows builds the resolution export table.
func ResolutionRows(rows []model.ResolutionRow, tr Translator) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, Row{}.
			Set(tr.T("csv.commune"), r.Commune).
			Set(tr.T("csv.category"), r.Category).
			Set(tr.T("csv.total"), r.Total).
			Set(tr.T("csv.resolved"), r.Resolved).
			Set(tr.T("csv.rate"), rate1(r.Rate)))
	}
	return out
}

// RankingRows builds the ranking export table.
func RankingRows(entries []stats.RankedEntry, tr Translator) []Row {
	out := make([]Row, 0, len(entries))
	for _, e := range entries {
		out = append(out, Row{}.
			Set(tr.T("csv.rank"), e.Rank).
			Set(tr.T("csv.commune"), e.Zone).
			Set(tr.T("csv.category"), e.Category).
			Set(tr.T("csv.count"), e.Count).
			Set(tr.T("csv.percentage"), rate1(e.Percentage)).
			Set(tr.T("csv.tier"), tr.T("tier."+string(e.Tier))))
	}
	return out
}

// TrendRows builds the trend export table.
func TrendRows(points []stats.TrendPoint, tr Translator) []Row {
	out := make([]Row, 0, len(points))
	for _, p := range points {
		label := tr.T("trend." + string(p.Class.Label))
		change := rate1(p.Value)
		if p.Class.NoData {
			label, change = tr.T("trend.no_data"), ""
		}
		out = append(out, Row{}.
			Set(tr.T("csv.label"), p.Label).
			Set(tr.T("csv.change"), change).
			Set(tr.T("csv.trend"), label))
	}
	return out
}

// HourlyRows builds the hour-of-day export table.
func HourlyRows(hours []model.HourlyCount, tr Translator) []Row {
	out := make([]Row, 0, len(hours))
	for _, h := range hours {
		out = append(out, Row{}.
			Set(tr.T("csv.hour"), fmt.Sprintf("%02dh", h.Hour)).
			Set(tr.T("csv.count"), h.Count))
	}
	return out
}

// ComplaintRows builds the complaint listing export table.
func ComplaintRows(complaints []model.Complaint, tr Translator) []Row {
	out := make([]Row, 0, len(complaints))
	for _, c := range complaints {
		out = append(out, Row{}.
			Set(tr.T("field.id"), c.ID).
			Set(tr.T("field.category"), c.Category).
			Set(tr.T("field.zone"), c.Zone).
			Set(tr.T("field.status"), tr.T("status."+string(c.Status))).
			Set(tr.T("field.submitted"), dateFR(c.SubmittedAt)).
			Set(tr.T("field.priority"), c.PriorityScore).
			Set(tr.T("field.urgency"), tr.T("urgency."+string(stats.BucketPriority(c.PriorityScore)))).
			Set(tr.T("field.description"), c.Description))
	}
	return out
}

// ComplaintDocument lays out the detail report of one complaint. AI scores
// are listed highest first; ties sort by category name.
func ComplaintDocument(c model.Complaint, recommendations []string, tr Translator, now time.Time) Document {
	fields := Row{}.
		Set(tr.T("field.id"), c.ID).
		Set(tr.T("field.category"), c.Category).
		Set(tr.T("field.zone"), c.Zone).
		Set(tr.T("field.location"), c.Location).
		Set(tr.T("field.status"), tr.T("status."+string(c.Status))).
		Set(tr.T("field.submitted"), dateFR(c.SubmittedAt)).
		Set(tr.T("field.priority"), c.PriorityScore).
		Set(tr.T("field.urgency"), tr.T("urgency."+string(stats.BucketPriority(c.PriorityScore))))

	doc := Document{
		Title:    tr.T("pdf.complaint.title", c.ID),
		Subtitle: tr.T("pdf.report_date", dateFR(now)),
		Footer:   tr.T("pdf.footer"),
		Blocks: []Block{
			{Heading: tr.T("pdf.complaint.details"), Fields: fields},
			{Heading: tr.T("field.description"), Text: placeholderIfEmpty(c.Description, tr)},
		},
	}

	if c.ImageURL != "" {
		doc.Blocks = append(doc.Blocks, Block{Heading: tr.T("pdf.complaint.image"), ImageURL: c.ImageURL})
	}

	if len(c.AIScores) > 0 {
		type score struct {
			cat string
			v   float64
		}
		scores := make([]score, 0, len(c.AIScores))
		for k, v := range c.AIScores {
			scores = append(scores, score{k, v})
		}
		sort.Slice(scores, func(i, j int) bool {
			if scores[i].v != scores[j].v {
				return scores[i].v > scores[j].v
			}
			return scores[i].cat < scores[j].cat
		})
		t := &Table{Headers: []string{tr.T("csv.category"), tr.T("pdf.complaint.score")}, Widths: []float64{2, 1}}
		for _, s := range scores {
			t.Rows = append(t.Rows, []string{s.cat, strconv.FormatFloat(s.v, 'f', 3, 64)})
		}
		doc.Blocks = append(doc.Blocks, Block{Heading: tr.T("pdf.complaint.scores"), Table: t})
	}

	if len(recommendations) > 0 {
		lines := make([]string, len(recommendations))
		for i, rec := range recommendations {
			lines[i] = "- " + rec
		}
		doc.Blocks = append(doc.Blocks, Block{Heading: tr.T("pdf.complaint.recommendations"), Lines: lines})
	}
	return doc
}

func placeholderIfEmpty(s string, tr Translator) string {
	if s == "" {
		return tr.T("pdf.placeholder")
	}
	return s
}

// ResolutionReport lays out the resolution report for rows over period.
// Rows are printed in the order given.
func ResolutionReport(rows []model.ResolutionRow, period daterange.Range, tr Translator, now time.Time) (Document, error) {
	if len(rows) == 0 {
		return Document{}, ErrNothingToExport
	}
	sum := stats.SummarizeResolution(rows)

	var perCategory []string
	for _, c := range sum.Categories {
		perCategory = append(perCategory, fmt.Sprintf("- %s : %s%% (%d / %d)", c.Category, rate1(c.Rate), c.Resolved, c.Total))
	}

	table := &Table{
		Headers: []string{
			tr.T("pdf.resolution.col_commune"),
			tr.T("pdf.resolution.col_category"),
			tr.T("pdf.resolution.col_total"),
			tr.T("pdf.resolution.col_resolved"),
			tr.T("pdf.resolution.col_rate"),
		},
		Widths: []float64{3, 3, 2, 2, 2},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			r.Commune, r.Category, strconv.Itoa(r.Total), strconv.Itoa(r.Resolved), rate1(r.Rate),
		})
	}

	return Document{
		Title:    tr.T("pdf.resolution.title"),
		Subtitle: tr.T("pdf.report_date", dateFR(now)),
		Footer:   tr.T("pdf.footer"),
		Blocks: []Block{
			{Text: tr.T("pdf.resolution.intro")},
			{
				Heading: tr.T("pdf.resolution.global_rate", rate1(sum.GlobalRate)),
				Lines: []string{
					tr.T("pdf.resolution.total", sum.Total),
					tr.T("pdf.resolution.resolved", sum.Resolved),
					tr.T("pdf.resolution.period", dateFR(period.From), dateFR(period.To)),
				},
			},
			{Heading: tr.T("pdf.resolution.by_category"), Lines: perCategory},
			{Text: tr.T("pdf.resolution.closing")},
			{Table: table},
		},
	}, nil
}
