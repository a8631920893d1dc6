// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"io"

	"github.com/observatoire/plaintes/internal/dashboard"
	"github.com/observatoire/plaintes/internal/stats"
)

func init() {
	Register(&trendsSection{})
}

// trendsSection reports period-over-period changes per zone and category.
type trendsSection struct {
	points []stats.TrendPoint
}

func (s *trendsSection) Name() string        { return "trends" }
func (s *trendsSection) Description() string { return "Percentage change per zone and category" }

func (s *trendsSection) Analyze(snap *dashboard.Snapshot) error {
	if snap == nil || len(snap.Trends) == 0 {
		return fmt.Errorf("trends: %w", ErrDataNotAvailable)
	}
	s.points = snap.Trends
	return nil
}

func (s *trendsSection) Render(w io.Writer, tr Translator) error {
	writeTitle(w, tr.T("report.trends"))
	tbl := NewTable(
		Column{Header: tr.T("csv.label")},
		Column{Header: tr.T("csv.change"), Align: AlignRight},
		Column{Header: tr.T("csv.trend"), Color: ColorTrend(tr)},
		Column{Header: ""},
	)
	for _, p := range s.points {
		label := tr.T("trend." + string(p.Class.Label))
		change := signedPct(p.Value)
		if p.Class.NoData {
			label, change = tr.T("trend.no_data"), "-"
		}
		flag := ""
		if p.Anomalous() {
			flag = colorHiRed.Sprint(tr.T("trend.anomaly"))
		}
		tbl.AddRow(p.Label, change, label, flag)
	}
	if err := tbl.Render(w); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w)
	return nil
}
