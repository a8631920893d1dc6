package report

import (
	"fmt"
	"io"

	"github.com/observatoire/plaintes/internal/dashboard"
	"github.com/observatoire/plaintes/internal/model"
	"github.com/observatoire/plaintes/internal/stats"
)

func init() {
	Register(&resolutionSection{})
}

// resolutionSection shows how many complaints were resolved, overall and per
// commune and category.
type resolutionSection struct {
	summary stats.ResolutionSummary
	rows    []model.ResolutionRow
}

func (s *resolutionSection) Name() string        { return "resolution" }
func (s *resolutionSection) Description() string { return "Resolution rates per commune and category" }

func (s *resolutionSection) Analyze(snap *dashboard.Snapshot) error {
	if snap == nil || len(snap.ResolutionRows) == 0 {
		return fmt.Errorf("resolution: %w", ErrDataNotAvailable)
	}
	s.summary = snap.Resolution
	s.rows = stats.SortResolution(snap.ResolutionRows, stats.FieldRate, true)
	return nil
}

func (s *resolutionSection) Render(w io.Writer, tr Translator) error {
	sum := s.summary
	writeTitle(w, tr.T("report.resolution"))

	band := tr.T("band." + string(sum.Band))
	_, _ = fmt.Fprintf(w, "  %s\n", tr.T("report.global_rate",
		pct(sum.GlobalRate), sum.Resolved, sum.Total, ColorBand(tr)(band)))
	_, _ = fmt.Fprintf(w, "  %s\n", tr.T("report.average_rate", pct(sum.AverageRate), sum.Rows))
	if sum.Best != nil {
		_, _ = fmt.Fprintf(w, "  %s\n", tr.T("report.best", sum.Best.Commune, sum.Best.Category, pct(sum.Best.Rate)))
	}
	if sum.Worst != nil && sum.Rows > 1 {
		_, _ = fmt.Fprintf(w, "  %s\n", tr.T("report.worst", sum.Worst.Commune, sum.Worst.Category, pct(sum.Worst.Rate)))
	}
	_, _ = fmt.Fprintln(w)

	tbl := NewTable(
		Column{Header: tr.T("csv.commune")},
		Column{Header: tr.T("csv.category")},
		Column{Header: tr.T("csv.total"), Align: AlignRight},
		Column{Header: tr.T("csv.resolved"), Align: AlignRight},
		Column{Header: tr.T("csv.rate"), Align: AlignRight},
	)
	for _, r := range s.rows {
		tbl.AddRow(r.Commune, r.Category, itoa(r.Total), itoa(r.Resolved), pct(r.Rate))
	}
	if err := tbl.Render(w); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w)
	return nil
}
