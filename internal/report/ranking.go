package report

import (
	"fmt"
	"io"

	"github.com/observatoire/plaintes/internal/dashboard"
	"github.com/observatoire/plaintes/internal/stats"
)

func init() {
	Register(&rankingSection{})
}

// rankingSection lists the top groups by complaint count.
type rankingSection struct {
	entries []stats.RankedEntry
}

func (s *rankingSection) Name() string        { return "ranking" }
func (s *rankingSection) Description() string { return "Top zones and categories by complaint count" }

func (s *rankingSection) Analyze(snap *dashboard.Snapshot) error {
	if snap == nil || len(snap.Ranking) == 0 {
		return fmt.Errorf("ranking: %w", ErrDataNotAvailable)
	}
	s.entries = snap.Ranking
	return nil
}

func (s *rankingSection) Render(w io.Writer, tr Translator) error {
	writeTitle(w, tr.T("report.ranking"))
	tbl := NewTable(
		Column{Header: tr.T("csv.rank"), Align: AlignRight},
		Column{Header: tr.T("csv.label")},
		Column{Header: tr.T("csv.count"), Align: AlignRight},
		Column{Header: tr.T("csv.percentage"), Align: AlignRight},
		Column{Header: tr.T("csv.tier"), Color: ColorTier(tr)},
	)
	for _, e := range s.entries {
		tbl.AddRow(itoa(e.Rank), e.Label(), itoa(e.Count), pct(e.Percentage), tr.T("tier."+string(e.Tier)))
	}
	if err := tbl.Render(w); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w)
	return nil
}
