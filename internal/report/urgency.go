package report

import (
	"fmt"
	"io"

	"github.com/observatoire/plaintes/internal/dashboard"
	"github.com/observatoire/plaintes/internal/stats"
)

func init() {
	Register(&urgencySection{})
}

type urgencySection struct {
	counts map[stats.Urgency]int
	total  int
}

func (s *urgencySection) Name() string        { return "urgency" }
func (s *urgencySection) Description() string { return "Sampled complaints by AI urgency tier" }

func (s *urgencySection) Analyze(snap *dashboard.Snapshot) error {
	if snap == nil || snap.Urgency == nil {
		return fmt.Errorf("urgency: no complaints sampled: %w", ErrDataNotAvailable)
	}
	s.counts = snap.Urgency
	s.total = 0
	for _, n := range snap.Urgency {
		s.total += n
	}
	return nil
}

func (s *urgencySection) Render(w io.Writer, tr Translator) error {
	writeTitle(w, tr.T("report.urgency"))
	tbl := NewTable(
		Column{Header: tr.T("field.urgency"), Color: ColorUrgency(tr)},
		Column{Header: tr.T("csv.count"), Align: AlignRight},
		Column{Header: tr.T("report.share"), Align: AlignRight},
	)
	for _, u := range stats.Urgencies() {
		n := s.counts[u]
		share := 0.0
		if s.total > 0 {
			share = float64(n) / float64(s.total) * 100
		}
		tbl.AddRow(tr.T("urgency."+string(u)), itoa(n), pct(share))
	}
	if err := tbl.Render(w); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w)
	return nil
}
