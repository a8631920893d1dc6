package report

import (
	"fmt"
	"io"

	"github.com/observatoire/plaintes/internal/dashboard"
)

func init() {
	Register(&summarySection{})
}

type summarySection struct {
	snap *dashboard.Snapshot
}

func (s *summarySection) Name() string        { return "summary" }
func (s *summarySection) Description() string { return "Period, total and one-sentence summary" }

func (s *summarySection) Analyze(snap *dashboard.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("summary: %w", ErrDataNotAvailable)
	}
	s.snap = snap
	return nil
}

func (s *summarySection) Render(w io.Writer, tr Translator) error {
	writeTitle(w, tr.T("report.summary"))
	_, _ = fmt.Fprintf(w, "  %s\n", tr.T("report.period", s.snap.Range.String()))
	_, _ = fmt.Fprintf(w, "  %s\n", tr.T("report.total", s.snap.Total))
	if n := len(s.snap.Anomalies); n > 0 {
		_, _ = fmt.Fprintf(w, "  %s\n", colorRed.Sprint(tr.T("report.anomalies", n)))
	}
	_, _ = fmt.Fprintf(w, "  %s\n\n", s.snap.Summary)
	return nil
}
