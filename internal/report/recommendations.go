package report

import (
	"fmt"
	"io"

	"github.com/observatoire/plaintes/internal/dashboard"
)

func init() {
	Register(&recommendationsSection{})
}

// recommendationsSection lists the operational recommendations, most urgent
// first.
type recommendationsSection struct {
	recs []string
}

func (s *recommendationsSection) Name() string { return "recommendations" }
func (s *recommendationsSection) Description() string {
	return "Actionable recommendations for the selected period"
}

func (s *recommendationsSection) Analyze(snap *dashboard.Snapshot) error {
	if snap == nil || len(snap.Recommendations) == 0 {
		return fmt.Errorf("recommendations: %w", ErrDataNotAvailable)
	}
	s.recs = snap.Recommendations
	return nil
}

func (s *recommendationsSection) Render(w io.Writer, tr Translator) error {
	writeTitle(w, tr.T("report.recommendations"))
	for i, r := range s.recs {
		_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, r)
	}
	_, _ = fmt.Fprintln(w)
	return nil
}
