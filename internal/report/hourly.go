package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/observatoire/plaintes/internal/dashboard"
	"github.com/observatoire/plaintes/internal/model"
)

const barWidth = 40

func init() {
	Register(&hourlySection{})
}

// hourlySection draws the 24-hour histogram as horizontal bars.
type hourlySection struct {
	hours           []model.HourlyCount
	peak, peakCount int
	hasPeak         bool
}

func (s *hourlySection) Name() string        { return "hourly" }
func (s *hourlySection) Description() string { return "Complaints per hour of day" }

func (s *hourlySection) Analyze(snap *dashboard.Snapshot) error {
	if snap == nil || len(snap.Hourly) == 0 {
		return fmt.Errorf("hourly: %w", ErrDataNotAvailable)
	}
	s.hours = snap.Hourly
	s.peak, s.peakCount, s.hasPeak = snap.PeakHour, snap.PeakCount, snap.HasPeak
	return nil
}

func (s *hourlySection) Render(w io.Writer, tr Translator) error {
	writeTitle(w, tr.T("report.hourly"))
	if !s.hasPeak {
		_, _ = fmt.Fprintf(w, "  %s\n\n", tr.T("report.no_peak"))
		return nil
	}
	_, _ = fmt.Fprintf(w, "  %s\n\n", tr.T("report.peak_hour", s.peak, s.peakCount))

	for _, h := range s.hours {
		n := 0
		if s.peakCount > 0 {
			n = h.Count * barWidth / s.peakCount
		}
		if h.Count > 0 && n == 0 {
			n = 1
		}
		bar := strings.Repeat("█", n)
		if h.Hour == s.peak {
			bar = colorYellow.Sprint(bar)
		}
		_, _ = fmt.Fprintf(w, "  %02dh %5d %s\n", h.Hour, h.Count, bar)
	}
	_, _ = fmt.Fprintln(w)
	return nil
}
