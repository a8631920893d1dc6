package report

import (
	"github.com/fatih/color"

	"github.com/observatoire/plaintes/internal/stats"
)

var (
	colorRed    = color.New(color.FgRed)
	colorHiRed  = color.New(color.FgHiRed, color.Bold)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorHiGrn  = color.New(color.FgHiGreen, color.Bold)
	colorBlue   = color.New(color.FgBlue)
	colorBold   = color.New(color.Bold)
)

// SectionTitle renders a bold section title.
func SectionTitle(title string) string {
	return colorBold.Sprint(title)
}

var (
	tierColors = map[stats.Tier]*color.Color{
		stats.TierGold:   color.New(color.FgYellow, color.Bold),
		stats.TierSilver: color.New(color.FgWhite, color.Bold),
		stats.TierBronze: color.New(color.FgRed),
	}
	trendPrinters = map[stats.TrendLabel]*color.Color{
		stats.TrendStrongPositive: colorHiGrn,
		stats.TrendPositive:       colorGreen,
		stats.TrendNeutral:        colorBlue,
		stats.TrendNegative:       colorRed,
		stats.TrendStrongNegative: colorHiRed,
	}
	urgencyColors = map[stats.Urgency]*color.Color{
		stats.UrgencyCritical: colorHiRed,
		stats.UrgencyHigh:     colorRed,
		stats.UrgencyMedium:   colorYellow,
		stats.UrgencyLow:      colorGreen,
	}
	bandColors = map[stats.Band]*color.Color{
		stats.BandExcellent: colorHiGrn,
		stats.BandGood:      colorGreen,
		stats.BandFair:      colorYellow,
		stats.BandPoor:      colorRed,
	}
)

// byLabel builds a ColorFunc over translated labels: a cell whose text is the
// translation of a key gets that key's color.
func byLabel[K ~string](tr Translator, prefix string, colors map[K]*color.Color) ColorFunc {
	lookup := make(map[string]*color.Color, len(colors))
	for k, c := range colors {
		lookup[tr.T(prefix+string(k))] = c
	}
	return func(val string) string {
		if c, ok := lookup[val]; ok {
			return c.Sprint(val)
		}
		return val
	}
}

// ColorTier colors translated tier labels.
func ColorTier(tr Translator) ColorFunc { return byLabel(tr, "tier.", tierColors) }

// ColorTrend colors translated trend labels.
func ColorTrend(tr Translator) ColorFunc { return byLabel(tr, "trend.", trendPrinters) }

// ColorUrgency colors translated urgency labels.
func ColorUrgency(tr Translator) ColorFunc { return byLabel(tr, "urgency.", urgencyColors) }

// ColorBand colors translated performance bands.
func ColorBand(tr Translator) ColorFunc { return byLabel(tr, "band.", bandColors) }

// ColorRate colors a resolution rate by its band.
func ColorRate(rate float64, text string) string {
	if c, ok := bandColors[stats.BandFor(rate)]; ok {
		return c.Sprint(text)
	}
	return text
}
