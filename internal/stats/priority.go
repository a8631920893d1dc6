package stats

import (
	"math"

	"github.com/observatoire/plaintes/internal/model"
)

// Urgency is the tier derived from an AI priority score.
type Urgency string

const (
	UrgencyCritical     Urgency = "critical"
	UrgencyHigh         Urgency = "high"
	UrgencyMedium       Urgency = "medium"
	UrgencyLow          Urgency = "low"
	UrgencyUnclassified Urgency = "unclassified"
)

// Lower bounds of each urgency tier. Each tier is closed below and open above,
// except critical which runs up to model.MaxPriority inclusive.
const (
	CriticalThreshold = 18.0
	HighThreshold     = 15.0
	MediumThreshold   = 8.0
)

// Urgencies returns the classified tiers from most to least urgent.
func Urgencies() []Urgency {
	return []Urgency{UrgencyCritical, UrgencyHigh, UrgencyMedium, UrgencyLow}
}

// BucketPriority maps a priority score to its urgency tier. A nil or NaN score
// is unclassified; out-of-range scores are clamped into [0,20] first.
func BucketPriority(score *float64) Urgency {
	if score == nil || math.IsNaN(*score) {
		return UrgencyUnclassified
	}
	s := math.Max(model.MinPriority, math.Min(model.MaxPriority, *score))
	switch {
	case s >= CriticalThreshold:
		return UrgencyCritical
	case s >= HighThreshold:
		return UrgencyHigh
	case s >= MediumThreshold:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// UrgencyBreakdown counts complaints per urgency tier.
func UrgencyBreakdown(complaints []model.Complaint) map[Urgency]int {
	out := make(map[Urgency]int, 5)
	for _, c := range complaints {
		out[BucketPriority(c.PriorityScore)]++
	}
	return out
}
