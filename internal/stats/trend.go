// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package stats

import (
	"math"
	"sort"

	"github.com/observatoire/plaintes/internal/model"
)

// TrendLabel is the sign-based class of a percentage change.
type TrendLabel string

const (
	TrendStrongPositive TrendLabel = "strong-positive"
	TrendPositive       TrendLabel = "positive"
	TrendNeutral        TrendLabel = "neutral"
	TrendNegative       TrendLabel = "negative"
	TrendStrongNegative TrendLabel = "strong-negative"
)

// StrongTrendThreshold separates strong from plain trends, in percent.
const StrongTrendThreshold = 10.0

// AnomalyThreshold is the absolute percentage change flagged as anomalous.
const AnomalyThreshold = 50.0

var trendColors = map[TrendLabel]string{
	TrendStrongPositive: "#15803d",
	TrendPositive:       "#22c55e",
	TrendNeutral:        "#3b82f6",
	TrendNegative:       "#ef4444",
	TrendStrongNegative: "#b91c1c",
}

// TrendClass is the classification of one percentage change. NoData is set
// when the input was NaN or absent; callers render "no data" instead of the
// neutral label in that case.
type TrendClass struct {
	Label      TrendLabel `json:"label"`
	ColorToken string     `json:"colorToken"`
	NoData     bool       `json:"noData,omitempty"`
}

// ClassifyTrend maps a percentage change to its trend class.
func ClassifyTrend(pct float64) TrendClass {
	var label TrendLabel
	switch {
	case math.IsNaN(pct):
		return TrendClass{Label: TrendNeutral, ColorToken: trendColors[TrendNeutral], NoData: true}
	case pct > StrongTrendThreshold:
		label = TrendStrongPositive
	case pct > 0:
		label = TrendPositive
	case pct == 0:
		label = TrendNeutral
	case pct >= -StrongTrendThreshold:
		label = TrendNegative
	default:
		label = TrendStrongNegative
	}
	return TrendClass{Label: label, ColorToken: trendColors[label]}
}

// ClassifyTrendPtr classifies an optional value; nil is treated as no data.
func ClassifyTrendPtr(pct *float64) TrendClass {
	if pct == nil {
		return ClassifyTrend(math.NaN())
	}
	return ClassifyTrend(*pct)
}

// IsAnomaly reports whether a change is large enough to need investigation.
func IsAnomaly(pct float64) bool {
	return !math.IsNaN(pct) && math.Abs(pct) >= AnomalyThreshold
}

// TrendPoint is one classified point of a trend series.
type TrendPoint struct {
	Label string     `json:"label"`
	Value float64    `json:"value"`
	Count int        `json:"count"`
	Class TrendClass `json:"class"`
}

// TrendPoints builds classified points from zone trends. Points are ordered by
// value ascending, like the dashboard's bar chart, with no-data points last;
// equal values keep input order. A no-data point has a zero Value.
func TrendPoints(trends []model.ZoneTrend) []TrendPoint {
	out := make([]TrendPoint, len(trends))
	for i, t := range trends {
		out[i] = TrendPoint{
			Label: GroupKey{Zone: t.Zone, Category: t.Category}.Label(),
			Class: ClassifyTrendPtr(t.PercentageChange),
		}
		if !out[i].Class.NoData {
			out[i].Value = *t.PercentageChange
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Class.NoData != out[j].Class.NoData {
			return !out[i].Class.NoData
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// Anomalous reports whether the point carries a value large enough to need
// investigation. No-data points never are.
func (p TrendPoint) Anomalous() bool {
	return !p.Class.NoData && IsAnomaly(p.Value)
}

// FilterTrends keeps the trends matching zone and category. Empty filters
// match everything.
func FilterTrends(trends []model.ZoneTrend, zone, category string) []model.ZoneTrend {
	var out []model.ZoneTrend
	for _, t := range trends {
		if zone != "" && t.Zone != zone {
			continue
		}
		if category != "" && t.Category != category {
			continue
		}
		out = append(out, t)
	}
	return out
}
