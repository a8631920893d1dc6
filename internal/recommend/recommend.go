// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

// Package recommend turns aggregated complaint counts into short operational
// recommendations. The rule set is deterministic; Refine optionally asks an
// LLM to reword and reorder it.
package recommend

import (
	"fmt"
	"math"
	"strings"

	"github.com/observatoire/plaintes/internal/model"
	"github.com/observatoire/plaintes/internal/stats"
)

// Category codes the rules react to.
const (
	CategoryAggression = "AGRESSION"
	CategoryWaste      = "DECHETS"
	CategoryCorruption = "CORRUPTION"
)

// Default is returned when no rule fires.
const Default = "Surveillance continue recommandée"

// Direction of a period-over-period change.
type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
	Stable   Direction = "stable"
)

// Trend compares complaint volume between two periods.
type Trend struct {
	Current          int       `json:"currentCount"`
	Previous         int       `json:"previousCount"`
	PercentageChange float64   `json:"percentageChange"`
	Direction        Direction `json:"direction"`
	Anomaly          bool      `json:"anomaly"`
}

// DetectTrend compares two period totals. A previous total of zero counts as
// a 100% increase when anything was reported since, and as stable otherwise.
// The change is rounded to one decimal.
func DetectTrend(current, previous int) Trend {
	var pct float64
	switch {
	case previous == 0 && current > 0:
		pct = 100
	case previous != 0:
		pct = float64(current-previous) / float64(previous) * 100
	}
	t := TrendFromChange(pct)
	t.Current, t.Previous = current, previous
	return t
}

// TrendFromChange builds a Trend from a precomputed percentage change.
func TrendFromChange(pct float64) Trend {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		pct = 0
	}
	pct = model.RoundTo(pct, 1)
	dir := Stable
	switch {
	case pct > 0:
		dir = Increase
	case pct < 0:
		dir = Decrease
	}
	return Trend{PercentageChange: pct, Direction: dir, Anomaly: stats.IsAnomaly(pct)}
}

// Input is what the rules look at.
type Input struct {
	Buckets []model.CountBucket
	// Trend is optional.
	Trend *Trend
}

// Generate applies the rules in a fixed order: category thresholds, abnormal
// increase, then zone spread. It never returns an empty list.
func Generate(in Input) []string {
	byCategory := make(map[string]int)
	zones := make(map[string]struct{})
	var zoneOrder []string
	for _, b := range in.Buckets {
		if b.Count <= 0 {
			continue
		}
		byCategory[strings.ToUpper(strings.TrimSpace(b.Category))] += b.Count
		z := model.ZoneLabel(b.Zone)
		if _, ok := zones[z]; !ok {
			zones[z] = struct{}{}
			zoneOrder = append(zoneOrder, z)
		}
	}

	var out []string
	switch n := byCategory[CategoryAggression]; {
	case n >= 3:
		out = append(out, "Intervention immédiate des forces de l'ordre requise")
	case n > 0:
		out = append(out, "Surveillance renforcée recommandée")
	}
	switch n := byCategory[CategoryWaste]; {
	case n >= 5:
		out = append(out, "Intervention d'urgence des services de nettoyage")
	case n > 0:
		out = append(out, "Planifier une intervention de nettoyage")
	}
	if byCategory[CategoryCorruption] > 0 {
		out = append(out, "Enquête administrative et contrôle des services concernés")
	}

	if t := in.Trend; t != nil && t.Anomaly && t.Direction == Increase {
		out = append(out, fmt.Sprintf("Augmentation anormale détectée (+%.1f%%) - Investigation requise", t.PercentageChange))
	}

	switch {
	case len(zoneOrder) == 1:
		out = append(out, "Concentrer les efforts sur la zone "+zoneOrder[0])
	case len(zoneOrder) > 3:
		out = append(out, "Déploiement coordonné nécessaire sur plusieurs zones")
	}

	if len(out) == 0 {
		return []string{Default}
	}
	return out
}
