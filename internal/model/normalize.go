// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package model

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Priority scores are clamped into this closed interval.
const (
	MinPriority = 0.0
	MaxPriority = 20.0
)

// timeLayouts lists the timestamp formats the backend has been seen to emit.
// LocalDateTime values carry no zone and are read as local time.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ZoneLabel returns the trimmed zone or the UnknownZone sentinel.
func ZoneLabel(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return UnknownZone
	}
	return s
}

// CategoryLabel returns the trimmed category or the UnknownCategory sentinel.
func CategoryLabel(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return UnknownCategory
	}
	return s
}

// ClampPriority restricts a priority score to [MinPriority, MaxPriority].
// NaN yields nil so it is treated as unclassified downstream.
func ClampPriority(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	v = math.Max(MinPriority, math.Min(MaxPriority, v))
	return &v
}

func nonNegative(n Number, field string) int {
	v := n.Int()
	if v < 0 {
		slog.Warn("negative count clamped to zero", "field", field, "value", v)
		return 0
	}
	return v
}

// NormalizeCounts converts frequency rows to CountBuckets. The count is read
// from count, total, then totalPlaintes.
func NormalizeCounts(rows []WireCount) []CountBucket {
	out := make([]CountBucket, 0, len(rows))
	for _, r := range rows {
		out = append(out, CountBucket{
			Zone:     ZoneLabel(firstNonEmpty(string(r.Zone), string(r.Commune))),
			Category: CategoryLabel(firstNonEmpty(string(r.Category), string(r.Categorie))),
			Count:    nonNegative(firstValid(r.Count, r.Total, r.TotalPlaintes), "count"),
		})
	}
	return out
}

// NormalizeTrends converts trend rows. A missing, null or malformed
// percentage leaves PercentageChange nil so it is not mistaken for a real 0%.
func NormalizeTrends(rows []WireTrend) []ZoneTrend {
	out := make([]ZoneTrend, 0, len(rows))
	for _, r := range rows {
		t := ZoneTrend{
			Zone:     ZoneLabel(firstNonEmpty(string(r.Zone), string(r.Commune))),
			Category: CategoryLabel(firstNonEmpty(string(r.Category), string(r.Categorie))),
		}
		if n := firstValid(r.PercentageChange, r.Value); n.Valid {
			v := n.Value
			t.PercentageChange = &v
		}
		out = append(out, t)
	}
	return out
}

// NormalizeHourly converts hour-of-day rows. The hour comes from the numeric
// hour field or from the leading digits of trancheHoraire ("08:00-09:00",
// "8h"). Rows whose hour cannot be determined or falls outside 0..23 are
// dropped.
func NormalizeHourly(rows []WireHourly) []HourlyCount {
	out := make([]HourlyCount, 0, len(rows))
	for _, r := range rows {
		hour, ok := r.Hour.Int(), r.Hour.Valid
		if !ok {
			hour, ok = leadingInt(r.TrancheHoraire)
		}
		if !ok || hour < 0 || hour > 23 {
			slog.Debug("dropping hourly row without a valid hour", "tranche", r.TrancheHoraire)
			continue
		}
		out = append(out, HourlyCount{
			Hour:  hour,
			Count: nonNegative(firstValid(r.Count, r.TotalPlaintes), "count"),
		})
	}
	return out
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(s[:end])
	return v, err == nil
}

// NormalizeResolution converts resolution rows. Rates reported as a fraction
// in [0,1] are scaled to a percentage; a missing rate is derived from the
// counts. Rates are rounded to one decimal and clamped to [0,100].
func NormalizeResolution(rows []WireResolution) []ResolutionRow {
	out := make([]ResolutionRow, 0, len(rows))
	for _, r := range rows {
		total := nonNegative(firstValid(r.TotalPlaintes, r.Total), "totalPlaintes")
		resolved := nonNegative(firstValid(r.ResoluePlaintes, r.Resolues), "resoluePlaintes")
		if resolved > total {
			slog.Warn("resolved count above total capped", "commune", string(r.Commune), "resolved", resolved, "total", total)
			resolved = total
		}

		var rate float64
		if n := firstValid(r.TauxResolution, r.Taux); n.Valid {
			rate = n.Value
			if rate >= 0 && rate <= 1 {
				rate *= 100
			}
		} else if total > 0 {
			rate = 100 * float64(resolved) / float64(total)
		}
		rate = math.Max(0, math.Min(100, RoundTo(rate, 1)))

		out = append(out, ResolutionRow{
			Commune:  ZoneLabel(firstNonEmpty(string(r.Commune), string(r.Zone))),
			Category: CategoryLabel(firstNonEmpty(string(r.Categorie), string(r.Category))),
			Total:    total,
			Resolved: resolved,
			Rate:     rate,
		})
	}
	return out
}

// RoundTo rounds v half away from zero to the given number of decimals.
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// NormalizeComplaint converts a backend complaint. When analysis is non-nil it
// takes precedence over the analysis fields embedded in the complaint.
func NormalizeComplaint(w WireComplaint, analysis *WireAnalysis) Complaint {
	if analysis == nil {
		analysis = w.AnalyseIA
	}

	c := Complaint{
		ID:          int64(w.ID.Value),
		Description: strings.TrimSpace(w.Description),
		Category:    CategoryLabel(firstNonEmpty(string(w.Categorie), string(w.Category))),
		Zone:        ZoneLabel(string(w.Zone)),
		Location:    strings.TrimSpace(w.Localisation),
		ImageURL:    strings.TrimSpace(w.ImgURL),
		AIScores:    w.Scores,
	}

	if st, err := ParseStatus(firstNonEmpty(w.Statut, w.Status)); err == nil {
		c.Status = st
	} else {
		c.Status = StatusSubmitted
	}

	if ts := firstNonEmpty(w.DateSoumission, w.SubmittedAt); ts != "" {
		if t, ok := parseTime(ts); ok {
			c.SubmittedAt = t
		} else {
			slog.Debug("unparseable complaint timestamp", "id", c.ID, "value", ts)
		}
	}

	priority, urgency := w.Priorite, w.NiveauUrgence
	if analysis != nil {
		if analysis.Priorite.Valid {
			priority = analysis.Priorite
		}
		if analysis.NiveauUrgence != "" {
			urgency = analysis.NiveauUrgence
		}
		if len(analysis.Scores) > 0 {
			c.AIScores = analysis.Scores
		}
		if c.Category == UnknownCategory && analysis.Categorie != "" {
			c.Category = string(analysis.Categorie)
		}
	}
	if priority.Valid {
		c.PriorityScore = ClampPriority(priority.Value)
	}
	c.UrgencyLevel = strings.TrimSpace(urgency)
	return c
}

// NormalizeEnvelope unwraps the {plainte, analyse_ia} response shape.
func NormalizeEnvelope(e WireComplaintEnvelope) (Complaint, bool) {
	if e.Plainte == nil {
		return Complaint{}, false
	}
	return NormalizeComplaint(*e.Plainte, e.AnalyseIA), true
}

// NormalizeClassification converts an NLP classification result.
func NormalizeClassification(w WireClassification) Classification {
	c := Classification{
		Category: CategoryLabel(string(w.Categorie)),
		Scores:   w.Scores,
		Urgency:  strings.TrimSpace(w.NiveauUrgence),
	}
	if w.Priorite.Valid {
		c.Priority = ClampPriority(w.Priorite.Value)
	}
	return c
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
