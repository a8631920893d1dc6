// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

// Package dashboard assembles the statistics view: it fetches the raw rows for
// one period and runs them through the stats transforms into a Snapshot.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/observatoire/plaintes/internal/api"
	"github.com/observatoire/plaintes/internal/daterange"
	"github.com/observatoire/plaintes/internal/model"
	"github.com/observatoire/plaintes/internal/recommend"
	"github.com/observatoire/plaintes/internal/stats"
)

// DefaultTopN is the ranking length when Params.TopN is zero.
const DefaultTopN = 5

// ErrIncompleteRange is returned when a custom range has no end date.
var ErrIncompleteRange = errors.New("date range is incomplete")

// Source is the backend surface the dashboard reads. *api.Client satisfies it.
type Source interface {
	Frequency(ctx context.Context, r daterange.Range) ([]model.CountBucket, error)
	Trends(ctx context.Context, r daterange.Range) ([]model.ZoneTrend, error)
	Hourly(ctx context.Context, r daterange.Range) ([]model.HourlyCount, error)
	Resolution(ctx context.Context, r daterange.Range) ([]model.ResolutionRow, error)
	ListComplaints(ctx context.Context, p api.ListParams) (model.Page[model.Complaint], error)
}

var _ Source = (*api.Client)(nil)

// Params selects what the dashboard shows. It replaces any ambient UI state:
// every call gets the full selection.
type Params struct {
	// Token names a preset period. Empty or custom uses Range.
	Token daterange.Token
	Range daterange.Range

	Zone     string
	Category string

	// TopN limits the ranking; zero means DefaultTopN and negative means all.
	TopN int
	// Dims are the grouping dimensions; empty means zone and category.
	Dims []stats.Dimension

	// ComplaintSample, when positive, also fetches that many recent
	// complaints for the urgency breakdown.
	ComplaintSample int
}

// Period resolves the effective date range at now.
func (p Params) Period(now time.Time) (daterange.Range, error) {
	if p.Token != "" && p.Token != daterange.Custom {
		return daterange.Resolve(p.Token, now)
	}
	r := daterange.Repair(p.Range)
	if !r.Complete() {
		return r, ErrIncompleteRange
	}
	return r, nil
}

func (p Params) topN() int {
	switch {
	case p.TopN == 0:
		return DefaultTopN
	case p.TopN < 0:
		return 0
	}
	return p.TopN
}

// Data is the raw material for one snapshot.
type Data struct {
	Range      daterange.Range       `json:"range"`
	Counts     []model.CountBucket   `json:"counts"`
	Trends     []model.ZoneTrend     `json:"trends"`
	Hourly     []model.HourlyCount   `json:"hourly"`
	Resolution []model.ResolutionRow `json:"resolution"`
	Complaints []model.Complaint     `json:"complaints,omitempty"`
}

// Load fetches every statistics endpoint for r concurrently. The first
// failure cancels the other requests and is returned; no partial Data is
// ever returned.
func Load(ctx context.Context, src Source, r daterange.Range, sample int) (Data, error) {
	var d Data
	d.Range = r
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := src.Frequency(gctx, r)
		if err != nil {
			return fmt.Errorf("frequency: %w", err)
		}
		d.Counts = rows
		return nil
	})
	g.Go(func() error {
		rows, err := src.Trends(gctx, r)
		if err != nil {
			return fmt.Errorf("trends: %w", err)
		}
		d.Trends = rows
		return nil
	})
	g.Go(func() error {
		rows, err := src.Hourly(gctx, r)
		if err != nil {
			return fmt.Errorf("hourly: %w", err)
		}
		d.Hourly = rows
		return nil
	})
	g.Go(func() error {
		rows, err := src.Resolution(gctx, r)
		if err != nil {
			return fmt.Errorf("resolution: %w", err)
		}
		d.Resolution = rows
		return nil
	})
	if sample > 0 {
		g.Go(func() error {
			page, err := src.ListComplaints(gctx, api.ListParams{Size: sample, SortBy: "dateSoumission", SortDir: "desc"})
			if err != nil {
				return fmt.Errorf("complaints: %w", err)
			}
			d.Complaints = page.Content
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Data{}, err
	}
	slog.Debug("dashboard data loaded",
		"range", r.String(),
		"counts", len(d.Counts),
		"trends", len(d.Trends),
		"hourly", len(d.Hourly),
		"resolution", len(d.Resolution),
		"complaints", len(d.Complaints))
	return d, nil
}

// Snapshot is the computed view for one period and selection.
type Snapshot struct {
	GeneratedAt time.Time       `json:"generatedAt"`
	Token       daterange.Token `json:"token"`
	Range       daterange.Range `json:"range"`
	Zone        string          `json:"zone,omitempty"`
	Category    string          `json:"category,omitempty"`

	Total   int                 `json:"total"`
	Buckets []model.CountBucket `json:"buckets"`
	Ranking []stats.RankedEntry `json:"ranking"`

	Trends    []stats.TrendPoint `json:"trends"`
	Anomalies []stats.TrendPoint `json:"anomalies,omitempty"`

	Hourly    []model.HourlyCount `json:"hourly"`
	PeakHour  int                 `json:"peakHour"`
	PeakCount int                 `json:"peakCount"`
	HasPeak   bool                `json:"hasPeak"`

	Resolution     stats.ResolutionSummary `json:"resolution"`
	ResolutionRows []model.ResolutionRow   `json:"resolutionRows"`

	// Urgency is nil when no complaints were sampled.
	Urgency map[stats.Urgency]int `json:"urgency,omitempty"`

	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// Build computes a Snapshot from d. It is pure: d is not modified.
func Build(d Data, p Params, now time.Time) Snapshot {
	counts := filterCounts(d.Counts, p.Zone, p.Category)
	buckets := stats.AggregateOrdered(counts, p.Dims...)

	// Presets can resolve to the same days (30d and month on the 31st), so
	// only a custom range is matched back to a token.
	token := p.Token
	if token == "" || token == daterange.Custom {
		token = daterange.Match(d.Range, now)
	}
	s := Snapshot{
		GeneratedAt: now,
		Token:       token,
		Range:       d.Range,
		Zone:        p.Zone,
		Category:    p.Category,
		Total:       stats.Total(buckets),
		Buckets:     buckets,
		Ranking:     stats.Rank(buckets, p.topN()),
	}

	countByLabel := make(map[string]int)
	for k, b := range stats.Aggregate(counts) {
		countByLabel[k.Label()] = b.Count
	}
	s.Trends = stats.TrendPoints(stats.FilterTrends(d.Trends, p.Zone, p.Category))
	var steepest *float64
	for i := range s.Trends {
		pt := &s.Trends[i]
		pt.Count = countByLabel[pt.Label]
		if pt.Class.NoData {
			continue
		}
		if pt.Anomalous() {
			s.Anomalies = append(s.Anomalies, *pt)
		}
		if pt.Value > 0 && (steepest == nil || pt.Value > *steepest) {
			v := pt.Value
			steepest = &v
		}
	}

	s.Hourly = stats.FillHours(d.Hourly)
	s.PeakHour, s.PeakCount, s.HasPeak = stats.PeakHour(s.Hourly)

	s.ResolutionRows = stats.FilterResolution(d.Resolution, stats.ResolutionFilter{
		Commune:  p.Zone,
		Category: p.Category,
	})
	s.Resolution = stats.SummarizeResolution(s.ResolutionRows)

	if d.Complaints != nil {
		s.Urgency = stats.UrgencyBreakdown(d.Complaints)
	}

	in := recommend.Input{Buckets: counts}
	if steepest != nil {
		t := recommend.TrendFromChange(*steepest)
		in.Trend = &t
	}
	s.Recommendations = recommend.Generate(in)
	s.Summary = recommend.Summarize(counts, p.Zone, now)
	return s
}

func filterCounts(rows []model.CountBucket, zone, category string) []model.CountBucket {
	if zone == "" && category == "" {
		return rows
	}
	var out []model.CountBucket
	for _, r := range rows {
		if zone != "" && r.Zone != zone {
			continue
		}
		if category != "" && r.Category != category {
			continue
		}
		out = append(out, r)
	}
	return out
}
