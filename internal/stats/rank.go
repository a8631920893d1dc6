// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package stats

import (
	"sort"

	"github.com/observatoire/plaintes/internal/model"
)

// Tier is the presentation tier of a ranked entry.
type Tier string

const (
	TierGold    Tier = "gold"
	TierSilver  Tier = "silver"
	TierBronze  Tier = "bronze"
	TierDefault Tier = "default"
)

// TierFor returns the tier for a 1-based rank.
func TierFor(rank int) Tier {
	switch rank {
	case 1:
		return TierGold
	case 2:
		return TierSilver
	case 3:
		return TierBronze
	default:
		return TierDefault
	}
}

// RankedEntry is a CountBucket with its position in a ranking.
type RankedEntry struct {
	model.CountBucket
	Percentage float64 `json:"percentage"`
	Rank       int     `json:"rank"`
	Tier       Tier    `json:"tier"`
}

// Label returns the display label of the entry's group.
func (e RankedEntry) Label() string {
	return GroupKey{Zone: e.Zone, Category: e.Category}.Label()
}

// Rank sorts buckets by count descending and keeps the first limit entries.
// Ties keep their input order. Percentages are computed against the total of
// all buckets, before truncation, and are not rounded. A limit <= 0 keeps
// every entry.
func Rank(buckets []model.CountBucket, limit int) []RankedEntry {
	sorted := make([]model.CountBucket, len(buckets))
	copy(sorted, buckets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})

	total := Total(buckets)
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	out := make([]RankedEntry, len(sorted))
	for i, b := range sorted {
		var pct float64
		if total > 0 {
			pct = 100 * float64(b.Count) / float64(total)
		}
		out[i] = RankedEntry{
			CountBucket: b,
			Percentage:  pct,
			Rank:        i + 1,
			Tier:        TierFor(i + 1),
		}
	}
	return out
}
