// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

// Package stats holds the pure transforms that turn normalized complaint
// statistics into view models: aggregation, ranking, trend classification,
// priority bucketing, resolution summaries and hourly histograms. Nothing in
// this package performs I/O or mutates its inputs.
package stats

import (
	"strings"

	"github.com/observatoire/plaintes/internal/model"
)

// Dimension names a field CountBuckets can be grouped on.
type Dimension int

const (
	// DimZone groups on the zone (commune).
	DimZone Dimension = iota
	// DimCategory groups on the complaint category.
	DimCategory
)

// String returns the dimension name used in flags and config.
func (d Dimension) String() string {
	switch d {
	case DimZone:
		return "zone"
	case DimCategory:
		return "category"
	default:
		return "unknown"
	}
}

// ParseDimensions parses a comma separated list such as "zone,category".
// Unknown names are ignored; an empty result means both dimensions.
func ParseDimensions(s string) []Dimension {
	var dims []Dimension
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "zone", "commune":
			dims = append(dims, DimZone)
		case "category", "categorie":
			dims = append(dims, DimCategory)
		}
	}
	return dims
}

// GroupKey identifies one aggregation group. Fields for dimensions that are
// not grouped on stay empty.
type GroupKey struct {
	Zone     string
	Category string
}

// Label joins the non-empty key parts for display.
func (k GroupKey) Label() string {
	switch {
	case k.Zone != "" && k.Category != "":
		return k.Zone + " / " + k.Category
	case k.Zone != "":
		return k.Zone
	default:
		return k.Category
	}
}

func keyFor(b model.CountBucket, zone, category bool) GroupKey {
	var k GroupKey
	if zone {
		k.Zone = model.ZoneLabel(b.Zone)
	}
	if category {
		k.Category = model.CategoryLabel(b.Category)
	}
	return k
}

func dimFlags(dims []Dimension) (zone, category bool) {
	if len(dims) == 0 {
		return true, true
	}
	for _, d := range dims {
		switch d {
		case DimZone:
			zone = true
		case DimCategory:
			category = true
		}
	}
	return zone, category
}

// Aggregate groups records by the given dimensions and sums their counts.
// With no dimensions, records are grouped by zone and category together.
// Blank zones and categories fall into the Inconnu and Autres groups.
func Aggregate(records []model.CountBucket, dims ...Dimension) map[GroupKey]model.CountBucket {
	zone, category := dimFlags(dims)
	out := make(map[GroupKey]model.CountBucket)
	for _, r := range records {
		k := keyFor(r, zone, category)
		b := out[k]
		b.Zone, b.Category = k.Zone, k.Category
		b.Count += r.Count
		out[k] = b
	}
	return out
}

// AggregateOrdered is Aggregate with groups returned in the order their key
// was first seen in records. Rank relies on this order to break ties.
func AggregateOrdered(records []model.CountBucket, dims ...Dimension) []model.CountBucket {
	zone, category := dimFlags(dims)
	index := make(map[GroupKey]int)
	var out []model.CountBucket
	for _, r := range records {
		k := keyFor(r, zone, category)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, model.CountBucket{Zone: k.Zone, Category: k.Category})
		}
		out[i].Count += r.Count
	}
	return out
}

// Total sums the counts of all buckets.
func Total(buckets []model.CountBucket) int {
	n := 0
	for _, b := range buckets {
		n += b.Count
	}
	return n
}
