package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/observatoire/plaintes/internal/model"
)

// Band is a qualitative resolution performance level.
type Band string

const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandFair      Band = "fair"
	BandPoor      Band = "poor"
)

// BandFor returns the performance band for a resolution rate in percent.
func BandFor(rate float64) Band {
	switch {
	case rate >= 80:
		return BandExcellent
	case rate >= 60:
		return BandGood
	case rate >= 40:
		return BandFair
	default:
		return BandPoor
	}
}

// CategoryResolution is the rollup of resolution rows for one category.
type CategoryResolution struct {
	Category string  `json:"categorie"`
	Total    int     `json:"total"`
	Resolved int     `json:"resolues"`
	Rate     float64 `json:"taux"`
}

// ResolutionSummary describes a set of resolution rows.
type ResolutionSummary struct {
	Rows        int                  `json:"rows"`
	Total       int                  `json:"totalPlaintes"`
	Resolved    int                  `json:"resoluePlaintes"`
	GlobalRate  float64              `json:"tauxGlobal"`
	AverageRate float64              `json:"tauxMoyen"`
	Band        Band                 `json:"band"`
	Best        *model.ResolutionRow `json:"best,omitempty"`
	Worst       *model.ResolutionRow `json:"worst,omitempty"`
	Categories  []CategoryResolution `json:"categories"`
}

// SummarizeResolution computes totals and rates over rows. The global rate is
// resolved/total across all rows; the average rate is the unweighted mean of
// the row rates. Both are rounded to one decimal. Best and worst keep the
// first row on ties. Categories appear in first-seen order.
func SummarizeResolution(rows []model.ResolutionRow) ResolutionSummary {
	s := ResolutionSummary{Rows: len(rows), Categories: []CategoryResolution{}}
	if len(rows) == 0 {
		s.Band = BandFor(0)
		return s
	}

	index := make(map[string]int)
	var rateSum float64
	for i := range rows {
		r := rows[i]
		s.Total += r.Total
		s.Resolved += r.Resolved
		rateSum += r.Rate

		if s.Best == nil || r.Rate > s.Best.Rate {
			s.Best = &rows[i]
		}
		if s.Worst == nil || r.Rate < s.Worst.Rate {
			s.Worst = &rows[i]
		}

		j, ok := index[r.Category]
		if !ok {
			j = len(s.Categories)
			index[r.Category] = j
			s.Categories = append(s.Categories, CategoryResolution{Category: r.Category})
		}
		s.Categories[j].Total += r.Total
		s.Categories[j].Resolved += r.Resolved
	}

	for i := range s.Categories {
		s.Categories[i].Rate = rate(s.Categories[i].Resolved, s.Categories[i].Total)
	}
	s.GlobalRate = rate(s.Resolved, s.Total)
	s.AverageRate = model.RoundTo(rateSum/float64(len(rows)), 1)
	s.Band = BandFor(s.GlobalRate)

	// Detach from the caller's slice.
	best, worst := *s.Best, *s.Worst
	s.Best, s.Worst = &best, &worst
	return s
}

func rate(resolved, total int) float64 {
	if total <= 0 {
		return 0
	}
	return model.RoundTo(100*float64(resolved)/float64(total), 1)
}

// ResolutionFilter selects resolution rows. Empty fields match everything;
// Query matches commune or category case-insensitively as a substring.
type ResolutionFilter struct {
	Commune  string
	Category string
	Query    string
}

// FilterResolution returns the rows matching f, in input order.
func FilterResolution(rows []model.ResolutionRow, f ResolutionFilter) []model.ResolutionRow {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	var out []model.ResolutionRow
	for _, r := range rows {
		if f.Commune != "" && r.Commune != f.Commune {
			continue
		}
		if f.Category != "" && r.Category != f.Category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(r.Commune), q) &&
			!strings.Contains(strings.ToLower(r.Category), q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ResolutionField is a sortable resolution column.
type ResolutionField string

const (
	FieldCommune  ResolutionField = "commune"
	FieldCategory ResolutionField = "categorie"
	FieldTotal    ResolutionField = "totalPlaintes"
	FieldResolved ResolutionField = "resoluePlaintes"
	FieldRate     ResolutionField = "tauxResolution"
)

// ParseResolutionField accepts a column name in either language.
func ParseResolutionField(s string) (ResolutionField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "commune", "zone":
		return FieldCommune, nil
	case "categorie", "category":
		return FieldCategory, nil
	case "totalplaintes", "total":
		return FieldTotal, nil
	case "resolueplaintes", "resolved", "resolues":
		return FieldResolved, nil
	case "tauxresolution", "rate", "taux", "":
		return FieldRate, nil
	default:
		return "", fmt.Errorf("unknown resolution field %q", s)
	}
}

// SortResolution returns a copy of rows sorted on field. Strings compare
// case-insensitively; ties keep input order.
func SortResolution(rows []model.ResolutionRow, field ResolutionField, desc bool) []model.ResolutionRow {
	out := make([]model.ResolutionRow, len(rows))
	copy(out, rows)
	compare := func(a, b model.ResolutionRow) int {
		switch field {
		case FieldCommune:
			return strings.Compare(strings.ToLower(a.Commune), strings.ToLower(b.Commune))
		case FieldCategory:
			return strings.Compare(strings.ToLower(a.Category), strings.ToLower(b.Category))
		case FieldTotal:
			return a.Total - b.Total
		case FieldResolved:
			return a.Resolved - b.Resolved
		default:
			switch {
			case a.Rate < b.Rate:
				return -1
			case a.Rate > b.Rate:
				return 1
			}
			return 0
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i], out[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// Communes returns the distinct communes of rows, sorted.
func Communes(rows []model.ResolutionRow) []string {
	return distinct(rows, func(r model.ResolutionRow) string { return r.Commune })
}

// Categories returns the distinct categories of rows, sorted.
func Categories(rows []model.ResolutionRow) []string {
	return distinct(rows, func(r model.ResolutionRow) string { return r.Category })
}

func distinct(rows []model.ResolutionRow, field func(model.ResolutionRow) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		v := field(r)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
