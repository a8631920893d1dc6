package stats

import "github.com/observatoire/plaintes/internal/model"

// HoursPerDay is the number of buckets in an hour-of-day histogram.
const HoursPerDay = 24

// FillHours returns a 24-bucket histogram indexed by hour. Missing hours are
// zero; repeated hours are summed; hours outside 0..23 are ignored.
func FillHours(counts []model.HourlyCount) []model.HourlyCount {
	out := make([]model.HourlyCount, HoursPerDay)
	for h := range out {
		out[h].Hour = h
	}
	for _, c := range counts {
		if c.Hour < 0 || c.Hour >= HoursPerDay {
			continue
		}
		out[c.Hour].Count += c.Count
	}
	return out
}

// PeakHour returns the busiest hour and its count. Ties go to the earliest
// hour. ok is false when every bucket is empty.
func PeakHour(counts []model.HourlyCount) (hour, count int, ok bool) {
	for _, c := range FillHours(counts) {
		if c.Count > count {
			hour, count, ok = c.Hour, c.Count, true
		}
	}
	return hour, count, ok
}
