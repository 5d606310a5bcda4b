package simulation

import (
	"github.com/montanaflynn/stats"
)

// TargetStats describes a days-to-target distribution.
type TargetStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Avg    float64 `json:"avg"`
	Median float64 `json:"median"`
}

// ComputeTargetStats returns min, max, mean and median of the given day
// counts. An empty list yields all zeros. For even lengths the median is
// the mean of the two central values.
func ComputeTargetStats(days []int) TargetStats {
	if len(days) == 0 {
		return TargetStats{}
	}
	data := stats.LoadRawData(days)

	// stats only errors on empty input, which is handled above.
	lo, _ := data.Min()
	hi, _ := data.Max()
	avg, _ := data.Mean()
	median, _ := data.Median()

	return TargetStats{Min: lo, Max: hi, Avg: avg, Median: median}
}
