// internal/metrics/statgroup.go
package metrics

import (
	"math"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// hdrScaleFactor maps fractional metric values onto the integer histogram.
const hdrScaleFactor = 1e3

// StatGroup tracks one metric across runs: exact mean/min/max/stddev via
// Welford's running statistics, and quantiles via an HDR histogram.
type StatGroup struct {
	hist    *hdrhistogram.Histogram
	running RunningStat
}

// NewStatGroup returns a StatGroup covering values up to one hour in
// milliseconds at the histogram's scale factor.
func NewStatGroup() *StatGroup {
	return &StatGroup{
		hist: hdrhistogram.New(1, 3600000000, 4),
	}
}

// Push records a single observed value. Values below the histogram's
// resolution land in the zero bucket rather than being floored upward.
func (s *StatGroup) Push(value float64) {
	scaled := int64(value * hdrScaleFactor)
	if scaled < 0 {
		scaled = 0
	}
	_ = s.hist.RecordValue(scaled)
	updateRunningStat(&s.running, value)
}

// Count returns the number of recorded values.
func (s *StatGroup) Count() int64 {
	return s.running.Count
}

// Summary condenses the group into its serialized form.
func (s *StatGroup) Summary() Distribution {
	if s.running.Count == 0 {
		return Distribution{}
	}
	return Distribution{
		Mean:   s.running.Mean,
		Min:    s.running.Min,
		Max:    s.running.Max,
		StdDev: s.stdDev(),
		P50:    s.quantile(50.0),
		P95:    s.quantile(95.0),
		P99:    s.quantile(99.0),
	}
}

func (s *StatGroup) quantile(q float64) float64 {
	return float64(s.hist.ValueAtQuantile(q)) / hdrScaleFactor
}

func (s *StatGroup) stdDev() float64 {
	if s.running.Count < 2 {
		return 0
	}
	return math.Sqrt(s.running.M2 / float64(s.running.Count-1))
}

// updateRunningStat updates a single running statistic using Welford's online algorithm.
func updateRunningStat(rs *RunningStat, value float64) {
	rs.Count++
	if rs.Count == 1 {
		rs.Min = value
		rs.Max = value
	} else {
		if value < rs.Min {
			rs.Min = value
		}
		if value > rs.Max {
			rs.Max = value
		}
	}

	delta := value - rs.Mean
	rs.Mean += delta / float64(rs.Count)
	delta2 := value - rs.Mean
	rs.M2 += delta * delta2
}
