package metrics

import (
	"errors"
	"math"
	"sort"
	"time"
)

// ErrNoResults signals that a summary was requested over zero samples. The
// caller is expected to report it as a notice, not a failure.
var ErrNoResults = errors.New("no result values")

// Summary aggregates a completed sample set.
type Summary struct {
	Count int

	// Min and Max are the samples achieving the extreme latencies; on ties
	// the first-seen sample wins. First is the sample at index 0 of the
	// completion-ordered set, not the fastest.
	Min   Sample
	Max   Sample
	First Sample

	Mean   time.Duration
	StdDev time.Duration
	Median time.Duration
	P90    time.Duration
	P95    time.Duration
	P99    time.Duration
	Sum    time.Duration

	Histogram Histogram
}

// Summarize computes the batch summary. It is a pure function of the
// completion-ordered sample set: order statistics are taken on a sorted copy,
// the caller's slice is left untouched.
func Summarize(samples []Sample) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, ErrNoResults
	}

	n := len(samples)
	s := Summary{
		Count: n,
		Min:   samples[0],
		Max:   samples[0],
		First: samples[0],
	}

	var sum time.Duration
	for _, sample := range samples {
		sum += sample.Latency
		if sample.Latency < s.Min.Latency {
			s.Min = sample
		}
		if sample.Latency > s.Max.Latency {
			s.Max = sample
		}
	}
	s.Sum = sum
	s.Mean = sum / time.Duration(n)

	mean := float64(sum) / float64(n)
	var acc float64
	for _, sample := range samples {
		d := float64(sample.Latency) - mean
		acc += d * d
	}
	// Population variance: divide by n, not n-1.
	s.StdDev = time.Duration(math.Sqrt(acc / float64(n)))

	sorted := make([]time.Duration, n)
	for i, sample := range samples {
		sorted[i] = sample.Latency
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	if n%2 == 1 {
		s.Median = sorted[n/2]
	} else {
		s.Median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	s.P90 = Percentile(sorted, 0.90)
	s.P95 = Percentile(sorted, 0.95)
	s.P99 = Percentile(sorted, 0.99)

	s.Histogram = buildHistogram(samples)

	return s, nil
}

// Percentile returns the p-th percentile (p in (0,1]) of an ascending-sorted
// latency slice. Let rank = n*p and idx = floor(rank)-1: values below the
// first rank clamp to the smallest element, values at or past the last rank
// clamp to the element at idx, and anything between interpolates linearly
// with weight rank-floor(rank), rounded half away from zero to a whole
// nanosecond.
func Percentile(sorted []time.Duration, p float64) time.Duration {
	rank := float64(len(sorted)) * p
	idx := int(math.Floor(rank)) - 1
	if idx < 0 {
		return sorted[0]
	}
	if idx+1 >= len(sorted) {
		return sorted[idx]
	}

	frac := rank - math.Floor(rank)
	a := float64(sorted[idx])
	b := float64(sorted[idx+1])
	return time.Duration(math.Round(a*(1-frac) + b*frac))
}
