package metrics

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Collector records per-request measurements while a batch is in flight so a
// progress reporter can show running counts and approximate percentiles. The
// final summary is always computed from the raw sample set, not from here.
type Collector struct {
	mu         sync.Mutex
	hist       *hdrhistogram.Histogram
	total      int64
	failures   int64
	sumLatency time.Duration
	start      time.Time
}

// Progress is a point-in-time snapshot of the collector.
type Progress struct {
	Total          int64
	Failures       int64
	MeanLatency    time.Duration
	P50Latency     time.Duration
	P99Latency     time.Duration
	RequestsPerSec float64
}

func NewCollector() *Collector {
	// Track latencies from 1µs up to 60s with 3 significant figures.
	return &Collector{
		hist:  hdrhistogram.New(1, 60_000_000, 3),
		start: time.Now(),
	}
}

// Start marks the moment the batch actually begins, for RPS calculation.
func (c *Collector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start = time.Now()
}

// Record adds one finished probe. Safe for concurrent use.
func (c *Collector) Record(latency time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total++
	if err != nil {
		c.failures++
	}

	if latency > 0 {
		us := latency.Microseconds()
		if us < c.hist.LowestTrackableValue() {
			us = c.hist.LowestTrackableValue()
		}
		if us > c.hist.HighestTrackableValue() {
			us = c.hist.HighestTrackableValue()
		}
		_ = c.hist.RecordValue(us)
	}
	c.sumLatency += latency
}

// Snapshot returns the current progress figures.
func (c *Collector) Snapshot() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := Progress{
		Total:    c.total,
		Failures: c.failures,
	}
	if c.total > 0 {
		p.MeanLatency = time.Duration(int64(c.sumLatency) / c.total)
	}
	if c.hist.TotalCount() > 0 {
		p.P50Latency = time.Duration(c.hist.ValueAtQuantile(50)) * time.Microsecond
		p.P99Latency = time.Duration(c.hist.ValueAtQuantile(99)) * time.Microsecond
	}
	if elapsed := time.Since(c.start); elapsed > 0 && c.total > 0 {
		p.RequestsPerSec = float64(c.total) / elapsed.Seconds()
	}
	return p
}
