package output_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/volleybench/volley/internal/metrics"
	"github.com/volleybench/volley/internal/output"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestProgressReporterEmitsUpdates(t *testing.T) {
	collector := metrics.NewCollector()
	collector.Start()
	collector.Record(10*time.Millisecond, nil)
	collector.Record(20*time.Millisecond, nil)

	buf := &syncBuffer{}
	reporter := output.NewProgressReporter(collector, 5*time.Millisecond, buf)
	reporter.Start()
	time.Sleep(30 * time.Millisecond)
	reporter.Stop()

	got := buf.String()
	if !strings.Contains(got, "Probes: 2") {
		t.Errorf("progress line missing totals: %q", got)
	}
	if !strings.Contains(got, "Failures: 0") {
		t.Errorf("progress line missing failures: %q", got)
	}
}

func TestProgressReporterStopIsIdempotent(t *testing.T) {
	collector := metrics.NewCollector()
	reporter := output.NewProgressReporter(collector, time.Millisecond, &syncBuffer{})
	reporter.Start()
	reporter.Stop()
	reporter.Stop() // second stop must not panic or block
}
