// Package dispatch fans a fixed number of probes out over a bounded
// worker pool.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/volleybench/volley/internal/durations"
	"github.com/volleybench/volley/internal/metrics"
)

// Doer executes one probe.
type Doer interface {
	Do(ctx context.Context) (metrics.Sample, error)
}

// Options controls a batch run.
type Options struct {
	// Count is the total number of probes to send.
	Count int
	// Parallelism caps how many probes are in flight at once.
	Parallelism int
	// Wait, when set, is slept before each probe. A non-flat range
	// draws a fresh random duration per probe.
	Wait *durations.Range
	// Seed feeds the per-worker jitter sources. Zero picks a
	// time-based seed.
	Seed int64
}

// Warnings reports configuration combinations that are accepted but
// probably not what the caller meant.
func (o Options) Warnings() []string {
	var warnings []string
	if o.Wait != nil && o.Wait.Flat() && o.Parallelism > 1 {
		warnings = append(warnings,
			"wait is a fixed duration and parallel is more than 1, so every worker waits the "+
				"same time and probes fire in near-simultaneous bursts; use a range instead, "+
				"for example: -w 900ms..1100ms")
	}
	return warnings
}

// Dispatcher runs batches of probes. A single error fails the whole
// batch: in-flight probes are cancelled and no samples are returned.
type Dispatcher struct {
	doer Doer
	opt  Options
}

func New(doer Doer, opt Options) (*Dispatcher, error) {
	if doer == nil {
		return nil, errors.New("doer cannot be nil")
	}
	if opt.Count < 1 {
		return nil, fmt.Errorf("count must be >= 1, got %d", opt.Count)
	}
	if opt.Parallelism < 1 {
		return nil, fmt.Errorf("parallelism must be >= 1, got %d", opt.Parallelism)
	}
	if opt.Seed == 0 {
		opt.Seed = time.Now().UnixNano()
	}
	return &Dispatcher{doer: doer, opt: opt}, nil
}

type outcome struct {
	sample metrics.Sample
	err    error
}

// Run executes the batch and returns samples in completion order. The
// first probe error cancels the remaining probes and is returned alone.
func (d *Dispatcher) Run(ctx context.Context) ([]metrics.Sample, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan struct{})
	results := make(chan outcome)

	go func() {
		defer close(jobs)
		for i := 0; i < d.opt.Count; i++ {
			select {
			case jobs <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(d.opt.Parallelism)
	for i := 0; i < d.opt.Parallelism; i++ {
		go func(worker int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(d.opt.Seed + int64(worker)))
			for range jobs {
				if ctx.Err() != nil {
					return
				}
				if d.opt.Wait != nil {
					if err := sleep(ctx, d.opt.Wait.Sample(rng)); err != nil {
						return
					}
				}
				sample, err := d.doer.Do(ctx)
				select {
				case results <- outcome{sample: sample, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}(i)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	samples := make([]metrics.Sample, 0, d.opt.Count)
	var firstErr error
	for out := range results {
		if firstErr != nil {
			continue
		}
		if out.err != nil {
			firstErr = out.err
			cancel()
			continue
		}
		samples = append(samples, out.sample)
	}

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
