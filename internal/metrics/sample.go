// Package metrics holds the per-request sample model, the exact
// order-statistics summary computed after a batch completes, and a
// histogram-backed live collector for in-flight progress reporting.
package metrics

import "time"

// Sample is the record of one completed request. It is created once by the
// prober and never mutated afterwards.
type Sample struct {
	// Status is the HTTP status code of the response.
	Status int
	// Latency is the monotonic time from submitting the request until the
	// response status was available.
	Latency time.Duration
	// Timestamp is the wall-clock instant the request was started.
	Timestamp time.Time
}
