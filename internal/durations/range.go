// Package durations provides duration-range parsing and sampling plus compact
// human-readable duration formatting.
package durations

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// rangeSeparator splits the low and high bounds of a range expression.
const rangeSeparator = ".."

// Range is an inclusive-exclusive duration interval [low, high).
// A range whose bounds are equal is flat and samples deterministically.
type Range struct {
	low  time.Duration
	high time.Duration
}

// NewRange builds a range from explicit bounds.
func NewRange(low, high time.Duration) (Range, error) {
	if high < low {
		return Range{}, fmt.Errorf("range upper bound %s is below lower bound %s", high, low)
	}
	return Range{low: low, high: high}, nil
}

// ParseRange parses either a single duration ("250ms") or a range
// ("10ms..20ms"). A single duration becomes a flat range.
func ParseRange(text string) (Range, error) {
	if lowText, highText, ok := strings.Cut(text, rangeSeparator); ok {
		low, err := parseBound(lowText)
		if err != nil {
			return Range{}, err
		}
		high, err := parseBound(highText)
		if err != nil {
			return Range{}, err
		}
		return NewRange(low, high)
	}

	d, err := parseBound(text)
	if err != nil {
		return Range{}, err
	}
	return Range{low: d, high: d}, nil
}

func parseBound(text string) (time.Duration, error) {
	trimmed := strings.TrimSpace(text)
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", trimmed, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid duration %q: must not be negative", trimmed)
	}
	return d, nil
}

// Low returns the lower bound.
func (r Range) Low() time.Duration { return r.low }

// High returns the upper bound.
func (r Range) High() time.Duration { return r.high }

// Flat reports whether both bounds are equal, i.e. sampling is deterministic.
func (r Range) Flat() bool { return r.low == r.high }

// Sample draws a duration from the range. Flat ranges always return the exact
// bound; otherwise the value is uniform over [low, high). The randomness
// source is supplied by the caller so tests can substitute a seeded one.
func (r Range) Sample(rng *rand.Rand) time.Duration {
	if r.Flat() {
		return r.low
	}
	return r.low + time.Duration(rng.Int63n(int64(r.high-r.low)))
}

// String renders the range in the same syntax ParseRange accepts.
func (r Range) String() string {
	if r.Flat() {
		return r.low.String()
	}
	return r.low.String() + rangeSeparator + r.high.String()
}
