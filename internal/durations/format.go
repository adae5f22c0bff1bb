package durations

import (
	"fmt"
	"strconv"
	"time"
)

// unitify picks the largest time unit not exceeding the duration and returns
// its suffix together with the duration's magnitude expressed in that unit.
func unitify(d time.Duration) (string, float64) {
	nanos := d.Nanoseconds()
	v := float64(nanos)
	switch {
	case nanos < int64(time.Microsecond):
		return "ns", v
	case nanos < int64(time.Millisecond):
		return "µs", v / float64(time.Microsecond)
	case nanos < int64(time.Second):
		return "ms", v / float64(time.Millisecond)
	case nanos < int64(time.Minute):
		return "s", v / float64(time.Second)
	case nanos < int64(time.Hour):
		return "m", v / float64(time.Minute)
	default:
		return "h", v / float64(time.Hour)
	}
}

// Format renders a duration compactly in its largest fitting unit, e.g.
// "123.456µs" or "1.5m". The magnitude keeps its shortest exact decimal form.
func Format(d time.Duration) string {
	unit, v := unitify(d)
	return strconv.FormatFloat(v, 'f', -1, 64) + unit
}

// FormatAligned renders like Format but with a fixed precision and a minimum
// width for the numeric part, right-aligned for column layouts.
func FormatAligned(d time.Duration, width, precision int) string {
	unit, v := unitify(d)
	return fmt.Sprintf("%*.*f%s", width, precision, v, unit)
}
