// Package output renders batch results: the text summary, CSV rows,
// and the live progress line.
package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"github.com/volleybench/volley/internal/durations"
	"github.com/volleybench/volley/internal/metrics"
)

// PrintSummary writes the human-readable batch summary. Min, Max, and
// First are annotated with the status code of the sample that produced
// them.
func PrintSummary(w io.Writer, s metrics.Summary) {
	fmt.Fprintf(w, "Results of %d probes:\n\n", s.Count)
	fmt.Fprintf(w, "Min:         %s\t(%s)\n", durations.Format(s.Min.Latency), statusText(s.Min.Status))
	fmt.Fprintf(w, "Max:         %s\t(%s)\n", durations.Format(s.Max.Latency), statusText(s.Max.Status))
	fmt.Fprintf(w, "First:       %s\t(%s)\n", durations.Format(s.First.Latency), statusText(s.First.Status))
	fmt.Fprintf(w, "Average:     %s\n", durations.Format(s.Mean))
	fmt.Fprintf(w, "Std. Dev.:   %s\n", durations.Format(s.StdDev))
	fmt.Fprintf(w, "90th %%ile.:  %s\n", durations.Format(s.P90))
	fmt.Fprintf(w, "95th %%ile.:  %s\n", durations.Format(s.P95))
	fmt.Fprintf(w, "99th %%ile.:  %s\n", durations.Format(s.P99))
	fmt.Fprintf(w, "Total:       %s\n", durations.Format(s.Sum))

	if len(s.Histogram.Buckets) > 0 {
		fmt.Fprintf(w, "\nStatus codes:\n")
		for _, b := range s.Histogram.Buckets {
			fmt.Fprintf(w, "  %s: %*d (%.1f%%)\n", statusText(b.Status), s.Histogram.Width, b.Count, b.Percent)
		}
	}
}

// PrintNoResults writes the informational empty-batch notice.
func PrintNoResults(w io.Writer) {
	fmt.Fprintln(w, "no result values")
}

func statusText(code int) string {
	text := strconv.Itoa(code)
	switch {
	case code >= 200 && code < 300:
		return color.GreenString(text)
	case code >= 400 && code < 500:
		return color.YellowString(text)
	case code >= 500:
		return color.RedString(text)
	default:
		return text
	}
}
