package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/volleybench/volley/internal/metrics"
)

// Timestamps are serialized as RFC3339 with nanosecond precision. This
// is the stable documented form; CSV consumers can rely on it.
const timestampLayout = time.RFC3339Nano

// WriteCSV emits one `timestamp,status,latency_ns` row per sample, in
// the order given (completion order).
func WriteCSV(w io.Writer, samples []metrics.Sample) error {
	for _, s := range samples {
		_, err := fmt.Fprintf(w, "%s,%d,%d\n",
			s.Timestamp.Format(timestampLayout), s.Status, s.Latency.Nanoseconds())
		if err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	return nil
}

// AppendCSVFile appends rows to path, creating missing parent
// directories and the file itself on first use. An advisory file lock
// guards against interleaved rows from concurrent runs.
func AppendCSVFile(path string, samples []metrics.Sample) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	lock := flock.New(path)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock output file: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, samples); err != nil {
		return err
	}
	return f.Close()
}
