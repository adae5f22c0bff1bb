package metrics

import "sort"

// Bucket is the aggregated occurrence count for one status code.
type Bucket struct {
	Status  int
	Count   int
	Percent float64
}

// Histogram maps status codes to occurrence counts. Width is the decimal
// digit count of the largest bucket, used to align the count column when
// rendering.
type Histogram struct {
	Buckets []Bucket
	Width   int
}

// buildHistogram counts samples per status code. Buckets are sorted by status
// code ascending and bucket counts sum to len(samples).
func buildHistogram(samples []Sample) Histogram {
	counts := make(map[int]int)
	for _, s := range samples {
		counts[s.Status]++
	}

	buckets := make([]Bucket, 0, len(counts))
	largest := 0
	for status, count := range counts {
		buckets = append(buckets, Bucket{
			Status:  status,
			Count:   count,
			Percent: float64(count) / float64(len(samples)) * 100,
		})
		if count > largest {
			largest = count
		}
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Status < buckets[j].Status })

	return Histogram{Buckets: buckets, Width: digits(largest)}
}

func digits(n int) int {
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}
