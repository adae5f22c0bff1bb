package durations

import (
	"math/rand"
	"strings"
	"testing"
	"time"
)

func TestParseRangeSingleDurationIsFlat(t *testing.T) {
	r, err := ParseRange("250ms")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Flat() {
		t.Fatalf("expected flat range, got %s", r)
	}
	if r.Low() != 250*time.Millisecond || r.High() != 250*time.Millisecond {
		t.Fatalf("unexpected bounds: %s", r)
	}
}

func TestParseRangeBounds(t *testing.T) {
	r, err := ParseRange("10ms..20ms")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Flat() {
		t.Fatalf("expected non-flat range, got %s", r)
	}
	if r.Low() != 10*time.Millisecond || r.High() != 20*time.Millisecond {
		t.Fatalf("unexpected bounds: %s", r)
	}
}

func TestParseRangeEqualBoundsIsFlat(t *testing.T) {
	r, err := ParseRange("1s..1s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Flat() {
		t.Fatalf("expected flat range, got %s", r)
	}
}

func TestParseRangeErrors(t *testing.T) {
	cases := []struct {
		input   string
		mention string
	}{
		{"banana", `"banana"`},
		{"10ms..later", `"later"`},
		{"nope..20ms", `"nope"`},
		{"", `""`},
		{"-5ms", `"-5ms"`},
		{"20ms..10ms", "below lower bound"},
	}
	for _, tc := range cases {
		_, err := ParseRange(tc.input)
		if err == nil {
			t.Errorf("ParseRange(%q): expected error", tc.input)
			continue
		}
		if !strings.Contains(err.Error(), tc.mention) {
			t.Errorf("ParseRange(%q): error %q does not mention %s", tc.input, err, tc.mention)
		}
	}
}

func TestSampleFlatIsExact(t *testing.T) {
	r, err := ParseRange("42ms")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		if got := r.Sample(rng); got != 42*time.Millisecond {
			t.Fatalf("flat sample %d: got %s, want 42ms", i, got)
		}
	}
}

func TestSampleStaysInHalfOpenInterval(t *testing.T) {
	r, err := ParseRange("10ms..20ms")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10_000; i++ {
		got := r.Sample(rng)
		if got < 10*time.Millisecond || got >= 20*time.Millisecond {
			t.Fatalf("sample %d out of [10ms,20ms): %s", i, got)
		}
	}
}

func TestSampleIsDeterministicForSeededSource(t *testing.T) {
	r, err := ParseRange("1ms..2ms")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := make([]time.Duration, 10)
	rng := rand.New(rand.NewSource(99))
	for i := range first {
		first[i] = r.Sample(rng)
	}

	rng = rand.New(rand.NewSource(99))
	for i := range first {
		if got := r.Sample(rng); got != first[i] {
			t.Fatalf("sample %d diverged: got %s, want %s", i, got, first[i])
		}
	}
}

func TestRangeString(t *testing.T) {
	if got := mustParse(t, "15ms").String(); got != "15ms" {
		t.Fatalf("flat string: got %q", got)
	}
	if got := mustParse(t, "10ms..20ms").String(); got != "10ms..20ms" {
		t.Fatalf("range string: got %q", got)
	}
}

func mustParse(t *testing.T, text string) Range {
	t.Helper()
	r, err := ParseRange(text)
	if err != nil {
		t.Fatalf("ParseRange(%q): %v", text, err)
	}
	return r
}
