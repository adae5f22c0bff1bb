package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fatih/color"
)

func TestRunMalformedHeaderFailsBeforeDispatch(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	out := filepath.Join(t.TempDir(), "results.csv")
	var buf strings.Builder
	err := run([]string{"-H", "BadHeader", "-o", out, server.URL}, &buf)
	if err == nil {
		t.Fatal("expected header validation error")
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Errorf("server was hit %d times, want 0", hits)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("output file should not exist after validation failure")
	}
}

func TestRunBatchPrintsSummary(t *testing.T) {
	color.NoColor = true
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	var buf strings.Builder
	if err := run([]string{"-n", "5", server.URL}, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atomic.LoadInt32(&hits) != 5 {
		t.Errorf("server hit %d times, want 5", hits)
	}
	got := buf.String()
	if !strings.Contains(got, "Results of 5 probes:") {
		t.Errorf("summary header missing:\n%s", got)
	}
	if !strings.Contains(got, "200: 5") {
		t.Errorf("status histogram missing:\n%s", got)
	}
}

func TestRunCSVStdout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	var buf strings.Builder
	if err := run([]string{"-n", "3", "--csv", server.URL}, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d CSV rows, want 3:\n%s", len(lines), buf.String())
	}
	for i, line := range lines {
		fields := strings.Split(line, ",")
		if len(fields) != 3 {
			t.Fatalf("row %d has %d fields: %q", i, len(fields), line)
		}
		if fields[1] != "202" {
			t.Errorf("row %d status = %q, want 202", i, fields[1])
		}
	}
	if strings.Contains(buf.String(), "Results of") {
		t.Error("csv mode should not print the text summary")
	}
}

func TestRunWritesOutputFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	out := filepath.Join(t.TempDir(), "nested", "results.csv")
	var buf strings.Builder
	if err := run([]string{"-n", "4", "--silent", "-o", out, server.URL}, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("silent run should print nothing, got %q", buf.String())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "\n"); got != 4 {
		t.Errorf("output file has %d rows, want 4", got)
	}
}

func TestRunTransportFailureProducesNoReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	out := filepath.Join(t.TempDir(), "results.csv")
	var buf strings.Builder
	err := run([]string{"-n", "10", "-p", "2", "--silent", "-o", out, server.URL}, &buf)
	if err == nil {
		t.Fatal("expected transport error")
	}
	if buf.Len() != 0 {
		t.Errorf("failed run should print nothing, got %q", buf.String())
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("output file should not exist after batch failure")
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	var buf strings.Builder
	cases := [][]string{
		{"ftp://example.com"},
		{"-n", "0", "http://example.com"},
		{"-w", "20ms..10ms", "http://example.com"},
		{"-X", "GE T", "http://example.com"},
	}
	for _, args := range cases {
		if err := run(args, &buf); err == nil {
			t.Errorf("run(%v) should fail", args)
		}
	}
}

func TestRunHelpExitsClean(t *testing.T) {
	var buf strings.Builder
	if err := run([]string{"--help"}, &buf); err != nil {
		t.Fatalf("help should not error: %v", err)
	}
}
