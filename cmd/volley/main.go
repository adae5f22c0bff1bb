package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/volleybench/volley/internal/config"
	"github.com/volleybench/volley/internal/dispatch"
	"github.com/volleybench/volley/internal/httpclient"
	"github.com/volleybench/volley/internal/metrics"
	"github.com/volleybench/volley/internal/output"
	"github.com/volleybench/volley/internal/probe"
	"github.com/volleybench/volley/internal/tracing"
)

const (
	progressInterval = time.Second
	shutdownTimeout  = 5 * time.Second
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	builder, err := httpclient.NewRequestBuilder(cfg)
	if err != nil {
		return err
	}

	client := httpclient.NewClient(cfg.Timeout, cfg.Insecure)
	collector := metrics.NewCollector()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	provider, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		_ = provider.Shutdown(shutdownCtx)
	}()

	proberOpts := []probe.Option{probe.WithCollector(collector)}
	if cfg.Tracing.Enabled() {
		proberOpts = append(proberOpts, probe.WithTracer(provider.Tracer(), provider.ShouldPropagate()))
	}
	prober, err := probe.New(client, builder, proberOpts...)
	if err != nil {
		return err
	}

	opts := dispatch.Options{
		Count:       cfg.Count,
		Parallelism: cfg.Parallel,
		Wait:        cfg.WaitRange,
	}
	for _, warning := range opts.Warnings() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}

	dispatcher, err := dispatch.New(prober, opts)
	if err != nil {
		return err
	}

	var progress *output.ProgressReporter
	if !cfg.CSVStdout && !cfg.Silent {
		progress = output.NewProgressReporter(collector, progressInterval, os.Stderr)
		progress.Start()
	}

	collector.Start()
	samples, err := dispatcher.Run(ctx)
	if progress != nil {
		progress.Stop()
	}
	if err != nil {
		return err
	}

	if cfg.Output != "" {
		if err := output.AppendCSVFile(cfg.Output, samples); err != nil {
			return err
		}
	}
	if cfg.CSVStdout {
		return output.WriteCSV(stdout, samples)
	}
	if cfg.Silent {
		return nil
	}

	summary, err := metrics.Summarize(samples)
	if err != nil {
		if errors.Is(err, metrics.ErrNoResults) {
			output.PrintNoResults(stdout)
			return nil
		}
		return err
	}
	output.PrintSummary(stdout, summary)
	return nil
}
