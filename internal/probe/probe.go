// Package probe executes single timed requests against the target.
package probe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/volleybench/volley/internal/httpclient"
	"github.com/volleybench/volley/internal/metrics"
	"github.com/volleybench/volley/internal/tracing"
)

// Response bodies are drained to keep connections reusable, but only up
// to this many bytes per probe.
const maxDrainBytes = 1024 * 1024

// Prober sends one request per Do call and reports the observed status
// code and latency. It is safe for concurrent use.
type Prober struct {
	client    *http.Client
	builder   *httpclient.RequestBuilder
	collector *metrics.Collector
	tracer    trace.Tracer
	propagate bool
}

// Option configures optional Prober behavior.
type Option func(*Prober)

// WithCollector wires a live metrics collector that every probe outcome
// is recorded into.
func WithCollector(collector *metrics.Collector) Option {
	return func(p *Prober) {
		p.collector = collector
	}
}

// WithTracer exports one client span per probe. When propagate is true,
// W3C trace context headers are injected into outgoing requests.
func WithTracer(tracer trace.Tracer, propagate bool) Option {
	return func(p *Prober) {
		p.tracer = tracer
		p.propagate = propagate
	}
}

func New(client *http.Client, builder *httpclient.RequestBuilder, opts ...Option) (*Prober, error) {
	if client == nil {
		return nil, errors.New("client cannot be nil")
	}
	if builder == nil {
		return nil, errors.New("request builder cannot be nil")
	}
	p := &Prober{client: client, builder: builder}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Do sends one request. The latency spans from just before the request
// is handed to the transport until the status line is available; body
// drain happens outside the timed window. Every received response is a
// result regardless of status class.
func (p *Prober) Do(ctx context.Context) (metrics.Sample, error) {
	req, err := p.builder.Build(ctx)
	if err != nil {
		return metrics.Sample{}, err
	}

	var span trace.Span
	if p.tracer != nil {
		var spanCtx context.Context
		spanCtx, span = tracing.StartProbeSpan(ctx, p.tracer, req.Method, req.URL.String())
		if p.propagate {
			tracing.InjectHTTPHeaders(spanCtx, req.Header)
		}
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		if span != nil {
			tracing.EndSpan(span, err)
		}
		p.record(latency, err)
		return metrics.Sample{}, err
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
	_ = resp.Body.Close()

	if span != nil {
		tracing.EndSpan(span, nil,
			attribute.Int("http.response.status_code", resp.StatusCode),
			attribute.String("volley.latency", strconv.FormatInt(latency.Nanoseconds(), 10)+"ns"),
		)
	}
	p.record(latency, nil)

	return metrics.Sample{
		Status:    resp.StatusCode,
		Latency:   latency,
		Timestamp: start,
	}, nil
}

func (p *Prober) record(latency time.Duration, err error) {
	if p.collector != nil {
		p.collector.Record(latency, err)
	}
}
