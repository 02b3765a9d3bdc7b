package clients

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/askadit/content-service/internal/adapters/clients"

// instruments records one span and two metric points per outbound call.
type instruments struct {
	remote   string
	tracer   trace.Tracer
	duration metric.Float64Histogram
	calls    metric.Int64Counter
}

func newInstruments(remote string) (*instruments, error) {
	meter := otel.Meter(instrumentationName)

	duration, err := meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Outbound request latency by remote and outcome"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("registering %s latency histogram: %w", remote, err)
	}

	calls, err := meter.Int64Counter("http.client.request.total",
		metric.WithDescription("Outbound requests by remote and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("registering %s request counter: %w", remote, err)
	}

	return &instruments{
		remote:   remote,
		tracer:   otel.Tracer(instrumentationName),
		duration: duration,
		calls:    calls,
	}, nil
}

// start opens a client span and propagates its context into req headers.
func (in *instruments) start(ctx context.Context, req *http.Request) (context.Context, trace.Span) {
	ctx, span := in.tracer.Start(ctx, req.Method+" "+in.remote,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.Redacted()),
			attribute.String("peer.service", in.remote),
		),
	)

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return ctx, span
}

// outcome classifies a finished call for the result attribute.
func outcome(status int, err error) string {
	switch {
	case err != nil:
		return "error"
	case status == 0:
		return "circuit_open"
	default:
		return fmt.Sprintf("%dxx", status/100)
	}
}

func (in *instruments) finish(ctx context.Context, span trace.Span, method string, status int, elapsed time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", in.remote),
		attribute.String("result", outcome(status, err)),
	}

	if status > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", status))
	}

	if span != nil {
		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case status >= http.StatusBadRequest:
			span.SetAttributes(attribute.Int("http.status_code", status))
			span.SetStatus(codes.Error, http.StatusText(status))
		default:
			span.SetAttributes(attribute.Int("http.status_code", status))
		}
	}

	set := metric.WithAttributes(attrs...)
	in.duration.Record(ctx, elapsed.Seconds(), set)
	in.calls.Add(ctx, 1, set)
}
