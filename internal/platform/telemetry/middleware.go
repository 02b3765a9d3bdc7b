package telemetry

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/askadit/content-service/telemetry"

	// HeaderTraceID echoes the request span's trace id to the caller.
	HeaderTraceID = "X-Trace-ID"
)

type serverInstruments struct {
	latency  metric.Float64Histogram
	served   metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

func newServerInstruments(meter metric.Meter) (*serverInstruments, error) {
	latency, errLatency := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Time to serve a request, by route and status"),
		metric.WithUnit("s"),
	)
	served, errServed := meter.Int64Counter("http.server.request.total",
		metric.WithDescription("Requests served, by route and status"),
	)
	inFlight, errInFlight := meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Requests currently being served"),
	)

	if err := errors.Join(errLatency, errServed, errInFlight); err != nil {
		return nil, err
	}

	return &serverInstruments{latency: latency, served: served, inFlight: inFlight}, nil
}

// Middleware records per-route request metrics and sets the X-Trace-ID
// response header. It must run after Tracing so a span is in the context.
// Instrument errors go to the global otel error handler and leave only the
// header behaviour.
func Middleware() gin.HandlerFunc {
	inst, err := newServerInstruments(otel.Meter(instrumentationName))
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			c.Header(HeaderTraceID, sc.TraceID().String())
		}

		if inst == nil {
			c.Next()
			return
		}

		began := time.Now()
		base := []attribute.KeyValue{
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
		}

		inst.inFlight.Add(ctx, 1, metric.WithAttributes(base...))
		defer inst.inFlight.Add(ctx, -1, metric.WithAttributes(base...))

		c.Next()

		done := metric.WithAttributes(append(base, attribute.Int("http.status_code", c.Writer.Status()))...)
		inst.latency.Record(ctx, time.Since(began).Seconds(), done)
		inst.served.Add(ctx, 1, done)
	}
}

// Tracing starts a server span per request.
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}
