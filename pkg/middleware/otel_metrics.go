package middleware

import (
	"context"
	"time"

	"github.com/hyp3rd/ewrap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/hyp3rd/sigma"
	"github.com/hyp3rd/sigma/internal/telemetry/attrs"
	"github.com/hyp3rd/sigma/pkg/collector"
	"github.com/hyp3rd/sigma/pkg/parser"
	"github.com/hyp3rd/sigma/pkg/statistics"
)

// OTelMetricsMiddleware emits OpenTelemetry metrics for service methods.
type OTelMetricsMiddleware struct {
	next  sigma.Service
	meter metric.Meter

	// instruments
	calls     metric.Int64Counter
	durations metric.Float64Histogram
}

// NewOTelMetricsMiddleware constructs a metrics middleware using the provided meter.
func NewOTelMetricsMiddleware(next sigma.Service, meter metric.Meter) (sigma.Service, error) {
	calls, err := meter.Int64Counter("sigma.calls")
	if err != nil {
		return nil, ewrap.Wrap(err, "create counter")
	}

	durations, err := meter.Float64Histogram("sigma.duration.ms")
	if err != nil {
		return nil, ewrap.Wrap(err, "create histogram")
	}

	return &OTelMetricsMiddleware{next: next, meter: meter, calls: calls, durations: durations}, nil
}

// Parse implements Service.Parse with metrics.
func (mw *OTelMetricsMiddleware) Parse(ctx context.Context, raw string) (parser.NumberList, error) {
	start := time.Now()
	xs, err := mw.next.Parse(ctx, raw)
	mw.rec(ctx, "Parse", start, err, attribute.Int(attrs.AttrInputLength, len(raw)))

	return xs, err
}

// Compute implements Service.Compute with metrics.
func (mw *OTelMetricsMiddleware) Compute(ctx context.Context, xs parser.NumberList) (*statistics.Result, error) {
	start := time.Now()
	res, err := mw.next.Compute(ctx, xs)
	mw.rec(ctx, "Compute", start, err, attribute.Int(attrs.AttrValuesCount, len(xs)))

	return res, err
}

// Calculate implements Service.Calculate with metrics.
func (mw *OTelMetricsMiddleware) Calculate(ctx context.Context, raw string) (*statistics.Result, error) {
	start := time.Now()
	res, err := mw.next.Calculate(ctx, raw)
	mw.rec(ctx, "Calculate", start, err, attribute.Int(attrs.AttrInputLength, len(raw)))

	return res, err
}

// ClearCache implements Service.ClearCache with metrics.
func (mw *OTelMetricsMiddleware) ClearCache(ctx context.Context) error {
	start := time.Now()
	err := mw.next.ClearCache(ctx)
	mw.rec(ctx, "ClearCache", start, err)

	return err
}

// GetStats returns stats.
func (mw *OTelMetricsMiddleware) GetStats() collector.Stats { return mw.next.GetStats() }

// Stop stops the underlying service.
func (mw *OTelMetricsMiddleware) Stop(ctx context.Context) error { return mw.next.Stop(ctx) }

// rec records call count and duration with attributes.
func (mw *OTelMetricsMiddleware) rec(ctx context.Context, method string, start time.Time, err error, extra ...attribute.KeyValue) {
	base := []attribute.KeyValue{attribute.String(attrs.AttrMethod, method), outcome(err)}
	if len(extra) > 0 {
		base = append(base, extra...)
	}

	mw.calls.Add(ctx, 1, metric.WithAttributes(base...))
	mw.durations.Record(ctx, float64(time.Since(start).Milliseconds()), metric.WithAttributes(base...))
}

func outcome(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String(attrs.AttrOutcome, "error")
	}

	return attribute.String(attrs.AttrOutcome, "ok")
}
