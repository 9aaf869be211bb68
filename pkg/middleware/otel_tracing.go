package middleware

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hyp3rd/sigma"
	"github.com/hyp3rd/sigma/internal/telemetry/attrs"
	"github.com/hyp3rd/sigma/pkg/collector"
	"github.com/hyp3rd/sigma/pkg/parser"
	"github.com/hyp3rd/sigma/pkg/statistics"
)

// OTelTracingMiddleware wraps sigma.Service methods with OpenTelemetry spans.
type OTelTracingMiddleware struct {
	next   sigma.Service
	tracer trace.Tracer
	// static attributes applied to all spans
	commonAttrs []attribute.KeyValue
}

// OTelTracingOption allows configuring the tracing middleware.
type OTelTracingOption func(*OTelTracingMiddleware)

// WithCommonAttributes sets attributes applied to all spans.
func WithCommonAttributes(attributes ...attribute.KeyValue) OTelTracingOption {
	return func(m *OTelTracingMiddleware) { m.commonAttrs = append(m.commonAttrs, attributes...) }
}

// NewOTelTracingMiddleware creates a tracing middleware.
func NewOTelTracingMiddleware(next sigma.Service, tracer trace.Tracer, opts ...OTelTracingOption) sigma.Service {
	mw := &OTelTracingMiddleware{next: next, tracer: tracer}
	for _, o := range opts {
		o(mw)
	}

	return mw
}

// Parse implements Service.Parse with tracing.
func (mw OTelTracingMiddleware) Parse(ctx context.Context, raw string) (parser.NumberList, error) {
	ctx, span := mw.startSpan(ctx, "sigma.Parse", attribute.Int(attrs.AttrInputLength, len(raw)))
	defer span.End()

	xs, err := mw.next.Parse(ctx, raw)
	if err != nil {
		recordError(span, err)

		return xs, err
	}

	span.SetAttributes(attribute.Int(attrs.AttrValuesCount, len(xs)))

	return xs, nil
}

// Compute implements Service.Compute with tracing.
func (mw OTelTracingMiddleware) Compute(ctx context.Context, xs parser.NumberList) (*statistics.Result, error) {
	ctx, span := mw.startSpan(ctx, "sigma.Compute", attribute.Int(attrs.AttrValuesCount, len(xs)))
	defer span.End()

	res, err := mw.next.Compute(ctx, xs)
	if err != nil {
		recordError(span, err)
	}

	return res, err
}

// Calculate implements Service.Calculate with tracing.
func (mw OTelTracingMiddleware) Calculate(ctx context.Context, raw string) (*statistics.Result, error) {
	ctx, span := mw.startSpan(ctx, "sigma.Calculate", attribute.Int(attrs.AttrInputLength, len(raw)))
	defer span.End()

	res, err := mw.next.Calculate(ctx, raw)
	if err != nil {
		recordError(span, err)

		return res, err
	}

	span.SetAttributes(attribute.Int(attrs.AttrValuesCount, res.Count))

	return res, nil
}

// ClearCache implements Service.ClearCache with tracing.
func (mw OTelTracingMiddleware) ClearCache(ctx context.Context) error {
	ctx, span := mw.startSpan(ctx, "sigma.ClearCache")
	defer span.End()

	err := mw.next.ClearCache(ctx)
	if err != nil {
		recordError(span, err)
	}

	return err
}

// GetStats returns stats.
func (mw OTelTracingMiddleware) GetStats() collector.Stats { return mw.next.GetStats() }

// Stop stops the service with a span.
func (mw OTelTracingMiddleware) Stop(ctx context.Context) error {
	ctx, span := mw.startSpan(ctx, "sigma.Stop")
	defer span.End()

	return mw.next.Stop(ctx)
}

// startSpan starts a span with common and provided attributes.
func (mw OTelTracingMiddleware) startSpan(ctx context.Context, name string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := mw.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	if len(mw.commonAttrs) > 0 {
		span.SetAttributes(mw.commonAttrs...)
	}

	if len(attributes) > 0 {
		span.SetAttributes(attributes...)
	}

	return ctx, span
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String(attrs.AttrErrorKind, sigma.Describe(err).Code))
}
