package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/navkit-dev/navkit/pkg/location"
	"github.com/navkit-dev/navkit/pkg/nav"
)

// Default tracer name for navkit applications.
const defaultTracerName = "navkit"

// TracingConfig configures the OpenTelemetry observer.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "navkit").
	TracerName string

	// TracerProvider supplies the tracer. Default: the global provider.
	TracerProvider trace.TracerProvider

	// AttributeExtractor extracts custom attributes for each cycle span.
	AttributeExtractor func(kind nav.CycleKind, target location.Location) []attribute.KeyValue
}

// TracingOption configures the OpenTelemetry observer.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.TracerProvider = tp
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(fn func(kind nav.CycleKind, target location.Location) []attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.AttributeExtractor = fn
	}
}

// Tracing is a nav.Observer that opens one span per navigation or
// submission cycle, with redirect hops and discarded results recorded as
// span events.
type Tracing struct {
	cfg    TracingConfig
	tracer trace.Tracer
}

var _ nav.Observer = (*Tracing)(nil)

// NewTracing creates a tracing observer.
func NewTracing(opts ...TracingOption) *Tracing {
	cfg := TracingConfig{
		TracerName: defaultTracerName,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var tracer trace.Tracer
	if cfg.TracerProvider != nil {
		tracer = cfg.TracerProvider.Tracer(cfg.TracerName)
	} else {
		tracer = otel.Tracer(cfg.TracerName)
	}

	return &Tracing{cfg: cfg, tracer: tracer}
}

// CycleStarted implements nav.Observer. The span travels in the returned
// context through the rest of the cycle.
func (t *Tracing) CycleStarted(ctx context.Context, kind nav.CycleKind, target location.Location) context.Context {
	attrs := []attribute.KeyValue{
		attribute.String("nav.kind", kind.String()),
		attribute.String("nav.target", target.String()),
	}
	if t.cfg.AttributeExtractor != nil {
		attrs = append(attrs, t.cfg.AttributeExtractor(kind, target)...)
	}

	ctx, _ = t.tracer.Start(ctx, "nav."+kind.String(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return ctx
}

// CycleSettled implements nav.Observer.
func (t *Tracing) CycleSettled(ctx context.Context, kind nav.CycleKind, target location.Location, elapsed time.Duration, err error) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.Int64("nav.duration_ms", elapsed.Milliseconds()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// RedirectFollowed implements nav.Observer.
func (t *Tracing) RedirectFollowed(ctx context.Context, from, to location.Location) {
	trace.SpanFromContext(ctx).AddEvent("redirect", trace.WithAttributes(
		attribute.String("nav.from", from.String()),
		attribute.String("nav.to", to.String()),
	))
}

// ResultDiscarded implements nav.Observer.
func (t *Tracing) ResultDiscarded(ctx context.Context, target location.Location) {
	trace.SpanFromContext(ctx).AddEvent("stale result discarded", trace.WithAttributes(
		attribute.String("nav.target", target.String()),
	))
}
