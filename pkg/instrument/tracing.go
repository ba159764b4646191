package instrument

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reactor/pkg/reactor"
)

// Default tracer name for the engine.
const defaultTracerName = "github.com/vango-dev/reactor"

// TracingConfig configures the OpenTelemetry observer.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: the module path).
	TracerName string

	// Tracer overrides the tracer resolved from the global provider.
	Tracer trace.Tracer

	// Context is the parent of every span (default: context.Background()).
	Context context.Context
}

// TracingOption configures the OpenTelemetry observer.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracer uses t instead of the global provider's tracer.
func WithTracer(t trace.Tracer) TracingOption {
	return func(c *TracingConfig) {
		c.Tracer = t
	}
}

// WithParent makes every span a child of the span in ctx.
func WithParent(ctx context.Context) TracingOption {
	return func(c *TracingConfig) {
		c.Context = ctx
	}
}

// Tracing is a reactor.Observer that records each engine event as a short
// span. Errors are recorded on their span with an Error status.
//
// The tracer uses the global OpenTelemetry tracer provider unless WithTracer
// is given. Configure it in main() before installing the observer:
//
//	otel.SetTracerProvider(tp)
//	reactor.SetObserver(instrument.NewTracing())
type Tracing struct {
	tracer trace.Tracer
	ctx    context.Context
}

// NewTracing creates the observer.
func NewTracing(opts ...TracingOption) *Tracing {
	config := TracingConfig{
		TracerName: defaultTracerName,
		Context:    context.Background(),
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Tracer == nil {
		config.Tracer = otel.Tracer(config.TracerName)
	}
	return &Tracing{tracer: config.Tracer, ctx: config.Context}
}

func (t *Tracing) event(name string, attrs ...attribute.KeyValue) trace.Span {
	_, span := t.tracer.Start(t.ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return span
}

func (t *Tracing) Materialized(typ, prop string, kind reactor.Kind) {
	t.event("reactor.materialize",
		attribute.String("reactor.type", typ),
		attribute.String("reactor.property", prop),
		attribute.String("reactor.kind", kind.String()),
	).End()
}

func (t *Tracing) Detached(typ, prop string) {
	t.event("reactor.detach",
		attribute.String("reactor.type", typ),
		attribute.String("reactor.property", prop),
	).End()
}

func (t *Tracing) Subscribed(mode string) {
	t.event("reactor.subscribe", attribute.String("reactor.mode", mode)).End()
}

func (t *Tracing) Unsubscribed(mode string) {
	t.event("reactor.unsubscribe", attribute.String("reactor.mode", mode)).End()
}

func (t *Tracing) Failed(err *reactor.Error) {
	span := t.event("reactor.error",
		attribute.String("reactor.code", err.Code),
		attribute.String("reactor.subject", err.Subject()),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()
}

var _ reactor.Observer = (*Tracing)(nil)
