package client

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/Rajgupta764/legal-saarthi/internal/common"
)

const tracerName = "legal-saarthi/client"

// Tracer opens one client span per backend request and propagates the
// trace context in the request headers.
type Tracer struct {
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

type TracerOption func(*Tracer)

// WithOTelTracer injects a pre-configured tracer, typically from a test provider.
func WithOTelTracer(t trace.Tracer) TracerOption {
	return func(o *Tracer) {
		o.tracer = t
	}
}

func WithPropagator(p propagation.TextMapPropagator) TracerOption {
	return func(o *Tracer) {
		o.propagator = p
	}
}

// NewTracer uses the global provider and propagator unless overridden.
func NewTracer(opts ...TracerOption) *Tracer {
	t := &Tracer{}
	for _, opt := range opts {
		opt(t)
	}
	if t.tracer == nil {
		t.tracer = otel.Tracer(tracerName)
	}
	if t.propagator == nil {
		t.propagator = otel.GetTextMapPropagator()
	}
	return t
}

func (t *Tracer) interceptor(route func(*http.Request) string) Interceptor {
	return func(r *http.Request, next Invoker) (*Response, error) {
		rt := route(r)
		ctx, span := t.tracer.Start(r.Context(), r.Method+" "+rt,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("http.route", rt),
				attribute.String("http.request_id", r.Header.Get(common.RequestIDHeaderName)),
			))
		defer span.End()

		r = r.WithContext(ctx)
		t.propagator.Inject(ctx, propagation.HeaderCarrier(r.Header))

		resp, err := next(r)
		if resp != nil {
			span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return resp, err
	}
}
