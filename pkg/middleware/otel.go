package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	verrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/vtree"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for vtree.
const defaultTracerName = "vtree"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "vtree").
	TracerName string

	// TracerProvider supplies the tracer.
	// Default: the global provider from otel.GetTracerProvider().
	TracerProvider trace.TracerProvider

	// IncludeNodeCount records the size of the tree after each operation.
	// Enabled by default.
	IncludeNodeCount bool

	// Filter determines which operations to trace.
	// Return true to trace the operation, false to skip.
	// If nil, all operations are traced.
	Filter func(op *vtree.Operation) bool

	// AttributeExtractor extracts custom attributes from the operation.
	// Called for each traced operation.
	AttributeExtractor func(op *vtree.Operation) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludeNodeCount enables/disables the node count attribute.
func WithIncludeNodeCount(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeNodeCount = include
	}
}

// WithOperationFilter sets a filter function for operations.
func WithOperationFilter(filter func(op *vtree.Operation) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(op *vtree.Operation) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// defaultOTelConfig returns the default OpenTelemetry configuration.
func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName:       defaultTracerName,
		IncludeNodeCount: true,
	}
}

// otelMiddleware opens a span per tree operation and annotates it with
// replacement events reported through vtree.Observer.
type otelMiddleware struct {
	config OTelConfig
	tracer trace.Tracer

	mu    sync.Mutex
	spans []trace.Span
}

var (
	_ vtree.Middleware = (*otelMiddleware)(nil)
	_ vtree.Observer   = (*otelMiddleware)(nil)
)

// OpenTelemetry creates middleware that traces every tree operation.
//
// The middleware:
//   - Creates a span for each operation with op, root key and root element
//   - Stores the span context on the operation for downstream middleware
//   - Adds a "component replaced" event for every type-change replacement
//   - Records errors, their codes, and sets span status
//
// Example:
//
//	r := vtree.New(renderer,
//	    vtree.WithMiddleware(middleware.OpenTelemetry(middleware.WithTracerName("my-app"))),
//	)
//
// Without WithTracerProvider the global OpenTelemetry tracer provider is
// used. Configure it in main() before reconciling.
func OpenTelemetry(opts ...OTelOption) vtree.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &otelMiddleware{config: config, tracer: tp.Tracer(config.TracerName)}
}

// Handle implements vtree.Middleware.
func (o *otelMiddleware) Handle(op *vtree.Operation, next func() error) error {
	if o.config.Filter != nil && !o.config.Filter(op) {
		return next()
	}

	attrs := []attribute.KeyValue{
		attribute.String("vtree.op", op.Type.String()),
		attribute.String("vtree.key", string(op.Key)),
	}
	if op.Element != nil {
		attrs = append(attrs,
			attribute.String("vtree.root", op.Element.Name()),
			attribute.String("vtree.root_kind", op.Element.Kind().String()),
		)
	}
	if o.config.AttributeExtractor != nil {
		attrs = append(attrs, o.config.AttributeExtractor(op)...)
	}

	spanCtx, span := o.tracer.Start(
		op.Context(),
		formatSpanName(op),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(time.Now()),
	)
	defer span.End()

	op.WithContext(spanCtx)
	o.push(span)
	err := next()
	o.pop()

	if err != nil {
		span.RecordError(err)
		if code := verrors.CodeOf(err); code != "" {
			span.SetAttributes(attribute.String("vtree.error_code", code))
		}
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	if o.config.IncludeNodeCount && op.Tree != nil {
		span.SetAttributes(attribute.Int("vtree.node_count", op.Tree.Root().Count()))
	}
	return err
}

// NodeReplaced implements vtree.Observer.
func (o *otelMiddleware) NodeReplaced(old *vtree.Node, next *vtree.Element) {
	span := o.current()
	if span == nil {
		return
	}
	span.AddEvent("component replaced", trace.WithAttributes(
		attribute.String("vtree.key", string(old.Key)),
		attribute.String("vtree.from", old.Element.Name()),
		attribute.String("vtree.to", next.Name()),
	))
}

// NodeMounted implements vtree.Observer.
func (o *otelMiddleware) NodeMounted(*vtree.Node) {}

// NodeUpdated implements vtree.Observer.
func (o *otelMiddleware) NodeUpdated(*vtree.Node) {}

// NodeUnmounted implements vtree.Observer.
func (o *otelMiddleware) NodeUnmounted(*vtree.Node) {}

func (o *otelMiddleware) push(span trace.Span) {
	o.mu.Lock()
	o.spans = append(o.spans, span)
	o.mu.Unlock()
}

func (o *otelMiddleware) pop() {
	o.mu.Lock()
	o.spans = o.spans[:len(o.spans)-1]
	o.mu.Unlock()
}

func (o *otelMiddleware) current() trace.Span {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.spans) == 0 {
		return nil
	}
	return o.spans[len(o.spans)-1]
}

// SpanFromOperation retrieves the span the middleware opened for op.
// Returns nil if the operation is not being traced.
func SpanFromOperation(op *vtree.Operation) trace.Span {
	span := trace.SpanFromContext(op.Context())
	if !span.SpanContext().IsValid() && !span.IsRecording() {
		return nil
	}
	return span
}

// TraceContext returns the operation's context for propagation.
func TraceContext(op *vtree.Operation) context.Context {
	return op.Context()
}

// formatSpanName creates a span name from the operation.
func formatSpanName(op *vtree.Operation) string {
	return fmt.Sprintf("vtree.%s", op.Type)
}
