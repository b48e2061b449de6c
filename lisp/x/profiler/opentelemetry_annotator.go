// Copyright © 2026 The Tilelisp authors

package profiler

import (
	"context"
	"errors"

	"github.com/tilelisp/tilelisp/lisp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

// ContextOpenTelemetryTracerKey looks up a parent tracer name from a context
// key.
const ContextOpenTelemetryTracerKey contextKey = "otelParentTracer"

// DefaultTracerName is the tracer used when the parent context names none.
const DefaultTracerName = "tilelisp"

var _ lisp.Profiler = &otelAnnotator{}

type otelAnnotator struct {
	profiler
	currentContext context.Context
}

// NewOpenTelemetryAnnotator returns a profiler which records a span for every
// function application as a child of the span in parentContext.
func NewOpenTelemetryAnnotator(parentContext context.Context, opts ...Option) lisp.Profiler {
	p := &otelAnnotator{
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *otelAnnotator) Enable() error {
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opentelemetry")
	}
	return p.profiler.Enable()
}

func contextTracer(ctx context.Context) trace.Tracer {
	tracerName, ok := ctx.Value(ContextOpenTelemetryTracerKey).(string)
	if !ok {
		tracerName = DefaultTracerName
	}
	return otel.GetTracerProvider().Tracer(tracerName)
}

func (p *otelAnnotator) Start(fun *lisp.Value) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	oldContext := p.currentContext
	prettyLabel, funName := p.prettyFunName(fun)
	var span trace.Span
	p.currentContext, span = contextTracer(p.currentContext).Start(p.currentContext, prettyLabel)
	p.addCodeAttributes(span, fun, funName)
	return func() {
		span.End()
		p.currentContext = oldContext
	}
}

func (p *otelAnnotator) addCodeAttributes(span trace.Span, fun *lisp.Value, funName string) {
	attrs := []attribute.KeyValue{
		semconv.CodeNamespace(kind(fun)),
		semconv.CodeFunction(funName),
	}
	if loc := getSourceLoc(fun); loc != nil {
		attrs = append(attrs,
			semconv.CodeColumn(loc.Col),
			semconv.CodeFilepath(loc.File),
			semconv.CodeLineNumber(loc.Line),
		)
	}
	span.SetAttributes(attrs...)
}
