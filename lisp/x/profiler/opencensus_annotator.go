// Copyright © 2026 The Tilelisp authors

package profiler

import (
	"context"
	"errors"

	"github.com/tilelisp/tilelisp/lisp"
	"go.opencensus.io/trace"
)

type ocAnnotator struct {
	profiler
	currentContext context.Context
	contexts       []context.Context
}

var _ lisp.Profiler = &ocAnnotator{}

// NewOpenCensusAnnotator returns a profiler which records an OpenCensus span
// for every function application.
func NewOpenCensusAnnotator(parentContext context.Context, opts ...Option) lisp.Profiler {
	p := &ocAnnotator{
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *ocAnnotator) Enable() error {
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opencensus")
	}
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	for len(p.contexts) > 0 {
		p.pop()
	}
	return p.profiler.Complete()
}

func (p *ocAnnotator) Start(fun *lisp.Value) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	prettyLabel, _ := p.prettyFunName(fun)
	p.contexts = append(p.contexts, p.currentContext)
	var span *trace.Span
	p.currentContext, span = trace.StartSpan(p.currentContext, prettyLabel)
	attrs := []trace.Attribute{trace.StringAttribute("kind", kind(fun))}
	if loc := getSourceLoc(fun); loc != nil {
		attrs = append(attrs,
			trace.StringAttribute("file", loc.File),
			trace.Int64Attribute("line", int64(loc.Line)),
		)
	}
	span.Annotate(attrs, "source")
	depth := len(p.contexts)
	return func() {
		for len(p.contexts) >= depth {
			p.pop()
		}
	}
}

// pop ends the current span and restores its parent context.
func (p *ocAnnotator) pop() {
	if span := trace.FromContext(p.currentContext); span != nil {
		span.End()
	}
	p.currentContext = p.contexts[len(p.contexts)-1]
	p.contexts = p.contexts[:len(p.contexts)-1]
}
