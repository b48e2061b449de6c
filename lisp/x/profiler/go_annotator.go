// Copyright © 2026 The Tilelisp authors

package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/tilelisp/tilelisp/lisp"
)

// pprofAnnotator labels the running goroutine with the function being applied
// so that CPU profiles can be broken down by function.  It does not start
// pprof itself.
type pprofAnnotator struct {
	profiler
	currentContext context.Context
}

var _ lisp.Profiler = &pprofAnnotator{}

// NewPprofAnnotator returns a profiler which sets pprof goroutine labels.  A
// nil parentContext is replaced by context.Background when the profiler is
// enabled.
func NewPprofAnnotator(parentContext context.Context, opts ...Option) lisp.Profiler {
	p := &pprofAnnotator{
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	if p.currentContext == nil {
		p.currentContext = context.Background()
	}
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	pprof.SetGoroutineLabels(context.Background())
	return p.profiler.Complete()
}

func (p *pprofAnnotator) Start(fun *lisp.Value) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	oldContext := p.currentContext
	prettyLabel, _ := p.prettyFunName(fun)
	p.currentContext = pprof.WithLabels(p.currentContext, pprof.Labels("function", prettyLabel))
	pprof.SetGoroutineLabels(p.currentContext)
	return func() {
		p.currentContext = oldContext
		pprof.SetGoroutineLabels(p.currentContext)
	}
}

// Labels returns the pprof labels currently applied by p.
func Labels(p lisp.Profiler) map[string]string {
	labels := make(map[string]string)
	pa, ok := p.(*pprofAnnotator)
	if !ok || pa.currentContext == nil {
		return labels
	}
	pprof.ForLabels(pa.currentContext, func(key, value string) bool {
		labels[key] = value
		return true
	})
	return labels
}
