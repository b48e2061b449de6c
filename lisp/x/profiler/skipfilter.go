// Copyright © 2026 The Tilelisp authors

package profiler

import (
	"regexp"

	"github.com/tilelisp/tilelisp/lisp"
)

// SkipFilter returns true for functions which should not be traced.
type SkipFilter func(fun *lisp.Value) bool

func defaultSkipFilter(fun *lisp.Value) bool {
	return fun == nil || fun.Type != lisp.TFun
}

// WithDocFilter filters to only include spans for functions with docs that
// denote tracing.
func WithDocFilter() Option {
	return WithSkipFilter(docSkipFilter)
}

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// DocTrace is a magic string used to enable tracing in a profiler configured
// WithDocFilter. All functions with documentation that contains this string
// will be traced.
const DocTrace = "@trace"

var docTraceRegExp = regexp.MustCompile(DocTrace)

func docSkipFilter(fun *lisp.Value) bool {
	fd := fun.FunData()
	if fd == nil || fd.Doc == "" {
		return true
	}
	return !docTraceRegExp.MatchString(fd.Doc)
}
