// Copyright © 2026 The Tilelisp authors

package lisp

import (
	"context"
	"io"
)

// Config is a function that configures an Evaluator.
type Config func(ev *Evaluator)

// WithStderr returns a Config that makes native functions write debugging
// output to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(ev *Evaluator) {
		ev.Stderr = w
	}
}

// WithProfiler returns a Config that reports every function application to p.
// Profilers which are not enabled are ignored.
func WithProfiler(p Profiler) Config {
	return func(ev *Evaluator) {
		ev.Profiler = p
	}
}

// WithMaxSteps returns a Config that sets the maximum number of evaluation
// steps taken for a single statement before evaluation fails with
// ErrStepLimitExceeded.  A step is counted each time the evaluator inspects
// the top of its work stack.  A value of 0 means unlimited (the default).
func WithMaxSteps(n int64) Config {
	return func(ev *Evaluator) {
		ev.MaxSteps = n
	}
}

// WithContext returns a Config that makes evaluation fail with
// ErrContextCancelled once ctx is done.  Evaluate checks ctx before every
// step.
func WithContext(ctx context.Context) Config {
	return func(ev *Evaluator) {
		ev.Context = ctx
	}
}
