// Copyright © 2026 The Tilelisp authors

package lisp

const Version = "0.3"

// Profiler observes function applications made by an Evaluator.
type Profiler interface {
	// Is the profiler enabled?
	IsEnabled() bool
	// Enable the profiler
	Enable() error
	// End the profiling session and flush any buffered output
	Complete() error
	// Start marks the application of fun and returns a function marking its
	// end.  User-defined functions are substituted into the evaluator's work
	// stack rather than called, so their applications end immediately.
	Start(fun *Value) func()
}
