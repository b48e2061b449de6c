// Copyright © 2026 The Tilelisp authors

package lisp

import (
	"errors"
	"fmt"

	"github.com/tilelisp/tilelisp/parser/token"
)

// Evaluation error conditions.  The Kind of an *EvalError is exactly one of
// these.  errors.Is also matches the cause, so a failed native may match
// ErrTypeMismatch or ErrStackUnderflow as well.
var (
	ErrUnboundIdentifier    = errors.New("unbound identifier")
	ErrNotAFunction         = errors.New("not a function")
	ErrNativeFunctionFailed = errors.New("native function failed")
	ErrStepLimitExceeded    = errors.New("step limit exceeded")
	ErrContextCancelled     = errors.New("context cancelled")
)

// Errors returned by native functions.  They reach callers of Evaluate
// wrapped in an *EvalError with kind ErrNativeFunctionFailed.
var (
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrStackUnderflow = errors.New("operand stack underflow")
)

// EvalError is the error returned when evaluation of a statement fails.  The
// operand stack is discarded on failure; Stack holds a snapshot of its
// contents at the time of the failure for diagnostics.
type EvalError struct {
	// Kind is the error condition, one of the Err* variables above.
	Kind error
	// Err is the underlying cause, if any (e.g. the error returned by a native
	// function).
	Err error
	// Token is the source token of the node being evaluated.
	Token *token.Token
	// Function names the function being applied, when known.
	Function string
	// Stack is a snapshot of the operand stack, bottom first.
	Stack []*Value
}

func (e *EvalError) Error() string {
	msg := e.Message()
	if e.Token != nil && e.Token.Source != nil {
		return fmt.Sprintf("%s: %s", e.Token.Source, msg)
	}
	return msg
}

// Message returns the error message without location information.
func (e *EvalError) Message() string {
	msg := e.Kind.Error()
	if e.Function != "" {
		msg = fmt.Sprintf("%s: %s", e.Function, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap allows errors.Is and errors.As to match both the error condition and
// the underlying cause.
func (e *EvalError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Source returns the location of the failing node, or nil.
func (e *EvalError) Source() *token.Location {
	if e.Token == nil {
		return nil
	}
	return e.Token.Source
}

// StackString renders the operand stack snapshot.
func (e *EvalError) StackString() string {
	return formatValues(e.Stack)
}
