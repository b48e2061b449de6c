// Copyright © 2026 The Tilelisp authors

// Package interptest runs sequences of statements through the interpreter
// and checks their printed results.
package interptest

import (
	"bytes"
	"io"
	"testing"

	"github.com/tilelisp/tilelisp/lisp"
	"github.com/tilelisp/tilelisp/parser"
)

// TestSequence is a sequence of statements which are evaluated sequentially
// in the same lisp.Env.
type TestSequence []struct {
	Expr   string // a single statement
	Result string // the printed top of the operand stack, or the error message
	Output string // debug output written by native functions
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// Runner evaluates test suites.
type Runner struct {
	// Env is the environment each sequence is evaluated in.  When Env is the
	// zero Env lisp.DefaultEnv is used.
	Env lisp.Env
	// Reader parses each statement.  When Reader is nil parser.NewReader is
	// used.
	Reader parser.Reader
	// Config is applied to the Evaluator used for each sequence.
	Config []lisp.Config
}

// RunTestSuite runs each TestSequence in tests in the default environment.
func RunTestSuite(t *testing.T, tests TestSuite) {
	(&Runner{}).RunTestSuite(t, tests)
}

// RunTestSuite runs each TestSequence in tests as a subtest.
func (r *Runner) RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		i, test := i, test
		t.Run(test.Name, func(t *testing.T) {
			r.runSequence(t, i, test.Name, test.TestSequence)
		})
	}
}

func (r *Runner) runSequence(t *testing.T, i int, name string, seq TestSequence) {
	env := r.Env
	if env.Len() == 0 {
		env = lisp.DefaultEnv()
	}
	reader := r.Reader
	if reader == nil {
		reader = parser.NewReader()
	}
	logger := NewLogger(t)
	defer logger.Flush()
	var exprBuf bytes.Buffer
	cfg := append([]lisp.Config{lisp.WithStderr(io.MultiWriter(logger, &exprBuf))}, r.Config...)
	ev := lisp.NewEvaluator(cfg...)
	for j, expr := range seq {
		exprBuf.Reset()
		result, err := Eval(ev, env, reader, j+1, expr.Expr)
		if err != nil {
			result = err.Error()
		}
		if result != expr.Result {
			t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, name, j, expr.Result, result)
		}
		if exprBuf.String() != expr.Output {
			t.Errorf("test %d %q: expr %d: expected debug output %q (got %q)", i, name, j, expr.Output, exprBuf.String())
		}
	}
}

// Eval reads and evaluates line and returns the printed top of the
// resulting operand stack.  A statement which leaves the stack empty
// produces an empty string.
func Eval(ev *lisp.Evaluator, env lisp.Env, reader parser.Reader, lineno int, line string) (string, error) {
	tree, err := reader.ReadLine("test", lineno, line)
	if err != nil {
		return "", err
	}
	stack, err := ev.Evaluate(env, tree)
	if err != nil {
		return "", err
	}
	top := stack.Peek()
	if top == nil {
		return "", nil
	}
	return top.String(), nil
}

// RunBenchmark evaluates line b.N times.
func RunBenchmark(b *testing.B, env lisp.Env, line string) {
	b.StopTimer()
	tree, err := parser.NewReader().ReadLine("benchmark", 1, line)
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	ev := lisp.NewEvaluator(lisp.WithStderr(io.Discard))
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		_, err := ev.Evaluate(env, tree)
		if err != nil {
			b.Fatal(err)
		}
	}
}
