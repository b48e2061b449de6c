// Copyright © 2026 The Tilelisp authors

package lisp_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilelisp/tilelisp/interptest"
	"github.com/tilelisp/tilelisp/lisp"
)

func TestStack(t *testing.T) {
	tests := interptest.TestSuite{
		{"debug-stack", interptest.TestSequence{
			{`(debug-stack)`, `nil`, "Operand Stack [0 values -- top first]:\n"},
			{`(cons (debug-stack) (cons "a" ()))`, `(nil "a")`, `Operand Stack [1 values -- top first]:
  height 0: ("a")
`},
			{`(cons (cons (debug-stack) ()) ())`, `((nil))`, `Operand Stack [2 values -- top first]:
  height 1: ()
  height 0: ()
`},
		}},
	}
	interptest.RunTestSuite(t, tests)
}

func TestStackOps(t *testing.T) {
	s := lisp.NewStack(lisp.String("a"), lisp.EmptyCell())
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, `["a" ()]`, s.String())
	assert.True(t, s.Peek().IsEmpty())

	v, err := s.PopType(lisp.TString)
	assert.ErrorIs(t, err, lisp.ErrTypeMismatch)
	assert.EqualError(t, err, `type mismatch: expected string (got list ())`)
	assert.Nil(t, v)
	assert.Equal(t, 1, s.Len())

	v, err = s.PopType(lisp.TString)
	require.NoError(t, err)
	assert.Equal(t, "a", v.Str)

	_, err = s.Pop()
	assert.ErrorIs(t, err, lisp.ErrStackUnderflow)
	assert.Nil(t, s.Peek())
}

func TestStackValuesCopy(t *testing.T) {
	s := lisp.NewStack(lisp.String("a"))
	vals := s.Values()
	s.Push(lisp.String("b"))
	assert.Len(t, vals, 1)
	vals[0] = lisp.Nil()
	assert.Equal(t, `["a" "b"]`, s.String())
}

func TestStackDebugPrint(t *testing.T) {
	s := lisp.NewStack(lisp.Nil(), lisp.String("b"))
	var buf bytes.Buffer
	n, err := s.DebugPrint(&buf)
	require.NoError(t, err)
	assert.Equal(t, buf.Len(), n)
	assert.Equal(t, "Operand Stack [2 values -- top first]:\n  height 1: \"b\"\n  height 0: nil\n", buf.String())
}
