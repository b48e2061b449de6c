// Copyright © 2026 The Tilelisp authors

package lisp

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Stack is the evaluator's operand stack, also called the result stack.
// Native functions receive the live stack and pop their operands from it.
type Stack struct {
	vals   []*Value
	stderr io.Writer
}

// NewStack returns a stack holding vals, the last value on top.
func NewStack(vals ...*Value) *Stack {
	s := &Stack{}
	s.Push(vals...)
	return s
}

// Push pushes vals onto s in order, leaving the last on top.
func (s *Stack) Push(vals ...*Value) {
	s.vals = append(s.vals, vals...)
}

// Pop removes the top value from s.  Pop returns ErrStackUnderflow if s is
// empty.
func (s *Stack) Pop() (*Value, error) {
	if len(s.vals) == 0 {
		return nil, ErrStackUnderflow
	}
	v := s.vals[len(s.vals)-1]
	s.vals[len(s.vals)-1] = nil
	s.vals = s.vals[:len(s.vals)-1]
	return v, nil
}

// PopType pops the top value and checks that it has type typ.
func (s *Stack) PopType(typ Type) (*Value, error) {
	v, err := s.Pop()
	if err != nil {
		return nil, err
	}
	if v.Type != typ {
		return nil, fmt.Errorf("%w: expected %s (got %s %v)", ErrTypeMismatch, typ, v.Type, v)
	}
	return v, nil
}

// Peek returns the top value of s, or nil if s is empty.
func (s *Stack) Peek() *Value {
	if len(s.vals) == 0 {
		return nil
	}
	return s.vals[len(s.vals)-1]
}

// Stderr returns the writer natives should use for debugging output.
func (s *Stack) Stderr() io.Writer {
	if s.stderr == nil {
		return os.Stderr
	}
	return s.stderr
}

// Len returns the number of values on s.
func (s *Stack) Len() int {
	return len(s.vals)
}

// Values returns a copy of the stack contents, bottom first.
func (s *Stack) Values() []*Value {
	vals := make([]*Value, len(s.vals))
	copy(vals, s.vals)
	return vals
}

// String renders the stack bottom first, e.g. ["a" ()].
func (s *Stack) String() string {
	return formatValues(s.vals)
}

// DebugPrint prints s, top first, one value per line.
func (s *Stack) DebugPrint(w io.Writer) (int, error) {
	n, err := fmt.Fprintf(w, "Operand Stack [%d values -- top first]:\n", len(s.vals))
	if err != nil {
		return n, err
	}
	indent := "  "
	for i := len(s.vals) - 1; i >= 0; i-- {
		_n, err := fmt.Fprintf(w, "%sheight %d: %v\n", indent, i, s.vals[i])
		n += _n
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func formatValues(vals []*Value) string {
	var buf strings.Builder
	buf.WriteString("[")
	for i, v := range vals {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(v.String())
	}
	buf.WriteString("]")
	return buf.String()
}
