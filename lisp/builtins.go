// Copyright © 2026 The Tilelisp authors

package lisp

import (
	"fmt"
)

type langBuiltin struct {
	name string
	doc  string
	fun  NativeFunc
}

var langBuiltins = []*langBuiltin{
	{"cons", `Pops a value and then a list and pushes a new list whose first
		element is the value and whose remaining elements are the list.
		(cons "a" ()) evaluates to ("a").`, builtinCons},
	{"car", `Pops a non-empty list and pushes its first element.`, builtinCar},
	{"cdr", `Pops a non-empty list and pushes the list of its remaining
		elements.  The cdr of a single element list is ().`, builtinCdr},
	{"debug-stack", `Prints the operand stack to the debugging output, top
		first, and pushes nil.`, builtinDebugStack},
}

// Builtins returns bindings for the language's native functions and
// constants.
func Builtins() []Binding {
	bindings := make([]Binding, 0, len(langBuiltins)+1)
	for _, b := range langBuiltins {
		bindings = append(bindings, Binding{Name: b.name, Value: Native(b.name, b.doc, b.fun)})
	}
	bindings = append(bindings, Binding{Name: "nil", Value: Nil()})
	return bindings
}

// DefaultEnv returns an Env containing the language builtins.
func DefaultEnv() Env {
	return NewEnv(Builtins()...)
}

func builtinCons(s *Stack) error {
	if s.Len() < 2 {
		return fmt.Errorf("%w: two operands required (got %d)", ErrStackUnderflow, s.Len())
	}
	head, _ := s.Pop()
	tail, _ := s.Pop()
	cell, err := Cons(head, tail)
	if err != nil {
		return err
	}
	s.Push(cell)
	return nil
}

func builtinCar(s *Stack) error {
	lis, err := popNonEmptyList(s)
	if err != nil {
		return err
	}
	s.Push(lis.Head())
	return nil
}

func builtinCdr(s *Stack) error {
	lis, err := popNonEmptyList(s)
	if err != nil {
		return err
	}
	s.Push(lis.Tail())
	return nil
}

func builtinDebugStack(s *Stack) error {
	_, err := s.DebugPrint(s.Stderr())
	if err != nil {
		return err
	}
	s.Push(Nil())
	return nil
}

func popNonEmptyList(s *Stack) (*Value, error) {
	lis, err := s.PopType(TCell)
	if err != nil {
		return nil, err
	}
	if lis.IsEmpty() {
		return nil, fmt.Errorf("%w: expected a non-empty list", ErrTypeMismatch)
	}
	return lis, nil
}
