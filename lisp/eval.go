// Copyright © 2026 The Tilelisp authors

package lisp

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/tilelisp/tilelisp/parser/token"
)

// Evaluator evaluates parsed statements.  The zero Evaluator is ready to use.
//
// Evaluation never recurses on the Go stack.  The evaluator keeps a work stack
// of AST nodes, an operation stack of pending function applications, and a
// visited set.  The first visit of a list schedules its children and a pending
// application; the second visit, which happens once every child has pushed
// its value onto the operand stack, applies the function on top of the
// operand stack.  A user-defined function is applied by pushing its body onto
// the work stack, so nesting depth is bounded by memory alone.
type Evaluator struct {
	// Stderr receives debugging output from native functions.
	Stderr io.Writer
	// Profiler, when enabled, observes every function application.
	Profiler Profiler
	// MaxSteps limits the number of steps taken for one statement.  Zero
	// means unlimited.
	MaxSteps int64
	// Context, when non-nil, bounds the lifetime of each evaluation.
	Context context.Context
}

// NewEvaluator returns an Evaluator configured by cfgs.
func NewEvaluator(cfgs ...Config) *Evaluator {
	ev := &Evaluator{}
	for _, cfg := range cfgs {
		cfg(ev)
	}
	return ev
}

// Evaluate evaluates tree in env using a default Evaluator.
func Evaluate(env Env, tree *Tree) (*Stack, error) {
	return NewEvaluator().Evaluate(env, tree)
}

// EvaluateContext is like Evaluate but fails with ErrContextCancelled once
// ctx is done.  It overrides any context configured with WithContext.
func (ev *Evaluator) EvaluateContext(ctx context.Context, env Env, tree *Tree) (*Stack, error) {
	scoped := *ev
	scoped.Context = ctx
	return scoped.Evaluate(env, tree)
}

// workItem is an entry on the work stack.  Every push receives a fresh id so
// that a node scheduled more than once (a function body applied twice in one
// statement) is tracked independently each time.
type workItem struct {
	ref NodeRef
	id  uint64
}

type evalState struct {
	ev      *Evaluator
	env     Env
	stack   *Stack
	work    []workItem
	ops     []uint64 // ids of list items awaiting function application
	visited map[uint64]struct{}
	nextID  uint64
	steps   int64
}

// Evaluate evaluates tree in env and returns the operand stack.  Every value
// pushed during evaluation and not consumed by a function application remains
// on the stack; callers conventionally treat the top value as the result of
// the statement.  An empty tree produces an empty stack.
//
// When evaluation fails the returned error is an *EvalError and the operand
// stack is discarded.
func (ev *Evaluator) Evaluate(env Env, tree *Tree) (*Stack, error) {
	stack := &Stack{stderr: ev.Stderr}
	if tree.Empty() {
		return stack, nil
	}
	s := &evalState{
		ev:      ev,
		env:     env,
		stack:   stack,
		visited: make(map[uint64]struct{}),
	}
	s.push(tree.Ref(tree.Root))
	for len(s.work) > 0 {
		if err := s.step(); err != nil {
			return nil, err
		}
	}
	if len(s.ops) != 0 {
		log.Panicf("evaluation finished with %d pending operations", len(s.ops))
	}
	return stack, nil
}

func (s *evalState) push(ref NodeRef) {
	s.work = append(s.work, workItem{ref: ref, id: s.nextID})
	s.nextID++
}

func (s *evalState) pop() workItem {
	top := s.work[len(s.work)-1]
	s.work[len(s.work)-1] = workItem{}
	s.work = s.work[:len(s.work)-1]
	delete(s.visited, top.id)
	return top
}

func (s *evalState) step() error {
	if ctx := s.ev.Context; ctx != nil {
		if err := ctx.Err(); err != nil {
			top := s.work[len(s.work)-1]
			return s.fail(ErrContextCancelled, err, top.ref.Node().Token, "")
		}
	}
	if s.ev.MaxSteps > 0 {
		s.steps++
		if s.steps > s.ev.MaxSteps {
			top := s.work[len(s.work)-1]
			return s.fail(ErrStepLimitExceeded, fmt.Errorf("%d steps", s.ev.MaxSteps), top.ref.Node().Token, "")
		}
	}
	top := s.work[len(s.work)-1]
	node := top.ref.Node()
	if _, ok := s.visited[top.id]; ok {
		s.pop()
		return s.apply(top, node)
	}
	s.visited[top.id] = struct{}{}
	switch node.Kind {
	case NodeString:
		s.pop()
		s.stack.Push(node.Value)
	case NodeIdentifier:
		s.pop()
		v, ok := s.env.Lookup(node.Token.Text)
		if !ok {
			return s.fail(ErrUnboundIdentifier, fmt.Errorf("%s", node.Token.Text), node.Token, "")
		}
		s.stack.Push(v)
	case NodeList:
		if len(node.Children) == 0 {
			s.pop()
			s.stack.Push(EmptyCell())
			return nil
		}
		s.ops = append(s.ops, top.id)
		// The last child pushed is the first evaluated, so the first child
		// (the function) is the last value pushed onto the operand stack.
		for _, child := range node.Children {
			s.push(top.ref.Tree.Ref(child))
		}
	default:
		log.Panicf("invalid node kind: %v", node.Kind)
	}
	return nil
}

// apply performs the function application scheduled by the list item top.
func (s *evalState) apply(top workItem, node *Node) error {
	op := s.ops[len(s.ops)-1]
	s.ops = s.ops[:len(s.ops)-1]
	if op != top.id {
		log.Panicf("operation stack out of sync with work stack")
	}
	fun, err := s.stack.Pop()
	if err != nil {
		return s.fail(ErrNotAFunction, err, node.Token, "")
	}
	if fun.Type != TFun {
		s.stack.Push(fun)
		return s.fail(ErrNotAFunction, fmt.Errorf("%v", fun), node.Token, "")
	}
	fd := fun.FunData()
	if fd.Native != nil {
		done := s.profile(fun)
		err := callNative(fd.Native, s.stack)
		done()
		if err != nil {
			return s.fail(ErrNativeFunctionFailed, err, node.Token, fd.Name)
		}
		return nil
	}
	if !fd.Body.Valid() {
		return s.fail(ErrNotAFunction, fmt.Errorf("function %q has no body", fd.Name), node.Token, fd.Name)
	}
	s.profile(fun)()
	s.push(fd.Body)
	return nil
}

// callNative calls fn, converting a panic into an error so that a faulty
// native function fails only the statement being evaluated.
func callNative(fn NativeFunc, stack *Stack) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered panic: %v", r)
		}
	}()
	return fn(stack)
}

func (s *evalState) profile(fun *Value) func() {
	p := s.ev.Profiler
	if p == nil || !p.IsEnabled() {
		return func() {}
	}
	return p.Start(fun)
}

func (s *evalState) fail(kind error, err error, tok *token.Token, fname string) error {
	return &EvalError{
		Kind:     kind,
		Err:      err,
		Token:    tok,
		Function: fname,
		Stack:    s.stack.Values(),
	}
}
