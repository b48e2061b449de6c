// Copyright © 2026 The Tilelisp authors

// Package lisplib is used to conveniently build the environment used by the
// tilelisp interpreter: the language builtins, the game natives, and
// user-defined functions.
package lisplib

import (
	"context"
	"fmt"
	"sort"

	"github.com/tilelisp/tilelisp/lisp"
	"github.com/tilelisp/tilelisp/parser"
)

// Game is the external collaborator driven by the run and load-img natives.
// Both methods block until their window is closed.
type Game interface {
	Run(ctx context.Context) error
	ShowImage(ctx context.Context, path string) error
}

// GameBuiltins returns bindings for the natives which drive game.  The ctx is
// passed to every call made into game so an embedder may cancel a running
// window.
func GameBuiltins(ctx context.Context, game Game) []lisp.Binding {
	run := func(s *lisp.Stack) error {
		if err := game.Run(ctx); err != nil {
			return err
		}
		s.Push(lisp.Nil())
		return nil
	}
	loadImg := func(s *lisp.Stack) error {
		path, err := s.PopType(lisp.TString)
		if err != nil {
			return err
		}
		if err := game.ShowImage(ctx, path.Str); err != nil {
			return err
		}
		s.Push(lisp.Nil())
		return nil
	}
	return []lisp.Binding{
		{Name: "run", Value: lisp.Native("run", `Runs the game loop until its window
			is closed and pushes nil.  The operand stack is otherwise
			untouched.`, run)},
		{Name: "load-img", Value: lisp.Native("load-img", `Pops a string naming a PNG file,
			displays the image in a window until the window is closed, and
			pushes nil.`, loadImg)},
	}
}

// NewEnv returns the language builtins extended with the natives which drive
// game.
func NewEnv(ctx context.Context, game Game) lisp.Env {
	return lisp.DefaultEnv().WithBindings(GameBuiltins(ctx, game)...)
}

// BindFunctions parses the body of each function in defs with reader and
// returns env extended with user-defined functions bound under their names.
// The file name recorded in body locations is the function's name.
func BindFunctions(env lisp.Env, reader parser.Reader, defs map[string]string) (lisp.Env, error) {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	bindings := make([]lisp.Binding, 0, len(names))
	for _, name := range names {
		body, err := reader.ReadLine(name, 1, defs[name])
		if err != nil {
			return env, fmt.Errorf("function %s: %w", name, err)
		}
		if body.Empty() {
			return env, fmt.Errorf("function %s: empty body", name)
		}
		doc := fmt.Sprintf("User-defined function: %s", body.Source(body.Root))
		bindings = append(bindings, lisp.Binding{
			Name:  name,
			Value: lisp.UserFun(name, doc, body.Ref(body.Root)),
		})
	}
	return env.WithBindings(bindings...), nil
}
