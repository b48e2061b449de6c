// Copyright © 2026 The Tilelisp authors

package lisp

import (
	"sort"
)

// Binding associates a name with a value for use with Env.WithBindings.
type Binding struct {
	Name  string
	Value *Value
}

// Env maps names to values.  An Env is never modified in place.  Methods that
// add bindings return a new Env, so an Env handed to Evaluate cannot leak
// bindings into the Env of a sibling evaluation.  Copying an Env only copies
// references to the shared, immutable values it binds.
type Env struct {
	bindings map[string]*Value
}

// NewEnv returns an Env containing bindings.
func NewEnv(bindings ...Binding) Env {
	return Env{}.WithBindings(bindings...)
}

// Lookup returns the value bound to name.
func (env Env) Lookup(name string) (*Value, bool) {
	v, ok := env.bindings[name]
	return v, ok
}

// With returns a copy of env in which name is bound to v.
func (env Env) With(name string, v *Value) Env {
	return env.WithBindings(Binding{Name: name, Value: v})
}

// WithBindings returns a copy of env extended with bindings.  Later bindings
// shadow earlier ones with the same name.
func (env Env) WithBindings(bindings ...Binding) Env {
	m := make(map[string]*Value, len(env.bindings)+len(bindings))
	for k, v := range env.bindings {
		m[k] = v
	}
	for _, b := range bindings {
		m[b.Name] = b.Value
	}
	return Env{bindings: m}
}

// Len returns the number of bindings in env.
func (env Env) Len() int {
	return len(env.bindings)
}

// Names returns the bound names in sorted order.
func (env Env) Names() []string {
	names := make([]string, 0, len(env.bindings))
	for name := range env.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Doc returns the documentation of the function bound to name.
func (env Env) Doc(name string) (string, bool) {
	v, ok := env.bindings[name]
	if !ok || v.Type != TFun {
		return "", false
	}
	return v.FunData().Doc, true
}
