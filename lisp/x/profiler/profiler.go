// Copyright © 2026 The Tilelisp authors

// Package profiler provides lisp.Profiler implementations which report
// function applications to tracing systems and profile formats.
package profiler

import (
	"fmt"

	"github.com/tilelisp/tilelisp/lisp"
	"github.com/tilelisp/tilelisp/parser/token"
)

// profiler is a minimal lisp.Profiler
type profiler struct {
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

var _ lisp.Profiler = &profiler{}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

// Option configures a profiler.
type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) Complete() error {
	p.enabled = false
	return nil
}

func (p *profiler) Start(fun *lisp.Value) func() {
	return func() {}
}

// defaultFunName returns the name fun was bound under.
func defaultFunName(fun *lisp.Value) string {
	fd := fun.FunData()
	if fd == nil {
		return ""
	}
	if fd.Name == "" {
		return "anonymous"
	}
	return fd.Name
}

// prettyFunName returns a pretty name and original name for a fun. If there is
// no pretty name, then the pretty name is the original name.
func (p *profiler) prettyFunName(fun *lisp.Value) (string, string) {
	origLabel := defaultFunName(fun)
	if origLabel == "" {
		return "", ""
	}
	prettyLabel := origLabel
	if p.funLabeler != nil {
		prettyLabel = p.funLabeler(fun)
	}
	if prettyLabel == "" {
		prettyLabel = origLabel
	}
	return prettyLabel, origLabel
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(v *lisp.Value) bool {
	return !p.enabled || defaultSkipFilter(v) || p.skipFilter != nil && p.skipFilter(v)
}

// getSourceLoc returns the location of a user-defined function's body.
// Native functions have no source.
func getSourceLoc(fun *lisp.Value) *token.Location {
	fd := fun.FunData()
	if fd == nil || !fd.Body.Valid() {
		return nil
	}
	tok := fd.Body.Node().Token
	if tok == nil {
		return nil
	}
	return tok.Source
}

// kind returns the namespace reported for fun.
func kind(fun *lisp.Value) string {
	if fun.IsNative() {
		return "native"
	}
	return "user"
}
