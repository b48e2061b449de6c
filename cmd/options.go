// Copyright © 2026 The Tilelisp authors

package cmd

import (
	"github.com/tilelisp/tilelisp/lisp"
	"github.com/tilelisp/tilelisp/lisp/lisplib"
)

// Option configures an exported command factory.
type Option func(*cmdConfig)

type cmdConfig struct {
	env  *lisp.Env
	game lisplib.Game
}

func newCmdConfig(opts ...Option) *cmdConfig {
	cfg := &cmdConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// WithEnv injects a fully configured environment.  User-defined functions
// from the configuration are still bound on top of it.
func WithEnv(env lisp.Env) Option {
	return func(c *cmdConfig) { c.env = &env }
}

// WithGame replaces the engine driven by the run and load-img natives.
func WithGame(game lisplib.Game) Option {
	return func(c *cmdConfig) { c.game = game }
}
