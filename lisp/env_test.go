// Copyright © 2026 The Tilelisp authors

package lisp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilelisp/tilelisp/interptest"
	"github.com/tilelisp/tilelisp/lisp"
	"github.com/tilelisp/tilelisp/parser"
)

func BenchmarkEnvConsChain(b *testing.B) {
	interptest.RunBenchmark(b, lisp.DefaultEnv(),
		`(cons "a" (cons "b" (cons "c" (cons "d" (cons "e" ())))))`)
}

func TestEnvWith(t *testing.T) {
	base := lisp.NewEnv(lisp.Binding{Name: "a", Value: lisp.String("a")})
	ext := base.With("b", lisp.String("b"))

	_, ok := base.Lookup("b")
	assert.False(t, ok)
	v, ok := ext.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, "b", v.Str)
	v, ok = ext.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "a", v.Str)

	shadow := ext.With("a", lisp.Nil())
	v, _ = shadow.Lookup("a")
	assert.True(t, v.IsNil())
	v, _ = ext.Lookup("a")
	assert.Equal(t, "a", v.Str)

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, ext.Len())
	assert.Equal(t, []string{"a", "b"}, ext.Names())
}

func TestEnvZero(t *testing.T) {
	var env lisp.Env
	_, ok := env.Lookup("cons")
	assert.False(t, ok)
	assert.Equal(t, 0, env.Len())
	assert.Empty(t, env.Names())
}

func TestDefaultEnv(t *testing.T) {
	env := lisp.DefaultEnv()
	assert.Equal(t, []string{"car", "cdr", "cons", "debug-stack", "nil"}, env.Names())
	doc, ok := env.Doc("cons")
	assert.True(t, ok)
	assert.Contains(t, doc, "Pops a value")
	_, ok = env.Doc("nil")
	assert.False(t, ok)
	_, ok = env.Doc("missing")
	assert.False(t, ok)
}

func TestEvaluateDoesNotModifyEnv(t *testing.T) {
	env := lisp.DefaultEnv()
	names := env.Names()
	ev := lisp.NewEvaluator()
	for _, line := range []string{`"hi"`, `(cons "a" ())`, `(unbound)`} {
		_, _ = interptest.Eval(ev, env, parser.NewReader(), 1, line)
		assert.Equal(t, names, env.Names())
	}
}
