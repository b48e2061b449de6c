// Copyright © 2026 The Tilelisp authors

package lisp_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilelisp/tilelisp/lisp"
	"github.com/tilelisp/tilelisp/parser"
)

// spinEnv returns the default environment plus a user function "spin" whose
// body applies spin again, so (spin) never terminates.
func spinEnv(t *testing.T) lisp.Env {
	t.Helper()
	body, err := parser.NewReader().ReadLine("functions", 1, `(spin)`)
	require.NoError(t, err)
	return lisp.DefaultEnv().With("spin", lisp.UserFun("spin", "Never returns.", body.Ref(body.Root)))
}

func readTest(t *testing.T, line string) *lisp.Tree {
	t.Helper()
	tree, err := parser.NewReader().ReadLine("test", 1, line)
	require.NoError(t, err)
	return tree
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ev := lisp.NewEvaluator()
	_, err := ev.EvaluateContext(ctx, lisp.DefaultEnv(), readTest(t, `(cons "a" ())`))
	assert.ErrorIs(t, err, lisp.ErrContextCancelled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.EqualError(t, err, `test:1:1: context cancelled: context canceled`)

	// The evaluator itself is not bound to ctx.
	assert.Nil(t, ev.Context)
	stack, err := ev.Evaluate(lisp.DefaultEnv(), readTest(t, `(cons "a" ())`))
	require.NoError(t, err)
	assert.Equal(t, `("a")`, stack.Peek().String())
}

func TestContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := lisp.NewEvaluator().EvaluateContext(ctx, spinEnv(t), readTest(t, `(spin)`))
	assert.ErrorIs(t, err, lisp.ErrContextCancelled)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWithContextConfig(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := evaluate(t, lisp.DefaultEnv(), `(cons "a" ())`, lisp.WithContext(ctx))
	assert.ErrorIs(t, err, lisp.ErrContextCancelled)

	// Empty statements take no steps.
	stack, err := evaluate(t, lisp.DefaultEnv(), ``, lisp.WithContext(ctx))
	require.NoError(t, err)
	assert.Equal(t, 0, stack.Len())
}

func TestStepLimitEndlessRecursion(t *testing.T) {
	_, err := evaluate(t, spinEnv(t), `(spin)`, lisp.WithMaxSteps(50))
	assert.ErrorIs(t, err, lisp.ErrStepLimitExceeded)
	assert.Contains(t, err.Error(), "step limit exceeded: 50 steps")
}

func TestLimitErrorMessages(t *testing.T) {
	// These messages appear in rendered diagnostics.
	assert.Equal(t, "context cancelled", lisp.ErrContextCancelled.Error())
	assert.Equal(t, "step limit exceeded", lisp.ErrStepLimitExceeded.Error())
}
