// Copyright © 2026 The Tilelisp authors

package lisp_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tilelisp/tilelisp/lisp"
	"github.com/tilelisp/tilelisp/parser/token"
)

func TestEvalError(t *testing.T) {
	cause := fmt.Errorf("%w: bad operand", lisp.ErrTypeMismatch)
	err := &lisp.EvalError{
		Kind:     lisp.ErrNativeFunctionFailed,
		Err:      cause,
		Function: "load-img",
		Token: &token.Token{
			Type:   token.PAREN_L,
			Text:   "(",
			Source: &token.Location{File: "stdin", Line: 2, Col: 4},
		},
		Stack: []*lisp.Value{lisp.String("a"), lisp.Nil()},
	}
	assert.Equal(t, "stdin:2:4: load-img: native function failed: type mismatch: bad operand", err.Error())
	assert.Equal(t, "load-img: native function failed: type mismatch: bad operand", err.Message())
	assert.Equal(t, `["a" nil]`, err.StackString())
	assert.Equal(t, 2, err.Source().Line)
	assert.True(t, errors.Is(err, lisp.ErrNativeFunctionFailed))
	assert.True(t, errors.Is(err, lisp.ErrTypeMismatch))
	assert.False(t, errors.Is(err, lisp.ErrNotAFunction))

	bare := &lisp.EvalError{Kind: lisp.ErrStepLimitExceeded}
	assert.Equal(t, "step limit exceeded", bare.Error())
	assert.Nil(t, bare.Source())
	assert.True(t, errors.Is(bare, lisp.ErrStepLimitExceeded))
}
