// Copyright © 2026 The Tilelisp authors

package token

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeString(t *testing.T) {
	used := make(map[string]bool)
	for tok := Type(0); tok < numTokenTypes; tok++ {
		str := tok.String()
		if str == "" {
			t.Errorf("token type %x has empty string value", tok)
			continue
		}
		if used[str] {
			t.Errorf("token type string used twice: %v", tok)
		}
		used[str] = true
	}
	assert.Equal(t, "invalid", numTokenTypes.String())
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "stdin", (&Location{File: "stdin", Pos: -1}).String())
	assert.Equal(t, "stdin[4]", (&Location{File: "stdin", Pos: 4}).String())
	assert.Equal(t, "stdin:2", (&Location{File: "stdin", Line: 2}).String())
	assert.Equal(t, "stdin:2:5", (&Location{File: "stdin", Line: 2, Col: 5, Pos: 4}).String())
}

func TestLocationError(t *testing.T) {
	cause := errors.New("boom")
	err := &LocationError{Err: cause, Source: &Location{File: "test", Line: 1, Col: 3}}
	assert.Equal(t, "test:1:3: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestTokenString(t *testing.T) {
	assert.Equal(t, `string "a b"`, (&Token{Type: STRING, Text: "a b"}).String())
	assert.Equal(t, "symbol cons", (&Token{Type: SYMBOL, Text: "cons"}).String())
	assert.Equal(t, "( (", (&Token{Type: PAREN_L, Text: "("}).String())
}
