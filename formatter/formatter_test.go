// Copyright © 2026 The Tilelisp authors

package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilelisp/tilelisp/parser"
	"github.com/tilelisp/tilelisp/parser/regexparser"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"blank only", "\n  \n\t\n", ""},
		{"canonical", "(cons \"a\" ())\n", "(cons \"a\" ())\n"},
		{"missing newline", "(cons \"a\" ())", "(cons \"a\" ())\n"},
		{"spacing", "  ( cons   \"a\"\t( ) )  ", "(cons \"a\" ())\n"},
		{"nested", "(cons(car(cons \"b\" ()))())", "(cons (car (cons \"b\" ())) ())\n"},
		{"strings keep spaces", `(cons "a  b" ())`, "(cons \"a  b\" ())\n"},
		{"atoms", "nil\n\"x\"", "nil\n\"x\"\n"},
		{"crlf", "(car ())\r\n(cdr ())\r\n", "(car ())\n(cdr ())\n"},
		{"blank lines collapse", "\n\n(car ())\n\n\n\n(cdr ())\n\n\n", "(car ())\n\n(cdr ())\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Format([]byte(tc.in), nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(out))

			// Formatting is idempotent.
			again, err := Format(out, nil)
			require.NoError(t, err)
			assert.Equal(t, string(out), string(again))
		})
	}
}

func TestFormatMaxBlankLines(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBlankLines = 2
	out, err := Format([]byte("(car ())\n\n\n\n(cdr ())"), cfg)
	require.NoError(t, err)
	assert.Equal(t, "(car ())\n\n\n(cdr ())\n", string(out))

	cfg.MaxBlankLines = 0
	out, err = Format([]byte("(car ())\n\n(cdr ())"), cfg)
	require.NoError(t, err)
	assert.Equal(t, "(car ())\n(cdr ())\n", string(out))
}

func TestFormatParsecReader(t *testing.T) {
	cfg := &Config{MaxBlankLines: 1, Reader: regexparser.NewReader()}
	out, err := Format([]byte("( cons  \"a\" ( ) )"), cfg)
	require.NoError(t, err)
	assert.Equal(t, "(cons \"a\" ())\n", string(out))
}

func TestFormatFileError(t *testing.T) {
	_, err := FormatFile([]byte("(car ())\n(cons \"a\""), "scene.tl", nil)
	assert.ErrorIs(t, err, parser.ErrUnterminatedList)
	assert.EqualError(t, err, "scene.tl:2:1: missing close paren: unterminated list (1 missing)")

	_, err = Format([]byte("(car ()))"), nil)
	assert.ErrorIs(t, err, parser.ErrUnexpectedToken)
	assert.Contains(t, err.Error(), "<stdin>:1:9")
}
