// Copyright © 2026 The Tilelisp authors

package lexer

import (
	"errors"
	"unicode"

	"github.com/tilelisp/tilelisp/parser/token"
)

// ErrUnterminatedString is reported when a line ends inside a string literal.
var ErrUnterminatedString = errors.New("unterminated string literal")

// LexError is a lexical error with the location of the offending text.
type LexError struct {
	token.LocationError
}

func (err *LexError) Unwrap() error {
	return err.Err
}

type LexFn func(*Lexer) *token.Token

type Lexer struct {
	scanner *token.Scanner
	lex     LexFn
	err     error
}

func New(s *token.Scanner) *Lexer {
	lex := &Lexer{
		scanner: s,
		lex:     (*Lexer).readToken,
	}
	return lex
}

// Tokenize splits one line of source text into tokens.  Lines are named
// "stdin" in token locations.
func Tokenize(line string) ([]*token.Token, error) {
	return TokenizeLine("stdin", 1, line)
}

// TokenizeLine is like Tokenize but records file and line in the locations of
// the returned tokens.
func TokenizeLine(file string, lineno int, line string) ([]*token.Token, error) {
	lex := New(token.NewScanner(file, lineno, line))
	var tokens []*token.Token
	for {
		tok := lex.ReadToken()
		switch tok.Type {
		case token.EOF:
			return tokens, nil
		case token.ERROR:
			return nil, lex.Err()
		}
		tokens = append(tokens, tok)
	}
}

// ReadToken returns the next token in the line.  At the end of the line an
// EOF token is returned.  When the line cannot be tokenized ReadToken returns
// an ERROR token and Err returns the cause.
func (lex *Lexer) ReadToken() *token.Token {
	return lex.lex(lex)
}

// Err returns the error that produced the last ERROR token.
func (lex *Lexer) Err() error {
	return lex.err
}

func (lex *Lexer) readToken() *token.Token {
	lex.skipWhitespace()
	if !lex.scanner.ScanRune() {
		return lex.scanner.EmitToken(token.EOF)
	}
	switch lex.scanner.Rune() {
	case '(':
		return lex.scanner.EmitToken(token.PAREN_L)
	case ')':
		return lex.scanner.EmitToken(token.PAREN_R)
	case '"':
		return lex.readString()
	default:
		return lex.readSymbol()
	}
}

func (lex *Lexer) readString() *token.Token {
	lex.scanner.AcceptSeq(func(c rune) bool { return c != '"' && c != '\n' })
	if !lex.scanner.AcceptRune('"') {
		return lex.emitError(ErrUnterminatedString)
	}
	text := lex.scanner.Text()
	return lex.scanner.EmitTokenText(token.STRING, text[1:len(text)-1])
}

func (lex *Lexer) readSymbol() *token.Token {
	lex.scanner.AcceptSeq(isWord)
	return lex.scanner.EmitToken(token.SYMBOL)
}

// emitError records err at the start of the current token.  The lexer emits
// nothing further for the line.
func (lex *Lexer) emitError(err error) *token.Token {
	lex.err = &LexError{token.LocationError{
		Err:    err,
		Source: lex.scanner.LocStart(),
	}}
	lex.lex = (*Lexer).readError
	return lex.scanner.EmitToken(token.ERROR)
}

func (lex *Lexer) readError() *token.Token {
	return lex.scanner.EmitToken(token.ERROR)
}

func (lex *Lexer) skipWhitespace() {
	if lex.scanner.AcceptSeqSpace() > 0 {
		lex.scanner.Ignore()
	}
}

// isWord reports whether c may appear in an identifier: anything other than
// whitespace, parentheses and double quotes.
func isWord(c rune) bool {
	switch c {
	case '(', ')', '"':
		return false
	}
	return !unicode.IsSpace(c)
}
