// Copyright © 2026 The Tilelisp authors

package parser

import (
	"errors"
	"fmt"

	"github.com/tilelisp/tilelisp/lisp"
	"github.com/tilelisp/tilelisp/parser/lexer"
	"github.com/tilelisp/tilelisp/parser/token"
)

// Parse error conditions.  ErrUnterminatedList wraps ErrMissingCloseParen so
// either may be matched with errors.Is when input ends inside a list.
var (
	ErrMissingCloseParen = errors.New("missing close paren")
	ErrUnterminatedList  = fmt.Errorf("%w: unterminated list", ErrMissingCloseParen)
	ErrUnexpectedToken   = errors.New("unexpected token")
)

// ParseError is returned when a statement cannot be parsed.
type ParseError struct {
	// Err is the error condition, one of the Err* variables above.
	Err error
	// Token is the offending token.  For unterminated lists Token is the
	// opening paren of the innermost open list.
	Token *token.Token
	// Missing is the number of close parens needed to terminate the
	// statement.
	Missing int
}

func (e *ParseError) Error() string {
	msg := e.Err.Error()
	switch {
	case e.Missing > 0:
		msg = fmt.Sprintf("%s (%d missing)", msg, e.Missing)
	case e.Token != nil:
		msg = fmt.Sprintf("%s %q", msg, e.Token.Text)
	}
	if loc := e.Source(); loc != nil {
		return fmt.Sprintf("%s: %s", loc, msg)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingCount returns the number of close parens needed to terminate the
// statement.
func (e *ParseError) MissingCount() int {
	return e.Missing
}

// Source returns the location of the offending token, or nil.
func (e *ParseError) Source() *token.Location {
	if e.Token == nil {
		return nil
	}
	return e.Token.Source
}

// Parser builds the tree of a single statement from its tokens.
type Parser struct {
	tokens []*token.Token
	pos    int
	tree   *lisp.Tree
	cursor lisp.NodeID
	opens  []*token.Token // open parens of the lists enclosing cursor
}

// New returns a Parser reading tokens.
func New(tokens []*token.Token) *Parser {
	return &Parser{
		tokens: tokens,
		tree:   lisp.NewTree(),
		cursor: lisp.NoNode,
	}
}

// Parse parses tokens as a single statement.  An empty token sequence
// produces an empty tree.
func Parse(tokens []*token.Token) (*lisp.Tree, error) {
	return New(tokens).Parse()
}

// Parse consumes the tokens given to p and returns the statement they form.
func (p *Parser) Parse() (*lisp.Tree, error) {
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++
		done, err := p.accept(tok)
		if err != nil {
			return nil, err
		}
		if done {
			return p.finish()
		}
	}
	if len(p.opens) > 0 {
		return nil, &ParseError{
			Err:     ErrUnterminatedList,
			Token:   p.opens[len(p.opens)-1],
			Missing: len(p.opens),
		}
	}
	return p.tree, nil
}

// accept attaches tok to the tree and reports whether it completed the
// top-level form.
func (p *Parser) accept(tok *token.Token) (bool, error) {
	switch tok.Type {
	case token.PAREN_L:
		p.cursor = p.tree.Add(lisp.NodeList, tok, p.cursor)
		p.opens = append(p.opens, tok)
		return false, nil
	case token.PAREN_R:
		if len(p.opens) == 0 {
			return false, p.unexpected(tok)
		}
		p.cursor = p.tree.Node(p.cursor).Parent
		p.opens = p.opens[:len(p.opens)-1]
		return len(p.opens) == 0, nil
	case token.STRING:
		p.tree.Add(lisp.NodeString, tok, p.cursor)
		return len(p.opens) == 0, nil
	case token.SYMBOL:
		p.tree.Add(lisp.NodeIdentifier, tok, p.cursor)
		return len(p.opens) == 0, nil
	default:
		return false, p.unexpected(tok)
	}
}

// finish checks that no tokens follow a complete top-level form.
func (p *Parser) finish() (*lisp.Tree, error) {
	if p.pos < len(p.tokens) {
		return nil, p.unexpected(p.tokens[p.pos])
	}
	return p.tree, nil
}

func (p *Parser) unexpected(tok *token.Token) error {
	return &ParseError{Err: ErrUnexpectedToken, Token: tok}
}

// Reader converts a line of source text into a parsed statement.
type Reader interface {
	ReadLine(file string, lineno int, line string) (*lisp.Tree, error)
}

type reader struct{}

// NewReader returns a Reader that tokenizes each line with package lexer and
// parses the tokens with Parse.
func NewReader() Reader {
	return reader{}
}

func (reader) ReadLine(file string, lineno int, line string) (*lisp.Tree, error) {
	tokens, err := lexer.TokenizeLine(file, lineno, line)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}
