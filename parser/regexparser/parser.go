// Copyright © 2026 The Tilelisp authors

/*
Package regexparser provides a statement reader built from parser
combinators.

	expr    := '(' <expr>* ')' | <string> | <symbol>
	string  := /"[^"]*"/
	symbol  := /[^[:space:]()"]+/

It accepts the same language as package parser and reports the same error
conditions, which makes it useful for cross-checking the hand written
parser.
*/
package regexparser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	parsec "github.com/prataprc/goparsec"
	"github.com/tilelisp/tilelisp/lisp"
	"github.com/tilelisp/tilelisp/parser"
	"github.com/tilelisp/tilelisp/parser/lexer"
	"github.com/tilelisp/tilelisp/parser/token"
)

// NewReader returns a parser.Reader backed by goparsec combinators.
func NewReader() parser.Reader {
	return &parsecReader{}
}

type parsecReader struct{}

func (*parsecReader) ReadLine(file string, lineno int, line string) (*lisp.Tree, error) {
	st := &state{
		file:   file,
		lineno: lineno,
		line:   strings.TrimRightFunc(line, unicode.IsSpace),
	}
	return st.read()
}

// item is an intermediate node produced by the combinators before it is
// copied into a lisp.Tree.
type item struct {
	kind     lisp.NodeKind
	tok      *token.Token
	children []*item
	// missing is the number of close parens needed to terminate an
	// unterminated list, and zero otherwise.
	missing int
	// innermost is the open paren of the innermost unterminated list.
	innermost *token.Token
}

type state struct {
	file   string
	lineno int
	line   string
}

func (st *state) read() (*lisp.Tree, error) {
	s := parsec.NewScanner([]byte(st.line))
	root, s := st.newParsecParser()(s)
	_, s = s.SkipWS()
	if root == nil {
		if s.Endof() {
			return lisp.NewTree(), nil
		}
		return nil, st.unexpected(s.GetCursor())
	}
	switch root := root.(type) {
	case error:
		return nil, root
	case *item:
		if root.missing > 0 {
			return nil, &parser.ParseError{
				Err:     parser.ErrUnterminatedList,
				Token:   root.innermost,
				Missing: root.missing,
			}
		}
		if !s.Endof() {
			return nil, st.unexpected(s.GetCursor())
		}
		return buildTree(root), nil
	default:
		panic(fmt.Sprintf("unexpected parse node: %T", root))
	}
}

func (st *state) newParsecParser() parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	str := parsec.Token(`"[^"\n]*"`, "STRING")
	badstr := parsec.Token(`"[^"\n]*$`, "BADSTRING")
	symbol := parsec.Token(`[^\s()"]+`, "SYMBOL")
	term := parsec.OrdChoice(st.termNode, str, symbol, badstr)
	var expr parsec.Parser // forward declaration allows for recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	sexpr := parsec.And(st.listNode, openP, exprList, closeP)
	sexprOUnmatched := parsec.And(st.unmatchedNode, openP, exprList, parsec.End())
	expr = parsec.OrdChoice(nil,
		term,
		sexpr,
		// Error matching cases come last because they have the lowest
		// precedence.
		sexprOUnmatched,
	)
	return expr
}

func (st *state) termNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	term := nodes[0].(*parsec.Terminal)
	tok := &token.Token{Source: st.loc(term.Position)}
	switch term.Name {
	case "STRING":
		tok.Type = token.STRING
		tok.Text = term.Value[1 : len(term.Value)-1]
		return &item{kind: lisp.NodeString, tok: tok}
	case "SYMBOL":
		tok.Type = token.SYMBOL
		tok.Text = term.Value
		return &item{kind: lisp.NodeIdentifier, tok: tok}
	case "BADSTRING":
		return &lexer.LexError{LocationError: token.LocationError{
			Err:    lexer.ErrUnterminatedString,
			Source: tok.Source,
		}}
	default:
		panic(fmt.Sprintf("unknown terminal: %s", term.Name))
	}
}

func (st *state) listNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	lis, err := st.newList(nodes)
	if err != nil {
		return err
	}
	return lis
}

func (st *state) unmatchedNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	lis, err := st.newList(nodes)
	if err != nil {
		return err
	}
	lis.missing = 1
	lis.innermost = lis.tok
	if n := len(lis.children); n > 0 && lis.children[n-1].missing > 0 {
		last := lis.children[n-1]
		lis.missing += last.missing
		lis.innermost = last.innermost
	}
	return lis
}

// newList collects the children of a list from the nodes matched by
// (openP, exprList, ...).  An error among the children is returned instead.
func (st *state) newList(nodes []parsec.ParsecNode) (*item, error) {
	open := nodes[0].(*parsec.Terminal)
	lis := &item{
		kind: lisp.NodeList,
		tok: &token.Token{
			Type:   token.PAREN_L,
			Text:   "(",
			Source: st.loc(open.Position),
		},
	}
	children, _ := nodes[1].([]parsec.ParsecNode)
	for _, c := range children {
		switch c := c.(type) {
		case error:
			return nil, c
		case *item:
			lis.children = append(lis.children, c)
		}
	}
	return lis, nil
}

// unexpected returns an error for the token starting at byte offset pos.
func (st *state) unexpected(pos int) error {
	rest := st.line[pos:]
	tok := &token.Token{Source: st.loc(pos)}
	switch rest[0] {
	case '(':
		tok.Type, tok.Text = token.PAREN_L, "("
	case ')':
		tok.Type, tok.Text = token.PAREN_R, ")"
	case '"':
		tok.Type = token.STRING
		tok.Text = rest[1:]
		if end := strings.IndexByte(rest[1:], '"'); end >= 0 {
			tok.Text = rest[1 : end+1]
		}
	default:
		n := strings.IndexFunc(rest, func(c rune) bool {
			return c == '(' || c == ')' || c == '"' || unicode.IsSpace(c)
		})
		if n < 0 {
			n = len(rest)
		}
		tok.Type, tok.Text = token.SYMBOL, rest[:n]
	}
	return &parser.ParseError{Err: parser.ErrUnexpectedToken, Token: tok}
}

func (st *state) loc(pos int) *token.Location {
	return &token.Location{
		File: st.file,
		Pos:  pos,
		Line: st.lineno,
		Col:  utf8.RuneCountInString(st.line[:pos]) + 1,
	}
}

// buildTree copies root and its descendants into a new lisp.Tree, in the
// same order package parser adds them.
func buildTree(root *item) *lisp.Tree {
	tree := lisp.NewTree()
	type pending struct {
		it     *item
		parent lisp.NodeID
	}
	work := []pending{{root, lisp.NoNode}}
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]
		id := tree.Add(p.it.kind, p.it.tok, p.parent)
		for i := len(p.it.children) - 1; i >= 0; i-- {
			work = append(work, pending{p.it.children[i], id})
		}
	}
	return tree
}
