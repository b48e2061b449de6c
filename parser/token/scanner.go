// Copyright © 2026 The Tilelisp authors

package token

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from a single line of source
// text.  Statements never span lines so the scanner has no need to buffer a
// stream.
type Scanner struct {
	file string
	line int
	text string

	start int // start of the current token
	pos   int // index of c in text
	next  int // index of the rune following c
	c     rune

	// Rune columns, zero based, of start, pos and next.
	startCol int
	posCol   int
	nextCol  int
}

// NewScanner initializes and returns a new Scanner over text.  The line
// number is recorded in token locations and should start at 1.
func NewScanner(file string, line int, text string) *Scanner {
	return &Scanner{
		file: file,
		line: line,
		text: text,
	}
}

// EmitToken returns a token containing the text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// EmitTokenText is like EmitToken but overrides the token text.  It is used
// for string literals whose token text excludes the delimiting quotes.
func (s *Scanner) EmitTokenText(typ Type, text string) *Token {
	tok := &Token{
		Type:   typ,
		Text:   text,
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.next
	s.startCol = s.nextCol
}

// Text returns a string containing text scanned since the last call to either
// EmitToken or Ignore.
func (s *Scanner) Text() string {
	return s.text[s.start:s.next]
}

// Start returns the byte offset of the current token.
func (s *Scanner) Start() int {
	return s.start
}

// Rune returns the current unicode rune that is being scanned.  The rune
// returned by Rune is the last rune in a token returned by EmitToken.
func (s *Scanner) Rune() rune {
	return s.c
}

// Peek returns the next rune to be scanned, if there are any.  At the end of
// the line Peek returns a false second value.
func (s *Scanner) Peek() (rune, bool) {
	if s.next >= len(s.text) {
		return 0, false
	}
	c, _ := utf8.DecodeRuneInString(s.text[s.next:])
	return c, true
}

// ScanRune scans the next rune for inclusion in the current token.  ScanRune
// returns false at the end of the line.
func (s *Scanner) ScanRune() bool {
	if s.next >= len(s.text) {
		return false
	}
	c, n := utf8.DecodeRuneInString(s.text[s.next:])
	s.c = c
	s.pos = s.next
	s.posCol = s.nextCol
	s.next += n
	s.nextCol++
	return true
}

// EOF returns true when every rune of the line has been scanned.
func (s *Scanner) EOF() bool {
	return s.next >= len(s.text)
}

func (s *Scanner) Accept(fn func(rune) bool) bool {
	peek, ok := s.Peek()
	if !ok {
		return false
	}
	if fn(peek) {
		return s.ScanRune()
	}
	return false
}

func (s *Scanner) AcceptRune(c rune) bool {
	return s.Accept(func(peek rune) bool { return peek == c })
}

func (s *Scanner) AcceptSpace() bool {
	return s.Accept(unicode.IsSpace)
}

func (s *Scanner) AcceptAny(charset string) bool {
	return s.Accept(func(peek rune) bool { return strings.ContainsRune(charset, peek) })
}

func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

func (s *Scanner) AcceptSeqSpace() int {
	return s.AcceptSeq(unicode.IsSpace)
}

// LocStart returns a Location referencing the beginning of the current token.
func (s *Scanner) LocStart() *Location {
	return s.locAt(s.start, s.startCol)
}

// Loc returns a Location referencing the current scanner position, the last
// position of the current token.
func (s *Scanner) Loc() *Location {
	return s.locAt(s.pos, s.posCol)
}

func (s *Scanner) locAt(pos, col int) *Location {
	return &Location{
		File: s.file,
		Line: s.line,
		Pos:  pos,
		Col:  col + 1,
	}
}
