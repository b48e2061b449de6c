// Copyright © 2026 The Tilelisp authors

package lsp

import (
	"strings"
	"unicode/utf8"

	"github.com/tilelisp/tilelisp/parser/token"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// toLSPPosition converts a 1-based location to a 0-based LSP position.
func toLSPPosition(loc *token.Location) protocol.Position {
	line := loc.Line
	col := loc.Col
	if line > 0 {
		line--
	}
	if col > 0 {
		col--
	}
	return protocol.Position{
		Line:      safeUint(line),
		Character: safeUint(col),
	}
}

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// toLSPRange converts a location to a range width characters wide.
func toLSPRange(loc *token.Location, width int) protocol.Range {
	start := toLSPPosition(loc)
	if width < 1 {
		width = 1
	}
	return protocol.Range{
		Start: start,
		End: protocol.Position{
			Line:      start.Line,
			Character: start.Character + safeUint(width),
		},
	}
}

// tokenWidth returns the number of columns tok occupies in source text.
func tokenWidth(tok *token.Token) int {
	if tok == nil {
		return 1
	}
	n := utf8.RuneCountInString(tok.Text)
	if tok.Type == token.STRING {
		n += 2
	}
	if n == 0 {
		return 1
	}
	return n
}

// wordAtPosition extracts the identifier-like word at the given 0-based LSP
// position from the document lines. The cursor can be inside or at the end
// of a word; in both cases the full word and its starting column are
// returned.
func wordAtPosition(lines []Line, line, col int) (string, int) {
	if line < 0 || line >= len(lines) {
		return "", col
	}
	ln := []rune(lines[line].Text)
	if col < 0 || col > len(ln) {
		return "", col
	}
	start := col
	for start > 0 && isSymbolChar(ln[start-1]) {
		start--
	}
	end := col
	for end < len(ln) && isSymbolChar(ln[end]) {
		end++
	}
	return string(ln[start:end]), start
}

// prefixAtPosition returns the part of the word at the cursor that precedes
// it.
func prefixAtPosition(lines []Line, line, col int) string {
	word, start := wordAtPosition(lines, line, col)
	if word == "" || col < start {
		return ""
	}
	return string([]rune(word)[:col-start])
}

func isSymbolChar(c rune) bool {
	return c > ' ' && c != '(' && c != ')' && c != '"'
}

func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}
