// Copyright © 2026 The Tilelisp authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/tilelisp/tilelisp/lisp"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	_, lines := doc.snapshot()
	line := int(params.Position.Line)
	word, start := wordAtPosition(lines, line, int(params.Position.Character))
	if word == "" {
		return nil, nil
	}
	v, ok := s.env.Lookup(word)
	if !ok {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: buildHoverContent(word, v),
		},
		Range: &protocol.Range{
			Start: protocol.Position{Line: safeUint(line), Character: safeUint(start)},
			End:   protocol.Position{Line: safeUint(line), Character: safeUint(start + len([]rune(word)))},
		},
	}, nil
}

// buildHoverContent builds Markdown hover text for a binding.
func buildHoverContent(name string, v *lisp.Value) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** `%s`", kindLabel(v), name)
	if v.Type != lisp.TFun {
		fmt.Fprintf(&sb, "\n\n```lisp\n%s\n```", v)
		return sb.String()
	}
	if doc := docText(v.FunData().Doc); doc != "" {
		fmt.Fprintf(&sb, "\n\n%s", doc)
	}
	return sb.String()
}

func kindLabel(v *lisp.Value) string {
	switch {
	case v.Type != lisp.TFun:
		return "constant"
	case v.IsNative():
		return "native"
	default:
		return "function"
	}
}

// docText collapses the whitespace of an indented doc string.
func docText(doc string) string {
	return strings.Join(strings.Fields(doc), " ")
}
