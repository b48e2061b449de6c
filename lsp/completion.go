// Copyright © 2026 The Tilelisp authors

package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	_, lines := doc.snapshot()
	prefix := prefixAtPosition(lines, int(params.Position.Line), int(params.Position.Character))

	items := []protocol.CompletionItem{}
	for _, name := range s.env.Names() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		v, _ := s.env.Lookup(name)
		label := kindLabel(v)
		kind := protocol.CompletionItemKindFunction
		if label == "constant" {
			kind = protocol.CompletionItemKindConstant
		}
		item := protocol.CompletionItem{
			Label:  name,
			Kind:   &kind,
			Detail: &label,
		}
		if doc, ok := s.env.Doc(name); ok && doc != "" {
			item.Documentation = docText(doc)
		}
		items = append(items, item)
	}
	return items, nil
}
