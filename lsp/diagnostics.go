// Copyright © 2026 The Tilelisp authors

package lsp

import (
	"errors"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/tilelisp/tilelisp/diagnostic"
	"github.com/tilelisp/tilelisp/lint"
	"github.com/tilelisp/tilelisp/lisp"
	"github.com/tilelisp/tilelisp/parser"
	"github.com/tilelisp/tilelisp/parser/lexer"
	"github.com/tilelisp/tilelisp/parser/token"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const debounceDelay = 300 * time.Millisecond

const diagnosticSource = "tilelisp"

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	s.publishDiagnostics(doc)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}

	doc := s.docs.Change(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		content,
	)

	// Debounce: delay publishing to avoid thrashing during rapid edits.
	s.debounceMu.Lock()
	if t, ok := s.debounce[doc.URI]; ok {
		t.Stop()
	}
	s.debounce[doc.URI] = time.AfterFunc(debounceDelay, func() {
		if d := s.docs.Get(doc.URI); d != nil {
			s.publishDiagnostics(d)
		}
	})
	s.debounceMu.Unlock()
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	s.cancelDebounce(params.TextDocument.URI)
	if doc := s.docs.Get(params.TextDocument.URI); doc != nil {
		s.publishDiagnostics(doc)
	}
	return nil
}

func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.cancelDebounce(params.TextDocument.URI)

	// Clear diagnostics for the closed file.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})

	s.docs.Close(params.TextDocument.URI)
	return nil
}

func (s *Server) cancelDebounce(uri string) {
	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
		delete(s.debounce, uri)
	}
	s.debounceMu.Unlock()
}

// publishDiagnostics reports the lex and parse errors of each line of doc
// along with the findings of the linter on the lines that parsed.
func (s *Server) publishDiagnostics(doc *Document) {
	uri, lines := doc.snapshot()
	diags := s.diagnose(uriToPath(uri), lines)
	log.Debugf("publishing %d diagnostics for %s", len(diags), uri)
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

func (s *Server) diagnose(file string, lines []Line) []protocol.Diagnostic {
	diags := []protocol.Diagnostic{}
	stmts := make([]*lisp.Tree, len(lines))
	for i, line := range lines {
		if line.Err != nil {
			diags = append(diags, errorDiagnostic(line))
			continue
		}
		stmts[i] = line.Tree
	}
	linter := &lint.Linter{Analyzers: lint.DefaultAnalyzers(), Env: s.env}
	found, err := linter.LintStatements(file, stmts)
	if err != nil {
		log.Errorf("lint %s: %v", file, err)
	}
	for _, d := range found {
		diags = append(diags, lintDiagnostic(d))
	}
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i].Range.Start, diags[j].Range.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Character < b.Character
	})
	return diags
}

func errorDiagnostic(line Line) protocol.Diagnostic {
	d := diagnostic.FromError(line.Err, line.Text)
	pd := protocol.Diagnostic{
		Severity: severity(protocol.DiagnosticSeverityError),
		Source:   strPtr(diagnosticSource),
		Message:  d.Message,
	}
	if len(d.Spans) == 0 {
		return pd
	}
	span := d.Spans[0]
	loc := &token.Location{Line: span.Line, Col: span.Col}
	pd.Range = toLSPRange(loc, errorWidth(line, span.Col))
	return pd
}

// errorWidth returns the number of columns to underline for the error on
// line starting at the 1-based column col.
func errorWidth(line Line, col int) int {
	var perr *parser.ParseError
	if errors.As(line.Err, &perr) && perr.MissingCount() == 0 {
		return tokenWidth(perr.Token)
	}
	if errors.Is(line.Err, lexer.ErrUnterminatedString) {
		// The literal runs to the end of the line.
		return utf8.RuneCountInString(line.Text) - col + 1
	}
	return 1
}

func lintDiagnostic(d lint.Diagnostic) protocol.Diagnostic {
	sev := protocol.DiagnosticSeverityWarning
	switch d.Severity {
	case lint.SeverityError:
		sev = protocol.DiagnosticSeverityError
	case lint.SeverityInfo:
		sev = protocol.DiagnosticSeverityInformation
	}
	msg := d.Message
	for _, note := range d.Notes {
		msg += "\n" + note
	}
	loc := &token.Location{Line: d.Pos.Line, Col: d.Pos.Col}
	return protocol.Diagnostic{
		Range:    toLSPRange(loc, d.Span),
		Severity: severity(sev),
		Code:     &protocol.IntegerOrString{Value: d.Analyzer},
		Source:   strPtr(diagnosticSource),
		Message:  msg,
	}
}

func severity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func strPtr(s string) *string {
	return &s
}
