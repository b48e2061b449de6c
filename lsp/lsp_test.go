// Copyright © 2026 The Tilelisp authors

package lsp

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilelisp/tilelisp/lisp"
	"github.com/tilelisp/tilelisp/parser/regexparser"
	"github.com/tilelisp/tilelisp/parser/token"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const testURI = "file:///tmp/scene.tl"

const testContent = "(cons \"a\" ())\n" +
	"(cons foo ())\n" +
	"((cons \"a\"\n" +
	"(car \"abc\n" +
	"\n" +
	"(car ()))"

func testServer(opts ...Option) *Server {
	return New(opts...)
}

// capture records published diagnostics.
type capture struct {
	mu     sync.Mutex
	params []*protocol.PublishDiagnosticsParams
}

func (c *capture) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				c.mu.Lock()
				c.params = append(c.params, params.(*protocol.PublishDiagnosticsParams))
				c.mu.Unlock()
			}
		},
	}
}

func (c *capture) last() *protocol.PublishDiagnosticsParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.params) == 0 {
		return nil
	}
	return c.params[len(c.params)-1]
}

func (c *capture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.params)
}

func openParams(uri, content string) *protocol.DidOpenTextDocumentParams {
	return &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: "tilelisp",
			Version:    1,
			Text:       content,
		},
	}
}

func positionParams(uri string, line, col int) protocol.TextDocumentPositionParams {
	return protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Position:     protocol.Position{Line: safeUint(line), Character: safeUint(col)},
	}
}

func rng(line, start, end int) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: safeUint(line), Character: safeUint(start)},
		End:   protocol.Position{Line: safeUint(line), Character: safeUint(end)},
	}
}

func TestDiagnostics(t *testing.T) {
	for _, name := range []string{"lexer", "parsec"} {
		t.Run(name, func(t *testing.T) {
			var opts []Option
			if name == "parsec" {
				opts = append(opts, WithReader(regexparser.NewReader()))
			}
			s := testServer(opts...)
			c := &capture{}
			require.NoError(t, s.textDocumentDidOpen(c.context(), openParams(testURI, testContent)))

			published := c.last()
			require.NotNil(t, published)
			assert.Equal(t, testURI, published.URI)
			diags := published.Diagnostics
			require.Len(t, diags, 4)

			assert.Equal(t, "unbound identifier: foo", diags[0].Message)
			assert.Equal(t, rng(1, 6, 9), diags[0].Range)
			assert.Equal(t, protocol.DiagnosticSeverityWarning, *diags[0].Severity)
			assert.Equal(t, "unbound-identifier", diags[0].Code.Value)

			assert.Equal(t, "missing close paren: unterminated list (2 missing)", diags[1].Message)
			assert.Equal(t, rng(2, 1, 2), diags[1].Range)
			assert.Equal(t, protocol.DiagnosticSeverityError, *diags[1].Severity)

			assert.Equal(t, "unterminated string literal", diags[2].Message)
			assert.Equal(t, rng(3, 5, 9), diags[2].Range)

			assert.Equal(t, `unexpected token ")"`, diags[3].Message)
			assert.Equal(t, rng(5, 8, 9), diags[3].Range)

			for _, d := range diags {
				assert.Equal(t, "tilelisp", *d.Source)
			}
		})
	}
}

func TestDiagnosticsCustomEnv(t *testing.T) {
	env := lisp.DefaultEnv().With("foo", lisp.String("bar"))
	s := testServer(WithEnv(env))
	c := &capture{}
	require.NoError(t, s.textDocumentDidOpen(c.context(), openParams(testURI, "(cons foo ())\n(foo)")))
	diags := c.last().Diagnostics
	require.Len(t, diags, 1)
	assert.Equal(t, "not a function: foo", diags[0].Message)
	assert.Equal(t, rng(1, 1, 4), diags[0].Range)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diags[0].Severity)
}

func TestDidChangeDebounced(t *testing.T) {
	s := testServer()
	c := &capture{}
	require.NoError(t, s.textDocumentDidOpen(c.context(), openParams(testURI, "(cons \"a\" ())")))
	require.Equal(t, 1, c.count())

	err := s.textDocumentDidChange(c.context(), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "(cons bar ())"}},
	})
	require.NoError(t, err)
	doc := s.docs.Get(testURI)
	require.NotNil(t, doc)
	assert.Equal(t, int32(2), doc.Version)
	assert.Equal(t, "(cons bar ())", doc.Content)

	assert.Eventually(t, func() bool { return c.count() == 2 }, 5*time.Second, 20*time.Millisecond)
	diags := c.last().Diagnostics
	require.Len(t, diags, 1)
	assert.Equal(t, "unbound identifier: bar", diags[0].Message)
}

func TestDidSaveAndClose(t *testing.T) {
	s := testServer()
	c := &capture{}
	require.NoError(t, s.textDocumentDidOpen(c.context(), openParams(testURI, "foo")))
	require.NoError(t, s.textDocumentDidSave(c.context(), &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}))
	assert.Equal(t, 2, c.count())
	assert.Len(t, c.last().Diagnostics, 1)

	require.NoError(t, s.textDocumentDidClose(c.context(), &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}))
	assert.Equal(t, 3, c.count())
	assert.Empty(t, c.last().Diagnostics)
	assert.Nil(t, s.docs.Get(testURI))
}

func TestHover(t *testing.T) {
	s := testServer()
	c := &capture{}
	require.NoError(t, s.textDocumentDidOpen(c.context(), openParams(testURI, "(cons nil foo)")))

	hover, err := s.textDocumentHover(c.context(), &protocol.HoverParams{TextDocumentPositionParams: positionParams(testURI, 0, 3)})
	require.NoError(t, err)
	require.NotNil(t, hover)
	content := hover.Contents.(protocol.MarkupContent)
	assert.Equal(t, protocol.MarkupKindMarkdown, content.Kind)
	assert.Contains(t, content.Value, "**native** `cons`\n\nPops a value and then a list")
	assert.Equal(t, rng(0, 1, 5), *hover.Range)

	hover, err = s.textDocumentHover(c.context(), &protocol.HoverParams{TextDocumentPositionParams: positionParams(testURI, 0, 9)})
	require.NoError(t, err)
	require.NotNil(t, hover)
	assert.Equal(t, "**constant** `nil`\n\n```lisp\nnil\n```", hover.Contents.(protocol.MarkupContent).Value)

	for _, col := range []int{0, 11} {
		hover, err = s.textDocumentHover(c.context(), &protocol.HoverParams{TextDocumentPositionParams: positionParams(testURI, 0, col)})
		require.NoError(t, err)
		assert.Nil(t, hover, "col %d", col)
	}

	hover, err = s.textDocumentHover(c.context(), &protocol.HoverParams{TextDocumentPositionParams: positionParams("file:///nope.tl", 0, 0)})
	require.NoError(t, err)
	assert.Nil(t, hover)
}

func completionLabels(t *testing.T, result any) []string {
	t.Helper()
	items, ok := result.([]protocol.CompletionItem)
	require.True(t, ok, "completion result should be []CompletionItem, got %T", result)
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	return labels
}

func TestCompletion(t *testing.T) {
	s := testServer()
	c := &capture{}
	require.NoError(t, s.textDocumentDidOpen(c.context(), openParams(testURI, "(c\n(")))

	result, err := s.textDocumentCompletion(c.context(), &protocol.CompletionParams{TextDocumentPositionParams: positionParams(testURI, 0, 2)})
	require.NoError(t, err)
	assert.Equal(t, []string{"car", "cdr", "cons"}, completionLabels(t, result))
	items := result.([]protocol.CompletionItem)
	assert.Equal(t, protocol.CompletionItemKindFunction, *items[0].Kind)
	assert.Equal(t, "native", *items[0].Detail)
	assert.NotEmpty(t, items[0].Documentation)

	result, err = s.textDocumentCompletion(c.context(), &protocol.CompletionParams{TextDocumentPositionParams: positionParams(testURI, 1, 1)})
	require.NoError(t, err)
	labels := completionLabels(t, result)
	assert.Equal(t, lisp.DefaultEnv().Names(), labels)
	items = result.([]protocol.CompletionItem)
	for _, item := range items {
		if item.Label == "nil" {
			assert.Equal(t, protocol.CompletionItemKindConstant, *item.Kind)
		}
	}
}

func TestInitialize(t *testing.T) {
	s := testServer()
	c := &capture{}
	result, err := s.initialize(c.context(), &protocol.InitializeParams{})
	require.NoError(t, err)
	init, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, serverName, init.ServerInfo.Name)
	assert.Equal(t, lisp.Version, *init.ServerInfo.Version)
	assert.NotNil(t, init.Capabilities.CompletionProvider)
	assert.NotNil(t, init.Capabilities.HoverProvider)
	assert.NoError(t, s.shutdown(c.context()))
}

func TestExit(t *testing.T) {
	s := testServer()
	code := -1
	s.exitFn = func(c int) { code = c }
	require.NoError(t, s.exit(nil))
	assert.Equal(t, 0, code)
}

func TestWordAtPosition(t *testing.T) {
	lines := []Line{{Text: `(load-img "a.png")`}}
	word, start := wordAtPosition(lines, 0, 4)
	assert.Equal(t, "load-img", word)
	assert.Equal(t, 1, start)
	word, _ = wordAtPosition(lines, 0, 9)
	assert.Equal(t, "load-img", word)
	word, _ = wordAtPosition(lines, 0, 10)
	assert.Equal(t, "", word)
	word, _ = wordAtPosition(lines, 3, 0)
	assert.Equal(t, "", word)
	assert.Equal(t, "loa", prefixAtPosition(lines, 0, 4))
	assert.Equal(t, "", prefixAtPosition(lines, 0, 0))
}

func TestToLSPRange(t *testing.T) {
	r := toLSPRange(&token.Location{Line: 3, Col: 5}, 4)
	assert.Equal(t, rng(2, 4, 8), r)
	r = toLSPRange(&token.Location{}, 0)
	assert.Equal(t, rng(0, 0, 1), r)
	assert.Equal(t, 5, tokenWidth(&token.Token{Type: token.STRING, Text: "abc"}))
	assert.Equal(t, 1, tokenWidth(nil))
}
