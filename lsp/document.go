// Copyright © 2026 The Tilelisp authors

package lsp

import (
	"strings"
	"sync"

	"github.com/tilelisp/tilelisp/lisp"
	"github.com/tilelisp/tilelisp/parser"
)

// Line is one parsed line of a document.
type Line struct {
	Text string
	Tree *lisp.Tree // nil when Err is set
	Err  error
}

// Document represents an open text document tracked by the LSP server.
type Document struct {
	mu      sync.Mutex
	URI     string
	Version int32
	Content string
	Lines   []Line
}

// parse reads every line of the document as a statement.  A failing line
// does not affect the others.
func (d *Document) parse(reader parser.Reader) {
	file := uriToPath(d.URI)
	texts := strings.Split(d.Content, "\n")
	d.Lines = make([]Line, len(texts))
	for i, text := range texts {
		text = strings.TrimSuffix(text, "\r")
		d.Lines[i].Text = text
		if strings.TrimSpace(text) == "" {
			d.Lines[i].Tree = lisp.NewTree()
			continue
		}
		d.Lines[i].Tree, d.Lines[i].Err = reader.ReadLine(file, i+1, text)
	}
}

// snapshot returns the document's URI and lines under its lock.
func (d *Document) snapshot() (string, []Line) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.URI, d.Lines
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu     sync.RWMutex
	docs   map[string]*Document
	reader parser.Reader
}

// NewDocumentStore creates an empty document store parsing with reader.
func NewDocumentStore(reader parser.Reader) *DocumentStore {
	return &DocumentStore{
		docs:   make(map[string]*Document),
		reader: reader,
	}
}

// Open adds a document to the store and parses it.
func (s *DocumentStore) Open(uri string, version int32, content string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Content: content,
	}
	doc.parse(s.reader)
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change updates a document's content (full sync) and re-parses it.
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.Version = version
	doc.Content = content
	doc.parse(s.reader)
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}
