// Copyright © 2026 The Tilelisp authors

// Package diagnostic renders annotated error reports for statements read by
// the REPL and the run command.  It does not depend on package lisp so that
// any command can use it.
package diagnostic

import (
	"errors"
	"strings"

	"github.com/tilelisp/tilelisp/parser/lexer"
	"github.com/tilelisp/tilelisp/parser/token"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of a source line to highlight.
type Span struct {
	File   string // display name of the source stream
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based end column (0 = auto-detect from source)
	Label  string // text shown under the underline
	// Source is the text of the line.  When empty the renderer's
	// SourceReader is consulted.
	Source string
}

// Diagnostic represents a single error, warning, or note with optional
// source annotations and trailing notes.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Notes    []string
}

type sourcer interface {
	Source() *token.Location
}

type stackSnapshotter interface {
	StackString() string
}

// FromError converts an error produced while reading or evaluating the line
// src into a Diagnostic.  Errors without a location produce a diagnostic
// with no spans.
func FromError(err error, src string) Diagnostic {
	d := Diagnostic{
		Severity: SeverityError,
		Message:  err.Error(),
	}
	loc := errorSource(err)
	if loc == nil {
		return d
	}
	d.Message = strings.TrimPrefix(d.Message, loc.String()+": ")
	d.Spans = []Span{{
		File:   loc.File,
		Line:   loc.Line,
		Col:    loc.Col,
		Label:  errorLabel(err),
		Source: src,
	}}
	var snap stackSnapshotter
	if errors.As(err, &snap) {
		d.Notes = append(d.Notes, "operand stack: "+snap.StackString())
	}
	return d
}

func errorSource(err error) *token.Location {
	var lexErr *lexer.LexError
	if errors.As(err, &lexErr) {
		return lexErr.Source
	}
	var src sourcer
	if errors.As(err, &src) {
		return src.Source()
	}
	var locErr *token.LocationError
	if errors.As(err, &locErr) {
		return locErr.Source
	}
	return nil
}

func errorLabel(err error) string {
	if errors.Is(err, lexer.ErrUnterminatedString) {
		return "string starts here"
	}
	var m interface{ MissingCount() int }
	if errors.As(err, &m) && m.MissingCount() > 0 {
		return "unclosed list"
	}
	return ""
}
