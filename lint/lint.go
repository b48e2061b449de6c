// Copyright © 2026 The Tilelisp authors

// Package lint provides static analysis for tilelisp source files.
//
// The linter is modeled after go vet: each check is an independent Analyzer
// that receives the parsed statements of a file and reports diagnostics.
// The framework handles parsing, running analyzers, collecting results, and
// formatting output.
package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tilelisp/tilelisp/lisp"
	"github.com/tilelisp/tilelisp/parser"
	"github.com/tilelisp/tilelisp/parser/token"
)

// Severity indicates the severity level of a lint diagnostic.
type Severity int

const (
	severityUnset Severity = iota // unexported zero sentinel for default detection
	SeverityError
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as a JSON string.
// An unset severity (zero value) is marshaled as "warning".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal("warning")
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity: %q", str)
	}
	return nil
}

// Analyzer defines a single lint check.
type Analyzer struct {
	// Name is a short identifier for this check (e.g. "builtin-arity").
	Name string

	// Doc is a human-readable description. The first line is a short summary.
	Doc string

	// Severity is the default severity for diagnostics from this analyzer.
	Severity Severity

	// Run executes the check. It should call pass.Report() for each finding.
	Run func(pass *Pass) error
}

// Pass provides context to a running analyzer.
type Pass struct {
	// Analyzer is the currently running check.
	Analyzer *Analyzer

	// Filename is the source file being analyzed.
	Filename string

	// Statements holds the parsed statement of each line.  Blank lines hold
	// empty trees.
	Statements []*lisp.Tree

	// Env is the environment the file will be evaluated in.
	Env lisp.Env

	diagnostics []Diagnostic
}

// Report records a diagnostic finding.
func (p *Pass) Report(d Diagnostic) {
	d.Analyzer = p.Analyzer.Name
	if d.Severity == severityUnset {
		d.Severity = p.Analyzer.Severity
	}
	p.diagnostics = append(p.diagnostics, d)
}

// ReportWithNotes records a diagnostic with additional hint text.
func (p *Pass) ReportWithNotes(d Diagnostic, notes ...string) {
	d.Notes = append(d.Notes, notes...)
	p.Report(d)
}

// Reportf is a convenience for reporting a diagnostic at a token.
func (p *Pass) Reportf(tok *token.Token, format string, args ...interface{}) {
	p.Report(At(tok, fmt.Sprintf(format, args...)))
}

// At returns a diagnostic positioned at tok and spanning its text.
func At(tok *token.Token, msg string) Diagnostic {
	d := Diagnostic{Message: msg}
	if tok != nil && tok.Source != nil {
		d.Pos = Position{File: tok.Source.File, Line: tok.Source.Line, Col: tok.Source.Col}
		d.Span = utf8.RuneCountInString(tok.Text)
		if tok.Type == token.STRING {
			d.Span += 2
		}
	}
	return d
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	// Pos is the source location of the problem.
	Pos Position `json:"pos"`

	// Span is the number of columns the problem covers, starting at Pos.
	Span int `json:"span,omitempty"`

	// Message is a human-readable description of the problem.
	Message string `json:"message"`

	// Analyzer is the name of the check that found this problem.
	Analyzer string `json:"analyzer"`

	// Severity is the severity level of the diagnostic.
	Severity Severity `json:"severity"`

	// Notes are optional hint text lines for the user.
	Notes []string `json:"notes,omitempty"`
}

// Position identifies a location in source code.
type Position struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col,omitempty"`
}

// String returns the position in file:line:col format.
func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// String returns the diagnostic in go vet style: file:line:col: message
// (analyzer) with optional note lines appended.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s (%s)", d.Pos, d.Message, d.Analyzer)
	for _, n := range d.Notes {
		s += "\n  = note: " + n
	}
	return s
}

// Linter runs a set of analyzers over source files.
type Linter struct {
	Analyzers []*Analyzer

	// Env is the environment identifiers are resolved in.  An empty Env
	// means lisp.DefaultEnv.
	Env lisp.Env

	// Reader parses each line.  A nil Reader means parser.NewReader.
	Reader parser.Reader
}

// LintFile parses source one line at a time and analyzes the statements.
// The first line that cannot be parsed is returned as an error.
func (l *Linter) LintFile(source []byte, filename string) ([]Diagnostic, error) {
	reader := l.Reader
	if reader == nil {
		reader = parser.NewReader()
	}
	lines := strings.Split(string(source), "\n")
	stmts := make([]*lisp.Tree, len(lines))
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			stmts[i] = lisp.NewTree()
			continue
		}
		tree, err := reader.ReadLine(filename, i+1, line)
		if err != nil {
			return nil, err
		}
		stmts[i] = tree
	}
	return l.LintStatements(filename, stmts)
}

// LintStatements analyzes statements that have already been parsed.  A nil
// entry is treated as a blank line.
func (l *Linter) LintStatements(filename string, stmts []*lisp.Tree) ([]Diagnostic, error) {
	env := l.Env
	if env.Len() == 0 {
		env = lisp.DefaultEnv()
	}
	for i := range stmts {
		if stmts[i] == nil {
			stmts[i] = lisp.NewTree()
		}
	}

	var all []Diagnostic
	for _, analyzer := range l.Analyzers {
		pass := &Pass{
			Analyzer:   analyzer,
			Filename:   filename,
			Statements: stmts,
			Env:        env,
		}
		if err := analyzer.Run(pass); err != nil {
			return nil, fmt.Errorf("%s: analyzer %s: %w", filename, analyzer.Name, err)
		}
		// Set file on diagnostics that don't have one
		for i := range pass.diagnostics {
			if pass.diagnostics[i].Pos.File == "" {
				pass.diagnostics[i].Pos.File = filename
			}
		}
		all = append(all, pass.diagnostics...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Pos.Line != all[j].Pos.Line {
			return all[i].Pos.Line < all[j].Pos.Line
		}
		return all[i].Pos.Col < all[j].Pos.Col
	})
	return all, nil
}

// FormatText writes diagnostics in go vet text format.
func FormatText(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String()) //nolint:errcheck // best-effort output to writer
	}
}

// FormatJSON writes diagnostics as JSON.
func FormatJSON(w io.Writer, diags []Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// DefaultAnalyzers returns the built-in set of lint checks.
func DefaultAnalyzers() []*Analyzer {
	return []*Analyzer{
		AnalyzerUnboundIdentifier,
		AnalyzerNotAFunction,
		AnalyzerBuiltinArity,
	}
}

// Select returns the analyzers named in names, in the order of
// DefaultAnalyzers.  Unknown names are an error.
func Select(names []string) ([]*Analyzer, error) {
	selected := make(map[string]bool)
	for _, name := range names {
		selected[strings.TrimSpace(name)] = true
	}
	var filtered []*Analyzer
	for _, a := range DefaultAnalyzers() {
		if selected[a.Name] {
			filtered = append(filtered, a)
			delete(selected, a.Name)
		}
	}
	for name := range selected {
		return nil, fmt.Errorf("unknown check: %s", name)
	}
	return filtered, nil
}
