// Copyright © 2026 The Tilelisp authors

package profiler

import (
	"regexp"
	"strings"

	"github.com/tilelisp/tilelisp/lisp"
)

// FunLabeler provides an alternative name for a function label in the trace.
type FunLabeler func(fun *lisp.Value) string

// WithDocLabeler labels spans using magic strings in function documentation.
func WithDocLabeler() Option {
	return WithFunLabeler(docFunLabeler)
}

// WithFunLabeler sets the labeler for tracing spans.
func WithFunLabeler(funLabeler FunLabeler) Option {
	return func(p *profiler) {
		p.funLabeler = funLabeler
	}
}

// DocLabel is a magic string used to extract function labels.
const DocLabel = `@trace\s*{([^}]+)}`

var (
	docLabelRegExp   = regexp.MustCompile(DocLabel)
	sanitizeRegExp   = regexp.MustCompile(`[\s_]+`)
	validLabelRegExp = regexp.MustCompile(`[[:graph:]]*`)
)

func sanitizeLabel(userLabel string) string {
	if userLabel == "" {
		return ""
	}
	userLabel = sanitizeRegExp.ReplaceAllString(userLabel, "_")
	return validLabelRegExp.FindString(userLabel)
}

func extractLabel(docStr string) string {
	match := docLabelRegExp.FindStringSubmatch(docStr)
	if len(match) < 2 {
		return ""
	}
	return strings.TrimSpace(match[1])
}

func cleanLabel(docStr string) string {
	return sanitizeLabel(extractLabel(docStr))
}

func docFunLabeler(fun *lisp.Value) string {
	fd := fun.FunData()
	if fd == nil {
		return ""
	}
	return cleanLabel(fd.Doc)
}
