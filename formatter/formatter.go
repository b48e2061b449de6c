// Copyright © 2026 The Tilelisp authors

// Package formatter provides source code formatting for tilelisp files.
// Each line is parsed as a statement and printed back in canonical form:
// single spaces between elements and no space inside parens.
package formatter

import (
	"strings"

	"github.com/tilelisp/tilelisp/parser"
)

// Config holds formatting configuration.
type Config struct {
	MaxBlankLines int           // max consecutive blank lines (default: 1)
	Reader        parser.Reader // statement reader (default: parser.NewReader())
}

// DefaultConfig returns the default formatting configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxBlankLines: 1,
		Reader:        parser.NewReader(),
	}
}

// Format formats tilelisp source code. If cfg is nil, DefaultConfig() is used.
func Format(source []byte, cfg *Config) ([]byte, error) {
	return FormatFile(source, "<stdin>", cfg)
}

// FormatFile formats tilelisp source code, using filename for error messages.
// The first line that cannot be parsed is returned as an error.
func FormatFile(source []byte, filename string, cfg *Config) ([]byte, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	reader := cfg.Reader
	if reader == nil {
		reader = parser.NewReader()
	}

	var buf strings.Builder
	blank := 0
	for i, line := range strings.Split(string(source), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			blank++
			continue
		}
		tree, err := reader.ReadLine(filename, i+1, line)
		if err != nil {
			return nil, err
		}
		// Leading blank lines are dropped.
		if buf.Len() > 0 {
			for j := 0; j < min(blank, cfg.MaxBlankLines); j++ {
				buf.WriteByte('\n')
			}
		}
		blank = 0
		buf.WriteString(tree.Source(tree.Root))
		buf.WriteByte('\n')
	}
	return []byte(buf.String()), nil
}
