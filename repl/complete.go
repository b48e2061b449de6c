// Copyright © 2026 The Tilelisp authors

package repl

import (
	"strings"

	"github.com/tilelisp/tilelisp/lisp"
)

// symbolCompleter implements readline.AutoCompleter by enumerating the names
// bound in the REPL environment.
type symbolCompleter struct {
	env lisp.Env
}

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed (backwards from cursor to whitespace or open paren).
	start := pos
	for start > 0 {
		ch := line[start-1]
		if ch == ' ' || ch == '\t' || ch == '(' || ch == ')' || ch == '"' {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	var result [][]rune
	for _, name := range c.env.Names() {
		if strings.HasPrefix(name, prefix) {
			// Each entry is the suffix to append.
			result = append(result, []rune(name[len(prefix):]))
		}
	}
	if len(result) == 0 {
		return nil, 0
	}
	return result, len([]rune(prefix))
}
