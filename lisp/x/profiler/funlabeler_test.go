// Copyright © 2026 The Tilelisp authors

package profiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tilelisp/tilelisp/lisp"
)

func TestCleanLabel(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected string
	}{
		{
			name:     "empty",
			label:    "",
			expected: "",
		},
		{
			name:     "normal",
			label:    "@trace{ Add-It }",
			expected: "Add-It",
		},
		{
			name:     "bang",
			label:    "@trace{ user-add! }",
			expected: "user-add!",
		},
		{
			name:     "question",
			label:    "@trace { user-exists? }",
			expected: "user-exists?",
		},
		{
			name:     "spaces",
			label:    "@trace{Add  It}",
			expected: "Add_It",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual := cleanLabel(tc.label)
			assert.Equal(t, tc.expected, actual, "cleanLabel(%s)", tc.label)
		})
	}
}

func TestDocFunLabeler(t *testing.T) {
	traced := lisp.Native("add-it", "Adds it. @trace{ Add It }", nil)
	assert.Equal(t, "Add_It", docFunLabeler(traced))
	assert.False(t, docSkipFilter(traced))

	plain := lisp.Native("cons", "Pops a value.", nil)
	assert.Equal(t, "", docFunLabeler(plain))
	assert.True(t, docSkipFilter(plain))
	assert.True(t, docSkipFilter(lisp.Native("undocumented", "", nil)))
	assert.True(t, defaultSkipFilter(lisp.String("cons")))
}
