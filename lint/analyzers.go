// Copyright © 2026 The Tilelisp authors

package lint

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tilelisp/tilelisp/astutil"
	"github.com/tilelisp/tilelisp/lisp"
)

// AnalyzerUnboundIdentifier reports identifiers that are not bound in the
// environment.  Evaluating a statement containing one always fails.
var AnalyzerUnboundIdentifier = &Analyzer{
	Name:     "unbound-identifier",
	Doc:      "Report identifiers that are not bound in the environment.\n\nThe environment includes the builtins, the game natives, and the functions defined in the configuration.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		for _, tree := range pass.Statements {
			for _, node := range astutil.Identifiers(tree) {
				if _, ok := pass.Env.Lookup(node.Token.Text); ok {
					continue
				}
				pass.Reportf(node.Token, "%v: %s", lisp.ErrUnboundIdentifier, node.Token.Text)
			}
		}
		return nil
	},
}

// AnalyzerNotAFunction reports applications whose head can never evaluate to
// a function: string literals, empty lists, and identifiers bound to
// constants.
var AnalyzerNotAFunction = &Analyzer{
	Name:     "not-a-function",
	Doc:      "Report lists whose first element is never a function.\n\nA list is applied by calling the value of its first element, so a string literal, an empty list, or a constant such as nil in that position always fails.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		for _, tree := range pass.Statements {
			astutil.WalkApplications(tree, func(id lisp.NodeID, _ int) {
				headID := tree.Node(id).Children[0]
				head := tree.Node(headID)
				switch head.Kind {
				case lisp.NodeString:
				case lisp.NodeList:
					if len(head.Children) > 0 {
						return
					}
				case lisp.NodeIdentifier:
					v, ok := pass.Env.Lookup(head.Token.Text)
					if !ok || v.Type == lisp.TFun {
						return
					}
				default:
					return
				}
				src := tree.Source(headID)
				d := At(head.Token, fmt.Sprintf("%v: %s", lisp.ErrNotAFunction, src))
				d.Span = utf8.RuneCountInString(src)
				pass.Report(d)
			})
		}
		return nil
	},
}

// builtinArity is the number of operands each native pops.
var builtinArity = map[string]int{
	"cons":        2,
	"car":         1,
	"cdr":         1,
	"debug-stack": 0,
	"load-img":    1,
	"run":         0,
}

// AnalyzerBuiltinArity reports applications of natives with fewer operands
// than the native pops.
var AnalyzerBuiltinArity = &Analyzer{
	Name:     "builtin-arity",
	Doc:      "Report native applications with too few operands.\n\nA native pops its operands from the operand stack, so a short application consumes values pushed by an enclosing list instead of failing outright. That is rarely intended.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		for _, tree := range pass.Statements {
			astutil.WalkApplications(tree, func(id lisp.NodeID, _ int) {
				name := astutil.HeadIdentifier(tree, id)
				want, ok := builtinArity[name]
				if !ok {
					return
				}
				// Natives shadowed by user functions are not checked.
				v, ok := pass.Env.Lookup(name)
				if !ok || !v.IsNative() || v.FunData().Name != name {
					return
				}
				got := astutil.ArgCount(tree, id)
				if got >= want {
					return
				}
				pass.ReportWithNotes(
					At(astutil.Head(tree, id).Token, fmt.Sprintf("%s takes %d operands (got %d)", name, want, got)),
					"missing operands are popped from values pushed by the enclosing statement",
				)
			})
		}
		return nil
	},
}

// AnalyzerNames returns the names of all default analyzers, sorted.
func AnalyzerNames() []string {
	var names []string
	for _, a := range DefaultAnalyzers() {
		names = append(names, a.Name)
	}
	sort.Strings(names)
	return names
}

// AnalyzerDoc returns a formatted list of analyzers with their short
// descriptions, for use in help text.
func AnalyzerDoc() string {
	var sb strings.Builder
	for _, a := range DefaultAnalyzers() {
		summary, _, _ := strings.Cut(a.Doc, "\n")
		fmt.Fprintf(&sb, "  %-20s %s\n", a.Name, summary)
	}
	return sb.String()
}
