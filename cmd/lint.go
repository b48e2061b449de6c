// Copyright © 2026 The Tilelisp authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tilelisp/tilelisp/diagnostic"
	"github.com/tilelisp/tilelisp/lint"
)

// StdinName is the file name reported for source read from standard input.
const StdinName = "<stdin>"

// LintCommand creates the "lint" cobra command.
func LintCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var (
		lintJSON    bool
		lintChecks  string
		lintListAll bool
	)
	cmd := &cobra.Command{
		Use:   "lint [flags] [files...]",
		Short: "Run static analysis checks on tilelisp source files",
		Long: `Run static analysis checks on tilelisp source files.

The linter reports likely mistakes without evaluating anything, similar to
"go vet" for Go.  Identifiers are resolved in the same environment the run
command uses, including the functions map of the configuration.

With no files, reads from stdin.  A pattern ending in "/..." matches every
` + SourceExt + ` file below a directory.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (invalid flags, unreadable or unparsable files)

Available checks (use --checks to select specific ones):
` + lint.AnalyzerDoc() + `
Examples:
  tilelisp lint scene.tl                     Lint a single file
  tilelisp lint ./...                        Lint every source file
  tilelisp lint --json scene.tl              Output diagnostics as JSON
  tilelisp lint --checks=builtin-arity f.tl  Run only specific checks
  cat scene.tl | tilelisp lint               Lint from stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if lintListAll {
				for _, name := range lint.AnalyzerNames() {
					fmt.Fprintln(cmd.OutOrStdout(), name) //nolint:errcheck // best-effort output
				}
				return nil
			}
			analyzers := lint.DefaultAnalyzers()
			if lintChecks != "" {
				var err error
				analyzers, err = lint.Select(strings.Split(lintChecks, ","))
				if err != nil {
					return err
				}
			}
			v := viper.GetViper()
			env, reader, err := newEnv(cmd.Context(), v, cfg)
			if err != nil {
				return err
			}
			l := &lint.Linter{Analyzers: analyzers, Env: env, Reader: reader}

			sources := make(map[string][]byte)
			if len(args) == 0 {
				src, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				sources[StdinName] = src
				args = []string{StdinName}
			} else {
				args, err = expandArgs(args)
				if err != nil {
					return err
				}
			}

			renderer := newRenderer(v)
			renderer.SourceReader = func(name string) ([]byte, error) {
				if src, ok := sources[name]; ok {
					return src, nil
				}
				return os.ReadFile(name) //#nosec G304
			}
			var all []lint.Diagnostic
			for _, path := range args {
				src, ok := sources[path]
				if !ok {
					src, err = os.ReadFile(path) //#nosec G304
					if err != nil {
						return err
					}
					sources[path] = src
				}
				diags, err := l.LintFile(src, path)
				if err != nil {
					renderer.RenderError(cmd.ErrOrStderr(), err, "") //nolint:errcheck // best-effort output
					return errBadInvocation
				}
				all = append(all, diags...)
			}
			if len(all) == 0 {
				return nil
			}
			if lintJSON {
				if err := lint.FormatJSON(cmd.OutOrStdout(), all); err != nil {
					return err
				}
			} else {
				renderLintDiagnostics(cmd.ErrOrStderr(), renderer, all)
			}
			return errReported
		},
	}
	cmd.Flags().BoolVar(&lintJSON, "json", false, "Output diagnostics as JSON.")
	cmd.Flags().StringVar(&lintChecks, "checks", "", "Comma-separated list of checks to run (default: all).")
	cmd.Flags().BoolVar(&lintListAll, "list", false, "List available checks and exit.")
	return cmd
}

func lintDiagToDiagnostic(ld lint.Diagnostic) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityWarning,
		Message:  ld.Message + " (" + ld.Analyzer + ")",
	}
	if ld.Severity == lint.SeverityError {
		d.Severity = diagnostic.SeverityError
	}
	if ld.Pos.Line > 0 {
		span := diagnostic.Span{
			File: ld.Pos.File,
			Line: ld.Pos.Line,
			Col:  ld.Pos.Col,
		}
		if ld.Span > 0 {
			span.EndCol = ld.Pos.Col + ld.Span - 1
		}
		d.Spans = append(d.Spans, span)
	}
	d.Notes = append(d.Notes, ld.Notes...)
	return d
}

// renderLintDiagnostics renders lint diagnostics with source snippets.
func renderLintDiagnostics(w io.Writer, r *diagnostic.Renderer, diags []lint.Diagnostic) {
	ds := make([]diagnostic.Diagnostic, 0, len(diags))
	for _, ld := range diags {
		ds = append(ds, lintDiagToDiagnostic(ld))
	}
	_ = r.RenderAll(w, ds)
}

func init() {
	rootCmd.AddCommand(LintCommand())
}
