// Copyright © 2026 The Tilelisp authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tilelisp/tilelisp/diagnostic"
	"github.com/tilelisp/tilelisp/lisp"
)

// errReported is returned by commands which already rendered a diagnostic
// for their failure.
var errReported = errors.New("error reported")

// errBadInvocation is an errReported for which the process exits with status
// 2 instead of 1.
var errBadInvocation = fmt.Errorf("%w: bad invocation", errReported)

// ExpressionFile is the file name reported for statements given with -e.
const ExpressionFile = "expr"

// RunCommand creates the "run" cobra command.
func RunCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var (
		runExpression bool
		runPrint      bool
	)
	cmd := &cobra.Command{
		Use:   "run [flags] FILE|EXPR...",
		Short: "Run tilelisp statements",
		Long: `Run statements supplied via the command line or files.

Every line of a file is one statement.  Blank lines are skipped.  An argument
ending in "/..." names every .tl file below a directory.  Execution stops at
the first failing statement.

Examples:
  tilelisp run scene.tl
  tilelisp run scripts/...
  tilelisp run -p -e '(cons "a" ())' '(car (cons "b" ()))'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()
			s, err := newSession(cmd.Context(), v, cfg)
			if err != nil {
				return err
			}
			defer s.close() //nolint:errcheck // best-effort profile flush
			evalCfg := append([]lisp.Config{
				lisp.WithStderr(cmd.ErrOrStderr()),
				lisp.WithContext(cmd.Context()),
			}, s.evalCfg...)
			r := &runner{
				session:  s,
				ev:       lisp.NewEvaluator(evalCfg...),
				renderer: newRenderer(v),
				stderr:   cmd.ErrOrStderr(),
			}
			if runPrint {
				r.stdout = cmd.OutOrStdout()
			}
			if runExpression {
				for i, expr := range args {
					if err := r.statement(ExpressionFile, i+1, expr); err != nil {
						return err
					}
				}
				return nil
			}
			files, err := expandArgs(args)
			if err != nil {
				return err
			}
			for _, path := range files {
				if err := r.file(cmd.Context(), path); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as statements")
	cmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print the result of each statement to stdout")
	return cmd
}

type runner struct {
	*session
	ev       *lisp.Evaluator
	renderer *diagnostic.Renderer
	stdout   io.Writer // nil unless results are printed
	stderr   io.Writer
}

func (r *runner) file(ctx context.Context, path string) error {
	b, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		return err
	}
	log.Debugf("running %s", path)
	for i, line := range strings.Split(string(b), "\n") {
		if ctx != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		if err := r.statement(path, i+1, strings.TrimSuffix(line, "\r")); err != nil {
			return err
		}
	}
	return nil
}

// statement evaluates one line.  Failures are rendered to stderr and reported
// as errReported.
func (r *runner) statement(file string, lineno int, line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	tree, err := r.reader.ReadLine(file, lineno, line)
	if err == nil {
		var stack *lisp.Stack
		stack, err = r.ev.Evaluate(r.env, tree)
		if err == nil {
			if top := stack.Peek(); top != nil && r.stdout != nil {
				fmt.Fprintln(r.stdout, top) //nolint:errcheck // best-effort output
			}
			return nil
		}
	}
	if rerr := r.renderer.RenderError(r.stderr, err, line); rerr != nil {
		return err
	}
	return errReported
}

func init() {
	rootCmd.AddCommand(RunCommand())
}
