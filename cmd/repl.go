// Copyright © 2026 The Tilelisp authors

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tilelisp/tilelisp/repl"
)

// ReplCommand creates the "repl" cobra command.
func ReplCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive tilelisp REPL",
		Long: `Start an interactive read-eval-print loop.

Each line is one statement.  With tracing enabled (the default, see the
trace key or --trace) the REPL prints the statement's tokens, its tree, and
the operand stack before the result.  Errors are reported and the REPL moves
on to the next line.  Use Ctrl-D to exit.

Example REPL session:
  tilelisp> (cons "a" ())
  ("a")
  tilelisp> (car (cons "a" ()))
  "a"
  tilelisp> (load-img "assets/test.png")
  nil`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := viper.GetViper()
			s, err := newSession(cmd.Context(), v, cfg)
			if err != nil {
				return err
			}
			defer s.close() //nolint:errcheck // best-effort profile flush
			return repl.RunRepl(v.GetString("prompt"),
				repl.WithStderr(cmd.ErrOrStderr()),
				repl.WithEnv(s.env),
				repl.WithReader(s.reader),
				repl.WithEvaluator(s.evalCfg...),
				repl.WithTrace(v.GetBool("trace")),
				repl.WithColor(colorMode(v)),
				repl.WithHistoryFile(historyFile(v)),
			)
		},
	}
	cmd.Flags().Bool("trace", true, "Print the tokens, tree, and operand stack of each statement")
	if err := viper.BindPFlag("trace", cmd.Flags().Lookup("trace")); err != nil {
		panic(err)
	}
	return cmd
}

func historyFile(v *viper.Viper) string {
	if v.IsSet("history-file") {
		return v.GetString("history-file")
	}
	return repl.DefaultHistoryFile()
}

func init() {
	rootCmd.AddCommand(ReplCommand())
}
