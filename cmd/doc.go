// Copyright © 2026 The Tilelisp authors

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tilelisp/tilelisp/docs"
	"github.com/tilelisp/tilelisp/lisp"
)

// DocCommand creates the "doc" cobra command.
func DocCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var docList, docGuide bool
	cmd := &cobra.Command{
		Use:   "doc [flags] NAME...",
		Short: "Show documentation for bound names",
		Long: `Show the documentation of the natives, constants, and user-defined
functions bound in the interpreter environment.  Functions defined in the
configuration's functions map are included.

Examples:
  tilelisp doc cons              Show docs for the cons native
  tilelisp doc run load-img      Show docs for several names
  tilelisp doc -l                List every bound name
  tilelisp doc --guide           Show the language guide`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if docGuide {
				_, err := io.WriteString(cmd.OutOrStdout(), docs.LangGuide)
				return err
			}
			if !docList && len(args) == 0 {
				return cmd.Help()
			}
			env, _, err := newEnv(cmd.Context(), viper.GetViper(), cfg)
			if err != nil {
				return err
			}
			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush() //nolint:errcheck // best-effort flush on exit
			if docList {
				return renderBindingList(out, env)
			}
			for i, name := range args {
				if i > 0 {
					fmt.Fprintln(out) //nolint:errcheck // checked by the next write
				}
				if err := renderBinding(out, env, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&docList, "list", "l", false, "List every bound name.")
	cmd.Flags().BoolVarP(&docGuide, "guide", "g", false, "Show the language guide.")
	return cmd
}

func bindingKind(v *lisp.Value) string {
	switch {
	case v.Type != lisp.TFun:
		return "constant"
	case v.IsNative():
		return "native"
	default:
		return "function"
	}
}

func renderBinding(w io.Writer, env lisp.Env, name string) error {
	v, ok := env.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", lisp.ErrUnboundIdentifier, name)
	}
	if v.Type != lisp.TFun {
		_, err := fmt.Fprintf(w, "%s %s = %v\n", bindingKind(v), name, v)
		return err
	}
	_, err := fmt.Fprintf(w, "%s %s\n", bindingKind(v), name)
	if err != nil {
		return err
	}
	if doc, _ := env.Doc(name); doc != "" {
		_, err = fmt.Fprintln(w, cleanDocstring(doc))
	}
	return err
}

func renderBindingList(w io.Writer, env lisp.Env) error {
	for _, name := range env.Names() {
		v, _ := env.Lookup(name)
		if _, err := fmt.Fprintf(w, "%-8s %s\n", bindingKind(v), name); err != nil {
			return err
		}
	}
	return nil
}

// cleanDocstring reflows doc, which may be indented source text, into an
// indented paragraph.
func cleanDocstring(doc string) string {
	doc = strings.Join(strings.Fields(doc), " ")
	if doc == "" {
		return ""
	}
	return strings.TrimSuffix(indent.String(wordwrap.String(doc, 72), 2), "\n")
}

func init() {
	rootCmd.AddCommand(DocCommand())
}
