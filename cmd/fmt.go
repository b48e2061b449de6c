// Copyright © 2026 The Tilelisp authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tilelisp/tilelisp/formatter"
)

type fmtMode struct {
	write, diff, list bool
	maxBlankLines     int
}

// FmtCommand creates the "fmt" cobra command.
func FmtCommand() *cobra.Command {
	var mode fmtMode
	cmd := &cobra.Command{
		Use:   "fmt [flags] [files...]",
		Short: "Format tilelisp source files",
		Long: `Format tilelisp source files, similar to gofmt for Go.

Every statement is printed on its own line with single spaces between list
elements and no space inside parens.  Runs of blank lines are collapsed.  The
formatter is idempotent.

With no files, reads from stdin and writes to stdout.
With files, prints formatted output to stdout unless -w is given.

Modes:
  (default)   Print formatted code to stdout
  -w          Write result back to source file
  -d          Display a diff of changes
  -l          List files that would be changed

Examples:
  tilelisp fmt scene.tl            Print formatted output
  tilelisp fmt -w ./...            Format every source file in place
  tilelisp fmt -l ./...            List files needing formatting
  cat scene.tl | tilelisp fmt      Format from stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := newReader(viper.GetViper())
			if err != nil {
				return err
			}
			cfg := formatter.DefaultConfig()
			cfg.MaxBlankLines = mode.maxBlankLines
			cfg.Reader = reader

			if len(args) == 0 {
				src, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				out, err := formatter.FormatFile(src, StdinName, cfg)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}

			expanded, err := expandArgs(args)
			if err != nil {
				return err
			}
			failed := false
			for _, path := range expanded {
				changed, err := mode.file(cmd.OutOrStdout(), path, cfg)
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err) //nolint:errcheck // best-effort output
					failed = true
				} else if mode.list && changed {
					failed = true
				}
			}
			if failed {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&mode.write, "write", "w", false, "Write result to (source) file instead of stdout.")
	cmd.Flags().BoolVarP(&mode.diff, "diff", "d", false, "Display diffs instead of rewriting files.")
	cmd.Flags().BoolVarP(&mode.list, "list", "l", false, "List files whose formatting differs from tilelisp fmt's.")
	cmd.Flags().IntVar(&mode.maxBlankLines, "max-blank-lines", 1, "Maximum number of consecutive blank lines kept.")
	return cmd
}

// file formats the file at path according to m and reports whether its
// formatting changed.
func (m *fmtMode) file(w io.Writer, path string, cfg *formatter.Config) (bool, error) {
	src, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		return false, err
	}
	out, err := formatter.FormatFile(src, path, cfg)
	if err != nil {
		return false, err
	}
	changed := string(src) != string(out)

	switch {
	case m.list:
		if changed {
			fmt.Fprintln(w, path) //nolint:errcheck // best-effort output
		}
		return changed, nil
	case m.diff:
		if changed {
			printUnifiedDiff(w, path, src, out)
		}
		return changed, nil
	case m.write:
		if !changed {
			return false, nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return false, err
		}
		return true, os.WriteFile(path, out, info.Mode().Perm())
	}
	_, err = w.Write(out)
	return changed, err
}

// printUnifiedDiff writes a line-by-line comparison of original and
// formatted.  It is not a minimal diff.
func printUnifiedDiff(w io.Writer, path string, original, formatted []byte) {
	fmt.Fprintf(w, "--- %s\n+++ %s\n", path, path) //nolint:errcheck // best-effort output
	origLines := splitLines(original)
	fmtLines := splitLines(formatted)
	i, j := 0, 0
	for i < len(origLines) || j < len(fmtLines) {
		switch {
		case i < len(origLines) && j < len(fmtLines) && origLines[i] == fmtLines[j]:
			fmt.Fprintf(w, " %s\n", origLines[i]) //nolint:errcheck // best-effort output
			i++
			j++
		case i < len(origLines):
			fmt.Fprintf(w, "-%s\n", origLines[i]) //nolint:errcheck // best-effort output
			i++
			// A changed line is followed by its replacement.
			if j < len(fmtLines) && (i >= len(origLines) || origLines[i] != fmtLines[j]) {
				fmt.Fprintf(w, "+%s\n", fmtLines[j]) //nolint:errcheck // best-effort output
				j++
			}
		default:
			fmt.Fprintf(w, "+%s\n", fmtLines[j]) //nolint:errcheck // best-effort output
			j++
		}
	}
}

func splitLines(data []byte) []string {
	s := strings.TrimSuffix(string(data), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func init() {
	rootCmd.AddCommand(FmtCommand())
}
