// Copyright © 2026 The Tilelisp authors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tilelisp/tilelisp/lisp"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the interpreter version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "tilelisp %s\n", lisp.Version)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
