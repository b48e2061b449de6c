// Copyright © 2026 The Tilelisp authors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tilelisp/tilelisp/lsp"
)

// LSPCommand creates the "lsp" cobra command.  Embedders can pass WithEnv to
// offer their own bindings for hover and completion.
func LSPCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)

	var (
		stdio bool
		port  int
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the tilelisp Language Server Protocol server",
		Long: `Start an LSP server for tilelisp source files.

The language server reports lex and parse errors for every line of an open
document and offers hover documentation and completion for bound names.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  tilelisp lsp                       Start with stdio transport
  tilelisp lsp --port 7998           Start with TCP on port 7998`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, reader, err := newEnv(cmd.Context(), viper.GetViper(), cfg)
			if err != nil {
				return err
			}
			srv := lsp.New(lsp.WithEnv(env), lsp.WithReader(reader))
			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				log.Infof("LSP server listening on %s", addr)
				return srv.RunTCP(addr)
			}
			return srv.RunStdio()
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")

	return cmd
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
