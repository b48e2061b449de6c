// Copyright © 2026 The Tilelisp authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("tilelisp.cmd")

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tilelisp",
	Short: "tilelisp: a tiny lisp driving a tile engine",
	Long: `tilelisp is a small interpreted lisp whose statements drive a 2D tile
engine.  A statement is one line of source text.  Values are strings, lists,
nil, and functions; every function takes its arguments from an operand
stack.

Getting started:
  tilelisp repl                      Start an interactive REPL
  tilelisp run -e '(cons "a" ())'    Evaluate a statement
  tilelisp run -p script.tl          Run a file, one statement per line
  tilelisp doc cons                  Show documentation for a binding
  tilelisp lsp                       Start the language server

Configuration is read from $HOME/.tilelisp.yaml (or --config) and from
TILELISP_* environment variables, e.g. TILELISP_ENGINE_WIDTH=800.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// An interrupt stops the statement being run.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		if errors.Is(err, errBadInvocation) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tilelisp.yaml)")
	flags.String("color", "auto", `Control colored output: "auto", "always", or "never".`)
	flags.CountP("verbose", "v", "Increase log verbosity (may be repeated)")
	flags.String("log-file", "", "Write logs to a file instead of stderr")
	flags.String("reader", "lexer", `Statement reader: "lexer" or "parsec".`)
	flags.String("profile", "none", `Profiler: "none", "otel", "opencensus", "pprof", or "callgrind".`)
	flags.String("profile-file", "", "Output file for the pprof and callgrind profilers")

	mustBindPFlag("color", "color")
	mustBindPFlag("log.verbosity", "verbose")
	mustBindPFlag("log.file", "log-file")
	mustBindPFlag("reader", "reader")
	mustBindPFlag("profile", "profile")
	mustBindPFlag("profile-file", "profile-file")

	setDefaults(viper.GetViper())
}

func mustBindPFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".tilelisp" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".tilelisp")
	}

	viper.SetEnvPrefix("TILELISP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	configureLogging()
	switch {
	case err == nil:
		log.Infof("using config file: %s", viper.ConfigFileUsed())
	case cfgFile != "":
		// An explicitly named config file must exist.
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	default:
		log.Debugf("no config file: %v", err)
	}
}

func configureLogging() {
	var path *string
	if file := viper.GetString("log.file"); file != "" {
		path = &file
	}
	commonlog.Configure(viper.GetInt("log.verbosity"), path)
}
