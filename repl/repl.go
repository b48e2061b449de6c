// Copyright © 2026 The Tilelisp authors

package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/tilelisp/tilelisp/diagnostic"
	"github.com/tilelisp/tilelisp/lisp"
	"github.com/tilelisp/tilelisp/parser"
	"github.com/tilelisp/tilelisp/parser/lexer"
)

// StdinName is the file name reported in the locations of REPL input.
const StdinName = "stdin"

type config struct {
	stdin       io.ReadCloser
	stderr      io.Writer
	trace       bool
	reader      parser.Reader
	env         lisp.Env
	evalConfig  []lisp.Config
	historyFile string
	color       diagnostic.ColorMode
}

func newConfig(opts ...Option) *config {
	config := &config{
		stderr:      os.Stderr,
		historyFile: DefaultHistoryFile(),
	}
	for _, opt := range opts {
		opt(config)
	}
	if config.reader == nil {
		config.reader = parser.NewReader()
	}
	if config.env.Len() == 0 {
		config.env = lisp.DefaultEnv()
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.Writer) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithTrace makes the REPL print the tokens, tree, and operand stack of each
// statement before its result.
func WithTrace(trace bool) Option {
	return func(c *config) {
		c.trace = trace
	}
}

// WithReader sets the reader used to parse statements.
func WithReader(r parser.Reader) Option {
	return func(c *config) {
		c.reader = r
	}
}

// WithEnv sets the environment statements are evaluated in.  The default is
// lisp.DefaultEnv.
func WithEnv(env lisp.Env) Option {
	return func(c *config) {
		c.env = env
	}
}

// WithEvaluator configures the evaluator used for each statement.
func WithEvaluator(cfgs ...lisp.Config) Option {
	return func(c *config) {
		c.evalConfig = append(c.evalConfig, cfgs...)
	}
}

// WithHistoryFile sets the readline history file.  An empty path disables
// history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.historyFile = path
	}
}

// WithColor controls colored diagnostics.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// RunRepl reads statements one line at a time, evaluates them, and prints
// their results until the input is exhausted.  A failing statement is
// reported and the REPL moves on to the next line.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	ensureHistoryFilePermissions(cfg.historyFile)

	rlCfg := &readline.Config{
		Stdout:            cfg.stderr,
		Stderr:            cfg.stderr,
		Prompt:            prompt,
		HistoryFile:       cfg.historyFile,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{env: cfg.env},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	s := newSession(cfg)
	for {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			// io.EOF ends the session normally
			return nil
		}
		s.evalLine(line)
	}
}

// session holds the state shared by the statements of one REPL run.
type session struct {
	cfg      *config
	ev       *lisp.Evaluator
	renderer *diagnostic.Renderer
	lineno   int
}

func newSession(cfg *config) *session {
	evalCfg := append([]lisp.Config{lisp.WithStderr(cfg.stderr)}, cfg.evalConfig...)
	return &session{
		cfg:      cfg,
		ev:       lisp.NewEvaluator(evalCfg...),
		renderer: &diagnostic.Renderer{Color: cfg.color},
	}
}

// evalLine evaluates one line of input and prints its result or a
// diagnostic.  Blank lines are counted but otherwise ignored.
func (s *session) evalLine(line string) {
	s.lineno++
	if strings.TrimSpace(line) == "" {
		return
	}
	w := s.cfg.stderr
	if s.cfg.trace {
		s.traceTokens(line)
	}
	tree, err := s.cfg.reader.ReadLine(StdinName, s.lineno, line)
	if err != nil {
		s.renderer.RenderError(w, err, line) //nolint:errcheck // best-effort error display
		return
	}
	if s.cfg.trace {
		fmt.Fprintf(w, "tree:\n%s", indent(tree.String())) //nolint:errcheck // best-effort REPL output
	}
	stack, err := s.ev.Evaluate(s.cfg.env, tree)
	if err != nil {
		s.renderer.RenderError(w, err, line) //nolint:errcheck // best-effort error display
		return
	}
	if s.cfg.trace {
		fmt.Fprintf(w, "stack: %s\n", stack) //nolint:errcheck // best-effort REPL output
	}
	if top := stack.Peek(); top != nil {
		fmt.Fprintln(w, top) //nolint:errcheck // best-effort REPL output
	}
}

func (s *session) traceTokens(line string) {
	tokens, err := lexer.TokenizeLine(StdinName, s.lineno, line)
	if err != nil {
		// the reader reports the error
		return
	}
	w := s.cfg.stderr
	fmt.Fprintln(w, "tokens:") //nolint:errcheck // best-effort REPL output
	for _, tok := range tokens {
		fmt.Fprintf(w, "  %s\n", tok) //nolint:errcheck // best-effort REPL output
	}
}

func indent(s string) string {
	lines := strings.SplitAfter(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = "  " + line
		}
	}
	out := strings.Join(lines, "")
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

// DefaultHistoryFile returns the history file used when none is configured.
func DefaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tilelisp_history")
}

// ensureHistoryFilePermissions creates the history file if necessary and
// restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600) //nolint:gosec // user-configured history path
	if err != nil {
		return
	}
	f.Close()             //nolint:errcheck,gosec // nothing written
	os.Chmod(path, 0600) //nolint:errcheck,gosec // best-effort
}
