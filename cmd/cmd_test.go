// Copyright © 2026 The Tilelisp authors

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilelisp/tilelisp/engine"
	"github.com/tilelisp/tilelisp/lisp"
	"github.com/tilelisp/tilelisp/parser"
	"github.com/tilelisp/tilelisp/parser/regexparser"
)

type fakeGame struct {
	runs   int
	images []string
}

func (g *fakeGame) Run(context.Context) error {
	g.runs++
	return nil
}

func (g *fakeGame) ShowImage(_ context.Context, path string) error {
	g.images = append(g.images, path)
	return nil
}

func executeCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func testViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestRunExpressions(t *testing.T) {
	game := &fakeGame{}
	stdout, _, err := executeCommand(t, RunCommand(WithGame(game)),
		"-p", "-e", `(cons "a" ())`, `(car (cons "b" ()))`, `(load-img "x.png")`)
	require.NoError(t, err)
	assert.Equal(t, "(\"a\")\n\"b\"\nnil\n", stdout)
	assert.Equal(t, []string{"x.png"}, game.images)
}

func TestRunWithoutPrint(t *testing.T) {
	stdout, _, err := executeCommand(t, RunCommand(WithGame(&fakeGame{})), "-e", `(cons "a" ())`)
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestRunError(t *testing.T) {
	stdout, stderr, err := executeCommand(t, RunCommand(WithGame(&fakeGame{})),
		"-p", "-e", `(cons "a" ())`, "foo", `(cons "b" ())`)
	assert.ErrorIs(t, err, errReported)
	assert.Equal(t, "(\"a\")\n", stdout)
	assert.Contains(t, stderr, "error: unbound identifier: foo")
	assert.Contains(t, stderr, "--> expr:2:1")
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.tl"), []byte("(run)\n\n(cons \"a\" ())\r\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.tl"), []byte("(car (cons \"b\" ()))\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("foo\n"), 0o600))

	game := &fakeGame{}
	stdout, _, err := executeCommand(t, RunCommand(WithGame(game)), "-p", dir+"/...")
	require.NoError(t, err)
	assert.Equal(t, "nil\n(\"a\")\n\"b\"\n", stdout)
	assert.Equal(t, 1, game.runs)

	bad := filepath.Join(dir, "bad.tl")
	require.NoError(t, os.WriteFile(bad, []byte("(cons \"a\" ())\n(cons \"a\"\n"), 0o600))
	_, stderr, err := executeCommand(t, RunCommand(WithGame(game)), bad)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "--> "+bad+":2:1")
	assert.Contains(t, stderr, "unclosed list")

	_, _, err = executeCommand(t, RunCommand(WithGame(game)), filepath.Join(dir, "missing.tl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExpandArgs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	for _, name := range []string{"a.tl", "sub/b.tl", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}
	files, err := expandArgs([]string{"x.tl", dir + "/..."})
	require.NoError(t, err)
	assert.Equal(t, []string{"x.tl", filepath.Join(dir, "a.tl"), filepath.Join(dir, "sub", "b.tl")}, files)

	_, err = expandArgs([]string{filepath.Join(dir, "nope") + "/..."})
	assert.Error(t, err)
}

func TestDocCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, DocCommand(WithGame(&fakeGame{})), "cons", "nil")
	require.NoError(t, err)
	lines := strings.Split(stdout, "\n")
	assert.Equal(t, "native cons", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "  Pops a value and then a list"), lines[1])
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 74, line)
	}
	assert.Contains(t, stdout, "\n\nconstant nil = nil\n")

	stdout, _, err = executeCommand(t, DocCommand(WithGame(&fakeGame{})), "-l")
	require.NoError(t, err)
	assert.Contains(t, stdout, "native   cons\n")
	assert.Contains(t, stdout, "native   load-img\n")
	assert.Contains(t, stdout, "constant nil\n")

	_, _, err = executeCommand(t, DocCommand(WithGame(&fakeGame{})), "nope")
	assert.ErrorIs(t, err, lisp.ErrUnboundIdentifier)
}

func TestDocCommandWithEnv(t *testing.T) {
	env := lisp.NewEnv(lisp.Binding{Name: "greet", Value: lisp.Native("greet", "Pushes a greeting.", func(s *lisp.Stack) error {
		s.Push(lisp.String("hello"))
		return nil
	})})
	stdout, _, err := executeCommand(t, DocCommand(WithEnv(env)), "greet")
	require.NoError(t, err)
	assert.Equal(t, "native greet\n  Pushes a greeting.\n", stdout)
}

func TestDocGuide(t *testing.T) {
	stdout, _, err := executeCommand(t, DocCommand(), "--guide")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "# tilelisp language guide\n"))
	assert.Contains(t, stdout, "debug-stack")
}

func TestCleanDocstring(t *testing.T) {
	assert.Equal(t, "", cleanDocstring("  \n\t "))
	assert.Equal(t, "  Pops a list.", cleanDocstring("Pops\n\t\ta list."))
}

func TestNewSession(t *testing.T) {
	v := testViper()
	v.Set("functions", map[string]interface{}{
		"twice": `(cons "x" (cons "x" ()))`,
	})
	v.Set("max-steps", 1000)
	s, err := newSession(context.Background(), v, &cmdConfig{game: &fakeGame{}})
	require.NoError(t, err)
	defer s.close() //nolint:errcheck // test cleanup
	_, ok := s.env.Lookup("twice")
	assert.True(t, ok)
	_, ok = s.env.Lookup("run")
	assert.True(t, ok)
	assert.Nil(t, s.profiler)

	ev := lisp.NewEvaluator(s.evalCfg...)
	assert.Equal(t, int64(1000), ev.MaxSteps)
	tree, err := s.reader.ReadLine("test", 1, "(twice ())")
	require.NoError(t, err)
	stack, err := ev.Evaluate(s.env, tree)
	require.NoError(t, err)
	assert.Equal(t, `("x" "x")`, stack.Peek().String())
}

func TestNewSessionErrors(t *testing.T) {
	v := testViper()
	v.Set("reader", "yacc")
	_, err := newSession(context.Background(), v, nil)
	assert.Error(t, err)

	v = testViper()
	v.Set("functions", map[string]interface{}{"bad": `(cons "x"`})
	_, err = newSession(context.Background(), v, nil)
	assert.ErrorIs(t, err, parser.ErrUnterminatedList)

	v = testViper()
	v.Set("profile", "gprof")
	_, err = newSession(context.Background(), v, nil)
	assert.Error(t, err)
}

func TestNewReader(t *testing.T) {
	v := testViper()
	r, err := newReader(v)
	require.NoError(t, err)
	assert.IsType(t, parser.NewReader(), r)

	v.Set("reader", "parsec")
	r, err = newReader(v)
	require.NoError(t, err)
	assert.IsType(t, regexparser.NewReader(), r)
}

func TestEngineConfig(t *testing.T) {
	v := testViper()
	v.Set("engine.width", 320)
	v.Set("engine.max-frames", 5)
	cfg := engineConfig(v)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, engine.DefaultHeight, cfg.Height)
	assert.Equal(t, 5, cfg.MaxFrames)
	assert.Equal(t, 60, cfg.FPS)
	assert.Equal(t, "assets/arial_regular_10", cfg.Font)
}

func TestCallgrindProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "callgrind.out")
	v := testViper()
	v.Set("profile", "callgrind")
	v.Set("profile-file", path)
	s, err := newSession(context.Background(), v, &cmdConfig{game: &fakeGame{}})
	require.NoError(t, err)
	require.NotNil(t, s.profiler)
	assert.True(t, s.profiler.IsEnabled())

	ev := lisp.NewEvaluator(s.evalCfg...)
	tree, err := s.reader.ReadLine("test", 1, `(cons "a" ())`)
	require.NoError(t, err)
	_, err = ev.Evaluate(s.env, tree)
	require.NoError(t, err)
	require.NoError(t, s.close())

	b, err := os.ReadFile(path) //nolint:gosec // test output
	require.NoError(t, err)
	assert.Contains(t, string(b), "cons")
}

func TestOpenTelemetryProfile(t *testing.T) {
	v := testViper()
	v.Set("profile", "otel")
	s, err := newSession(context.Background(), v, &cmdConfig{game: &fakeGame{}})
	require.NoError(t, err)
	ev := lisp.NewEvaluator(s.evalCfg...)
	tree, err := s.reader.ReadLine("test", 1, `(cons "a" ())`)
	require.NoError(t, err)
	_, err = ev.Evaluate(s.env, tree)
	require.NoError(t, err)
	assert.NoError(t, s.close())
}

func TestVersion(t *testing.T) {
	var stdout bytes.Buffer
	versionCmd.SetOut(&stdout)
	defer versionCmd.SetOut(nil)
	require.NoError(t, versionCmd.RunE(versionCmd, nil))
	assert.Equal(t, "tilelisp "+lisp.Version+"\n", stdout.String())
}
