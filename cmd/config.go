// Copyright © 2026 The Tilelisp authors

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"github.com/tilelisp/tilelisp/diagnostic"
	"github.com/tilelisp/tilelisp/engine"
	"github.com/tilelisp/tilelisp/lisp"
	"github.com/tilelisp/tilelisp/lisp/lisplib"
	"github.com/tilelisp/tilelisp/parser"
	"github.com/tilelisp/tilelisp/parser/regexparser"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("prompt", "tilelisp> ")
	v.SetDefault("trace", true)
	v.SetDefault("color", "auto")
	v.SetDefault("reader", "lexer")
	v.SetDefault("max-steps", 0)
	v.SetDefault("profile", "none")
	v.SetDefault("engine.width", engine.DefaultWidth)
	v.SetDefault("engine.height", engine.DefaultHeight)
	v.SetDefault("engine.assets", ".")
	v.SetDefault("engine.texture", "assets/test.png")
	v.SetDefault("engine.font", "assets/arial_regular_10")
	v.SetDefault("engine.palette", "assets/test.png")
	v.SetDefault("engine.fps", 60)
}

func engineConfig(v *viper.Viper) engine.Config {
	return engine.Config{
		Width:     v.GetInt("engine.width"),
		Height:    v.GetInt("engine.height"),
		Assets:    v.GetString("engine.assets"),
		Texture:   v.GetString("engine.texture"),
		Font:      v.GetString("engine.font"),
		Palette:   v.GetString("engine.palette"),
		FPS:       v.GetInt("engine.fps"),
		MaxFrames: v.GetInt("engine.max-frames"),
		Snapshot:  v.GetString("engine.snapshot"),
	}
}

func newReader(v *viper.Viper) (parser.Reader, error) {
	switch name := v.GetString("reader"); name {
	case "", "lexer":
		return parser.NewReader(), nil
	case "parsec":
		return regexparser.NewReader(), nil
	default:
		return nil, fmt.Errorf("unknown reader %q: expected lexer or parsec", name)
	}
}

func colorMode(v *viper.Viper) diagnostic.ColorMode {
	mode, err := diagnostic.ParseColorMode(v.GetString("color"))
	if err != nil {
		log.Warningf("%v", err)
	}
	return mode
}

func newRenderer(v *viper.Viper) *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode(v)}
}

// session is the interpreter state shared by the statements a command
// evaluates.
type session struct {
	env      lisp.Env
	reader   parser.Reader
	evalCfg  []lisp.Config
	profiler lisp.Profiler
	shutdown func() error
}

// newEnv returns the environment described by v.  Unless cfg supplies an
// environment, the game natives drive an engine configured from the engine.*
// keys.  User-defined functions from the functions map are bound on top.
func newEnv(ctx context.Context, v *viper.Viper, cfg *cmdConfig) (lisp.Env, parser.Reader, error) {
	reader, err := newReader(v)
	if err != nil {
		return lisp.Env{}, nil, err
	}
	var env lisp.Env
	if cfg != nil && cfg.env != nil {
		env = *cfg.env
	} else {
		var game lisplib.Game = engine.New(engineConfig(v))
		if cfg != nil && cfg.game != nil {
			game = cfg.game
		}
		env = lisplib.NewEnv(ctx, game)
	}
	env, err = lisplib.BindFunctions(env, reader, v.GetStringMapString("functions"))
	if err != nil {
		return lisp.Env{}, nil, err
	}
	return env, reader, nil
}

// newSession builds the environment and evaluator configuration described by
// v.  The caller must call close when done.
func newSession(ctx context.Context, v *viper.Viper, cfg *cmdConfig) (*session, error) {
	env, reader, err := newEnv(ctx, v, cfg)
	if err != nil {
		return nil, err
	}
	s := &session{env: env, reader: reader}
	if n := v.GetInt64("max-steps"); n > 0 {
		s.evalCfg = append(s.evalCfg, lisp.WithMaxSteps(n))
	}
	s.profiler, s.shutdown, err = newProfiler(ctx, v)
	if err != nil {
		return nil, err
	}
	if s.profiler != nil {
		s.evalCfg = append(s.evalCfg, lisp.WithProfiler(s.profiler))
	}
	return s, nil
}

func (s *session) close() error {
	return s.shutdown()
}
