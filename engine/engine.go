// Copyright © 2026 The Tilelisp authors

// Package engine is a small tile renderer driven by the interpreter's native
// functions.  Frames are drawn into memory and handed to a Window.
package engine

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("tilelisp.engine")

// Default screen dimensions
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// Config describes the window and the assets loaded by Game.Run.
type Config struct {
	Width  int
	Height int
	// Assets is the directory relative asset paths are resolved against.
	Assets string
	// Texture is the image drawn as the scene background.
	Texture string
	// Font is an asset path without extension, see AssetManager.Font.
	Font string
	// Palette is the texture of the tile placed along the bottom row.
	Palette string
	// FPS caps the frame rate when positive.
	FPS int
	// MaxFrames closes the window after that many frames when positive.
	MaxFrames int
	// Snapshot names a PNG file receiving the final frame.
	Snapshot string
}

// Game runs render loops in windows created by NewWindow.
type Game struct {
	Config Config
	// NewWindow creates the window for each loop.  When NewWindow is nil a
	// HeadlessWindow is created from Config.
	NewWindow func() Window

	assets *AssetManager
}

// New returns a Game configured by cfg.
func New(cfg Config) *Game {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	return &Game{
		Config: cfg,
		assets: NewAssetManager(cfg.Assets),
	}
}

// Assets returns the game's asset cache.
func (g *Game) Assets() *AssetManager {
	return g.assets
}

func (g *Game) openWindow() Window {
	if g.NewWindow != nil {
		return g.NewWindow()
	}
	return &HeadlessWindow{
		MaxFrames: g.Config.MaxFrames,
		Snapshot:  g.Config.Snapshot,
	}
}

// scene holds the assets drawn each frame by Run.
type scene struct {
	background *Texture
	font       *Font
	tiles      *TileMap
	fpsText    string
}

func (g *Game) loadScene() (*scene, error) {
	if g.Config.Texture == "" {
		return nil, fmt.Errorf("no texture configured")
	}
	bg, err := g.assets.Texture(g.Config.Texture)
	if err != nil {
		return nil, fmt.Errorf("failed to load texture: %w", err)
	}
	sc := &scene{background: bg}
	if g.Config.Font != "" {
		sc.font, err = g.assets.Font(g.Config.Font)
		if err != nil {
			return nil, fmt.Errorf("failed to load font: %w", err)
		}
	}
	if g.Config.Palette != "" {
		palette, err := g.assets.TilePalette(g.Config.Palette)
		if err != nil {
			return nil, fmt.Errorf("failed to load tile palette: %w", err)
		}
		name := strings.TrimSuffix(filepath.Base(g.Config.Palette), filepath.Ext(g.Config.Palette))
		tile, err := palette.CreateTileInstance(name)
		if err != nil {
			return nil, fmt.Errorf("failed to create tile instance: %w", err)
		}
		length := tile.def.Rect.Dx()
		if length <= 0 {
			return nil, fmt.Errorf("empty tile: %s", name)
		}
		w, h := g.Config.Width/length, g.Config.Height/length
		sc.tiles = NewTileMap(w, h, length)
		for x := 0; x < w && h > 0; x++ {
			sc.tiles.Set(x, h-1, tile)
		}
	}
	return sc, nil
}

func (sc *scene) render(r *Renderer) {
	r.Clear()
	r.Render(sc.background, nil, nil)
	if sc.tiles != nil {
		sc.tiles.Render(r, 0, 0)
	}
	if sc.font != nil && sc.fpsText != "" {
		sc.font.Render(r, sc.fpsText, 10, 10)
	}
}

// Run draws the configured scene until the window closes, ctx is done, or the
// process receives an interrupt.  The scene displays the frame rate, updated
// once a second.
func (g *Game) Run(ctx context.Context) error {
	sc, err := g.loadScene()
	if err != nil {
		return err
	}
	return g.loop(ctx, func(r *Renderer, fps int, updated bool) {
		if updated {
			sc.fpsText = fmt.Sprintf("FPS: %d", fps)
		}
		sc.render(r)
	})
}

// ShowImage displays the image at path until the window closes, ctx is done,
// or the process receives an interrupt.
func (g *Game) ShowImage(ctx context.Context, path string) error {
	tex, err := g.assets.Texture(path)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	return g.loop(ctx, func(r *Renderer, _ int, _ bool) {
		r.Clear()
		dst := fitRect(tex.Bounds(), r.Canvas().Bounds())
		r.Render(tex, nil, &dst)
	})
}

// loop presents frames drawn by draw.  The draw function receives the
// current frame rate estimate and whether it changed since the last frame.
func (g *Game) loop(ctx context.Context, draw func(r *Renderer, fps int, updated bool)) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	win := g.openWindow()
	r := NewRenderer(g.Config.Width, g.Config.Height)

	var tick <-chan time.Time
	if g.Config.FPS > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(g.Config.FPS))
		defer ticker.Stop()
		tick = ticker.C
	}

	last := time.Now()
	lastLogged := last
	fps := 0
	for !win.ShouldClose() {
		if ctx.Err() != nil {
			break
		}
		now := time.Now()
		elapsed := now.Sub(last)
		last = now
		updated := false
		if now.Sub(lastLogged) > time.Second && elapsed > 0 {
			fps = int(time.Second / elapsed)
			lastLogged = now
			updated = true
			log.Debugf("FPS: %d", fps)
		}
		draw(r, fps, updated)
		if err := win.Present(r.Canvas()); err != nil {
			_ = win.Close()
			return err
		}
		if tick != nil {
			select {
			case <-tick:
			case <-ctx.Done():
			}
		}
	}
	return win.Close()
}

// fitRect returns the largest rectangle with the aspect ratio of src centered
// within dst.
func fitRect(src, dst image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	dw, dh := dst.Dx(), dst.Dy()
	if sw == 0 || sh == 0 {
		return image.Rectangle{}
	}
	w, h := dw, sh*dw/sw
	if h > dh {
		w, h = sw*dh/sh, dh
	}
	x := dst.Min.X + (dw-w)/2
	y := dst.Min.Y + (dh-h)/2
	return image.Rect(x, y, x+w, y+h)
}
