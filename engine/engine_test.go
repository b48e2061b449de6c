// Copyright © 2026 The Tilelisp authors

package engine

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black = color.RGBA{A: 0xff}
)

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := subImage(c, w, h)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

const testFontXML = `<?xml version="1.0"?>
<font>
  <metrics height="0"/>
  <chars>
    <char id="A" advance="3" offset_x="0" offset_y="0" rect_x="0" rect_y="0" rect_w="2" rect_h="2"/>
    <char id=" " advance="1" offset_x="0" offset_y="0" rect_x="0" rect_y="0" rect_w="0" rect_h="0"/>
  </chars>
</font>
`

func testAssets(t *testing.T) string {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "test.png"), 8, 8, red)
	writePNG(t, filepath.Join(dir, "font.png"), 2, 2, white)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "font.xml"), []byte(testFontXML), 0600))
	writePNG(t, filepath.Join(dir, "gray-block.png"), 4, 4, white)
	return dir
}

func TestAssetManagerCaches(t *testing.T) {
	m := NewAssetManager(testAssets(t))
	tex, err := m.Texture("test.png")
	require.NoError(t, err)
	assert.Equal(t, 8, tex.Width())
	assert.Equal(t, 8, tex.Height())
	again, err := m.Texture("test.png")
	require.NoError(t, err)
	assert.Same(t, tex, again)

	font, err := m.Font("font")
	require.NoError(t, err)
	again2, err := m.Font("font")
	require.NoError(t, err)
	assert.Same(t, font, again2)

	palette, err := m.TilePalette("gray-block.png")
	require.NoError(t, err)
	assert.Equal(t, []string{"gray-block"}, palette.Names())

	_, err = m.Texture("missing.png")
	assert.Error(t, err)
	_, err = m.Font("missing")
	assert.Error(t, err)
}

func TestRendererScales(t *testing.T) {
	r := NewRenderer(4, 4)
	assert.Equal(t, black, r.Canvas().RGBAAt(0, 0))
	tex := NewTexture(subImage(red, 1, 1))
	dst := image.Rect(1, 1, 3, 3)
	r.Render(tex, nil, &dst)
	assert.Equal(t, red, r.Canvas().RGBAAt(1, 1))
	assert.Equal(t, red, r.Canvas().RGBAAt(2, 2))
	assert.Equal(t, black, r.Canvas().RGBAAt(0, 0))
	assert.Equal(t, black, r.Canvas().RGBAAt(3, 3))

	r.Clear()
	assert.Equal(t, black, r.Canvas().RGBAAt(2, 2))
	r.Render(tex, nil, nil)
	assert.Equal(t, red, r.Canvas().RGBAAt(3, 3))
}

func subImage(c color.Color, w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestFontRender(t *testing.T) {
	font, err := ParseFont([]byte(testFontXML), NewTexture(subImage(white, 2, 2)))
	require.NoError(t, err)
	g, ok := font.Glyph('A')
	require.True(t, ok)
	assert.Equal(t, 3, g.Advance)
	assert.Equal(t, image.Rect(0, 0, 2, 2), g.Rect)
	_, ok = font.Glyph('Z')
	assert.False(t, ok)

	r := NewRenderer(8, 4)
	font.Render(r, "AZA", 0, 0)
	canvas := r.Canvas()
	assert.Equal(t, white, canvas.RGBAAt(0, 0))
	assert.Equal(t, white, canvas.RGBAAt(1, 1))
	assert.Equal(t, black, canvas.RGBAAt(2, 0))
	assert.Equal(t, white, canvas.RGBAAt(3, 0))
	assert.Equal(t, black, canvas.RGBAAt(5, 0))

	_, err = ParseFont([]byte("<font>"), nil)
	assert.Error(t, err)
}

func TestTileMap(t *testing.T) {
	palette := NewTilePalette(NewTexture(subImage(white, 2, 2)),
		&TileDefinition{Name: "block", Rect: image.Rect(0, 0, 2, 2)})
	_, err := palette.CreateTileInstance("missing")
	assert.EqualError(t, err, "no tile associated with name: missing")
	tile, err := palette.CreateTileInstance("block")
	require.NoError(t, err)
	assert.Equal(t, "block", tile.Name())

	m := NewTileMap(4, 2, 2)
	m.Set(1, 1, tile)
	assert.Equal(t, 1, m.Len())
	assert.Same(t, tile, m.Get(1, 1))
	assert.Nil(t, m.Get(0, 0))

	r := NewRenderer(8, 4)
	m.Render(r, 0, 0)
	assert.Equal(t, white, r.Canvas().RGBAAt(2, 2))
	assert.Equal(t, white, r.Canvas().RGBAAt(3, 3))
	assert.Equal(t, black, r.Canvas().RGBAAt(1, 1))
	assert.Equal(t, black, r.Canvas().RGBAAt(4, 2))
}

func TestGameRun(t *testing.T) {
	dir := testAssets(t)
	snapshot := filepath.Join(t.TempDir(), "frame.png")
	g := New(Config{
		Width:     16,
		Height:    8,
		Assets:    dir,
		Texture:   "test.png",
		Font:      "font",
		Palette:   "gray-block.png",
		MaxFrames: 3,
		Snapshot:  snapshot,
	})
	var win *HeadlessWindow
	g.NewWindow = func() Window {
		win = &HeadlessWindow{MaxFrames: g.Config.MaxFrames, Snapshot: g.Config.Snapshot}
		return win
	}
	require.NoError(t, g.Run(context.Background()))
	require.NotNil(t, win)
	assert.Equal(t, 3, win.Frames())
	last := win.Last()
	require.NotNil(t, last)
	// the background is stretched over the canvas and the bottom row is tiled
	assert.Equal(t, red, last.RGBAAt(0, 0))
	assert.Equal(t, white, last.RGBAAt(0, 7))
	assert.Equal(t, white, last.RGBAAt(15, 4))

	f, err := os.Open(snapshot)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 8), img.Bounds())
}

func TestGameRunMissingAssets(t *testing.T) {
	g := New(Config{Assets: t.TempDir(), Texture: "missing.png", MaxFrames: 1})
	assert.Error(t, g.Run(context.Background()))

	g = New(Config{MaxFrames: 1})
	assert.EqualError(t, g.Run(context.Background()), "no texture configured")
}

func TestShowImageCancel(t *testing.T) {
	dir := testAssets(t)
	g := New(Config{Width: 4, Height: 4, Assets: dir})
	var win *HeadlessWindow
	g.NewWindow = func() Window {
		win = &HeadlessWindow{}
		return win
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, g.ShowImage(ctx, "test.png"))
	assert.Equal(t, 0, win.Frames())

	g.NewWindow = func() Window {
		win = &HeadlessWindow{MaxFrames: 2}
		return win
	}
	require.NoError(t, g.ShowImage(context.Background(), "test.png"))
	assert.Equal(t, 2, win.Frames())
	assert.Equal(t, red, win.Last().RGBAAt(2, 2))

	assert.Error(t, g.ShowImage(context.Background(), "missing.png"))
}

func TestFitRect(t *testing.T) {
	assert.Equal(t, image.Rect(0, 0, 640, 480), fitRect(image.Rect(0, 0, 64, 48), image.Rect(0, 0, 640, 480)))
	assert.Equal(t, image.Rect(80, 0, 560, 480), fitRect(image.Rect(0, 0, 10, 10), image.Rect(0, 0, 640, 480)))
	assert.Equal(t, image.Rect(0, 40, 100, 60), fitRect(image.Rect(0, 0, 10, 2), image.Rect(0, 0, 100, 100)))
	assert.Equal(t, image.Rectangle{}, fitRect(image.Rectangle{}, image.Rect(0, 0, 1, 1)))
}
