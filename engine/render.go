// Copyright © 2026 The Tilelisp authors

package engine

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
)

// Texture is a decoded image that can be copied onto a Renderer.
type Texture struct {
	img image.Image
}

// NewTexture returns a Texture backed by img.
func NewTexture(img image.Image) *Texture {
	return &Texture{img: img}
}

// Width returns the width of t in pixels.
func (t *Texture) Width() int {
	return t.img.Bounds().Dx()
}

// Height returns the height of t in pixels.
func (t *Texture) Height() int {
	return t.img.Bounds().Dy()
}

// Bounds returns the rectangle covering all of t, with origin (0, 0).
func (t *Texture) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.Width(), t.Height())
}

// LoadTexture decodes the PNG file at path.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path) //#nosec G304
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewTexture(img), nil
}

// Renderer draws textures onto an in-memory canvas.
type Renderer struct {
	canvas     *image.RGBA
	background color.Color
}

// NewRenderer returns a Renderer with a width by height canvas cleared to
// black.
func NewRenderer(width, height int) *Renderer {
	r := &Renderer{
		canvas:     image.NewRGBA(image.Rect(0, 0, width, height)),
		background: color.Black,
	}
	r.Clear()
	return r
}

// Canvas returns the image r draws on.
func (r *Renderer) Canvas() *image.RGBA {
	return r.canvas
}

// Clear fills the canvas with the background color.
func (r *Renderer) Clear() {
	draw.Draw(r.canvas, r.canvas.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)
}

// Render copies the src region of tex to the dst region of the canvas,
// scaling with nearest neighbor sampling when the sizes differ.  A nil src
// copies the whole texture.  A nil dst covers the whole canvas.
func (r *Renderer) Render(tex *Texture, src, dst *image.Rectangle) {
	s := tex.Bounds()
	if src != nil {
		s = src.Intersect(s)
	}
	d := r.canvas.Bounds()
	if dst != nil {
		d = *dst
	}
	if s.Empty() || d.Empty() {
		return
	}
	off := tex.img.Bounds().Min
	if s.Dx() == d.Dx() && s.Dy() == d.Dy() {
		draw.Draw(r.canvas, d, tex.img, s.Min.Add(off), draw.Over)
		return
	}
	clip := d.Intersect(r.canvas.Bounds())
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		sy := s.Min.Y + (y-d.Min.Y)*s.Dy()/d.Dy()
		for x := clip.Min.X; x < clip.Max.X; x++ {
			sx := s.Min.X + (x-d.Min.X)*s.Dx()/d.Dx()
			c := tex.img.At(sx+off.X, sy+off.Y)
			if _, _, _, a := c.RGBA(); a == 0 {
				continue
			}
			r.canvas.Set(x, y, c)
		}
	}
}
