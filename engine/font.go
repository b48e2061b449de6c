// Copyright © 2026 The Tilelisp authors

package engine

import (
	"encoding/xml"
	"fmt"
	"image"
	"os"
)

// Glyph locates one character within a font texture.
type Glyph struct {
	OffsetX int
	OffsetY int
	Advance int
	Rect    image.Rectangle
}

// Font renders text using glyphs cut from a single texture.
type Font struct {
	Height  int
	glyphs  map[string]*Glyph
	texture *Texture
}

type fontXML struct {
	XMLName xml.Name `xml:"font"`
	Metrics struct {
		Height int `xml:"height,attr"`
	} `xml:"metrics"`
	Chars []charXML `xml:"chars>char"`
}

type charXML struct {
	ID      string `xml:"id,attr"`
	Advance int    `xml:"advance,attr"`
	OffsetX int    `xml:"offset_x,attr"`
	OffsetY int    `xml:"offset_y,attr"`
	RectX   int    `xml:"rect_x,attr"`
	RectY   int    `xml:"rect_y,attr"`
	RectW   int    `xml:"rect_w,attr"`
	RectH   int    `xml:"rect_h,attr"`
}

// LoadFont reads the glyph table in the XML file at path.  Glyph rectangles
// refer to tex.
func LoadFont(path string, tex *Texture) (*Font, error) {
	b, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		return nil, err
	}
	return ParseFont(b, tex)
}

// ParseFont decodes an XML glyph table.
func ParseFont(b []byte, tex *Texture) (*Font, error) {
	var doc fontXML
	if err := xml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("invalid font: %w", err)
	}
	font := &Font{
		Height:  doc.Metrics.Height,
		glyphs:  make(map[string]*Glyph, len(doc.Chars)),
		texture: tex,
	}
	for _, c := range doc.Chars {
		font.glyphs[c.ID] = &Glyph{
			OffsetX: c.OffsetX,
			OffsetY: c.OffsetY,
			Advance: c.Advance,
			Rect:    image.Rect(c.RectX, c.RectY, c.RectX+c.RectW, c.RectY+c.RectH),
		}
	}
	return font, nil
}

// Glyph returns the glyph for the character c.
func (f *Font) Glyph(c rune) (*Glyph, bool) {
	g, ok := f.glyphs[string(c)]
	return g, ok
}

// Render draws text with its vertical center at y.  Characters without a
// glyph are skipped.
func (f *Font) Render(r *Renderer, text string, x, y int) {
	y += f.Height / 2
	for _, c := range text {
		g, ok := f.Glyph(c)
		if !ok {
			continue
		}
		dst := image.Rect(0, 0, g.Rect.Dx(), g.Rect.Dy()).Add(image.Pt(x+g.OffsetX, y-g.OffsetY))
		src := g.Rect
		r.Render(f.texture, &src, &dst)
		x += g.Advance
	}
}
