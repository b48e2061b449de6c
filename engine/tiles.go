// Copyright © 2026 The Tilelisp authors

package engine

import (
	"fmt"
	"image"
	"sort"
)

// TileDefinition names a region of a palette texture.
type TileDefinition struct {
	Name string
	Rect image.Rectangle
}

// TilePalette is a set of tile definitions cut from one texture.
type TilePalette struct {
	texture *Texture
	defs    map[string]*TileDefinition
}

// NewTilePalette returns a palette over tex containing defs.
func NewTilePalette(tex *Texture, defs ...*TileDefinition) *TilePalette {
	p := &TilePalette{
		texture: tex,
		defs:    make(map[string]*TileDefinition, len(defs)),
	}
	for _, def := range defs {
		p.defs[def.Name] = def
	}
	return p
}

// Names returns the names of the tiles in p in sorted order.
func (p *TilePalette) Names() []string {
	names := make([]string, 0, len(p.defs))
	for name := range p.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateTileInstance returns a drawable instance of the tile called name.
func (p *TilePalette) CreateTileInstance(name string) (*TileInstance, error) {
	def, ok := p.defs[name]
	if !ok {
		return nil, fmt.Errorf("no tile associated with name: %s", name)
	}
	return &TileInstance{def: def, texture: p.texture}, nil
}

// TileInstance is a tile definition bound to its texture.
type TileInstance struct {
	def     *TileDefinition
	texture *Texture
}

// Name returns the name of the tile's definition.
func (t *TileInstance) Name() string {
	return t.def.Name
}

// Render draws the tile with its top left corner at (x, y).
func (t *TileInstance) Render(r *Renderer, x, y int) {
	src := t.def.Rect
	dst := image.Rect(x, y, x+src.Dx(), y+src.Dy())
	r.Render(t.texture, &src, &dst)
}

// TileMap is a sparse grid of tiles, each TileLength pixels square.
type TileMap struct {
	Width      int
	Height     int
	TileLength int
	tiles      map[int]*TileInstance
}

// NewTileMap returns an empty width by height map.
func NewTileMap(width, height, tileLength int) *TileMap {
	return &TileMap{
		Width:      width,
		Height:     height,
		TileLength: tileLength,
		tiles:      make(map[int]*TileInstance),
	}
}

func (m *TileMap) key(x, y int) int {
	return y*m.Width + x
}

// Set places tile at grid position (x, y).
func (m *TileMap) Set(x, y int, tile *TileInstance) {
	m.tiles[m.key(x, y)] = tile
}

// Get returns the tile at grid position (x, y), or nil.
func (m *TileMap) Get(x, y int) *TileInstance {
	return m.tiles[m.key(x, y)]
}

// Len returns the number of tiles placed in m.
func (m *TileMap) Len() int {
	return len(m.tiles)
}

// Render draws every tile with the map origin at (originX, originY).
func (m *TileMap) Render(r *Renderer, originX, originY int) {
	for key, tile := range m.tiles {
		x, y := key%m.Width, key/m.Width
		tile.Render(r, originX+x*m.TileLength, originY+y*m.TileLength)
	}
}
