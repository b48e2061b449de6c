// Copyright © 2026 The Tilelisp authors

package engine

import (
	"path/filepath"
	"sync"
)

// AssetManager loads assets on first use and caches them by path.  Relative
// paths are resolved against Dir.
type AssetManager struct {
	Dir string

	mut      sync.Mutex
	textures map[string]*Texture
	fonts    map[string]*Font
	palettes map[string]*TilePalette
}

// NewAssetManager returns an AssetManager rooted at dir.
func NewAssetManager(dir string) *AssetManager {
	return &AssetManager{
		Dir:      dir,
		textures: make(map[string]*Texture),
		fonts:    make(map[string]*Font),
		palettes: make(map[string]*TilePalette),
	}
}

func (m *AssetManager) resolve(path string) string {
	if m.Dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.Dir, path)
}

// Texture returns the texture stored in the PNG file at path.
func (m *AssetManager) Texture(path string) (*Texture, error) {
	path = m.resolve(path)
	m.mut.Lock()
	defer m.mut.Unlock()
	return m.texture(path)
}

func (m *AssetManager) texture(path string) (*Texture, error) {
	if tex, ok := m.textures[path]; ok {
		return tex, nil
	}
	log.Debugf("loading texture: %s", path)
	tex, err := LoadTexture(path)
	if err != nil {
		log.Errorf("error loading texture: %v", err)
		return nil, err
	}
	m.textures[path] = tex
	return tex, nil
}

// Font returns the font described by path.xml with glyphs in path.png.
func (m *AssetManager) Font(path string) (*Font, error) {
	path = m.resolve(path)
	m.mut.Lock()
	defer m.mut.Unlock()
	if font, ok := m.fonts[path]; ok {
		return font, nil
	}
	log.Debugf("loading font: %s", path)
	tex, err := m.texture(path + ".png")
	if err != nil {
		return nil, err
	}
	font, err := LoadFont(path+".xml", tex)
	if err != nil {
		log.Errorf("error loading font: %v", err)
		return nil, err
	}
	m.fonts[path] = font
	return font, nil
}

// TilePalette returns a palette holding a single tile which covers the
// texture at path.  The tile is named after the file, without extension.
func (m *AssetManager) TilePalette(path string) (*TilePalette, error) {
	path = m.resolve(path)
	m.mut.Lock()
	defer m.mut.Unlock()
	if palette, ok := m.palettes[path]; ok {
		return palette, nil
	}
	tex, err := m.texture(path)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	name = name[:len(name)-len(filepath.Ext(name))]
	palette := NewTilePalette(tex, &TileDefinition{Name: name, Rect: tex.Bounds()})
	m.palettes[path] = palette
	return palette, nil
}
