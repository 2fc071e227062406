package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Zyko0/go-sdl3/img"
	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"
	"go.uber.org/zap"
)

// GetDefaultFontPath looks in dirs, then ./fonts, then well-known system
// fonts.
func GetDefaultFontPath(dirs ...string) string {
	for _, dir := range append(dirs, "fonts") {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if ext == ".ttf" || ext == ".ttc" {
				return filepath.Join(dir, entry.Name())
			}
		}
	}

	var paths []string
	switch runtime.GOOS {
	case "windows":
		paths = []string{"C:\\Windows\\Fonts\\arial.ttf"}
	case "darwin":
		paths = []string{"/System/Library/Fonts/Helvetica.ttc"}
	default:
		paths = []string{
			"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Fonts opens one face per point size on first use.
type Fonts struct {
	path  string
	faces map[int]*ttf.Font
	log   *zap.Logger
}

func NewFonts(path string, log *zap.Logger) *Fonts {
	return &Fonts{path: path, faces: make(map[int]*ttf.Font), log: log}
}

// Get returns nil when no font could be opened; callers skip the text.
func (f *Fonts) Get(size int) *ttf.Font {
	if font, ok := f.faces[size]; ok {
		return font
	}
	var font *ttf.Font
	if f.path != "" {
		var err error
		font, err = ttf.OpenFont(f.path, float32(size))
		if err != nil {
			f.log.Warn("failed to open font", zap.String("path", f.path), zap.Int("size", size), zap.Error(err))
			font = nil
		}
	}
	f.faces[size] = font
	return font
}

func (f *Fonts) Close() {
	for _, font := range f.faces {
		if font != nil {
			font.Close()
		}
	}
}

type CacheEntry struct {
	Texture *sdl.Texture
	W, H    float32
}

// ResourceCache keeps media textures and rendered text for the whole
// session. Failed loads are cached as empty entries so they are reported
// once.
type ResourceCache struct {
	entries map[string]*CacheEntry
	log     *zap.Logger
}

func NewResourceCache(log *zap.Logger) *ResourceCache {
	return &ResourceCache{
		entries: make(map[string]*CacheEntry),
		log:     log,
	}
}

// Image loads path as a texture. The entry has a nil Texture when the file
// is missing or unreadable.
func (c *ResourceCache) Image(renderer *sdl.Renderer, path string) *CacheEntry {
	key := "img:" + path
	if entry, ok := c.entries[key]; ok {
		return entry
	}

	entry := &CacheEntry{}
	tex, err := img.LoadTexture(renderer, path)
	if err != nil {
		c.log.Warn("failed to load image", zap.String("path", path), zap.Error(err))
	} else {
		entry.Texture = tex
		w, h, _ := tex.Size()
		entry.W, entry.H = w, h
	}
	c.entries[key] = entry
	return entry
}

func (c *ResourceCache) Text(renderer *sdl.Renderer, font *ttf.Font, size int, s string, color sdl.Color) *CacheEntry {
	key := fmt.Sprintf("txt:%d:%d,%d,%d,%d:%s", size, color.R, color.G, color.B, color.A, s)
	if entry, ok := c.entries[key]; ok {
		return entry
	}

	entry := &CacheEntry{}
	if font != nil && s != "" {
		surf, err := font.RenderTextBlended(s, color)
		if err == nil && surf != nil {
			tex, err := renderer.CreateTextureFromSurface(surf)
			if err == nil {
				entry.Texture = tex
				entry.W = float32(surf.W)
				entry.H = float32(surf.H)
			}
			surf.Destroy()
		}
	}
	c.entries[key] = entry
	return entry
}

func (c *ResourceCache) Destroy() {
	for _, entry := range c.entries {
		if entry.Texture != nil {
			entry.Texture.Destroy()
		}
	}
	c.entries = make(map[string]*CacheEntry)
}
