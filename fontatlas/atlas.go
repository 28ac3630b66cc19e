// Package fontatlas builds the packed glyph atlas a GUI context draws text
// with and uploads it to a GPU texture.
package fontatlas

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/go-theft-auto/imbridge/texture"
)

// DefaultFontSize is the pixel size of the built-in font.
const DefaultFontSize = 13

// ErrNotBuilt is returned when atlas pixels are requested before Build.
var ErrNotBuilt = errors.New("font atlas not built")

// AtlasFlags change how the atlas is packed.
type AtlasFlags uint32

const (
	// AtlasFlagNoMouseCursors skips packing software mouse cursor shapes.
	AtlasFlagNoMouseCursors AtlasFlags = 1 << iota
)

// Glyph is one packed glyph. X0..Y1 is the quad relative to the pen at the
// top of the line; U0..V1 are atlas UVs with the origin at the top.
type Glyph struct {
	Rune           rune
	Advance        float32
	X0, Y0, X1, Y1 float32
	U0, V0, U1, V1 float32
}

// Font is a font packed into an Atlas. Glyphs are available after Build.
type Font struct {
	Name                     string
	Size                     float32
	Ascent, Descent, LineGap float32

	glyphs   map[rune]Glyph
	fallback rune
}

// FindGlyph returns the glyph for r, falling back to '?'.
func (f *Font) FindGlyph(r rune) (Glyph, bool) {
	if g, ok := f.glyphs[r]; ok {
		return g, true
	}
	g, ok := f.glyphs[f.fallback]
	return g, ok
}

// GlyphCount returns the number of packed glyphs.
func (f *Font) GlyphCount() int {
	return len(f.glyphs)
}

// LineHeight returns the distance between baselines.
func (f *Font) LineHeight() float32 {
	return f.Ascent + f.Descent + f.LineGap
}

// CalcTextWidth returns the advance width of s.
func (f *Font) CalcTextWidth(s string) float32 {
	var w float32
	for _, r := range s {
		if g, ok := f.FindGlyph(r); ok {
			w += g.Advance
		}
	}
	return w
}

type fontSource struct {
	font   *Font
	parsed *sfnt.Font
	cfg    FontConfig
	ranges []uint16 // zero-terminated pairs
}

// Atlas holds the fonts of one GUI context and, once built, their packed
// RGBA pixels. Row 0 of the pixels is the top of the image.
type Atlas struct {
	Flags AtlasFlags

	// DefaultFont is the font new frames start with. nil means Fonts()[0].
	DefaultFont *Font

	sources []fontSource
	fonts   []*Font
	pixels  []byte
	width   int
	height  int
	whiteUV [2]float32
	cursor  CursorRect
	texID   texture.ID
	built   bool
}

// NewAtlas creates an empty atlas.
func NewAtlas() *Atlas {
	return &Atlas{}
}

var parseDefaultFont = sync.OnceValues(func() (*sfnt.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// AddFontDefault adds the built-in Go Regular font at DefaultFontSize.
func (a *Atlas) AddFontDefault() (*Font, error) {
	parsed, err := parseDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("parse built-in font: %w", err)
	}
	cfg := FontConfig{Name: fmt.Sprintf("Go Regular, %dpx", DefaultFontSize), SizeInPixels: DefaultFontSize}
	return a.addSource(parsed, cfg, nil), nil
}

// AddFontFromFile reads a TrueType/OpenType file and adds it at the given size.
// ranges are zero-terminated codepoint pairs and must stay valid until Build;
// nil selects the default ranges.
func (a *Atlas) AddFontFromFile(path string, cfg FontConfig, ranges []uint16) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	if cfg.Name == "" {
		cfg.Name = fmt.Sprintf("%s, %gpx", filepath.Base(path), cfg.SizeInPixels)
	}
	return a.AddFontFromMemory(data, cfg, ranges)
}

// AddFontFromMemory parses font data and adds it.
func (a *Atlas) AddFontFromMemory(data []byte, cfg FontConfig, ranges []uint16) (*Font, error) {
	if cfg.SizeInPixels <= 0 {
		return nil, fmt.Errorf("font %q: invalid size %g", cfg.Name, cfg.SizeInPixels)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return a.addSource(parsed, cfg, ranges), nil
}

func (a *Atlas) addSource(parsed *sfnt.Font, cfg FontConfig, ranges []uint16) *Font {
	var f *Font
	if cfg.MergeMode && len(a.fonts) > 0 {
		f = a.fonts[len(a.fonts)-1]
	} else {
		f = &Font{Name: cfg.Name, Size: cfg.SizeInPixels, fallback: '?'}
		a.fonts = append(a.fonts, f)
	}
	a.sources = append(a.sources, fontSource{font: f, parsed: parsed, cfg: cfg, ranges: ranges})
	a.built = false
	return f
}

// Fonts returns the fonts added so far.
func (a *Atlas) Fonts() []*Font {
	return a.fonts
}

// Font returns the default font, or the first font.
func (a *Atlas) Font() *Font {
	if a.DefaultFont != nil {
		return a.DefaultFont
	}
	if len(a.fonts) > 0 {
		return a.fonts[0]
	}
	return nil
}

// IsBuilt reports whether Build has produced pixels for the current fonts.
func (a *Atlas) IsBuilt() bool {
	return a.built
}

// Clear drops fonts and pixels. The previous DefaultFont is no longer valid.
func (a *Atlas) Clear() {
	a.sources = nil
	a.fonts = nil
	a.pixels = nil
	a.width, a.height = 0, 0
	a.whiteUV = [2]float32{}
	a.cursor = CursorRect{}
	a.texID = 0
	a.built = false
	a.DefaultFont = nil
}

// TexDataAsRGBA32 returns the packed pixels, top row first.
func (a *Atlas) TexDataAsRGBA32() (pixels []byte, width, height, bytesPerPixel int) {
	return a.pixels, a.width, a.height, 4
}

// SetTexID stores the texture handle the atlas is bound to this frame.
func (a *Atlas) SetTexID(id texture.ID) {
	a.texID = id
}

// TexID returns the texture handle set by SetTexID.
func (a *Atlas) TexID() texture.ID {
	return a.texID
}

// WhitePixelUV returns a UV that samples an opaque white texel.
func (a *Atlas) WhitePixelUV() [2]float32 {
	return a.whiteUV
}
