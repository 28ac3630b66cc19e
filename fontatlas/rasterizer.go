package fontatlas

import (
	"image"
	"sort"

	"golang.org/x/image/font/sfnt"
)

// GlyphMetrics positions a glyph bitmap relative to the pen on the baseline.
type GlyphMetrics struct {
	Advance  float32 // pixels
	BearingX float32 // left bearing in pixels
	BearingY float32 // distance from baseline to bitmap top
}

// Face is a font rasterized at one pixel size.
type Face interface {
	// Metrics returns ascent, descent (positive, below baseline) and line gap in pixels.
	Metrics() (ascent, descent, lineGap float32)
	// Glyph renders r into a coverage mask. ok is false when the font lacks r.
	// The mask may be empty for blank glyphs such as space.
	Glyph(r rune) (mask *image.Alpha, m GlyphMetrics, ok bool)
	Close() error
}

// Rasterizer creates faces from parsed fonts.
type Rasterizer interface {
	Type() RasterizerType
	NewFace(f *sfnt.Font, sizePx float32, flags RasterizerFlags) (Face, error)
}

var rasterizers = map[RasterizerType]Rasterizer{}

func registerRasterizer(r Rasterizer) {
	rasterizers[r.Type()] = r
}

// LookupRasterizer returns the backend for t if it was compiled in.
func LookupRasterizer(t RasterizerType) (Rasterizer, bool) {
	r, ok := rasterizers[t]
	return r, ok
}

// AvailableRasterizers lists the compiled-in backends.
func AvailableRasterizers() []RasterizerType {
	types := make([]RasterizerType, 0, len(rasterizers))
	for t := range rasterizers {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
