package fontatlas

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

func init() {
	registerRasterizer(openTypeRasterizer{})
}

// openTypeRasterizer renders glyphs through opentype.Face.
type openTypeRasterizer struct{}

func (openTypeRasterizer) Type() RasterizerType { return RasterizerOpenType }

func (openTypeRasterizer) NewFace(f *sfnt.Font, sizePx float32, _ RasterizerFlags) (Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size: float64(sizePx), DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	return &openTypeFace{face: face}, nil
}

type openTypeFace struct {
	face font.Face
}

func (f *openTypeFace) Metrics() (ascent, descent, lineGap float32) {
	m := f.face.Metrics()
	ascent = float32(m.Ascent.Round())
	descent = float32(m.Descent.Round())
	lineGap = float32(m.Height.Round()) - ascent - descent
	if lineGap < 0 {
		lineGap = 0
	}
	return ascent, descent, lineGap
}

func (f *openTypeFace) Glyph(r rune) (*image.Alpha, GlyphMetrics, bool) {
	dr, mask, maskp, adv, ok := f.face.Glyph(fixed.P(0, 0), r)
	if !ok {
		return nil, GlyphMetrics{}, false
	}
	m := GlyphMetrics{
		Advance:  float32(adv) / 64,
		BearingX: float32(dr.Min.X),
		BearingY: float32(-dr.Min.Y),
	}
	// The face reuses its mask buffer, copy it out.
	dst := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
	if !dr.Empty() {
		draw.Draw(dst, dst.Bounds(), mask, maskp, draw.Src)
	}
	return dst, m, true
}

func (f *openTypeFace) Close() error {
	return f.face.Close()
}
