//go:build atlas_sfnt

package fontatlas

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

func init() {
	registerRasterizer(sfntRasterizer{})
}

// obliqueShear is the horizontal shift per pixel of height for synthetic italics.
const obliqueShear = 0.2

// sfntRasterizer fills sfnt glyph outlines with vector.Rasterizer.
type sfntRasterizer struct{}

func (sfntRasterizer) Type() RasterizerType { return RasterizerSfnt }

func (sfntRasterizer) NewFace(f *sfnt.Font, sizePx float32, flags RasterizerFlags) (Face, error) {
	return &sfntFace{font: f, ppem: fixed.Int26_6(sizePx * 64), flags: flags}, nil
}

type sfntFace struct {
	font  *sfnt.Font
	buf   sfnt.Buffer
	ppem  fixed.Int26_6
	flags RasterizerFlags
}

func (f *sfntFace) Metrics() (ascent, descent, lineGap float32) {
	m, err := f.font.Metrics(&f.buf, f.ppem, font.HintingNone)
	if err != nil {
		return 0, 0, 0
	}
	ascent = float32(m.Ascent.Ceil())
	descent = float32(m.Descent.Ceil())
	lineGap = float32(m.Height.Ceil()) - ascent - descent
	if lineGap < 0 {
		lineGap = 0
	}
	return ascent, descent, lineGap
}

func (f *sfntFace) Glyph(r rune) (*image.Alpha, GlyphMetrics, bool) {
	idx, err := f.font.GlyphIndex(&f.buf, r)
	if err != nil || idx == 0 {
		return nil, GlyphMetrics{}, false
	}
	bounds, adv, err := f.font.GlyphBounds(&f.buf, idx, f.ppem, font.HintingNone)
	if err != nil {
		return nil, GlyphMetrics{}, false
	}
	segs, err := f.font.LoadGlyph(&f.buf, idx, f.ppem, nil)
	if err != nil {
		return nil, GlyphMetrics{}, false
	}

	x0, y0 := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	x1, y1 := bounds.Max.X.Ceil(), bounds.Max.Y.Ceil()
	shear := float32(0)
	if f.flags&RasterizerFlagOblique != 0 {
		shear = obliqueShear
		if y0 < 0 {
			x1 += int(math.Ceil(float64(float32(-y0) * shear)))
		}
		if y1 > 0 {
			x0 -= int(math.Ceil(float64(float32(y1) * shear)))
		}
	}
	w, h := x1-x0, y1-y0
	m := GlyphMetrics{
		Advance:  float32(adv) / 64,
		BearingX: float32(x0),
		BearingY: float32(-y0),
	}
	if w <= 0 || h <= 0 {
		return image.NewAlpha(image.Rect(0, 0, 0, 0)), m, true
	}

	// Outline points are relative to the baseline origin, y down.
	pt := func(p fixed.Point26_6) (float32, float32) {
		x := float32(p.X)/64 - float32(x0)
		y := float32(p.Y)/64 - float32(y0)
		return x - float32(p.Y)/64*shear, y
	}

	ras := vector.NewRasterizer(w, h)
	ras.DrawOp = draw.Src
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			ras.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			ras.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			ras.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			dx, dy := pt(seg.Args[2])
			ras.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	ras.ClosePath()

	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	ras.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})

	if f.flags&RasterizerFlagMonochrome != 0 {
		for i, a := range dst.Pix {
			if a >= 128 {
				dst.Pix[i] = 255
			} else {
				dst.Pix[i] = 0
			}
		}
	}
	return dst, m, true
}

func (f *sfntFace) Close() error { return nil }
