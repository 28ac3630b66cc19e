package fontatlas

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sort"
)

const (
	atlasPadding   = 1
	atlasStartSize = 512
	atlasMaxSize   = 4096
)

// ErrAtlasTooLarge is returned when the glyphs do not fit the largest atlas.
var ErrAtlasTooLarge = errors.New("font atlas too large")

// arrowCursor is the software mouse cursor: 'X' border, '.' fill.
var arrowCursor = []string{
	"X           ",
	"XX          ",
	"X.X         ",
	"X..X        ",
	"X...X       ",
	"X....X      ",
	"X.....X     ",
	"X......X    ",
	"X.......X   ",
	"X........X  ",
	"X.........X ",
	"X..........X",
	"X......XXXXX",
	"X...X..X    ",
	"X..XX..X    ",
	"X.X  X..X   ",
	"XX   X..X   ",
	"      X..X  ",
	"       XX   ",
}

// CursorRect locates the software cursor in the atlas.
type CursorRect struct {
	Size     [2]float32
	UV0, UV1 [2]float32
}

type packItem struct {
	w, h int
	x, y int
}

type pendingGlyph struct {
	font *Font
	cfg  *FontConfig
	r    rune
	mask *image.Alpha
	m    GlyphMetrics
	item int
}

// Build rasterizes every added font with r and packs the result. Without
// fonts the built-in default font is added first.
func (a *Atlas) Build(r Rasterizer, flags RasterizerFlags) error {
	if len(a.sources) == 0 {
		if _, err := a.AddFontDefault(); err != nil {
			return err
		}
	}
	for _, f := range a.fonts {
		f.glyphs = nil
	}

	// Item 0 is the white block, item 1 the cursor when packed.
	items := []packItem{{w: 2, h: 2}}
	cursorItem := -1
	if a.Flags&AtlasFlagNoMouseCursors == 0 {
		cursorItem = len(items)
		items = append(items, packItem{w: len(arrowCursor[0]), h: len(arrowCursor)})
	}

	var pending []pendingGlyph
	for i := range a.sources {
		src := &a.sources[i]
		face, err := r.NewFace(src.parsed, src.cfg.SizeInPixels, flags)
		if err != nil {
			return fmt.Errorf("font %q: %w", src.cfg.Name, err)
		}
		f := src.font
		if f.glyphs == nil {
			f.glyphs = make(map[rune]Glyph)
			f.Ascent, f.Descent, f.LineGap = face.Metrics()
		}

		ranges := src.ranges
		if len(ranges) == 0 {
			ranges = defaultRanges
		}
		for k := 0; k+1 < len(ranges) && ranges[k] != 0; k += 2 {
			for c := rune(ranges[k]); c <= rune(ranges[k+1]); c++ {
				if _, dup := f.glyphs[c]; dup {
					continue
				}
				mask, m, ok := face.Glyph(c)
				if !ok {
					continue
				}
				f.glyphs[c] = Glyph{Rune: c}
				g := pendingGlyph{font: f, cfg: &src.cfg, r: c, mask: mask, m: m, item: -1}
				if b := mask.Bounds(); !b.Empty() {
					g.item = len(items)
					items = append(items, packItem{w: b.Dx(), h: b.Dy()})
				}
				pending = append(pending, g)
			}
		}
		if err := face.Close(); err != nil {
			return fmt.Errorf("font %q: close face: %w", src.cfg.Name, err)
		}
	}

	width, height, err := packItems(items)
	if err != nil {
		return err
	}

	pix := make([]byte, width*height*4)
	white := items[0]
	for y := 0; y < white.h; y++ {
		for x := 0; x < white.w; x++ {
			i := ((white.y+y)*width + white.x + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = 255, 255, 255, 255
		}
	}
	a.whiteUV = [2]float32{(float32(white.x) + 0.5) / float32(width), (float32(white.y) + 0.5) / float32(height)}

	a.cursor = CursorRect{}
	if cursorItem >= 0 {
		it := items[cursorItem]
		for y, row := range arrowCursor {
			for x, ch := range row {
				i := ((it.y+y)*width + it.x + x) * 4
				switch ch {
				case 'X':
					pix[i], pix[i+1], pix[i+2], pix[i+3] = 0, 0, 0, 255
				case '.':
					pix[i], pix[i+1], pix[i+2], pix[i+3] = 255, 255, 255, 255
				}
			}
		}
		a.cursor = CursorRect{
			Size: [2]float32{float32(it.w), float32(it.h)},
			UV0:  [2]float32{float32(it.x) / float32(width), float32(it.y) / float32(height)},
			UV1:  [2]float32{float32(it.x+it.w) / float32(width), float32(it.y+it.h) / float32(height)},
		}
	}

	for _, g := range pending {
		glyph := Glyph{Rune: g.r, Advance: g.m.Advance + g.cfg.GlyphExtraSpacing[0]}
		if g.cfg.PixelSnapH {
			glyph.Advance = float32(math.Round(float64(glyph.Advance)))
		}
		if g.item >= 0 {
			it := items[g.item]
			for y := 0; y < it.h; y++ {
				row := g.mask.Pix[y*g.mask.Stride : y*g.mask.Stride+it.w]
				for x, alpha := range row {
					i := ((it.y+y)*width + it.x + x) * 4
					pix[i], pix[i+1], pix[i+2], pix[i+3] = 255, 255, 255, alpha
				}
			}
			glyph.X0 = g.m.BearingX + g.cfg.GlyphOffset[0]
			glyph.Y0 = g.font.Ascent - g.m.BearingY + g.cfg.GlyphOffset[1]
			glyph.X1 = glyph.X0 + float32(it.w)
			glyph.Y1 = glyph.Y0 + float32(it.h)
			glyph.U0 = float32(it.x) / float32(width)
			glyph.V0 = float32(it.y) / float32(height)
			glyph.U1 = float32(it.x+it.w) / float32(width)
			glyph.V1 = float32(it.y+it.h) / float32(height)
		}
		g.font.glyphs[g.r] = glyph
	}

	a.pixels = pix
	a.width, a.height = width, height
	a.built = true
	return nil
}

// MouseCursor returns the software cursor location. Zero when the atlas was
// built with AtlasFlagNoMouseCursors.
func (a *Atlas) MouseCursor() CursorRect {
	return a.cursor
}

// packItems places items on shelves, tallest first, growing a square atlas
// from atlasStartSize up to atlasMaxSize. The final height is trimmed to the
// next power of two that holds every shelf.
func packItems(items []packItem) (width, height int, err error) {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return items[order[i]].h > items[order[j]].h })

	for size := atlasStartSize; size <= atlasMaxSize; size *= 2 {
		x, y, rowH := atlasPadding, atlasPadding, 0
		fits := true
		for _, idx := range order {
			it := &items[idx]
			if it.w+2*atlasPadding > size {
				fits = false
				break
			}
			if x+it.w+atlasPadding > size {
				x = atlasPadding
				y += rowH + atlasPadding
				rowH = 0
			}
			if y+it.h+atlasPadding > size {
				fits = false
				break
			}
			it.x, it.y = x, y
			x += it.w + atlasPadding
			if it.h > rowH {
				rowH = it.h
			}
		}
		if fits {
			used := y + rowH + atlasPadding
			height = 1
			for height < used {
				height *= 2
			}
			return size, height, nil
		}
	}
	return 0, 0, fmt.Errorf("%w (>%d)", ErrAtlasTooLarge, atlasMaxSize)
}
