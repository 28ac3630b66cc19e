package fontatlas

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func testBuilder(t *testing.T, dir string) (*Builder, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewBuilder(dir, WithLogger(l)), &buf
}

func writeFont(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), goregular.TTF, 0o644))
}

func TestBuildNilConfigUsesDefaultFont(t *testing.T) {
	b, _ := testBuilder(t, t.TempDir())
	atlas := NewAtlas()

	require.NoError(t, b.Build(atlas, nil, false))

	require.Len(t, atlas.Fonts(), 1)
	assert.True(t, atlas.IsBuilt())
	f := atlas.Font()
	assert.Equal(t, float32(DefaultFontSize), f.Size)
	assert.Positive(t, f.GlyphCount())
	g, ok := f.FindGlyph('A')
	require.True(t, ok)
	assert.Positive(t, g.Advance)
	assert.Greater(t, g.X1, g.X0)
	assert.Greater(t, g.V1, g.V0)

	_, w, h, bpp := atlas.TexDataAsRGBA32()
	assert.Equal(t, 512, w)
	assert.Equal(t, 4, bpp)
	assert.Positive(t, h)
	assert.Zero(t, h&(h-1), "height is a power of two")
}

func TestBuildZeroFontsFallsBackToDefault(t *testing.T) {
	b, logs := testBuilder(t, t.TempDir())
	atlas := NewAtlas()
	cfg := &Config{Fonts: []FontDefinition{{Path: "missing.ttf", Config: FontConfig{SizeInPixels: 16}}}}

	require.NoError(t, b.Build(atlas, cfg, false))

	require.Len(t, atlas.Fonts(), 1)
	assert.Contains(t, atlas.Font().Name, "Go Regular")
	assert.Contains(t, logs.String(), "font file not found")
	assert.Zero(t, b.AllocatedRanges())

	cfg.Fonts = nil
	require.NoError(t, b.Build(atlas, cfg, false))
	assert.Len(t, atlas.Fonts(), 1)
}

func TestBuildUnavailableRasterizerFallsBack(t *testing.T) {
	if _, ok := LookupRasterizer(RasterizerSfnt); ok {
		t.Skip("sfnt rasterizer compiled in")
	}
	b, logs := testBuilder(t, t.TempDir())
	atlas := NewAtlas()

	require.NoError(t, b.Build(atlas, &Config{Rasterizer: RasterizerSfnt}, false))

	assert.True(t, atlas.IsBuilt())
	assert.Contains(t, logs.String(), "rasterizer not available")
	assert.Contains(t, logs.String(), "requested=sfnt")
}

func TestBuildFromFileWithRanges(t *testing.T) {
	dir := t.TempDir()
	writeFont(t, dir, "go.ttf")
	b, _ := testBuilder(t, dir)
	atlas := NewAtlas()
	cfg := &Config{Fonts: []FontDefinition{
		{Path: "go.ttf", Config: FontConfig{SizeInPixels: 18, Scripts: ScriptGreek}},
		{Path: "go.ttf", Config: FontConfig{SizeInPixels: 18, MergeMode: true, Ranges: []GlyphRange{{From: 0x2022, To: 0x2022}}}},
		{Path: "go.ttf", Config: FontConfig{SizeInPixels: 24}},
	}}

	require.NoError(t, b.Build(atlas, cfg, true))

	require.Len(t, atlas.Fonts(), 2)
	assert.Equal(t, 2, b.AllocatedRanges())
	first := atlas.Fonts()[0]
	assert.Equal(t, float32(18), first.Size)
	g, ok := first.FindGlyph('λ')
	require.True(t, ok)
	assert.Equal(t, 'λ', g.Rune)
	g, ok = first.FindGlyph('•')
	require.True(t, ok)
	assert.Equal(t, '•', g.Rune)

	b.Destroy(atlas)
	assert.Zero(t, b.AllocatedRanges())
	assert.Empty(t, atlas.Fonts())
	assert.False(t, atlas.IsBuilt())
	assert.Nil(t, atlas.Font())
}

func TestBuildIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFont(t, dir, "go.ttf")
	b, _ := testBuilder(t, dir)
	atlas := NewAtlas()
	cfg := &Config{Fonts: []FontDefinition{{Path: "go.ttf", Config: FontConfig{SizeInPixels: 14}}}}

	require.NoError(t, b.Build(atlas, cfg, false))
	atlas.DefaultFont = atlas.Fonts()[0]
	require.NoError(t, b.Build(atlas, cfg, false))

	assert.Len(t, atlas.Fonts(), 1)
	assert.Nil(t, atlas.DefaultFont)
}

func TestBuildMouseCursor(t *testing.T) {
	b, _ := testBuilder(t, t.TempDir())
	atlas := NewAtlas()

	require.NoError(t, b.Build(atlas, nil, true))
	c := atlas.MouseCursor()
	assert.Equal(t, [2]float32{12, 19}, c.Size)
	assert.Zero(t, atlas.Flags&AtlasFlagNoMouseCursors)

	require.NoError(t, b.Build(atlas, nil, false))
	assert.Equal(t, CursorRect{}, atlas.MouseCursor())
	assert.NotZero(t, atlas.Flags&AtlasFlagNoMouseCursors)
}

func TestWhitePixel(t *testing.T) {
	atlas := NewAtlas()
	require.NoError(t, NewBuilder("").Build(atlas, nil, false))

	pixels, w, h, _ := atlas.TexDataAsRGBA32()
	uv := atlas.WhitePixelUV()
	x, y := int(uv[0]*float32(w)), int(uv[1]*float32(h))
	i := (y*w + x) * 4
	assert.Equal(t, []byte{255, 255, 255, 255}, pixels[i:i+4])
}

func TestPackTooLarge(t *testing.T) {
	_, _, err := packItems([]packItem{{w: atlasMaxSize + 1, h: 4}})
	assert.ErrorIs(t, err, ErrAtlasTooLarge)
}

func TestPackGrows(t *testing.T) {
	items := make([]packItem, 300)
	for i := range items {
		items[i] = packItem{w: 40, h: 40}
	}
	w, h, err := packItems(items)
	require.NoError(t, err)
	assert.Equal(t, 1024, w)
	assert.Equal(t, 1024, h)
	for i := range items {
		assert.LessOrEqual(t, items[i].x+items[i].w, w)
		assert.LessOrEqual(t, items[i].y+items[i].h, h)
	}
}
