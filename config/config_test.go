package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/imbridge"
	"github.com/go-theft-auto/imbridge/fontatlas"
	"github.com/go-theft-auto/imbridge/platform"
	"github.com/go-theft-auto/imbridge/renderer"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, renderer.TypeMesh, c.Renderer)
	assert.Equal(t, platform.TypeGLFW, c.Platform)
	assert.Equal(t, "fonts", c.FontDir)
	assert.Equal(t, "imgui.ini", c.IniPath)
	assert.Equal(t, float32(5), c.IO.IniSavingRate)
	assert.Nil(t, c.FontAtlas)
}

func TestParseOverridesDefaults(t *testing.T) {
	c, err := Parse(`
renderer = "procedural"
platform = "manual"

[io]
mouse_draw_cursor = true
no_mouse_cursor_change = true

[font_atlas]
rasterizer = "sfnt"
rasterizer_flags = 2

[[font_atlas.fonts]]
path = "DejaVuSans.ttf"
[font_atlas.fonts.config]
size_in_pixels = 16
scripts = 2
pixel_snap_h = true
ranges = [{ from = 0x2022, to = 0x2022 }]
`)
	require.NoError(t, err)
	assert.Equal(t, renderer.TypeProcedural, c.Renderer)
	assert.Equal(t, platform.TypeManual, c.Platform)
	assert.Equal(t, "fonts", c.FontDir, "unset keys keep defaults")
	assert.True(t, c.IO.MouseDrawCursor)
	assert.True(t, c.IO.NoMouseCursorChange)

	require.NotNil(t, c.FontAtlas)
	assert.Equal(t, fontatlas.RasterizerSfnt, c.FontAtlas.Rasterizer)
	assert.Equal(t, fontatlas.RasterizerFlagOblique, c.FontAtlas.RasterizerFlags)
	require.Len(t, c.FontAtlas.Fonts, 1)
	def := c.FontAtlas.Fonts[0]
	assert.Equal(t, "DejaVuSans.ttf", def.Path)
	assert.Equal(t, float32(16), def.Config.SizeInPixels)
	assert.Equal(t, fontatlas.ScriptGreek, def.Config.Scripts)
	assert.True(t, def.Config.PixelSnapH)
	assert.Equal(t, []fontatlas.GlyphRange{{From: 0x2022, To: 0x2022}}, def.Config.Ranges)
}

func TestParseErrors(t *testing.T) {
	for name, data := range map[string]string{
		"syntax":     `renderer = `,
		"renderer":   `renderer = "vulkan"`,
		"platform":   `platform = "sdl"`,
		"rasterizer": "[font_atlas]\nrasterizer = \"freetype2\"",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(data)
			assert.Error(t, err)
		})
	}
}

func TestParseIgnoresUnknownKeys(t *testing.T) {
	c, err := Parse("colour = \"red\"\n")
	require.NoError(t, err)
	assert.Equal(t, renderer.TypeMesh, c.Renderer)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imbridge.toml")
	require.NoError(t, os.WriteFile(path, []byte("ini_path = \"\"\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, c.IniPath)
	assert.IsType(t, &platform.MemoryIniStore{}, c.IniStore())

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestIniStore(t *testing.T) {
	c := Default()
	assert.Equal(t, platform.FileIniStore{Path: "imgui.ini"}, c.IniStore())
}

func TestIOConfigApplyTo(t *testing.T) {
	io := &imbridge.IO{IniSavingRate: 5, ConfigFlags: imbridge.ConfigNoMouseCursorChange}

	IOConfig{NavEnableKeyboard: true, MouseDrawCursor: true, IniSavingRate: 1}.ApplyTo(io)
	assert.Equal(t, imbridge.ConfigNavEnableKeyboard, io.ConfigFlags)
	assert.True(t, io.MouseDrawCursor)
	assert.Equal(t, float32(1), io.IniSavingRate)

	IOConfig{}.ApplyTo(io)
	assert.Zero(t, io.ConfigFlags)
	assert.False(t, io.MouseDrawCursor)
	assert.Equal(t, float32(1), io.IniSavingRate, "zero rate keeps the current one")
}
