package fontatlas

import (
	"fmt"
	"strings"
)

// RasterizerType selects the backend that turns glyph outlines into pixels.
type RasterizerType int

const (
	// RasterizerOpenType uses golang.org/x/image/font/opentype. Always available.
	RasterizerOpenType RasterizerType = iota
	// RasterizerSfnt rasterizes sfnt outlines directly with golang.org/x/image/vector.
	// Only available when built with the atlas_sfnt tag.
	RasterizerSfnt
)

var rasterizerNames = map[RasterizerType]string{
	RasterizerOpenType: "opentype",
	RasterizerSfnt:     "sfnt",
}

func (t RasterizerType) String() string {
	if name, ok := rasterizerNames[t]; ok {
		return name
	}
	return fmt.Sprintf("RasterizerType(%d)", int(t))
}

func (t RasterizerType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *RasterizerType) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for k, v := range rasterizerNames {
		if v == name {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown rasterizer %q", name)
}

// RasterizerFlags tune the enhanced rasterizer. The default backend ignores them.
type RasterizerFlags uint32

const (
	RasterizerFlagMonochrome RasterizerFlags = 1 << iota // threshold coverage to 0 or 255
	RasterizerFlagOblique                                // synthetic italic
)

// ScriptRanges selects preset glyph ranges.
type ScriptRanges uint32

const (
	ScriptDefault ScriptRanges = 1 << iota // Basic Latin + Latin-1 Supplement
	ScriptGreek
	ScriptCyrillic
	ScriptThai
	ScriptVietnamese
)

var scriptRanges = []struct {
	script ScriptRanges
	ranges []uint16
}{
	{ScriptDefault, []uint16{0x0020, 0x00FF}},
	{ScriptGreek, []uint16{0x0370, 0x03FF}},
	{ScriptCyrillic, []uint16{0x0400, 0x052F, 0x2DE0, 0x2DFF, 0xA640, 0xA69F}},
	{ScriptThai, []uint16{0x2010, 0x205E, 0x0E00, 0x0E7F}},
	{ScriptVietnamese, []uint16{
		0x0102, 0x0103, 0x0110, 0x0111, 0x0128, 0x0129, 0x0168, 0x0169,
		0x01A0, 0x01A1, 0x01AF, 0x01B0, 0x1EA0, 0x1EF9,
	}},
}

// defaultRanges is used by fonts that request no ranges.
var defaultRanges = []uint16{0x0020, 0x00FF, 0}

// GlyphRange is an inclusive codepoint range.
type GlyphRange struct {
	From uint16 `toml:"from"`
	To   uint16 `toml:"to"`
}

// FontConfig configures one font added to the atlas.
type FontConfig struct {
	Name              string       `toml:"name"`
	SizeInPixels      float32      `toml:"size_in_pixels"`
	Scripts           ScriptRanges `toml:"scripts"`
	Ranges            []GlyphRange `toml:"ranges"`
	GlyphOffset       [2]float32   `toml:"glyph_offset"`
	GlyphExtraSpacing [2]float32   `toml:"glyph_extra_spacing"`
	PixelSnapH        bool         `toml:"pixel_snap_h"`
	MergeMode         bool         `toml:"merge_mode"`
}

// SetDefaults resets the config to a 13px font with default ranges.
func (c *FontConfig) SetDefaults() {
	*c = FontConfig{SizeInPixels: 13}
}

// BuildRanges returns the configured ranges as flat codepoint pairs, without
// the terminating zero. Returns nil when no ranges were requested.
func (c *FontConfig) BuildRanges() []uint16 {
	if c.Scripts == 0 && len(c.Ranges) == 0 {
		return nil
	}
	var values []uint16
	scripts := c.Scripts
	if scripts != 0 {
		scripts |= ScriptDefault
	}
	for _, sr := range scriptRanges {
		if scripts&sr.script != 0 {
			values = append(values, sr.ranges...)
		}
	}
	for _, r := range c.Ranges {
		if r.From == 0 || r.To < r.From {
			continue
		}
		values = append(values, r.From, r.To)
	}
	return values
}

// FontDefinition is a font file plus its configuration. Path is relative to
// the builder's font directory.
type FontDefinition struct {
	Path   string     `toml:"path"`
	Config FontConfig `toml:"config"`
}

// Config is the font atlas configuration.
type Config struct {
	Fonts           []FontDefinition `toml:"fonts"`
	Rasterizer      RasterizerType   `toml:"rasterizer"`
	RasterizerFlags RasterizerFlags  `toml:"rasterizer_flags"`
}
