// Package config loads the imbridge integration settings from TOML.
package config

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/go-theft-auto/imbridge"
	"github.com/go-theft-auto/imbridge/fontatlas"
	"github.com/go-theft-auto/imbridge/internal/logging"
	"github.com/go-theft-auto/imbridge/platform"
	"github.com/go-theft-auto/imbridge/renderer"
)

//go:embed default/config.toml
var configFS embed.FS

var configLogger = logging.Logger("config")

// Config is the whole integration configuration.
type Config struct {
	Renderer renderer.Type `toml:"renderer"`
	Platform platform.Type `toml:"platform"`
	// FontDir is the directory font definition paths are relative to.
	FontDir string `toml:"font_dir"`
	// IniPath is where layout settings are stored. Empty keeps them in memory.
	IniPath string   `toml:"ini_path"`
	Verbose bool     `toml:"verbose"`
	IO      IOConfig `toml:"io"`
	// FontAtlas is nil when no [font_atlas] table is given; the built-in
	// font is used then.
	FontAtlas *fontatlas.Config `toml:"font_atlas"`
}

// IOConfig holds the IO fields the host sets before the first frame.
type IOConfig struct {
	NavEnableKeyboard   bool    `toml:"nav_enable_keyboard"`
	NoMouseCursorChange bool    `toml:"no_mouse_cursor_change"`
	MouseDrawCursor     bool    `toml:"mouse_draw_cursor"`
	IniSavingRate       float32 `toml:"ini_saving_rate"`
}

// ApplyTo copies the configuration into io.
func (c IOConfig) ApplyTo(io *imbridge.IO) {
	setFlag(&io.ConfigFlags, imbridge.ConfigNavEnableKeyboard, c.NavEnableKeyboard)
	setFlag(&io.ConfigFlags, imbridge.ConfigNoMouseCursorChange, c.NoMouseCursorChange)
	io.MouseDrawCursor = c.MouseDrawCursor
	if c.IniSavingRate > 0 {
		io.IniSavingRate = c.IniSavingRate
	}
}

func setFlag(flags *imbridge.ConfigFlags, f imbridge.ConfigFlags, on bool) {
	if on {
		*flags |= f
	} else {
		*flags &^= f
	}
}

// IniStore returns the settings store for IniPath.
func (c *Config) IniStore() platform.IniStore {
	if c.IniPath == "" {
		return &platform.MemoryIniStore{}
	}
	return platform.FileIniStore{Path: c.IniPath}
}

// Default returns the embedded default configuration.
func Default() *Config {
	data, err := configFS.ReadFile("default/config.toml")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults missing: %v", err))
	}
	c := &Config{}
	if err := c.decode(string(data)); err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return c
}

// Parse decodes data over the defaults.
func Parse(data string) (*Config, error) {
	c := Default()
	if err := c.decode(data); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads a TOML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c *Config) decode(data string) error {
	md, err := toml.Decode(data, c)
	if err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		configLogger.Warn("unknown config keys ignored", "keys", strings.Join(keys, ", "))
	}
	return nil
}
