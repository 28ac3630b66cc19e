package imbridge

import (
	"bytes"
	"fmt"

	"gopkg.in/ini.v1"
)

// LoadIniSettingsFromMemory replaces the layout settings with the parsed
// ini text. An empty string yields empty settings.
func (c *Context) LoadIniSettingsFromMemory(data string) error {
	f, err := ini.Load([]byte(data))
	if err != nil {
		return fmt.Errorf("load ini settings: %w", err)
	}
	c.settings = f
	c.settingsDirty = false
	return nil
}

// SaveIniSettingsToMemory serializes the layout settings and clears
// IO.WantSaveIniSettings.
func (c *Context) SaveIniSettingsToMemory() (string, error) {
	var buf bytes.Buffer
	if _, err := c.settings.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("save ini settings: %w", err)
	}
	c.io.WantSaveIniSettings = false
	c.settingsDirty = false
	return buf.String(), nil
}

// MarkIniSettingsDirty schedules a save request IO.IniSavingRate seconds
// from now. Later calls do not push the deadline back.
func (c *Context) MarkIniSettingsDirty() {
	if !c.settingsDirty {
		c.settingsDirty = true
		c.settingsTimer = c.io.IniSavingRate
	}
}

// Setting returns a layout setting.
func (c *Context) Setting(section, key string) (string, bool) {
	sec, err := c.settings.GetSection(section)
	if err != nil || !sec.HasKey(key) {
		return "", false
	}
	return sec.Key(key).String(), true
}

// SetSetting stores a layout setting, marking the settings dirty when the
// value changes.
func (c *Context) SetSetting(section, key, value string) {
	if old, ok := c.Setting(section, key); ok && old == value {
		return
	}
	c.settings.Section(section).Key(key).SetValue(value)
	c.MarkIniSettingsDirty()
}
