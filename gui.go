package imbridge

import (
	"fmt"

	"github.com/go-theft-auto/imbridge/texture"
)

// NewFrame starts a frame: it consumes the input in IO, resets per-frame
// state and prepares fresh draw lists clipped to the display. The previous
// DrawData becomes invalid.
func (c *Context) NewFrame() error {
	io := &c.io
	if io.Fonts == nil || !io.Fonts.IsBuilt() {
		return ErrFontAtlasNotBuilt
	}
	if io.DeltaTime <= 0 {
		return fmt.Errorf("invalid delta time %g", io.DeltaTime)
	}
	if c.inFrame {
		guiLogger.Warn("NewFrame without Render, dropping frame", "frame", c.frameCount)
	}

	c.releaseDrawLists()
	c.drawData.Valid = false
	c.frameCount++
	c.mouseCursor = MouseCursorArrow

	for b := range io.MouseDown {
		c.mouseClicked[b] = io.MouseDown[b] && !c.mouseDownPrev[b]
		c.mouseReleased[b] = !io.MouseDown[b] && c.mouseDownPrev[b]
	}
	c.mouseDownPrev = io.MouseDown
	for k := range io.KeysDown {
		c.keysPressed[k] = io.KeysDown[k] && !c.keysDownPrev[k]
	}
	c.keysDownPrev = io.KeysDown
	c.inputChars = append(c.inputChars[:0], io.InputQueueCharacters...)
	io.ClearInputCharacters()

	if c.settingsDirty {
		c.settingsTimer -= io.DeltaTime
		if c.settingsTimer <= 0 {
			c.settingsDirty = false
			io.WantSaveIniSettings = true
		}
	}

	white := io.Fonts.WhitePixelUV()
	atlasID := io.Fonts.TexID()
	c.drawList = c.newLayer(white, atlasID)
	c.fgDrawList = c.newLayer(white, atlasID)

	c.inFrame = true
	return nil
}

func (c *Context) newLayer(white [2]float32, tex texture.ID) *DrawList {
	dl := AcquireDrawList()
	dl.SetWhitePixelUV(white)
	dl.SetTexture(tex)
	dl.PushClipRect(0, 0, c.io.DisplaySize.X, c.io.DisplaySize.Y)
	return dl
}

// Render ends the frame and builds DrawData from the non-empty layers,
// main layer first. Does nothing outside a frame.
func (c *Context) Render() {
	if !c.inFrame {
		return
	}
	c.inFrame = false

	if c.io.MouseDrawCursor && c.mouseCursor != MouseCursorNone {
		c.drawSoftwareCursor()
	}

	dd := &c.drawData
	*dd = DrawData{
		Valid:            true,
		CmdLists:         dd.CmdLists[:0],
		DisplaySize:      c.io.DisplaySize,
		FramebufferScale: c.io.DisplayFramebufferScale,
	}
	for _, dl := range [...]*DrawList{c.drawList, c.fgDrawList} {
		dl.Finalize()
		if len(dl.CmdBuffer) == 0 {
			continue
		}
		dd.CmdLists = append(dd.CmdLists, dl)
		dd.TotalVtxCount += len(dl.VtxBuffer)
		dd.TotalIdxCount += len(dl.IdxBuffer)
	}
	guiLogger.Debug("frame rendered", "frame", c.frameCount, "lists", len(dd.CmdLists),
		"vertices", dd.TotalVtxCount, "indices", dd.TotalIdxCount)
}

func (c *Context) drawSoftwareCursor() {
	cur := c.io.Fonts.MouseCursor()
	if cur.Size[0] == 0 {
		return
	}
	p0 := c.io.MousePos
	p1 := p0.Add(Vec2{cur.Size[0], cur.Size[1]})
	c.fgDrawList.AddImage(c.io.Fonts.TexID(), p0, p1,
		Vec2{cur.UV0[0], cur.UV0[1]}, Vec2{cur.UV1[0], cur.UV1[1]}, ColorWhite)
}

// Text draws text with the default font on the main layer.
func (c *Context) Text(pos Vec2, color uint32, text string) {
	if c.drawList == nil {
		return
	}
	c.drawList.AddText(c.io.Fonts.Font(), pos, color, text)
}

// CalcTextSize returns the size of text in the default font.
func (c *Context) CalcTextSize(text string) Vec2 {
	f := c.io.Fonts.Font()
	if f == nil {
		return Vec2{}
	}
	var w, lineW float32
	lines := 1
	for _, r := range text {
		if r == '\n' {
			lines++
			lineW = 0
			continue
		}
		if g, ok := f.FindGlyph(r); ok {
			lineW += g.Advance
		}
		w = max(w, lineW)
	}
	return Vec2{w, float32(lines) * f.LineHeight()}
}

// IsMouseDown returns true if a mouse button is held.
func (c *Context) IsMouseDown(b MouseButton) bool {
	if b < 0 || b >= MouseButtonCount {
		return false
	}
	return c.io.MouseDown[b]
}

// IsMouseClicked returns true if a mouse button went down this frame.
func (c *Context) IsMouseClicked(b MouseButton) bool {
	if b < 0 || b >= MouseButtonCount {
		return false
	}
	return c.mouseClicked[b]
}

// IsMouseReleased returns true if a mouse button went up this frame.
func (c *Context) IsMouseReleased(b MouseButton) bool {
	if b < 0 || b >= MouseButtonCount {
		return false
	}
	return c.mouseReleased[b]
}

// IsKeyDown returns true if a key is held.
func (c *Context) IsKeyDown(k Key) bool {
	if k < 0 || k >= KeyCount {
		return false
	}
	return c.io.KeysDown[k]
}

// IsKeyPressed returns true if a key went down this frame.
func (c *Context) IsKeyPressed(k Key) bool {
	if k < 0 || k >= KeyCount {
		return false
	}
	return c.keysPressed[k]
}

// InputCharacters returns the characters typed since the previous frame.
func (c *Context) InputCharacters() []rune {
	return c.inputChars
}
