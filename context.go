package imbridge

import (
	"errors"

	"gopkg.in/ini.v1"

	"github.com/go-theft-auto/imbridge/fontatlas"
	"github.com/go-theft-auto/imbridge/internal/logging"
	"github.com/go-theft-auto/imbridge/texture"
)

var guiLogger = logging.Logger("imbridge")

// ErrFontAtlasNotBuilt is returned by NewFrame when IO.Fonts has not been built.
var ErrFontAtlasNotBuilt = errors.New("font atlas not built")

// SetVerbose enables or disables debug logging for every imbridge package.
func SetVerbose(v bool) {
	logging.SetVerbose(v)
}

// Context holds the GUI state of one host instance.
// This is NOT context.Context. It is not safe for concurrent use.
type Context struct {
	io IO

	frameCount uint64
	inFrame    bool

	drawList   *DrawList
	fgDrawList *DrawList
	drawData   DrawData

	mouseCursor MouseCursor

	// Input edges computed at NewFrame.
	mouseDownPrev [MouseButtonCount]bool
	mouseClicked  [MouseButtonCount]bool
	mouseReleased [MouseButtonCount]bool
	keysDownPrev  [KeyCount]bool
	keysPressed   [KeyCount]bool
	inputChars    []rune

	settings      *ini.File
	settingsDirty bool
	settingsTimer float32

	textures *texture.Registry
}

// NewContext creates a context with an empty font atlas.
func NewContext() *Context {
	return &Context{
		io: IO{
			DisplayFramebufferScale: Vec2{1, 1},
			DeltaTime:               1.0 / 60,
			IniSavingRate:           5,
			Fonts:                   fontatlas.NewAtlas(),
		},
		mouseCursor: MouseCursorArrow,
		settings:    ini.Empty(),
	}
}

// IO returns the context's IO. The pointer stays valid for the context lifetime.
func (c *Context) IO() *IO {
	return &c.io
}

// FrameCount returns the number of frames started.
func (c *Context) FrameCount() uint64 {
	return c.frameCount
}

// InFrame reports whether NewFrame was called without a matching Render.
func (c *Context) InFrame() bool {
	return c.inFrame
}

// SetTextureRegistry sets the registry Image helpers resolve textures with.
func (c *Context) SetTextureRegistry(r *texture.Registry) {
	c.textures = r
}

// DrawList returns the main layer. nil outside a frame.
func (c *Context) DrawList() *DrawList {
	return c.drawList
}

// ForegroundDrawList returns the layer drawn over the main one. nil outside a frame.
func (c *Context) ForegroundDrawList() *DrawList {
	return c.fgDrawList
}

// DrawData returns the output of the last Render. Valid is false before the
// first Render and after NewFrame.
func (c *Context) DrawData() *DrawData {
	return &c.drawData
}

// MouseCursor returns the cursor requested for this frame.
func (c *Context) MouseCursor() MouseCursor {
	return c.mouseCursor
}

// SetMouseCursor requests a cursor shape. Reset to the arrow every frame.
func (c *Context) SetMouseCursor(cur MouseCursor) {
	c.mouseCursor = cur
}

// Destroy releases the draw lists and clears the font atlas.
func (c *Context) Destroy() {
	c.releaseDrawLists()
	c.drawData = DrawData{}
	c.inFrame = false
	if c.io.Fonts != nil {
		c.io.Fonts.Clear()
	}
}

func (c *Context) releaseDrawLists() {
	ReleaseDrawList(c.drawList)
	ReleaseDrawList(c.fgDrawList)
	c.drawList, c.fgDrawList = nil, nil
}
