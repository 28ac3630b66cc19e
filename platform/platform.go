// Package platform feeds host input into an imbridge.Context and applies the
// context's requests (cursor shape, settings saves) back to the host.
package platform

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-theft-auto/imbridge"
	"github.com/go-theft-auto/imbridge/gpu"
	"github.com/go-theft-auto/imbridge/internal/logging"
)

var platformLogger = logging.Logger("platform")

// Platform is an input backend. PrepareFrame runs once per frame before
// Context.NewFrame; display is the pixel rect of the camera being drawn to.
type Platform interface {
	Initialize(ctx *imbridge.Context) error
	Shutdown(ctx *imbridge.Context)
	PrepareFrame(ctx *imbridge.Context, display gpu.Rect)
}

// Type selects a platform implementation.
type Type int

const (
	TypeGLFW Type = iota
	TypeManual
)

var typeNames = map[Type]string{
	TypeGLFW:   "glfw",
	TypeManual: "manual",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

func (t Type) MarshalText() ([]byte, error) {
	if _, ok := typeNames[t]; !ok {
		return nil, fmt.Errorf("unknown platform type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for k, v := range typeNames {
		if v == name {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown platform type %q", name)
}

// CursorSetter applies a cursor shape on the host. A none cursor hides it.
type CursorSetter interface {
	SetCursor(cur imbridge.MouseCursor)
}

// Base is the behavior every platform shares: backend flags, callbacks,
// settings load/save and cursor updates. Embed it and call its methods from
// the platform's own Initialize, Shutdown and PrepareFrame.
type Base struct {
	Name      string
	Callbacks Callbacks
	Ini       IniStore
	Cursor    CursorSetter

	log        *slog.Logger
	lastCursor imbridge.MouseCursor
}

// Init sets backend flags, assigns callbacks and loads settings.
func (b *Base) Init(ctx *imbridge.Context) error {
	if b.log == nil {
		b.log = platformLogger.With("platform", b.Name)
	}
	io := ctx.IO()
	io.BackendPlatformName = b.Name
	io.BackendFlags |= imbridge.BackendHasMouseCursors
	io.BackendFlags &^= imbridge.BackendHasSetMousePos
	b.Callbacks.Assign(io, b.log)
	b.lastCursor = imbridge.MouseCursorCount

	if b.Ini == nil {
		return nil
	}
	data, err := b.Ini.Load()
	if err != nil {
		return fmt.Errorf("load ini settings: %w", err)
	}
	return ctx.LoadIniSettingsFromMemory(data)
}

// Close unsets callbacks and clears the backend state set by Init.
func (b *Base) Close(ctx *imbridge.Context) {
	io := ctx.IO()
	Unset(io)
	io.BackendPlatformName = ""
	io.BackendFlags &^= imbridge.BackendHasMouseCursors
}

// Sync applies cursor requests and saves settings when the context asks to.
// Call it at the end of PrepareFrame.
func (b *Base) Sync(ctx *imbridge.Context) {
	b.updateCursor(ctx)
	if ctx.IO().WantSaveIniSettings {
		b.saveIni(ctx)
	}
}

func (b *Base) saveIni(ctx *imbridge.Context) {
	data, err := ctx.SaveIniSettingsToMemory()
	if err != nil {
		b.log.Error("saving ini settings", "error", err)
		return
	}
	if b.Ini == nil {
		return
	}
	if err := b.Ini.Save(data); err != nil {
		b.log.Error("saving ini settings", "error", err)
	}
}

func (b *Base) updateCursor(ctx *imbridge.Context) {
	io := ctx.IO()
	cur := ctx.MouseCursor()
	if io.MouseDrawCursor {
		cur = imbridge.MouseCursorNone
	}
	if cur == b.lastCursor {
		return
	}
	if io.ConfigFlags&imbridge.ConfigNoMouseCursorChange != 0 {
		return
	}
	b.lastCursor = cur
	if b.Cursor != nil {
		b.Cursor.SetCursor(cur)
	}
}

// LastCursor returns the last cursor applied to the host.
func (b *Base) LastCursor() imbridge.MouseCursor {
	return b.lastCursor
}

// displaySize converts the pixel rect into the GUI display size.
func displaySize(display gpu.Rect) imbridge.Vec2 {
	return imbridge.Vec2{X: display.W, Y: display.H}
}
