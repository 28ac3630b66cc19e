// Package glfwplatform feeds GLFW window input into an imbridge.Context.
package glfwplatform

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/imbridge"
	"github.com/go-theft-auto/imbridge/gpu"
	"github.com/go-theft-auto/imbridge/platform"
)

// Platform adapts a GLFW window. Callbacks push into the event queue, which
// PrepareFrame drains. Must be used from the thread that owns the window.
type Platform struct {
	platform.Base
	platform.Queue

	window   *glfw.Window
	cursors  [imbridge.MouseCursorCount]*glfw.Cursor
	lastTime float64
}

// New creates a platform for window. ini may be nil.
func New(window *glfw.Window, ini platform.IniStore) *Platform {
	p := &Platform{window: window}
	p.Name = "imbridge_glfw"
	p.Ini = ini
	p.Cursor = p
	p.Callbacks = platform.Callbacks{
		GetClipboardText: window.GetClipboardString,
		SetClipboardText: window.SetClipboardString,
	}
	return p
}

func (p *Platform) Initialize(ctx *imbridge.Context) error {
	if err := p.Init(ctx); err != nil {
		return err
	}
	p.createCursors()
	p.window.SetKeyCallback(p.keyCallback)
	p.window.SetCharCallback(p.charCallback)
	p.window.SetMouseButtonCallback(p.mouseButtonCallback)
	p.window.SetScrollCallback(p.scrollCallback)
	p.window.SetCursorPosCallback(p.cursorPosCallback)
	p.lastTime = glfw.GetTime()
	return nil
}

func (p *Platform) Shutdown(ctx *imbridge.Context) {
	p.window.SetKeyCallback(nil)
	p.window.SetCharCallback(nil)
	p.window.SetMouseButtonCallback(nil)
	p.window.SetScrollCallback(nil)
	p.window.SetCursorPosCallback(nil)
	p.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	for i, c := range p.cursors {
		if c != nil {
			c.Destroy()
			p.cursors[i] = nil
		}
	}
	p.Close(ctx)
}

func (p *Platform) PrepareFrame(ctx *imbridge.Context, display gpu.Rect) {
	io := ctx.IO()
	io.DisplaySize = imbridge.Vec2{X: display.W, Y: display.H}

	now := glfw.GetTime()
	if dt := float32(now - p.lastTime); dt > 0 {
		io.DeltaTime = dt
	}
	p.lastTime = now

	p.Apply(io)
	p.Sync(ctx)
}

// SetCursor shows the standard cursor for cur, or hides it for none.
func (p *Platform) SetCursor(cur imbridge.MouseCursor) {
	if cur == imbridge.MouseCursorNone {
		p.window.SetInputMode(glfw.CursorMode, glfw.CursorHidden)
		return
	}
	p.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	c := p.cursors[imbridge.MouseCursorArrow]
	if cur >= 0 && cur < imbridge.MouseCursorCount && p.cursors[cur] != nil {
		c = p.cursors[cur]
	}
	p.window.SetCursor(c)
}

// createCursors loads the GLFW standard shapes. Shapes GLFW 3.3 lacks fall
// back to the arrow.
func (p *Platform) createCursors() {
	shapes := map[imbridge.MouseCursor]glfw.StandardCursor{
		imbridge.MouseCursorArrow:     glfw.ArrowCursor,
		imbridge.MouseCursorTextInput: glfw.IBeamCursor,
		imbridge.MouseCursorResizeAll: glfw.CrosshairCursor,
		imbridge.MouseCursorResizeNS:  glfw.VResizeCursor,
		imbridge.MouseCursorResizeEW:  glfw.HResizeCursor,
		imbridge.MouseCursorHand:      glfw.HandCursor,
	}
	for cur, shape := range shapes {
		if p.cursors[cur] == nil {
			p.cursors[cur] = glfw.CreateStandardCursor(shape)
		}
	}
}

// framebufferRatio converts window coordinates to framebuffer pixels.
func (p *Platform) framebufferRatio() (float32, float32) {
	ww, wh := p.window.GetSize()
	fw, fh := p.window.GetFramebufferSize()
	if ww <= 0 || wh <= 0 {
		return 1, 1
	}
	return float32(fw) / float32(ww), float32(fh) / float32(wh)
}

func (p *Platform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	p.SetModifiers(modifiers(mods))
	k := glfwKeyToKey(key)
	if k == imbridge.KeyNone {
		return
	}
	switch action {
	case glfw.Press, glfw.Repeat:
		p.KeyEvent(k, true)
	case glfw.Release:
		p.KeyEvent(k, false)
	}
}

func (p *Platform) charCallback(w *glfw.Window, char rune) {
	p.CharEvent(char)
}

func (p *Platform) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	b := glfwMouseButtonToButton(button)
	if b < 0 {
		return
	}
	switch action {
	case glfw.Press:
		p.MouseButtonEvent(b, true)
	case glfw.Release:
		p.MouseButtonEvent(b, false)
	}
}

func (p *Platform) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	p.Wheel(float32(xoff), float32(yoff))
}

func (p *Platform) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	sx, sy := p.framebufferRatio()
	p.MouseMove(float32(xpos)*sx, float32(ypos)*sy)
}

func modifiers(mods glfw.ModifierKey) platform.Modifiers {
	var m platform.Modifiers
	if mods&glfw.ModControl != 0 {
		m |= platform.ModCtrl
	}
	if mods&glfw.ModShift != 0 {
		m |= platform.ModShift
	}
	if mods&glfw.ModAlt != 0 {
		m |= platform.ModAlt
	}
	if mods&glfw.ModSuper != 0 {
		m |= platform.ModSuper
	}
	return m
}

// glfwKeyToKey maps GLFW keys to GUI keys.
func glfwKeyToKey(key glfw.Key) imbridge.Key {
	switch key {
	case glfw.KeyTab:
		return imbridge.KeyTab
	case glfw.KeyLeft:
		return imbridge.KeyLeft
	case glfw.KeyRight:
		return imbridge.KeyRight
	case glfw.KeyUp:
		return imbridge.KeyUp
	case glfw.KeyDown:
		return imbridge.KeyDown
	case glfw.KeyPageUp:
		return imbridge.KeyPageUp
	case glfw.KeyPageDown:
		return imbridge.KeyPageDown
	case glfw.KeyHome:
		return imbridge.KeyHome
	case glfw.KeyEnd:
		return imbridge.KeyEnd
	case glfw.KeyInsert:
		return imbridge.KeyInsert
	case glfw.KeyDelete:
		return imbridge.KeyDelete
	case glfw.KeyBackspace:
		return imbridge.KeyBackspace
	case glfw.KeySpace:
		return imbridge.KeySpace
	case glfw.KeyEnter:
		return imbridge.KeyEnter
	case glfw.KeyEscape:
		return imbridge.KeyEscape
	case glfw.KeyKPEnter:
		return imbridge.KeyKeypadEnter
	case glfw.KeyA:
		return imbridge.KeyA
	case glfw.KeyC:
		return imbridge.KeyC
	case glfw.KeyV:
		return imbridge.KeyV
	case glfw.KeyX:
		return imbridge.KeyX
	case glfw.KeyY:
		return imbridge.KeyY
	case glfw.KeyZ:
		return imbridge.KeyZ
	default:
		return imbridge.KeyNone
	}
}

// glfwMouseButtonToButton maps GLFW mouse buttons to GUI mouse buttons.
func glfwMouseButtonToButton(button glfw.MouseButton) imbridge.MouseButton {
	switch button {
	case glfw.MouseButtonLeft:
		return imbridge.MouseButtonLeft
	case glfw.MouseButtonRight:
		return imbridge.MouseButtonRight
	case glfw.MouseButtonMiddle:
		return imbridge.MouseButtonMiddle
	default:
		return -1
	}
}
