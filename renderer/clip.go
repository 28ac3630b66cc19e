package renderer

import (
	"github.com/go-theft-auto/imbridge"
	"github.com/go-theft-auto/imbridge/gpu"
)

// frame holds the framebuffer-space parameters shared by every command of
// one RenderDrawLists call.
type frame struct {
	fbW, fbH  float32
	clipOff   imbridge.Vec2
	clipScale imbridge.Vec2
}

// newFrame returns false when nothing should be submitted: no data, no
// vertices, or a minimized window.
func newFrame(dd *imbridge.DrawData) (frame, bool) {
	if dd == nil {
		return frame{}, false
	}
	fbW, fbH := dd.FramebufferSize()
	if fbW <= 0 || fbH <= 0 || dd.TotalVtxCount == 0 {
		return frame{}, false
	}
	return frame{fbW: fbW, fbH: fbH, clipOff: dd.DisplayPos, clipScale: dd.FramebufferScale}, true
}

// setup records the viewport and a top-left origin orthographic projection
// with a half-pixel offset for crisper text.
func (f frame) setup(cmd gpu.CommandBuffer) {
	cmd.SetViewport(gpu.Rect{X: 0, Y: 0, W: f.fbW, H: f.fbH})
	cmd.SetViewProjection(
		gpu.Translate(0.5/f.fbW, 0.5/f.fbH, 0),
		gpu.Ortho(0, f.fbW, f.fbH, 0, 0, 1),
	)
}

// transform maps GUI coordinates to framebuffer pixels.
func (f frame) transform() gpu.Mat4 {
	return gpu.Scale(f.clipScale.X, f.clipScale.Y, 1).Mul(gpu.Translate(-f.clipOff.X, -f.clipOff.Y, 0))
}

// project converts a clip rect to framebuffer space and reports whether any
// part of it can be on screen.
func (f frame) project(c imbridge.Vec4) (imbridge.Vec4, bool) {
	clip := imbridge.Vec4{
		X: (c.X - f.clipOff.X) * f.clipScale.X,
		Y: (c.Y - f.clipOff.Y) * f.clipScale.Y,
		Z: (c.Z - f.clipOff.X) * f.clipScale.X,
		W: (c.W - f.clipOff.Y) * f.clipScale.Y,
	}
	if clip.X >= f.fbW || clip.Y >= f.fbH || clip.Z < 0 || clip.W < 0 {
		return clip, false
	}
	return clip, true
}

// scissor converts a framebuffer clip rect to a bottom-left origin rect.
func (f frame) scissor(clip imbridge.Vec4) gpu.Rect {
	return gpu.Rect{X: clip.X, Y: f.fbH - clip.W, W: clip.Z - clip.X, H: clip.W - clip.Y}
}
