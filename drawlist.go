package imbridge

import (
	"math"
	"sync"

	"github.com/go-theft-auto/imbridge/fontatlas"
	"github.com/go-theft-auto/imbridge/texture"
)

// maxCmdVertices is the most vertices one command can address with 16-bit indices.
const maxCmdVertices = math.MaxUint16 + 1

// drawListPool reuses DrawList buffers between frames.
var drawListPool = sync.Pool{
	New: func() any {
		return &DrawList{
			VtxBuffer: make([]Vertex, 0, 1024),
			IdxBuffer: make([]uint16, 0, 2048),
			CmdBuffer: make([]DrawCmd, 0, 16),
			clipStack: make([]Vec4, 0, 8),
		}
	},
}

// AcquireDrawList gets a cleared DrawList from the pool.
// Call ReleaseDrawList when done to return it.
func AcquireDrawList() *DrawList {
	dl := drawListPool.Get().(*DrawList)
	dl.Clear()
	return dl
}

// ReleaseDrawList returns a DrawList to the pool for reuse.
func ReleaseDrawList(dl *DrawList) {
	if dl != nil {
		drawListPool.Put(dl)
	}
}

// DrawList accumulates vertices, indices and commands for one layer.
// A new command starts whenever the clip rect or texture changes.
type DrawList struct {
	CmdBuffer []DrawCmd
	VtxBuffer []Vertex
	IdxBuffer []uint16

	clipStack    []Vec4
	currentClip  Vec4
	textureID    texture.ID
	whiteUV      [2]float32
	cmdOffset    uint32 // VtxOffset of the current command
	idxCmdOffset uint32 // IdxOffset of the current command
}

// Clear resets the DrawList, keeping allocated capacity.
func (dl *DrawList) Clear() {
	dl.CmdBuffer = dl.CmdBuffer[:0]
	dl.VtxBuffer = dl.VtxBuffer[:0]
	dl.IdxBuffer = dl.IdxBuffer[:0]
	dl.clipStack = dl.clipStack[:0]
	dl.currentClip = Vec4{-1e9, -1e9, 1e9, 1e9}
	dl.textureID = 0
	dl.whiteUV = [2]float32{}
	dl.cmdOffset = 0
	dl.idxCmdOffset = 0
}

// SetWhitePixelUV sets the UV solid primitives sample. It must point at an
// opaque white texel of the current texture, normally the font atlas.
func (dl *DrawList) SetWhitePixelUV(uv [2]float32) {
	dl.whiteUV = uv
}

// PushClipRect pushes a new clip rectangle onto the stack.
// All subsequent primitives will be clipped to this rectangle.
func (dl *DrawList) PushClipRect(x1, y1, x2, y2 float32) {
	dl.clipStack = append(dl.clipStack, dl.currentClip)
	dl.currentClip = Vec4{x1, y1, x2, y2}
	dl.splitDraw()
}

// PopClipRect pops the clip rectangle stack.
func (dl *DrawList) PopClipRect() {
	n := len(dl.clipStack)
	if n > 0 {
		dl.currentClip = dl.clipStack[n-1]
		dl.clipStack = dl.clipStack[:n-1]
		dl.splitDraw()
	}
}

// ClipRect returns the current clip rectangle.
func (dl *DrawList) ClipRect() Vec4 {
	return dl.currentClip
}

// SetTexture sets the texture for subsequent primitives.
func (dl *DrawList) SetTexture(id texture.ID) {
	if dl.textureID != id {
		dl.textureID = id
		dl.splitDraw()
	}
}

// Texture returns the current texture handle.
func (dl *DrawList) Texture() texture.ID {
	return dl.textureID
}

// splitDraw finalizes the current command and starts a new one.
func (dl *DrawList) splitDraw() {
	if len(dl.CmdBuffer) > 0 {
		lastCmd := &dl.CmdBuffer[len(dl.CmdBuffer)-1]
		lastCmd.ElemCount = uint32(len(dl.IdxBuffer)) - dl.idxCmdOffset
		if lastCmd.ElemCount == 0 {
			dl.CmdBuffer = dl.CmdBuffer[:len(dl.CmdBuffer)-1]
			// Resume the previous command when the state is back to its own.
			if n := len(dl.CmdBuffer); n > 0 {
				prev := &dl.CmdBuffer[n-1]
				if prev.ClipRect == dl.currentClip && prev.TextureID == dl.textureID &&
					len(dl.VtxBuffer)-int(prev.VtxOffset) < maxCmdVertices {
					dl.cmdOffset = prev.VtxOffset
					dl.idxCmdOffset = prev.IdxOffset
					return
				}
			}
		}
	}

	dl.CmdBuffer = append(dl.CmdBuffer, DrawCmd{
		ClipRect:  dl.currentClip,
		TextureID: dl.textureID,
		VtxOffset: uint32(len(dl.VtxBuffer)),
		IdxOffset: uint32(len(dl.IdxBuffer)),
	})
	dl.cmdOffset = uint32(len(dl.VtxBuffer))
	dl.idxCmdOffset = uint32(len(dl.IdxBuffer))
}

// addVertices adds vertices and returns the index of the first one relative
// to the current command. A command that would overflow 16-bit indices is split.
func (dl *DrawList) addVertices(verts ...Vertex) uint16 {
	if len(dl.CmdBuffer) == 0 || len(dl.VtxBuffer)-int(dl.cmdOffset)+len(verts) > maxCmdVertices {
		dl.splitDraw()
	}
	startIdx := uint16(len(dl.VtxBuffer) - int(dl.cmdOffset))
	dl.VtxBuffer = append(dl.VtxBuffer, verts...)
	return startIdx
}

func (dl *DrawList) addIndices(indices ...uint16) {
	dl.IdxBuffer = append(dl.IdxBuffer, indices...)
}

// addQuad adds a textured quad from p0 (top-left) to p1 (bottom-right).
func (dl *DrawList) addQuad(p0, p1 Vec2, uv0, uv1 [2]float32, color uint32) {
	idx := dl.addVertices(
		Vertex{Pos: [2]float32{p0.X, p0.Y}, UV: uv0, Col: color},
		Vertex{Pos: [2]float32{p1.X, p0.Y}, UV: [2]float32{uv1[0], uv0[1]}, Col: color},
		Vertex{Pos: [2]float32{p1.X, p1.Y}, UV: uv1, Col: color},
		Vertex{Pos: [2]float32{p0.X, p1.Y}, UV: [2]float32{uv0[0], uv1[1]}, Col: color},
	)
	dl.addIndices(idx, idx+1, idx+2, idx, idx+2, idx+3)
}

// AddRect draws a filled rectangle.
func (dl *DrawList) AddRect(x, y, w, h float32, color uint32) {
	if color&0xFF000000 == 0 {
		return
	}
	dl.addQuad(Vec2{x, y}, Vec2{x + w, y + h}, dl.whiteUV, dl.whiteUV, color)
}

// AddRectOutline draws a rectangle outline.
func (dl *DrawList) AddRectOutline(x, y, w, h float32, color uint32, thickness float32) {
	if color&0xFF000000 == 0 {
		return
	}
	dl.AddRect(x, y, w, thickness, color)
	dl.AddRect(x, y+h-thickness, w, thickness, color)
	dl.AddRect(x, y+thickness, thickness, h-2*thickness, color)
	dl.AddRect(x+w-thickness, y+thickness, thickness, h-2*thickness, color)
}

// AddLine draws a line between two points as a quad of the given thickness.
func (dl *DrawList) AddLine(x1, y1, x2, y2 float32, color uint32, thickness float32) {
	if color&0xFF000000 == 0 {
		return
	}

	dx := x2 - x1
	dy := y2 - y1
	inv := float32(1.0)
	if dx != 0 || dy != 0 {
		inv = 1.0 / float32(math.Sqrt(float64(dx*dx+dy*dy)))
	}

	// Normal perpendicular to line
	nx := -dy * inv * thickness * 0.5
	ny := dx * inv * thickness * 0.5

	uv := dl.whiteUV
	idx := dl.addVertices(
		Vertex{Pos: [2]float32{x1 + nx, y1 + ny}, UV: uv, Col: color},
		Vertex{Pos: [2]float32{x2 + nx, y2 + ny}, UV: uv, Col: color},
		Vertex{Pos: [2]float32{x2 - nx, y2 - ny}, UV: uv, Col: color},
		Vertex{Pos: [2]float32{x1 - nx, y1 - ny}, UV: uv, Col: color},
	)
	dl.addIndices(idx, idx+1, idx+2, idx, idx+2, idx+3)
}

// AddTriangle draws a filled triangle.
func (dl *DrawList) AddTriangle(x1, y1, x2, y2, x3, y3 float32, color uint32) {
	if color&0xFF000000 == 0 {
		return
	}

	uv := dl.whiteUV
	idx := dl.addVertices(
		Vertex{Pos: [2]float32{x1, y1}, UV: uv, Col: color},
		Vertex{Pos: [2]float32{x2, y2}, UV: uv, Col: color},
		Vertex{Pos: [2]float32{x3, y3}, UV: uv, Col: color},
	)
	dl.addIndices(idx, idx+1, idx+2)
}

// AddImage draws a textured quad. The previous texture is restored afterwards.
func (dl *DrawList) AddImage(id texture.ID, p0, p1, uv0, uv1 Vec2, tint uint32) {
	if tint&0xFF000000 == 0 || id == 0 {
		return
	}
	prev := dl.textureID
	dl.SetTexture(id)
	dl.addQuad(p0, p1, [2]float32{uv0.X, uv0.Y}, [2]float32{uv1.X, uv1.Y}, tint)
	dl.SetTexture(prev)
}

// GlyphQuad is one glyph's screen rectangle and atlas UVs.
type GlyphQuad struct {
	X0, Y0 float32 // Screen coordinates (top-left)
	X1, Y1 float32 // Screen coordinates (bottom-right)
	U0, V0 float32 // Texture coordinates (top-left)
	U1, V1 float32 // Texture coordinates (bottom-right)
}

// AddGlyphQuads draws glyph quads sampling the current texture.
func (dl *DrawList) AddGlyphQuads(quads []GlyphQuad, color uint32) {
	if color&0xFF000000 == 0 || len(quads) == 0 {
		return
	}
	for _, q := range quads {
		dl.addQuad(Vec2{q.X0, q.Y0}, Vec2{q.X1, q.Y1}, [2]float32{q.U0, q.V0}, [2]float32{q.U1, q.V1}, color)
	}
}

// AddText draws text with font, pos being the top-left of the first line.
// The current texture must be the atlas font was packed into.
func (dl *DrawList) AddText(font *fontatlas.Font, pos Vec2, color uint32, text string) {
	if font == nil || color&0xFF000000 == 0 || len(text) == 0 {
		return
	}
	x, y := pos.X, pos.Y
	for _, r := range text {
		if r == '\n' {
			x = pos.X
			y += font.LineHeight()
			continue
		}
		g, ok := font.FindGlyph(r)
		if !ok {
			continue
		}
		if g.X1 > g.X0 {
			dl.addQuad(Vec2{x + g.X0, y + g.Y0}, Vec2{x + g.X1, y + g.Y1},
				[2]float32{g.U0, g.V0}, [2]float32{g.U1, g.V1}, color)
		}
		x += g.Advance
	}
}

// Finalize closes the last command and drops empty ones.
// Must be called after all primitives are added.
func (dl *DrawList) Finalize() {
	if len(dl.CmdBuffer) > 0 {
		lastCmd := &dl.CmdBuffer[len(dl.CmdBuffer)-1]
		lastCmd.ElemCount = uint32(len(dl.IdxBuffer)) - dl.idxCmdOffset
	}

	filtered := dl.CmdBuffer[:0]
	for _, cmd := range dl.CmdBuffer {
		if cmd.ElemCount > 0 {
			filtered = append(filtered, cmd)
		}
	}
	dl.CmdBuffer = filtered
}
