package imbridge

import (
	"unsafe"

	"github.com/go-theft-auto/imbridge/texture"
)

// Vec2 represents a 2D vector for positions and sizes.
type Vec2 struct {
	X, Y float32
}

// Add returns the sum of two vectors.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the difference of two vectors.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul returns the vector scaled by a scalar.
func (v Vec2) Mul(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Vec4 holds a rectangle as min (X, Y) and max (Z, W) corners.
type Vec4 struct {
	X, Y, Z, W float32
}

// Vertex is one GUI vertex. The layout is position f32x2, UV f32x2 and a
// packed color, matching the renderer vertex attributes.
type Vertex struct {
	Pos [2]float32
	UV  [2]float32
	Col uint32 // 0xAABBGGRR
}

// VertexSize is the byte size of a Vertex.
const VertexSize = int(unsafe.Sizeof(Vertex{}))

// VertexBytes views vertices as raw bytes without copying.
func VertexBytes(v []Vertex) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(v))), len(v)*VertexSize)
}

// DrawCmd is one draw call of a DrawList. Indices IdxOffset..IdxOffset+ElemCount
// are relative to VtxOffset. Commands must be drawn in order.
type DrawCmd struct {
	ClipRect  Vec4       // display coordinates, min/max
	TextureID texture.ID // frame-scoped handle
	VtxOffset uint32
	IdxOffset uint32
	ElemCount uint32
}

// Color constants (RGBA packed as 0xAABBGGRR).
const (
	ColorWhite       uint32 = 0xFFFFFFFF
	ColorBlack       uint32 = 0xFF000000
	ColorRed         uint32 = 0xFF0000FF
	ColorGreen       uint32 = 0xFF00FF00
	ColorBlue        uint32 = 0xFFFF0000
	ColorYellow      uint32 = 0xFF00FFFF
	ColorGray        uint32 = 0xFF808080
	ColorDarkGray    uint32 = 0xFF404040
	ColorTransparent uint32 = 0x00000000
)

// RGBA creates a packed color from individual components (0-255).
func RGBA(r, g, b, a uint8) uint32 {
	return uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}

// RGBAf creates a packed color from float components (0.0-1.0).
func RGBAf(r, g, b, a float32) uint32 {
	return RGBA(
		uint8(clampf(r, 0, 1)*255),
		uint8(clampf(g, 0, 1)*255),
		uint8(clampf(b, 0, 1)*255),
		uint8(clampf(a, 0, 1)*255),
	)
}

// UnpackRGBA extracts RGBA components from a packed color.
func UnpackRGBA(c uint32) (r, g, b, a uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
}

func clampf(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
