package texture

import "github.com/go-theft-auto/imbridge/gpu"

// Sprite is an immutable sub-region of a texture.
type Sprite interface {
	Texture() gpu.Texture
	// Size returns the sprite size in pixels.
	Size() (w, h float32)
	// UVs returns the top-left and bottom-right UV corners in texture space
	// (origin bottom-left). Implementations may allocate.
	UVs() [][2]float32
}

// SpriteInfo is the GUI-space description of a sprite: UV0 is the top-left
// and UV1 the bottom-right corner with the origin at the top.
type SpriteInfo struct {
	Texture  gpu.Texture
	Size     [2]float32
	UV0, UV1 [2]float32
}

// Region is a Sprite backed by a pixel rectangle of a texture.
type Region struct {
	Tex        gpu.Texture
	X, Y, W, H int // pixel rect, origin bottom-left
}

func (r *Region) Texture() gpu.Texture { return r.Tex }

func (r *Region) Size() (float32, float32) { return float32(r.W), float32(r.H) }

func (r *Region) UVs() [][2]float32 {
	tw, th := float32(r.Tex.Width()), float32(r.Tex.Height())
	return [][2]float32{
		{float32(r.X) / tw, float32(r.Y+r.H) / th},
		{float32(r.X+r.W) / tw, float32(r.Y) / th},
	}
}
