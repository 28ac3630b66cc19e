package imbridge

import (
	"github.com/go-theft-auto/imbridge/gpu"
	"github.com/go-theft-auto/imbridge/texture"
)

// Image draws a whole texture on the main layer. The texture is registered
// for the current frame only.
func (c *Context) Image(tex gpu.Texture, pos, size Vec2) {
	c.ImageUV(tex, pos, size, Vec2{0, 0}, Vec2{1, 1}, ColorWhite)
}

// ImageUV draws the uv0..uv1 part of a texture, top-left origin.
func (c *Context) ImageUV(tex gpu.Texture, pos, size, uv0, uv1 Vec2, tint uint32) {
	if c.textures == nil || c.drawList == nil || tex == nil {
		return
	}
	id := c.textures.ID(tex)
	c.drawList.AddImage(id, pos, pos.Add(size), uv0, uv1, tint)
}

// ImageSprite draws a sprite at its native size.
func (c *Context) ImageSprite(s texture.Sprite, pos Vec2, tint uint32) {
	if c.textures == nil || c.drawList == nil {
		return
	}
	info := c.textures.SpriteInfo(s)
	size := Vec2{info.Size[0], info.Size[1]}
	c.ImageUV(info.Texture, pos, size, Vec2{info.UV0[0], info.UV0[1]}, Vec2{info.UV1[0], info.UV1[1]}, tint)
}
