package fontatlas

import (
	"fmt"

	"github.com/go-theft-auto/imbridge/gpu"
)

// AtlasTextureName names the texture created by CreateAtlasTexture.
const AtlasTextureName = "imbridge font atlas"

// CreateAtlasTexture uploads the built atlas into a new point-filtered RGBA
// texture. Atlas rows are top-down and texture rows bottom-up, so rows are
// copied in reverse order.
func CreateAtlasTexture(dev gpu.Device, atlas *Atlas) (gpu.Texture, error) {
	if !atlas.IsBuilt() {
		return nil, ErrNotBuilt
	}
	pixels, width, height, bpp := atlas.TexDataAsRGBA32()
	tex, err := dev.NewTexture(gpu.TextureDesc{
		Name:   AtlasTextureName,
		Width:  width,
		Height: height,
		Format: gpu.FormatRGBA32,
		Filter: gpu.FilterPoint,
	})
	if err != nil {
		return nil, fmt.Errorf("create atlas texture: %w", err)
	}

	dst := tex.Pixels()
	stride := width * bpp
	for y := 0; y < height; y++ {
		src := pixels[y*stride : (y+1)*stride]
		row := height - y - 1
		copy(dst[row*stride:(row+1)*stride], src)
	}
	if err := tex.Apply(); err != nil {
		tex.Destroy()
		return nil, fmt.Errorf("upload atlas texture: %w", err)
	}
	return tex, nil
}
