package fontatlas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/imbridge/gpu"
	"github.com/go-theft-auto/imbridge/gpu/record"
)

func TestCreateAtlasTextureFlipsRows(t *testing.T) {
	atlas := &Atlas{width: 2, height: 3, built: true}
	atlas.pixels = make([]byte, 2*3*4)
	for y := 0; y < 3; y++ {
		for i := 0; i < 8; i++ {
			atlas.pixels[y*8+i] = byte(y + 1)
		}
	}
	dev := record.NewDevice()

	tex, err := CreateAtlasTexture(dev, atlas)
	require.NoError(t, err)

	rt := tex.(*record.Texture)
	assert.Equal(t, 1, rt.Applied)
	assert.Equal(t, gpu.FilterPoint, rt.Desc.Filter)
	assert.Equal(t, gpu.FormatRGBA32, rt.Desc.Format)
	px := tex.Pixels()
	assert.Equal(t, byte(3), px[0], "last source row first")
	assert.Equal(t, byte(2), px[8])
	assert.Equal(t, byte(1), px[16])
}

func TestCreateAtlasTextureNotBuilt(t *testing.T) {
	_, err := CreateAtlasTexture(record.NewDevice(), NewAtlas())
	assert.ErrorIs(t, err, ErrNotBuilt)
}
