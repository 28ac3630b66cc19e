package opengl

import (
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/stretchr/testify/assert"

	"github.com/go-theft-auto/imbridge/gpu"
)

func TestShaderLevel(t *testing.T) {
	assert.Equal(t, 30, shaderLevel(3, 2))
	assert.Equal(t, 40, shaderLevel(3, 3))
	assert.Equal(t, 45, shaderLevel(4, 1))
	assert.Equal(t, 50, shaderLevel(4, 6))
	assert.GreaterOrEqual(t, shaderLevel(4, 0), gpu.MinProceduralShaderLevel)
}

func TestAttribPointers(t *testing.T) {
	ptrs, stride := attribPointers([]gpu.VertexAttribute{
		{Semantic: gpu.SemanticPosition, Format: gpu.AttrFloat32, Dimension: 2},
		{Semantic: gpu.SemanticTexCoord0, Format: gpu.AttrFloat32, Dimension: 2},
		{Semantic: gpu.SemanticTexCoord1, Format: gpu.AttrUInt32, Dimension: 1},
	})
	assert.Equal(t, int32(20), stride)
	assert.Equal(t, []attribPointer{
		{location: 0, size: 2, xtype: gl.FLOAT, offset: 0},
		{location: 1, size: 2, xtype: gl.FLOAT, offset: 8},
		{location: 2, size: 4, xtype: gl.UNSIGNED_BYTE, normalized: true, offset: 16},
	}, ptrs)
}

func TestTextureFormat(t *testing.T) {
	internal, format, filter := textureFormat(gpu.TextureDesc{Format: gpu.FormatRGBA32, Filter: gpu.FilterPoint})
	assert.Equal(t, int32(gl.RGBA8), internal)
	assert.Equal(t, uint32(gl.RGBA), format)
	assert.Equal(t, int32(gl.NEAREST), filter)

	internal, format, filter = textureFormat(gpu.TextureDesc{Format: gpu.FormatR8, Filter: gpu.FilterBilinear})
	assert.Equal(t, int32(gl.R8), internal)
	assert.Equal(t, uint32(gl.RED), format)
	assert.Equal(t, int32(gl.LINEAR), filter)
}
