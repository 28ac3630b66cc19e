package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/imbridge"
	"github.com/go-theft-auto/imbridge/gpu"
	"github.com/go-theft-auto/imbridge/gpu/record"
	"github.com/go-theft-auto/imbridge/texture"
)

func newProceduralRenderer(t *testing.T, f *fixture) *Procedural {
	t.Helper()
	r, err := NewProcedural(f.dev, f.textures)
	require.NoError(t, err)
	require.NoError(t, r.Initialize(f.io))
	return r
}

func TestProceduralUnsupportedDevice(t *testing.T) {
	f := newFixture(t)
	f.dev.Caps.ShaderLevel = 40

	_, err := NewProcedural(f.dev, f.textures)
	assert.ErrorIs(t, err, ErrUnsupportedDevice)

	_, err = New(TypeProcedural, f.dev, f.textures)
	assert.ErrorIs(t, err, ErrUnsupportedDevice)

	r, err := New(TypeMesh, f.dev, f.textures)
	require.NoError(t, err)
	assert.IsType(t, &Mesh{}, r)
}

func TestProceduralArguments(t *testing.T) {
	f := newFixture(t)
	r := newProceduralRenderer(t, f)

	r.RenderDrawLists(f.cmd, twoLists())

	args := r.argBuf.(*record.Buffer).Int32s()
	assert.Equal(t, []int32{300, 1, 0, 0, 0, 150, 1, 300, 300, 0}, args[:10])
	assert.Equal(t, gpu.GrowCount(2*argsPerCmd), r.argBuf.Count())

	draws := f.cmd.Draws()
	require.Len(t, draws, 2)
	assert.Equal(t, 0, draws[0].ArgsOffset)
	assert.Equal(t, 20, draws[1].ArgsOffset)
	assert.Equal(t, 0, draws[0].Props.BaseVertex)
	assert.Equal(t, 300, draws[1].Props.BaseVertex)
	assert.Equal(t, r.idxBuf, draws[0].Indices)
	assert.Equal(t, r.argBuf, draws[0].Args)
	assert.Equal(t, f.atlas, draws[0].Props.Texture)
	assert.Equal(t, r.vtxBuf, f.dev.Materials[0].Buffers[gpu.PropVertices])
}

func TestProceduralVertexOffsets(t *testing.T) {
	f := newFixture(t)
	r := newProceduralRenderer(t, f)

	first := cmd(6, texture.AtlasID)
	second := imbridge.DrawCmd{ClipRect: fullClip, TextureID: f.otherID, VtxOffset: 4, IdxOffset: 6, ElemCount: 3}
	r.RenderDrawLists(f.cmd, drawData(
		drawList(10, 12, cmd(12, texture.AtlasID)),
		drawList(7, 9, first, second),
	))

	args := r.argBuf.(*record.Buffer).Int32s()
	assert.Equal(t, []int32{3, 1, 18, 14, 0}, args[10:15])

	draws := f.cmd.Draws()
	require.Len(t, draws, 3)
	assert.Equal(t, 14, draws[2].Props.BaseVertex)
	assert.Equal(t, 40, draws[2].ArgsOffset)
	assert.Equal(t, f.other, draws[2].Props.Texture)
}

func TestProceduralCulledCommandKeepsArgOffset(t *testing.T) {
	f := newFixture(t)
	r := newProceduralRenderer(t, f)

	culled := imbridge.DrawCmd{ClipRect: imbridge.Vec4{X: -200, Y: 0, Z: -100, W: 100}, TextureID: f.otherID, ElemCount: 6}
	visible := imbridge.DrawCmd{ClipRect: fullClip, TextureID: texture.AtlasID, ElemCount: 6, IdxOffset: 6}
	r.RenderDrawLists(f.cmd, drawData(drawList(8, 12, culled, visible)))

	draws := f.cmd.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, argsCmdSize, draws[0].ArgsOffset)
	assert.Equal(t, f.atlas, draws[0].Props.Texture)
}

func TestProceduralBuffersOnlyGrow(t *testing.T) {
	f := newFixture(t)
	r := newProceduralRenderer(t, f)

	frame := func(vertices int) {
		r.RenderDrawLists(f.cmd, drawData(drawList(vertices, 6, cmd(6, texture.AtlasID))))
	}

	frame(200)
	assert.Equal(t, 256, r.vtxBuf.Count())
	frame(300)
	assert.Equal(t, 512, r.vtxBuf.Count())
	grown := r.vtxBuf
	frame(100)
	assert.Same(t, grown, r.vtxBuf)
	assert.Equal(t, 512, r.vtxBuf.Count())
	assert.Len(t, f.dev.LiveBuffers(), 3)
	assert.Equal(t, imbridge.VertexSize, r.vtxBuf.Stride())
	assert.Equal(t, gpu.BufferIndex, r.idxBuf.Kind())
	assert.Equal(t, gpu.BufferIndirectArgs, r.argBuf.Kind())
}

func TestProceduralSkipsEmptyFrames(t *testing.T) {
	f := newFixture(t)
	r := newProceduralRenderer(t, f)

	r.RenderDrawLists(f.cmd, drawData(drawList(0, 0)))
	dd := twoLists()
	dd.FramebufferScale = imbridge.Vec2{}
	r.RenderDrawLists(f.cmd, dd)

	assert.Empty(t, f.cmd.Commands)
	assert.Empty(t, f.dev.Buffers)
}

func TestProceduralShutdownReleasesBuffers(t *testing.T) {
	f := newFixture(t)
	r := newProceduralRenderer(t, f)
	r.RenderDrawLists(f.cmd, twoLists())
	require.Len(t, f.dev.LiveBuffers(), 3)

	r.Shutdown(f.io)

	assert.Empty(t, f.dev.LiveBuffers())
	assert.True(t, f.dev.Materials[0].Destroyed)
	assert.Nil(t, r.vtxBuf)
	assert.Empty(t, f.io.BackendRendererName)
}

func TestTypeText(t *testing.T) {
	var typ Type
	require.NoError(t, typ.UnmarshalText([]byte("Procedural")))
	assert.Equal(t, TypeProcedural, typ)
	assert.Error(t, typ.UnmarshalText([]byte("compute")))
	assert.Equal(t, "mesh", TypeMesh.String())
}

func TestProceduralUntexturedCommandDropsPreviousFrameTexture(t *testing.T) {
	f := newFixture(t)
	r := newProceduralRenderer(t, f)

	r.RenderDrawLists(f.cmd, drawData(drawList(4, 6, cmd(6, f.otherID))))
	require.Len(t, f.cmd.Draws(), 1)
	assert.Equal(t, f.other, f.cmd.Draws()[0].Props.Texture)

	f.cmd.Clear()
	r.RenderDrawLists(f.cmd, drawData(drawList(4, 6, cmd(6, 0))))
	draws := f.cmd.Draws()
	require.Len(t, draws, 1)
	assert.Nil(t, draws[0].Props.Texture)
}
