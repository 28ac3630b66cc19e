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

func newMeshRenderer(t *testing.T, f *fixture) (*Mesh, *record.Mesh) {
	t.Helper()
	r := NewMesh(f.dev, f.textures)
	require.NoError(t, r.Initialize(f.io))
	return r, r.mesh.(*record.Mesh)
}

func TestMeshInitialize(t *testing.T) {
	f := newFixture(t)
	r, mesh := newMeshRenderer(t, f)

	assert.True(t, mesh.Dynamic)
	assert.Equal(t, meshRendererName, f.io.BackendRendererName)
	assert.NotZero(t, f.io.BackendFlags&imbridge.BackendRendererHasVtxOffset)
	assert.Equal(t, gpu.ShaderMesh, r.material.Shader())

	r.Shutdown(f.io)
	assert.True(t, mesh.Destroyed)
	assert.True(t, f.dev.Materials[0].Destroyed)
	assert.Empty(t, f.io.BackendRendererName)
	assert.Zero(t, f.io.BackendFlags&imbridge.BackendRendererHasVtxOffset)
}

func TestMeshSubMeshesFollowRunningOffsets(t *testing.T) {
	f := newFixture(t)
	r, mesh := newMeshRenderer(t, f)

	r.RenderDrawLists(f.cmd, twoLists())

	assert.Equal(t, []gpu.SubMesh{
		{Topology: gpu.TopologyTriangles, IndexStart: 0, IndexCount: 300, BaseVertex: 0},
		{Topology: gpu.TopologyTriangles, IndexStart: 300, IndexCount: 150, BaseVertex: 300},
	}, mesh.SubMeshes())
	assert.Equal(t, 2, mesh.SubMeshCount())
	assert.Equal(t, 450, mesh.VertexCount())
	assert.Len(t, mesh.Indices(), 450)
	assert.Len(t, mesh.Vertices(), 450*imbridge.VertexSize)
	assert.Equal(t, gpu.UpdateNoChecks, mesh.LastFlags)
	assert.Equal(t, 1, mesh.Uploads)

	draws := f.cmd.Draws()
	require.Len(t, draws, 2)
	assert.Equal(t, 0, draws[0].SubMesh)
	assert.Equal(t, 1, draws[1].SubMesh)
	assert.Equal(t, f.atlas, draws[0].Props.Texture)
	assert.Equal(t, 1, r.rebinds)
}

func TestMeshClearsOnlyWhenSubMeshCountChanges(t *testing.T) {
	f := newFixture(t)
	r, mesh := newMeshRenderer(t, f)

	r.RenderDrawLists(f.cmd, twoLists())
	assert.Equal(t, 1, mesh.Clears)

	r.RenderDrawLists(f.cmd, twoLists())
	assert.Equal(t, 1, mesh.Clears)

	r.RenderDrawLists(f.cmd, drawData(drawList(4, 6, cmd(6, texture.AtlasID))))
	assert.Equal(t, 2, mesh.Clears)
	assert.Equal(t, 1, mesh.SubMeshCount())
	assert.Equal(t, 3, mesh.Uploads)
}

func TestMeshSkipsEmptyFrames(t *testing.T) {
	tests := []struct {
		name string
		dd   *imbridge.DrawData
	}{
		{"nil", nil},
		{"no vertices", drawData(drawList(0, 0))},
		{"zero width", func() *imbridge.DrawData {
			dd := twoLists()
			dd.DisplaySize.X = 0
			return dd
		}()},
		{"negative height", func() *imbridge.DrawData {
			dd := twoLists()
			dd.DisplaySize.Y = -10
			return dd
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			r, mesh := newMeshRenderer(t, f)

			r.RenderDrawLists(f.cmd, tt.dd)

			assert.Empty(t, f.cmd.Commands)
			assert.Zero(t, mesh.Uploads)
			assert.Zero(t, mesh.Clears)
		})
	}
}

func TestMeshCullingDefersTextureRebind(t *testing.T) {
	f := newFixture(t)
	r, _ := newMeshRenderer(t, f)

	outside := imbridge.DrawCmd{ClipRect: imbridge.Vec4{X: 900, Y: 0, Z: 1000, W: 100}, TextureID: f.otherID, ElemCount: 6}
	below := imbridge.DrawCmd{ClipRect: imbridge.Vec4{X: 0, Y: 700, Z: 100, W: 800}, TextureID: f.otherID, ElemCount: 6, IdxOffset: 6}
	visible := imbridge.DrawCmd{ClipRect: fullClip, TextureID: f.otherID, ElemCount: 6, IdxOffset: 12}
	r.RenderDrawLists(f.cmd, drawData(drawList(12, 18, outside, below, visible)))

	draws := f.cmd.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, 2, draws[0].SubMesh)
	assert.Equal(t, f.other, draws[0].Props.Texture)
	assert.Equal(t, 1, r.rebinds)
	assert.Equal(t, 1, f.cmd.Count(record.OpEnableScissor))
	assert.Equal(t, 1, f.cmd.Count(record.OpDisableScissor))
}

func TestMeshRebindsOnlyOnChange(t *testing.T) {
	f := newFixture(t)
	r, _ := newMeshRenderer(t, f)

	c1 := cmd(6, texture.AtlasID)
	c2 := cmd(6, texture.AtlasID)
	c2.IdxOffset = 6
	c3 := cmd(6, f.otherID)
	c3.IdxOffset = 12
	c4 := cmd(6, texture.AtlasID)
	c4.IdxOffset = 18
	r.RenderDrawLists(f.cmd, drawData(drawList(16, 24, c1, c2, c3, c4)))

	draws := f.cmd.Draws()
	require.Len(t, draws, 4)
	assert.Equal(t, 3, r.rebinds)
	assert.Equal(t, f.atlas, draws[1].Props.Texture)
	assert.Equal(t, f.other, draws[2].Props.Texture)
	assert.Equal(t, f.atlas, draws[3].Props.Texture)
}

func TestMeshDrawState(t *testing.T) {
	f := newFixture(t)
	r, _ := newMeshRenderer(t, f)

	c := imbridge.DrawCmd{ClipRect: imbridge.Vec4{X: 10, Y: 20, Z: 110, W: 70}, TextureID: texture.AtlasID, ElemCount: 6}
	r.RenderDrawLists(f.cmd, drawData(drawList(4, 6, c)))

	ops := make([]record.Op, len(f.cmd.Commands))
	for i, c := range f.cmd.Commands {
		ops[i] = c.Op
	}
	assert.Equal(t, []record.Op{
		record.OpBeginSample, record.OpSetViewport, record.OpSetViewProjection,
		record.OpEnableScissor, record.OpDrawMesh, record.OpDisableScissor, record.OpEndSample,
	}, ops)

	cmds := f.cmd.Commands
	assert.Equal(t, meshExecuteSample, cmds[0].Name)
	assert.Equal(t, gpu.Rect{X: 0, Y: 0, W: 800, H: 600}, cmds[1].Rect)
	assert.Equal(t, gpu.Translate(0.5/800, 0.5/600, 0), cmds[2].View)
	assert.Equal(t, gpu.Ortho(0, 800, 600, 0, 0, 1), cmds[2].Proj)
	assert.Equal(t, gpu.Rect{X: 10, Y: 530, W: 100, H: 50}, cmds[3].Rect)
	assert.Equal(t, gpu.Identity(), cmds[4].Transform)
}

func TestMeshFramebufferScale(t *testing.T) {
	f := newFixture(t)
	r, _ := newMeshRenderer(t, f)

	dd := drawData(drawList(4, 6, imbridge.DrawCmd{ClipRect: imbridge.Vec4{X: 10, Y: 20, Z: 110, W: 70}, TextureID: texture.AtlasID, ElemCount: 6}))
	dd.FramebufferScale = imbridge.Vec2{X: 2, Y: 2}
	r.RenderDrawLists(f.cmd, dd)

	assert.Equal(t, gpu.Rect{X: 0, Y: 0, W: 1600, H: 1200}, f.cmd.Commands[1].Rect)
	assert.Equal(t, gpu.Rect{X: 20, Y: 1060, W: 200, H: 100}, f.cmd.Commands[3].Rect)
	x, y := f.cmd.Commands[4].Transform.Apply(100, 50, 0)
	assert.Equal(t, float32(200), x)
	assert.Equal(t, float32(100), y)
}

func TestMeshUntexturedCommandDropsPreviousFrameTexture(t *testing.T) {
	f := newFixture(t)
	r, _ := newMeshRenderer(t, f)

	r.RenderDrawLists(f.cmd, drawData(drawList(4, 6, cmd(6, f.otherID))))
	require.Len(t, f.cmd.Draws(), 1)
	assert.Equal(t, f.other, f.cmd.Draws()[0].Props.Texture)

	f.cmd.Clear()
	r.RenderDrawLists(f.cmd, drawData(drawList(4, 6, cmd(6, 0))))
	draws := f.cmd.Draws()
	require.Len(t, draws, 1)
	assert.Nil(t, draws[0].Props.Texture)
	assert.Zero(t, r.rebinds)
}

func TestMeshSubPixelDisplayStillDraws(t *testing.T) {
	f := newFixture(t)
	r, _ := newMeshRenderer(t, f)

	dd := drawData(drawList(4, 6, imbridge.DrawCmd{ClipRect: imbridge.Vec4{Z: 0.5, W: 0.5}, TextureID: texture.AtlasID, ElemCount: 6}))
	dd.DisplaySize = imbridge.Vec2{X: 0.5, Y: 0.5}
	r.RenderDrawLists(f.cmd, dd)

	require.Len(t, f.cmd.Draws(), 1)
	assert.Equal(t, gpu.Rect{W: 0.5, H: 0.5}, f.cmd.Commands[1].Rect)
}
