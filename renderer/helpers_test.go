package renderer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/imbridge"
	"github.com/go-theft-auto/imbridge/gpu"
	"github.com/go-theft-auto/imbridge/gpu/record"
	"github.com/go-theft-auto/imbridge/texture"
)

var fullClip = imbridge.Vec4{X: 0, Y: 0, Z: 800, W: 600}

type fixture struct {
	dev      *record.Device
	cmd      *record.CommandBuffer
	textures *texture.Registry
	atlas    gpu.Texture
	other    gpu.Texture
	otherID  texture.ID
	io       *imbridge.IO
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dev := record.NewDevice()
	atlas, err := dev.NewTexture(gpu.TextureDesc{Name: "atlas", Width: 8, Height: 8})
	require.NoError(t, err)
	other, err := dev.NewTexture(gpu.TextureDesc{Name: "other", Width: 4, Height: 4})
	require.NoError(t, err)

	reg := texture.NewRegistry()
	reg.SetAtlas(atlas)
	reg.PrepareFrame()
	return &fixture{
		dev:      dev,
		cmd:      record.NewCommandBuffer("test"),
		textures: reg,
		atlas:    atlas,
		other:    other,
		otherID:  reg.ID(other),
		io:       imbridge.NewContext().IO(),
	}
}

func drawList(vtx, idx int, cmds ...imbridge.DrawCmd) *imbridge.DrawList {
	return &imbridge.DrawList{
		VtxBuffer: make([]imbridge.Vertex, vtx),
		IdxBuffer: make([]uint16, idx),
		CmdBuffer: cmds,
	}
}

func drawData(lists ...*imbridge.DrawList) *imbridge.DrawData {
	dd := &imbridge.DrawData{
		Valid:            true,
		CmdLists:         lists,
		DisplaySize:      imbridge.Vec2{X: 800, Y: 600},
		FramebufferScale: imbridge.Vec2{X: 1, Y: 1},
	}
	for _, dl := range lists {
		dd.TotalVtxCount += len(dl.VtxBuffer)
		dd.TotalIdxCount += len(dl.IdxBuffer)
	}
	return dd
}

func cmd(elems uint32, tex texture.ID) imbridge.DrawCmd {
	return imbridge.DrawCmd{ClipRect: fullClip, TextureID: tex, ElemCount: elems}
}

// twoLists is 300 vertices/indices in one command, then 150 in another list.
func twoLists() *imbridge.DrawData {
	return drawData(
		drawList(300, 300, cmd(300, texture.AtlasID)),
		drawList(150, 150, cmd(150, texture.AtlasID)),
	)
}
