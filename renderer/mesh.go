package renderer

import (
	"fmt"

	"github.com/go-theft-auto/imbridge"
	"github.com/go-theft-auto/imbridge/gpu"
	"github.com/go-theft-auto/imbridge/texture"
)

const (
	meshName          = "imbridge mesh"
	meshRendererName  = "imbridge_mesh"
	meshExecuteSample = "imbridge.Mesh.ExecuteDrawCommands"
)

// Mesh renders through a single dynamic mesh rebuilt every frame, one
// submesh per draw command.
type Mesh struct {
	dev      gpu.Device
	textures *texture.Registry

	material  gpu.Material
	mesh      gpu.Mesh
	subMeshes []gpu.SubMesh
	props     gpu.PropertyBlock

	rebinds int // texture property changes in the last frame
}

// NewMesh creates an uninitialized mesh renderer.
func NewMesh(dev gpu.Device, textures *texture.Registry) *Mesh {
	return &Mesh{dev: dev, textures: textures}
}

func (r *Mesh) Initialize(io *imbridge.IO) error {
	mat, err := r.dev.NewMaterial(gpu.ShaderMesh)
	if err != nil {
		return fmt.Errorf("mesh renderer: create material: %w", err)
	}
	mesh, err := r.dev.NewMesh(meshName)
	if err != nil {
		mat.Destroy()
		return fmt.Errorf("mesh renderer: create mesh: %w", err)
	}
	mesh.MarkDynamic()
	r.material, r.mesh = mat, mesh

	io.BackendRendererName = meshRendererName
	io.BackendFlags |= imbridge.BackendRendererHasVtxOffset
	return nil
}

func (r *Mesh) Shutdown(io *imbridge.IO) {
	io.BackendRendererName = ""
	io.BackendFlags &^= imbridge.BackendRendererHasVtxOffset

	if r.mesh != nil {
		r.mesh.Destroy()
		r.mesh = nil
	}
	if r.material != nil {
		r.material.Destroy()
		r.material = nil
	}
	r.props = gpu.PropertyBlock{}
}

func (r *Mesh) RenderDrawLists(cmd gpu.CommandBuffer, dd *imbridge.DrawData) {
	f, ok := newFrame(dd)
	if !ok {
		return
	}
	if err := r.updateMesh(dd); err != nil {
		rendererLogger.Error("mesh update failed, frame skipped", "err", err)
		return
	}

	cmd.BeginSample(meshExecuteSample)
	r.createDrawCommands(cmd, dd, f)
	cmd.EndSample(meshExecuteSample)
}

// updateMesh re-uploads all vertex and index data and rebuilds the submeshes.
func (r *Mesh) updateMesh(dd *imbridge.DrawData) error {
	subMeshCount := dd.CmdCount()
	if r.mesh.SubMeshCount() != subMeshCount {
		// Changing the submesh count of a filled mesh is unsafe.
		r.mesh.Clear(true)
		r.mesh.SetSubMeshCount(subMeshCount)
	}
	r.mesh.SetVertexBufferParams(dd.TotalVtxCount, vertexAttributes)
	r.mesh.SetIndexBufferParams(dd.TotalIdxCount, gpu.IndexUInt16)

	r.subMeshes = r.subMeshes[:0]
	vtxOf, idxOf := 0, 0
	for _, dl := range dd.CmdLists {
		r.mesh.SetVertexBufferData(imbridge.VertexBytes(dl.VtxBuffer), vtxOf, gpu.UpdateNoChecks)
		r.mesh.SetIndexBufferData(dl.IdxBuffer, idxOf, gpu.UpdateNoChecks)

		for _, c := range dl.CmdBuffer {
			r.subMeshes = append(r.subMeshes, gpu.SubMesh{
				Topology:   gpu.TopologyTriangles,
				IndexStart: idxOf + int(c.IdxOffset),
				IndexCount: int(c.ElemCount),
				BaseVertex: vtxOf + int(c.VtxOffset),
			})
		}
		vtxOf += len(dl.VtxBuffer)
		idxOf += len(dl.IdxBuffer)
	}
	r.mesh.SetSubMeshes(r.subMeshes, gpu.UpdateNoChecks)
	return r.mesh.Upload()
}

func (r *Mesh) createDrawCommands(cmd gpu.CommandBuffer, dd *imbridge.DrawData, f frame) {
	var prevTex texture.ID
	// Handle 0 binds no texture, even if one was bound last frame.
	r.props.Texture = nil
	r.rebinds = 0
	transform := f.transform()

	f.setup(cmd)
	subOf := 0
	for _, dl := range dd.CmdLists {
		for _, c := range dl.CmdBuffer {
			sub := subOf
			subOf++

			clip, visible := f.project(c.ClipRect)
			if !visible {
				continue
			}
			if c.TextureID != prevTex {
				prevTex = c.TextureID
				r.props.Texture = r.textures.Texture(c.TextureID)
				r.rebinds++
			}
			cmd.EnableScissorRect(f.scissor(clip))
			cmd.DrawMesh(r.mesh, transform, r.material, sub, r.props)
		}
	}
	cmd.DisableScissorRect()
}
