package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/go-theft-auto/imbridge/gpu"
	"github.com/go-theft-auto/imbridge/gpu/record"
)

// glState is the GL state Execute changes and restores.
type glState struct {
	program        int32
	vertexArray    int32
	texture        int32
	blendSrc       int32
	blendDst       int32
	viewport       [4]int32
	scissorBox     [4]int32
	blendEnabled   bool
	depthEnabled   bool
	cullEnabled    bool
	scissorEnabled bool
}

func saveState() glState {
	var s glState
	gl.GetIntegerv(gl.CURRENT_PROGRAM, &s.program)
	gl.GetIntegerv(gl.VERTEX_ARRAY_BINDING, &s.vertexArray)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.GetIntegerv(gl.TEXTURE_BINDING_2D, &s.texture)
	gl.GetIntegerv(gl.BLEND_SRC_ALPHA, &s.blendSrc)
	gl.GetIntegerv(gl.BLEND_DST_ALPHA, &s.blendDst)
	gl.GetIntegerv(gl.VIEWPORT, &s.viewport[0])
	gl.GetIntegerv(gl.SCISSOR_BOX, &s.scissorBox[0])
	s.blendEnabled = gl.IsEnabled(gl.BLEND)
	s.depthEnabled = gl.IsEnabled(gl.DEPTH_TEST)
	s.cullEnabled = gl.IsEnabled(gl.CULL_FACE)
	s.scissorEnabled = gl.IsEnabled(gl.SCISSOR_TEST)
	return s
}

func (s glState) restore() {
	gl.UseProgram(uint32(s.program))
	gl.BindVertexArray(uint32(s.vertexArray))
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, uint32(s.texture))
	gl.BlendFunc(uint32(s.blendSrc), uint32(s.blendDst))
	gl.Viewport(s.viewport[0], s.viewport[1], s.viewport[2], s.viewport[3])
	gl.Scissor(s.scissorBox[0], s.scissorBox[1], s.scissorBox[2], s.scissorBox[3])
	setEnabled(gl.BLEND, s.blendEnabled)
	setEnabled(gl.DEPTH_TEST, s.depthEnabled)
	setEnabled(gl.CULL_FACE, s.cullEnabled)
	setEnabled(gl.SCISSOR_TEST, s.scissorEnabled)
}

func setEnabled(capability uint32, on bool) {
	if on {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

// Execute replays a command buffer created by NewCommandBuffer. GL state
// touched by the commands is restored afterwards.
func (d *Device) Execute(cb gpu.CommandBuffer) error {
	rcb, ok := cb.(*record.CommandBuffer)
	if !ok {
		return fmt.Errorf("opengl: command buffer %T not created by this device", cb)
	}
	if len(rcb.Commands) == 0 {
		return nil
	}

	saved := saveState()
	defer saved.restore()

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.SCISSOR_TEST)

	viewProj := gpu.Identity()
	for _, c := range rcb.Commands {
		switch c.Op {
		case record.OpSetViewport:
			gl.Viewport(int32(c.Rect.X), int32(c.Rect.Y), int32(c.Rect.W), int32(c.Rect.H))
		case record.OpSetViewProjection:
			viewProj = c.Proj.Mul(c.View)
		case record.OpEnableScissor:
			gl.Enable(gl.SCISSOR_TEST)
			gl.Scissor(int32(c.Rect.X), int32(c.Rect.Y), int32(c.Rect.W), int32(c.Rect.H))
		case record.OpDisableScissor:
			gl.Disable(gl.SCISSOR_TEST)
		case record.OpDrawMesh:
			if err := d.drawMesh(c, viewProj); err != nil {
				return err
			}
		case record.OpDrawProceduralIndirect:
			if err := d.drawProcedural(c, viewProj); err != nil {
				return err
			}
		case record.OpBeginSample, record.OpEndSample:
			// Profiling markers need KHR_debug, absent from 4.1 core.
		}
	}
	return nil
}

func (d *Device) bindCommon(mat gpu.Material, mvp gpu.Mat4, props gpu.PropertyBlock) (*Material, error) {
	m, ok := mat.(*Material)
	if !ok {
		return nil, fmt.Errorf("opengl: material %T not created by this device", mat)
	}
	gl.UseProgram(m.prog.id)
	gl.UniformMatrix4fv(m.prog.mvpLoc, 1, false, &mvp[0])
	gl.Uniform1i(m.prog.texLoc, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	var texID uint32
	if t, ok := props.Texture.(*Texture); ok {
		texID = t.id
	}
	gl.BindTexture(gl.TEXTURE_2D, texID)
	return m, nil
}

func (d *Device) drawMesh(c record.Command, viewProj gpu.Mat4) error {
	mesh, ok := c.Mesh.(*Mesh)
	if !ok {
		return fmt.Errorf("opengl: mesh %T not created by this device", c.Mesh)
	}
	if c.SubMesh < 0 || c.SubMesh >= len(mesh.subMeshes) {
		return fmt.Errorf("opengl: submesh %d out of range (%d)", c.SubMesh, len(mesh.subMeshes))
	}
	if _, err := d.bindCommon(c.Material, viewProj.Mul(c.Transform), c.Props); err != nil {
		return err
	}
	sub := mesh.subMeshes[c.SubMesh]
	gl.BindVertexArray(mesh.vao)
	gl.DrawElementsBaseVertexWithOffset(gl.TRIANGLES, int32(sub.IndexCount), gl.UNSIGNED_SHORT,
		uintptr(sub.IndexStart)*2, int32(sub.BaseVertex))
	return nil
}

// drawProcedural ignores Props.BaseVertex: gl_VertexID already includes the
// base vertex of the indirect command.
func (d *Device) drawProcedural(c record.Command, viewProj gpu.Mat4) error {
	m, err := d.bindCommon(c.Material, viewProj.Mul(c.Transform), c.Props)
	if err != nil {
		return err
	}
	verts, ok := m.buffers[gpu.PropVertices].(*Buffer)
	if !ok || verts.tex == 0 {
		return fmt.Errorf("opengl: procedural material has no vertex buffer")
	}
	indices, ok := c.Indices.(*Buffer)
	if !ok {
		return fmt.Errorf("opengl: index buffer %T not created by this device", c.Indices)
	}
	args, ok := c.Args.(*Buffer)
	if !ok {
		return fmt.Errorf("opengl: argument buffer %T not created by this device", c.Args)
	}

	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_BUFFER, verts.tex)
	gl.Uniform1i(m.prog.verticesLoc, 1)
	gl.ActiveTexture(gl.TEXTURE0)

	if d.emptyVA == 0 {
		gl.GenVertexArrays(1, &d.emptyVA)
	}
	gl.BindVertexArray(d.emptyVA)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, indices.id)
	gl.BindBuffer(gl.DRAW_INDIRECT_BUFFER, args.id)
	gl.DrawElementsIndirect(gl.TRIANGLES, gl.UNSIGNED_SHORT, gl.PtrOffset(c.ArgsOffset))
	gl.BindBuffer(gl.DRAW_INDIRECT_BUFFER, 0)
	return nil
}
