package renderer

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/go-theft-auto/imbridge"
	"github.com/go-theft-auto/imbridge/gpu"
	"github.com/go-theft-auto/imbridge/texture"
)

const (
	proceduralRendererName  = "imbridge_procedural"
	proceduralExecuteSample = "imbridge.Procedural.ExecuteDrawCommands"

	argsPerCmd  = 5 // index count, instance count, start index, base vertex, start instance
	argsCmdSize = argsPerCmd * 4
)

// Procedural renders with indirect draws that pull vertices from a
// structured buffer. It needs shader level gpu.MinProceduralShaderLevel.
type Procedural struct {
	dev      gpu.Device
	textures *texture.Registry

	material gpu.Material
	vtxBuf   gpu.Buffer
	idxBuf   gpu.Buffer
	argBuf   gpu.Buffer
	argBytes []byte
	props    gpu.PropertyBlock
}

// NewProcedural fails with ErrUnsupportedDevice below the required shader level.
func NewProcedural(dev gpu.Device, textures *texture.Registry) (*Procedural, error) {
	if lvl := dev.Capabilities().ShaderLevel; lvl < gpu.MinProceduralShaderLevel {
		return nil, fmt.Errorf("%w: procedural renderer needs shader level %d, device has %d",
			ErrUnsupportedDevice, gpu.MinProceduralShaderLevel, lvl)
	}
	return &Procedural{dev: dev, textures: textures}, nil
}

func (r *Procedural) Initialize(io *imbridge.IO) error {
	mat, err := r.dev.NewMaterial(gpu.ShaderProcedural)
	if err != nil {
		return fmt.Errorf("procedural renderer: create material: %w", err)
	}
	r.material = mat

	io.BackendRendererName = proceduralRendererName
	io.BackendFlags |= imbridge.BackendRendererHasVtxOffset
	return nil
}

func (r *Procedural) Shutdown(io *imbridge.IO) {
	io.BackendRendererName = ""
	io.BackendFlags &^= imbridge.BackendRendererHasVtxOffset

	if r.material != nil {
		r.material.Destroy()
		r.material = nil
	}
	for _, b := range []*gpu.Buffer{&r.vtxBuf, &r.idxBuf, &r.argBuf} {
		if *b != nil {
			(*b).Release()
			*b = nil
		}
	}
	r.props = gpu.PropertyBlock{}
}

func (r *Procedural) RenderDrawLists(cmd gpu.CommandBuffer, dd *imbridge.DrawData) {
	f, ok := newFrame(dd)
	if !ok {
		return
	}
	if err := r.updateBuffers(dd); err != nil {
		rendererLogger.Error("buffer update failed, frame skipped", "err", err)
		return
	}

	cmd.BeginSample(proceduralExecuteSample)
	r.createDrawCommands(cmd, dd, f)
	cmd.EndSample(proceduralExecuteSample)
}

// updateBuffers grows the buffers as needed and uploads vertices, indices
// and one argument record per draw command.
func (r *Procedural) updateBuffers(dd *imbridge.DrawData) error {
	cmdCount := dd.CmdCount()

	var err error
	if r.vtxBuf, err = gpu.EnsureBuffer(r.dev, r.vtxBuf, gpu.BufferStructured, dd.TotalVtxCount, imbridge.VertexSize); err != nil {
		return fmt.Errorf("vertex buffer: %w", err)
	}
	if r.idxBuf, err = gpu.EnsureBuffer(r.dev, r.idxBuf, gpu.BufferIndex, dd.TotalIdxCount, 2); err != nil {
		return fmt.Errorf("index buffer: %w", err)
	}
	if r.argBuf, err = gpu.EnsureBuffer(r.dev, r.argBuf, gpu.BufferIndirectArgs, cmdCount*argsPerCmd, 4); err != nil {
		return fmt.Errorf("argument buffer: %w", err)
	}

	r.argBytes = r.argBytes[:0]
	vtxOf, idxOf := 0, 0
	for _, dl := range dd.CmdLists {
		r.vtxBuf.SetData(imbridge.VertexBytes(dl.VtxBuffer), vtxOf)
		r.idxBuf.SetData(indexBytes(dl.IdxBuffer), idxOf)

		for _, c := range dl.CmdBuffer {
			r.argBytes = binary.LittleEndian.AppendUint32(r.argBytes, c.ElemCount)
			r.argBytes = binary.LittleEndian.AppendUint32(r.argBytes, 1)
			r.argBytes = binary.LittleEndian.AppendUint32(r.argBytes, uint32(idxOf)+c.IdxOffset)
			r.argBytes = binary.LittleEndian.AppendUint32(r.argBytes, uint32(vtxOf)+c.VtxOffset)
			r.argBytes = binary.LittleEndian.AppendUint32(r.argBytes, 0)
		}
		vtxOf += len(dl.VtxBuffer)
		idxOf += len(dl.IdxBuffer)
	}
	if len(r.argBytes) > 0 {
		r.argBuf.SetData(r.argBytes, 0)
	}
	return nil
}

func (r *Procedural) createDrawCommands(cmd gpu.CommandBuffer, dd *imbridge.DrawData, f frame) {
	var prevTex texture.ID
	// Handle 0 binds no texture, even if one was bound last frame.
	r.props.Texture = nil
	transform := f.transform()

	r.material.SetBuffer(gpu.PropVertices, r.vtxBuf)
	f.setup(cmd)

	vtxOf, argOf := 0, 0
	for _, dl := range dd.CmdLists {
		for _, c := range dl.CmdBuffer {
			off := argOf
			argOf += argsCmdSize

			clip, visible := f.project(c.ClipRect)
			if !visible {
				continue
			}
			if c.TextureID != prevTex {
				prevTex = c.TextureID
				r.props.Texture = r.textures.Texture(c.TextureID)
			}
			// Indirect draws do not add the base vertex to the vertex id.
			r.props.BaseVertex = vtxOf + int(c.VtxOffset)
			cmd.EnableScissorRect(f.scissor(clip))
			cmd.DrawProceduralIndirect(r.idxBuf, transform, r.material, gpu.TopologyTriangles, r.argBuf, off, r.props)
		}
		vtxOf += len(dl.VtxBuffer)
	}
	cmd.DisableScissorRect()
}

// indexBytes views 16-bit indices as raw bytes without copying.
func indexBytes(idx []uint16) []byte {
	if len(idx) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(idx))), len(idx)*2)
}
