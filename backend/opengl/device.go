// Package opengl implements the gpu interfaces with OpenGL 4.1 core.
//
// Command buffers are recorded with gpu/record and replayed by Execute, so
// the host decides when the GUI is drawn relative to the rest of its frame.
// Every call must happen on the thread owning the GL context.
package opengl

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/go-theft-auto/imbridge/gpu"
	"github.com/go-theft-auto/imbridge/gpu/record"
	"github.com/go-theft-auto/imbridge/internal/logging"
)

var (
	_ gpu.Device   = (*Device)(nil)
	_ gpu.Texture  = (*Texture)(nil)
	_ gpu.Mesh     = (*Mesh)(nil)
	_ gpu.Buffer   = (*Buffer)(nil)
	_ gpu.Material = (*Material)(nil)
)

// Device creates GL resources. gl.Init must have been called with a
// current context.
type Device struct {
	caps    gpu.Capabilities
	log     *slog.Logger
	progs   map[gpu.ShaderKind]*program
	emptyVA uint32 // vertex array for attribute-less procedural draws
}

// NewDevice queries the current context's capabilities.
func NewDevice() *Device {
	var major, minor, maxTex int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	gl.GetIntegerv(gl.MINOR_VERSION, &minor)
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxTex)
	d := &Device{
		caps:  gpu.Capabilities{ShaderLevel: shaderLevel(int(major), int(minor)), MaxTextureSize: int(maxTex)},
		log:   logging.Logger("opengl"),
		progs: make(map[gpu.ShaderKind]*program),
	}
	d.log.Debug("device created", "gl", fmt.Sprintf("%d.%d", major, minor),
		"shaderLevel", d.caps.ShaderLevel, "maxTextureSize", maxTex)
	return d
}

// shaderLevel maps a GL version to a shader level. Indirect indexed draws
// arrive with GL 4.0.
func shaderLevel(major, minor int) int {
	switch {
	case major > 4 || major == 4 && minor >= 3:
		return 50
	case major == 4:
		return 45
	case major == 3 && minor >= 3:
		return 40
	default:
		return 30
	}
}

func (d *Device) Capabilities() gpu.Capabilities { return d.caps }

func (d *Device) NewTexture(desc gpu.TextureDesc) (gpu.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("opengl: invalid texture size %dx%d", desc.Width, desc.Height)
	}
	if desc.Width > d.caps.MaxTextureSize || desc.Height > d.caps.MaxTextureSize {
		return nil, fmt.Errorf("opengl: texture %dx%d exceeds max size %d", desc.Width, desc.Height, d.caps.MaxTextureSize)
	}
	t := &Texture{desc: desc, pixels: make([]byte, desc.Width*desc.Height*desc.Format.BytesPerPixel())}
	gl.GenTextures(1, &t.id)
	return t, nil
}

func (d *Device) NewMesh(name string) (gpu.Mesh, error) {
	return newMesh(name), nil
}

func (d *Device) NewBuffer(kind gpu.BufferKind, count, stride int) (gpu.Buffer, error) {
	if count <= 0 || stride <= 0 {
		return nil, fmt.Errorf("opengl: invalid buffer %d x %d", count, stride)
	}
	return newBuffer(kind, count, stride), nil
}

// NewMaterial returns a material using a built-in program, compiling it on
// first use.
func (d *Device) NewMaterial(shader gpu.ShaderKind) (gpu.Material, error) {
	prog, err := d.program(shader)
	if err != nil {
		return nil, err
	}
	return &Material{shader: shader, prog: prog, buffers: make(map[string]gpu.Buffer)}, nil
}

func (d *Device) program(shader gpu.ShaderKind) (*program, error) {
	if p, ok := d.progs[shader]; ok {
		return p, nil
	}
	var src string
	switch shader {
	case gpu.ShaderMesh:
		src = meshVertexShaderSource
	case gpu.ShaderProcedural:
		if d.caps.ShaderLevel < gpu.MinProceduralShaderLevel {
			return nil, fmt.Errorf("opengl: procedural shader needs GL 4.0")
		}
		src = proceduralVertexShaderSource
	default:
		return nil, fmt.Errorf("opengl: unknown shader %d", shader)
	}
	p, err := newProgram(src)
	if err != nil {
		return nil, fmt.Errorf("opengl: %w", err)
	}
	d.progs[shader] = p
	return p, nil
}

// NewCommandBuffer returns a recording command buffer for Execute.
func (d *Device) NewCommandBuffer(name string) gpu.CommandBuffer {
	return record.NewCommandBuffer(name)
}

func (d *Device) ReleaseCommandBuffer(cb gpu.CommandBuffer) {
	if rcb, ok := cb.(*record.CommandBuffer); ok {
		rcb.Released = true
		rcb.Clear()
	}
}

// Delete releases the programs. Resources handed out stay owned by callers.
func (d *Device) Delete() {
	for k, p := range d.progs {
		p.delete()
		delete(d.progs, k)
	}
	if d.emptyVA != 0 {
		gl.DeleteVertexArrays(1, &d.emptyVA)
		d.emptyVA = 0
	}
}
