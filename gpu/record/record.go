// Package record implements the gpu interfaces in memory. Every resource keeps
// its CPU-side contents and every command buffer keeps the commands recorded
// into it, so a frame can be inspected without a GPU.
package record

import (
	"encoding/binary"
	"fmt"

	"github.com/go-theft-auto/imbridge/gpu"
)

// Device is an in-memory gpu.Device.
type Device struct {
	Caps gpu.Capabilities

	Textures       []*Texture
	Meshes         []*Mesh
	Buffers        []*Buffer
	Materials      []*Material
	CommandBuffers []*CommandBuffer
}

// NewDevice returns a device reporting shader level 50.
func NewDevice() *Device {
	return &Device{Caps: gpu.Capabilities{ShaderLevel: 50, MaxTextureSize: 8192}}
}

func (d *Device) Capabilities() gpu.Capabilities { return d.Caps }

func (d *Device) NewTexture(desc gpu.TextureDesc) (gpu.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("record: invalid texture size %dx%d", desc.Width, desc.Height)
	}
	if d.Caps.MaxTextureSize > 0 && (desc.Width > d.Caps.MaxTextureSize || desc.Height > d.Caps.MaxTextureSize) {
		return nil, fmt.Errorf("record: texture %dx%d exceeds max size %d", desc.Width, desc.Height, d.Caps.MaxTextureSize)
	}
	t := &Texture{
		Desc:   desc,
		pixels: make([]byte, desc.Width*desc.Height*desc.Format.BytesPerPixel()),
	}
	d.Textures = append(d.Textures, t)
	return t, nil
}

func (d *Device) NewMesh(name string) (gpu.Mesh, error) {
	m := &Mesh{name: name, subMeshCount: 1}
	d.Meshes = append(d.Meshes, m)
	return m, nil
}

func (d *Device) NewBuffer(kind gpu.BufferKind, count, stride int) (gpu.Buffer, error) {
	if count <= 0 || stride <= 0 {
		return nil, fmt.Errorf("record: invalid buffer %d x %d", count, stride)
	}
	b := &Buffer{kind: kind, count: count, stride: stride, data: make([]byte, count*stride)}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

func (d *Device) NewMaterial(shader gpu.ShaderKind) (gpu.Material, error) {
	m := &Material{shader: shader, Buffers: make(map[string]gpu.Buffer)}
	d.Materials = append(d.Materials, m)
	return m, nil
}

func (d *Device) NewCommandBuffer(name string) gpu.CommandBuffer {
	cb := &CommandBuffer{name: name}
	d.CommandBuffers = append(d.CommandBuffers, cb)
	return cb
}

func (d *Device) ReleaseCommandBuffer(cb gpu.CommandBuffer) {
	if rcb, ok := cb.(*CommandBuffer); ok {
		rcb.Released = true
		rcb.Clear()
	}
}

// LiveBuffers returns the buffers that have not been released.
func (d *Device) LiveBuffers() []*Buffer {
	var live []*Buffer
	for _, b := range d.Buffers {
		if !b.Released {
			live = append(live, b)
		}
	}
	return live
}

// Texture is an in-memory texture.
type Texture struct {
	Desc      gpu.TextureDesc
	Applied   int
	Destroyed bool

	pixels []byte
}

func (t *Texture) Width() int                { return t.Desc.Width }
func (t *Texture) Height() int               { return t.Desc.Height }
func (t *Texture) Format() gpu.TextureFormat { return t.Desc.Format }
func (t *Texture) Pixels() []byte            { return t.pixels }
func (t *Texture) Apply() error              { t.Applied++; return nil }
func (t *Texture) Destroy()                  { t.Destroyed = true }

// Mesh is an in-memory dynamic mesh.
type Mesh struct {
	Dynamic   bool
	Clears    int
	Uploads   int
	LastFlags gpu.UpdateFlags
	Destroyed bool

	name         string
	attrs        []gpu.VertexAttribute
	vertexCount  int
	vertices     []byte
	indexFormat  gpu.IndexFormat
	indices      []uint16
	subMeshCount int
	subMeshes    []gpu.SubMesh
}

func (m *Mesh) Name() string { return m.name }
func (m *Mesh) MarkDynamic() { m.Dynamic = true }

func (m *Mesh) Clear(keepVertexLayout bool) {
	m.Clears++
	m.vertices = nil
	m.vertexCount = 0
	m.indices = nil
	m.subMeshes = nil
	m.subMeshCount = 1
	if !keepVertexLayout {
		m.attrs = nil
	}
}

func (m *Mesh) SubMeshCount() int { return m.subMeshCount }

func (m *Mesh) SetSubMeshCount(n int) {
	m.subMeshCount = n
	if len(m.subMeshes) > n {
		m.subMeshes = m.subMeshes[:n]
	}
}

func (m *Mesh) SetVertexBufferParams(count int, attrs []gpu.VertexAttribute) {
	m.attrs = append(m.attrs[:0], attrs...)
	m.vertexCount = count
	size := count * gpu.Stride(attrs)
	if cap(m.vertices) < size {
		m.vertices = make([]byte, size)
	}
	m.vertices = m.vertices[:size]
}

func (m *Mesh) SetIndexBufferParams(count int, format gpu.IndexFormat) {
	m.indexFormat = format
	if cap(m.indices) < count {
		m.indices = make([]uint16, count)
	}
	m.indices = m.indices[:count]
}

func (m *Mesh) SetVertexBufferData(data []byte, dstVertex int, flags gpu.UpdateFlags) {
	stride := gpu.Stride(m.attrs)
	off := dstVertex * stride
	if off+len(data) > len(m.vertices) {
		panic(fmt.Sprintf("record: vertex write [%d:%d] exceeds %d bytes", off, off+len(data), len(m.vertices)))
	}
	copy(m.vertices[off:], data)
	m.LastFlags = flags
}

func (m *Mesh) SetIndexBufferData(data []uint16, dstIndex int, flags gpu.UpdateFlags) {
	if dstIndex+len(data) > len(m.indices) {
		panic(fmt.Sprintf("record: index write [%d:%d] exceeds %d indices", dstIndex, dstIndex+len(data), len(m.indices)))
	}
	copy(m.indices[dstIndex:], data)
	m.LastFlags = flags
}

func (m *Mesh) SetSubMeshes(desc []gpu.SubMesh, flags gpu.UpdateFlags) {
	m.subMeshes = append(m.subMeshes[:0], desc...)
	m.subMeshCount = len(desc)
	m.LastFlags = flags
}

func (m *Mesh) Upload() error { m.Uploads++; return nil }
func (m *Mesh) Destroy()      { m.Destroyed = true }

// VertexCount returns the vertex count set by SetVertexBufferParams.
func (m *Mesh) VertexCount() int { return m.vertexCount }

// Vertices returns the raw vertex bytes.
func (m *Mesh) Vertices() []byte { return m.vertices }

// Indices returns the index data.
func (m *Mesh) Indices() []uint16 { return m.indices }

// SubMeshes returns the submesh descriptors.
func (m *Mesh) SubMeshes() []gpu.SubMesh { return m.subMeshes }

// Buffer is an in-memory GPU buffer.
type Buffer struct {
	Released bool

	kind   gpu.BufferKind
	count  int
	stride int
	data   []byte
}

func (b *Buffer) Kind() gpu.BufferKind { return b.kind }
func (b *Buffer) Count() int           { return b.count }
func (b *Buffer) Stride() int          { return b.stride }
func (b *Buffer) Release()             { b.Released = true }

func (b *Buffer) SetData(data []byte, dstElem int) {
	off := dstElem * b.stride
	if off+len(data) > len(b.data) {
		panic(fmt.Sprintf("record: buffer write [%d:%d] exceeds %d bytes", off, off+len(data), len(b.data)))
	}
	copy(b.data[off:], data)
}

// Bytes returns the buffer contents.
func (b *Buffer) Bytes() []byte { return b.data }

// Int32s decodes the buffer as little-endian int32 values.
func (b *Buffer) Int32s() []int32 {
	out := make([]int32, len(b.data)/4)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(b.data[i*4:]))
	}
	return out
}

// Material is an in-memory material.
type Material struct {
	Buffers   map[string]gpu.Buffer
	Destroyed bool

	shader gpu.ShaderKind
}

func (m *Material) Shader() gpu.ShaderKind                { return m.shader }
func (m *Material) SetBuffer(name string, buf gpu.Buffer) { m.Buffers[name] = buf }
func (m *Material) Destroy()                              { m.Destroyed = true }
