package opengl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/go-theft-auto/imbridge/gpu"
)

// textureFormat returns the internal format, pixel format and filter of desc.
func textureFormat(desc gpu.TextureDesc) (internal int32, format uint32, filter int32) {
	internal, format = gl.RGBA8, gl.RGBA
	if desc.Format == gpu.FormatR8 {
		internal, format = gl.R8, gl.RED
	}
	filter = gl.NEAREST
	if desc.Filter == gpu.FilterBilinear {
		filter = gl.LINEAR
	}
	return internal, format, filter
}

// Texture is a GL 2D texture with a CPU-side pixel store, rows bottom-up
// like GL expects them.
type Texture struct {
	desc   gpu.TextureDesc
	id     uint32
	pixels []byte
}

func (t *Texture) Width() int                { return t.desc.Width }
func (t *Texture) Height() int               { return t.desc.Height }
func (t *Texture) Format() gpu.TextureFormat { return t.desc.Format }
func (t *Texture) Pixels() []byte            { return t.pixels }

// ID returns the GL texture name.
func (t *Texture) ID() uint32 { return t.id }

func (t *Texture) Apply() error {
	if t.id == 0 {
		return fmt.Errorf("texture %q destroyed", t.desc.Name)
	}
	internal, format, filter := textureFormat(t.desc)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(t.desc.Width), int32(t.desc.Height), 0,
		format, gl.UNSIGNED_BYTE, gl.Ptr(t.pixels))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

func (t *Texture) Destroy() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// attribPointer is one glVertexAttribPointer call.
type attribPointer struct {
	location   uint32
	size       int32
	xtype      uint32
	normalized bool
	offset     uintptr
}

// attribPointers lays out attrs as an interleaved vertex. A single packed
// uint32 becomes four normalized bytes, the GUI vertex color.
func attribPointers(attrs []gpu.VertexAttribute) (ptrs []attribPointer, stride int32) {
	var offset uintptr
	for _, a := range attrs {
		p := attribPointer{location: uint32(a.Semantic), offset: offset, size: int32(a.Dimension), xtype: gl.FLOAT}
		if a.Format == gpu.AttrUInt32 {
			if a.Dimension == 1 {
				p.size, p.xtype, p.normalized = 4, gl.UNSIGNED_BYTE, true
			} else {
				p.xtype = gl.UNSIGNED_INT
			}
		}
		ptrs = append(ptrs, p)
		offset += uintptr(4 * a.Dimension)
	}
	return ptrs, int32(offset)
}

// Mesh is a GL vertex array with one vertex and one index buffer.
type Mesh struct {
	name      string
	vao       uint32
	vbo, ebo  uint32
	usage     uint32
	attrs     []gpu.VertexAttribute
	layoutSet bool

	vertices     []byte
	indices      []uint16
	subMeshCount int
	subMeshes    []gpu.SubMesh
}

func newMesh(name string) *Mesh {
	m := &Mesh{name: name, usage: gl.STATIC_DRAW, subMeshCount: 1}
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.GenBuffers(1, &m.ebo)
	return m
}

func (m *Mesh) Name() string { return m.name }
func (m *Mesh) MarkDynamic() { m.usage = gl.STREAM_DRAW }

func (m *Mesh) Clear(keepVertexLayout bool) {
	m.vertices = m.vertices[:0]
	m.indices = m.indices[:0]
	m.subMeshes = m.subMeshes[:0]
	m.subMeshCount = 1
	if !keepVertexLayout {
		m.attrs = nil
		m.layoutSet = false
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
	if !sameLayout(m.attrs, attrs) {
		m.attrs = append(m.attrs[:0], attrs...)
		m.layoutSet = false
	}
	size := count * gpu.Stride(attrs)
	if cap(m.vertices) < size {
		m.vertices = make([]byte, size)
	}
	m.vertices = m.vertices[:size]
}

func (m *Mesh) SetIndexBufferParams(count int, _ gpu.IndexFormat) {
	if cap(m.indices) < count {
		m.indices = make([]uint16, count)
	}
	m.indices = m.indices[:count]
}

func (m *Mesh) SetVertexBufferData(data []byte, dstVertex int, _ gpu.UpdateFlags) {
	copy(m.vertices[dstVertex*gpu.Stride(m.attrs):], data)
}

func (m *Mesh) SetIndexBufferData(data []uint16, dstIndex int, _ gpu.UpdateFlags) {
	copy(m.indices[dstIndex:], data)
}

func (m *Mesh) SetSubMeshes(desc []gpu.SubMesh, _ gpu.UpdateFlags) {
	m.subMeshes = append(m.subMeshes[:0], desc...)
	m.subMeshCount = len(desc)
}

// Upload sends the CPU-side data to the GL buffers.
func (m *Mesh) Upload() error {
	if m.vao == 0 {
		return fmt.Errorf("mesh %q destroyed", m.name)
	}
	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.vertices), glPtr(m.vertices), m.usage)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.indices)*2, glPtr(m.indices), m.usage)

	if !m.layoutSet {
		ptrs, stride := attribPointers(m.attrs)
		for _, p := range ptrs {
			gl.VertexAttribPointerWithOffset(p.location, p.size, p.xtype, p.normalized, stride, p.offset)
			gl.EnableVertexAttribArray(p.location)
		}
		m.layoutSet = true
	}
	gl.BindVertexArray(0)
	return nil
}

func (m *Mesh) Destroy() {
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	m.vao, m.vbo, m.ebo = 0, 0, 0
}

func sameLayout(a, b []gpu.VertexAttribute) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// uploadTarget is where buffers are bound for writes, independent of how
// they are bound for drawing.
const uploadTarget = gl.COPY_WRITE_BUFFER

// Buffer is a GL buffer object. Structured buffers are also exposed to
// shaders as an R32UI buffer texture.
type Buffer struct {
	kind   gpu.BufferKind
	count  int
	stride int
	id     uint32
	tex    uint32
}

func newBuffer(kind gpu.BufferKind, count, stride int) *Buffer {
	b := &Buffer{kind: kind, count: count, stride: stride}
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(uploadTarget, b.id)
	gl.BufferData(uploadTarget, count*stride, nil, gl.STREAM_DRAW)
	gl.BindBuffer(uploadTarget, 0)
	if kind == gpu.BufferStructured {
		gl.GenTextures(1, &b.tex)
		gl.BindTexture(gl.TEXTURE_BUFFER, b.tex)
		gl.TexBuffer(gl.TEXTURE_BUFFER, gl.R32UI, b.id)
		gl.BindTexture(gl.TEXTURE_BUFFER, 0)
	}
	return b
}

func (b *Buffer) Kind() gpu.BufferKind { return b.kind }
func (b *Buffer) Count() int           { return b.count }
func (b *Buffer) Stride() int          { return b.stride }

func (b *Buffer) SetData(data []byte, dstElem int) {
	if len(data) == 0 || b.id == 0 {
		return
	}
	gl.BindBuffer(uploadTarget, b.id)
	gl.BufferSubData(uploadTarget, dstElem*b.stride, len(data), gl.Ptr(data))
	gl.BindBuffer(uploadTarget, 0)
}

func (b *Buffer) Release() {
	if b.tex != 0 {
		gl.DeleteTextures(1, &b.tex)
		b.tex = 0
	}
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}

// Material is a built-in program plus its buffer bindings.
type Material struct {
	shader  gpu.ShaderKind
	prog    *program
	buffers map[string]gpu.Buffer
}

func (m *Material) Shader() gpu.ShaderKind { return m.shader }

func (m *Material) SetBuffer(name string, b gpu.Buffer) {
	m.buffers[name] = b
}

// Destroy drops the bindings. Programs are shared and owned by the Device.
func (m *Material) Destroy() {
	clear(m.buffers)
}

// glPtr is gl.Ptr that accepts empty slices.
func glPtr[T any](s []T) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return gl.Ptr(s)
}
