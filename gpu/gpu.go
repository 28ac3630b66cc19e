// Package gpu describes the host render pipeline the GUI renderers submit to.
//
// The interfaces mirror what a game engine exposes to a render integration:
// textures with CPU-side pixel stores, dynamic meshes with submeshes, raw
// GPU buffers, materials and a command buffer that records viewport, scissor
// and draw state. Backends live in backend/opengl (real GPU) and gpu/record
// (in-memory, used headless and in tests).
//
// All resources are owned by a single goroutine; nothing here is safe for
// concurrent use.
package gpu

// TextureFormat is the pixel format of a texture.
type TextureFormat int

const (
	FormatRGBA32 TextureFormat = iota // 4 bytes per pixel
	FormatR8                          // 1 byte per pixel
)

// BytesPerPixel returns the pixel size of the format.
func (f TextureFormat) BytesPerPixel() int {
	if f == FormatR8 {
		return 1
	}
	return 4
}

// FilterMode selects texture sampling.
type FilterMode int

const (
	FilterPoint FilterMode = iota
	FilterBilinear
)

// TextureDesc describes a texture to create.
type TextureDesc struct {
	Name   string
	Width  int
	Height int
	Format TextureFormat
	Filter FilterMode
}

// Texture is a 2D texture. Pixels returns the CPU-side store, rows bottom-up;
// Apply uploads it to the GPU.
type Texture interface {
	Width() int
	Height() int
	Format() TextureFormat
	Pixels() []byte
	Apply() error
	Destroy()
}

// Semantic names a vertex attribute slot.
type Semantic int

const (
	SemanticPosition Semantic = iota
	SemanticTexCoord0
	SemanticTexCoord1
)

// AttributeFormat is the component type of a vertex attribute.
type AttributeFormat int

const (
	AttrFloat32 AttributeFormat = iota
	AttrUInt32
)

// VertexAttribute describes one attribute of an interleaved vertex.
type VertexAttribute struct {
	Semantic  Semantic
	Format    AttributeFormat
	Dimension int
}

// Stride returns the byte size of one vertex with the given layout.
func Stride(attrs []VertexAttribute) int {
	n := 0
	for _, a := range attrs {
		n += 4 * a.Dimension
	}
	return n
}

// IndexFormat is the width of mesh indices.
type IndexFormat int

const (
	IndexUInt16 IndexFormat = iota
	IndexUInt32
)

// Topology is the primitive type of a draw.
type Topology int

const (
	TopologyTriangles Topology = iota
)

// UpdateFlags skip engine-side work when updating mesh data.
type UpdateFlags uint32

const (
	DontNotifyUsers UpdateFlags = 1 << iota
	DontRecalculateBounds
	DontResetBoneBounds
	DontValidateIndices

	// UpdateNoChecks skips every validation step.
	UpdateNoChecks = DontNotifyUsers | DontRecalculateBounds | DontResetBoneBounds | DontValidateIndices
)

// SubMesh is a named range of a mesh's index buffer.
type SubMesh struct {
	Topology   Topology
	IndexStart int
	IndexCount int
	BaseVertex int
}

// Mesh is a dynamic indexed mesh with submeshes.
type Mesh interface {
	Name() string
	MarkDynamic()
	// Clear drops vertex, index and submesh data.
	Clear(keepVertexLayout bool)
	SubMeshCount() int
	SetSubMeshCount(n int)
	SetVertexBufferParams(count int, attrs []VertexAttribute)
	SetIndexBufferParams(count int, format IndexFormat)
	// SetVertexBufferData copies whole vertices from data starting at dstVertex.
	SetVertexBufferData(data []byte, dstVertex int, flags UpdateFlags)
	SetIndexBufferData(data []uint16, dstIndex int, flags UpdateFlags)
	SetSubMeshes(desc []SubMesh, flags UpdateFlags)
	Upload() error
	Destroy()
}

// BufferKind is the intended use of a raw GPU buffer.
type BufferKind int

const (
	BufferStructured   BufferKind = iota // shader-readable array of structs
	BufferIndex                          // index buffer
	BufferIndirectArgs                   // indirect draw arguments
)

// Buffer is a fixed-size GPU buffer of Count elements, Stride bytes each.
type Buffer interface {
	Kind() BufferKind
	Count() int
	Stride() int
	// SetData copies whole elements from data starting at element dstElem.
	SetData(data []byte, dstElem int)
	Release()
}

// ShaderKind selects one of the built-in GUI shaders.
type ShaderKind int

const (
	ShaderMesh ShaderKind = iota
	ShaderProcedural
)

// PropVertices is the material property the procedural shader reads vertices from.
const PropVertices = "_Vertices"

// Material binds a shader and its buffer properties.
type Material interface {
	Shader() ShaderKind
	SetBuffer(name string, b Buffer)
	Destroy()
}

// PropertyBlock carries per-draw shader properties. Command buffers copy it
// at record time, so callers may keep mutating their own block.
type PropertyBlock struct {
	Texture    Texture
	BaseVertex int
}

// CommandBuffer records render commands for later execution by the host.
type CommandBuffer interface {
	Name() string
	Clear()
	BeginSample(name string)
	EndSample(name string)
	SetViewport(r Rect)
	SetViewProjection(view, proj Mat4)
	EnableScissorRect(r Rect)
	DisableScissorRect()
	DrawMesh(mesh Mesh, transform Mat4, mat Material, subMesh int, props PropertyBlock)
	// DrawProceduralIndirect draws with arguments read from args at argsOffset bytes.
	DrawProceduralIndirect(indices Buffer, transform Mat4, mat Material, topology Topology, args Buffer, argsOffset int, props PropertyBlock)
}

// MinProceduralShaderLevel is the shader level required by indirect procedural draws.
const MinProceduralShaderLevel = 45

// Capabilities reports what a device supports.
type Capabilities struct {
	ShaderLevel    int
	MaxTextureSize int
}

// Device creates GPU resources and command buffers.
type Device interface {
	Capabilities() Capabilities
	NewTexture(desc TextureDesc) (Texture, error)
	NewMesh(name string) (Mesh, error)
	NewBuffer(kind BufferKind, count, stride int) (Buffer, error)
	NewMaterial(shader ShaderKind) (Material, error)
	NewCommandBuffer(name string) CommandBuffer
	ReleaseCommandBuffer(cb CommandBuffer)
}
