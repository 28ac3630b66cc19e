// Package renderer turns imbridge draw data into GPU command buffer
// submissions. Two variants share the Renderer interface: Mesh rebuilds one
// dynamic mesh with a submesh per draw command, Procedural uploads raw
// buffers and issues indirect draws. Each owns its GPU resources.
package renderer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-theft-auto/imbridge"
	"github.com/go-theft-auto/imbridge/gpu"
	"github.com/go-theft-auto/imbridge/internal/logging"
	"github.com/go-theft-auto/imbridge/texture"
)

var rendererLogger = logging.Logger("renderer")

// ErrUnsupportedDevice is returned when the device lacks the features a
// renderer needs.
var ErrUnsupportedDevice = errors.New("device not supported")

// Renderer submits draw data to a command buffer.
type Renderer interface {
	// Initialize creates GPU resources and advertises renderer capabilities in io.
	Initialize(io *imbridge.IO) error
	// Shutdown releases everything Initialize and RenderDrawLists created.
	Shutdown(io *imbridge.IO)
	// RenderDrawLists records the frame into cmd. Nothing is recorded for
	// empty frames or a zero-sized framebuffer.
	RenderDrawLists(cmd gpu.CommandBuffer, dd *imbridge.DrawData)
}

// Type selects a renderer variant.
type Type int

const (
	TypeMesh Type = iota
	TypeProcedural
)

var typeNames = map[Type]string{
	TypeMesh:       "mesh",
	TypeProcedural: "procedural",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for k, v := range typeNames {
		if v == name {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown renderer type %q", name)
}

// New creates the renderer of type t. The procedural renderer fails with
// ErrUnsupportedDevice on devices below gpu.MinProceduralShaderLevel; there
// is no fallback to the mesh renderer.
func New(t Type, dev gpu.Device, textures *texture.Registry) (Renderer, error) {
	switch t {
	case TypeMesh:
		return NewMesh(dev, textures), nil
	case TypeProcedural:
		r, err := NewProcedural(dev, textures)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown renderer type %d", int(t))
	}
}

// vertexAttributes is the GPU layout of imbridge.Vertex. The packed color
// travels as one uint32 in TexCoord1.
var vertexAttributes = []gpu.VertexAttribute{
	{Semantic: gpu.SemanticPosition, Format: gpu.AttrFloat32, Dimension: 2},
	{Semantic: gpu.SemanticTexCoord0, Format: gpu.AttrFloat32, Dimension: 2},
	{Semantic: gpu.SemanticTexCoord1, Format: gpu.AttrUInt32, Dimension: 1},
}
