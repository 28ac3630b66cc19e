package record

import (
	"fmt"
	"io"

	"github.com/go-theft-auto/imbridge/gpu"
)

// Op identifies a recorded command.
type Op int

const (
	OpBeginSample Op = iota
	OpEndSample
	OpSetViewport
	OpSetViewProjection
	OpEnableScissor
	OpDisableScissor
	OpDrawMesh
	OpDrawProceduralIndirect
)

var opNames = [...]string{
	OpBeginSample:            "BeginSample",
	OpEndSample:              "EndSample",
	OpSetViewport:            "SetViewport",
	OpSetViewProjection:      "SetViewProjection",
	OpEnableScissor:          "EnableScissorRect",
	OpDisableScissor:         "DisableScissorRect",
	OpDrawMesh:               "DrawMesh",
	OpDrawProceduralIndirect: "DrawProceduralIndirect",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Command is one recorded command. Only the fields relevant to Op are set.
type Command struct {
	Op         Op
	Name       string
	Rect       gpu.Rect
	View, Proj gpu.Mat4
	Transform  gpu.Mat4
	Mesh       gpu.Mesh
	SubMesh    int
	Material   gpu.Material
	Props      gpu.PropertyBlock
	Indices    gpu.Buffer
	Topology   gpu.Topology
	Args       gpu.Buffer
	ArgsOffset int
}

// IsDraw reports whether the command issues a draw call.
func (c Command) IsDraw() bool {
	return c.Op == OpDrawMesh || c.Op == OpDrawProceduralIndirect
}

// CommandBuffer is a recording gpu.CommandBuffer.
type CommandBuffer struct {
	Commands []Command
	Released bool

	name string
}

// NewCommandBuffer returns a standalone recording command buffer.
func NewCommandBuffer(name string) *CommandBuffer {
	return &CommandBuffer{name: name}
}

func (cb *CommandBuffer) Name() string { return cb.name }
func (cb *CommandBuffer) Clear()       { cb.Commands = cb.Commands[:0] }

func (cb *CommandBuffer) BeginSample(name string) {
	cb.Commands = append(cb.Commands, Command{Op: OpBeginSample, Name: name})
}

func (cb *CommandBuffer) EndSample(name string) {
	cb.Commands = append(cb.Commands, Command{Op: OpEndSample, Name: name})
}

func (cb *CommandBuffer) SetViewport(r gpu.Rect) {
	cb.Commands = append(cb.Commands, Command{Op: OpSetViewport, Rect: r})
}

func (cb *CommandBuffer) SetViewProjection(view, proj gpu.Mat4) {
	cb.Commands = append(cb.Commands, Command{Op: OpSetViewProjection, View: view, Proj: proj})
}

func (cb *CommandBuffer) EnableScissorRect(r gpu.Rect) {
	cb.Commands = append(cb.Commands, Command{Op: OpEnableScissor, Rect: r})
}

func (cb *CommandBuffer) DisableScissorRect() {
	cb.Commands = append(cb.Commands, Command{Op: OpDisableScissor})
}

func (cb *CommandBuffer) DrawMesh(mesh gpu.Mesh, transform gpu.Mat4, mat gpu.Material, subMesh int, props gpu.PropertyBlock) {
	cb.Commands = append(cb.Commands, Command{
		Op: OpDrawMesh, Mesh: mesh, Transform: transform, Material: mat, SubMesh: subMesh, Props: props,
	})
}

func (cb *CommandBuffer) DrawProceduralIndirect(indices gpu.Buffer, transform gpu.Mat4, mat gpu.Material, topology gpu.Topology, args gpu.Buffer, argsOffset int, props gpu.PropertyBlock) {
	cb.Commands = append(cb.Commands, Command{
		Op: OpDrawProceduralIndirect, Indices: indices, Transform: transform, Material: mat,
		Topology: topology, Args: args, ArgsOffset: argsOffset, Props: props,
	})
}

// Draws returns the draw commands in submission order.
func (cb *CommandBuffer) Draws() []Command {
	var draws []Command
	for _, c := range cb.Commands {
		if c.IsDraw() {
			draws = append(draws, c)
		}
	}
	return draws
}

// Count returns how many commands with the given op were recorded.
func (cb *CommandBuffer) Count(op Op) int {
	n := 0
	for _, c := range cb.Commands {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Dump writes a human-readable listing of the recorded commands.
func (cb *CommandBuffer) Dump(w io.Writer) error {
	for i, c := range cb.Commands {
		var err error
		switch c.Op {
		case OpBeginSample, OpEndSample:
			_, err = fmt.Fprintf(w, "%4d %s %q\n", i, c.Op, c.Name)
		case OpSetViewport, OpEnableScissor:
			_, err = fmt.Fprintf(w, "%4d %s x=%g y=%g w=%g h=%g\n", i, c.Op, c.Rect.X, c.Rect.Y, c.Rect.W, c.Rect.H)
		case OpDrawMesh:
			_, err = fmt.Fprintf(w, "%4d %s submesh=%d tex=%s\n", i, c.Op, c.SubMesh, textureLabel(c.Props.Texture))
		case OpDrawProceduralIndirect:
			_, err = fmt.Fprintf(w, "%4d %s args@%d baseVertex=%d tex=%s\n", i, c.Op, c.ArgsOffset, c.Props.BaseVertex, textureLabel(c.Props.Texture))
		default:
			_, err = fmt.Fprintf(w, "%4d %s\n", i, c.Op)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func textureLabel(t gpu.Texture) string {
	switch tex := t.(type) {
	case nil:
		return "<none>"
	case *Texture:
		if tex.Desc.Name != "" {
			return tex.Desc.Name
		}
		return fmt.Sprintf("%dx%d", tex.Desc.Width, tex.Desc.Height)
	default:
		return fmt.Sprintf("%T", t)
	}
}
