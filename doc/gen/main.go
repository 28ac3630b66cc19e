// Command gen renders one frame of a sample overlay without a GPU and saves
// the font atlas and the recorded commands to doc/out/.
//
// Usage:
//
//	go run ./doc/gen/
package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/go-theft-auto/imbridge"
	"github.com/go-theft-auto/imbridge/gpu"
	"github.com/go-theft-auto/imbridge/gpu/record"
	"github.com/go-theft-auto/imbridge/host"
	"github.com/go-theft-auto/imbridge/renderer"
)

const (
	width  = 640
	height = 360
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// camera keeps the command buffer attached to it.
type camera struct {
	cb gpu.CommandBuffer
}

func (c *camera) PixelRect() gpu.Rect                      { return gpu.Rect{W: width, H: height} }
func (c *camera) AddCommandBuffer(cb gpu.CommandBuffer)    { c.cb = cb }
func (c *camera) RemoveCommandBuffer(cb gpu.CommandBuffer) { c.cb = nil }

func run() error {
	outDir := filepath.Join("doc", "out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	for _, t := range []renderer.Type{renderer.TypeMesh, renderer.TypeProcedural} {
		if err := capture(t, outDir); err != nil {
			return fmt.Errorf("capture %s: %w", t, err)
		}
	}
	return nil
}

func capture(t renderer.Type, outDir string) error {
	cam := &camera{}
	inst := host.New(record.NewDevice(), host.WithCamera(cam), host.WithRendererType(t), host.WithGlobalLayout(false))
	defer inst.Close()

	inst.Layout().Subscribe(sample)
	if err := inst.Enable(); err != nil {
		return err
	}
	if err := inst.Update(); err != nil {
		return err
	}

	if t == renderer.TypeMesh {
		if err := writeAtlas(inst.Context(), filepath.Join(outDir, "atlas.png")); err != nil {
			return err
		}
	}

	cb, ok := cam.cb.(*record.CommandBuffer)
	if !ok {
		return fmt.Errorf("no command buffer attached")
	}
	path := filepath.Join(outDir, "commands_"+t.String()+".txt")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := cb.Dump(f); err != nil {
		return err
	}
	fmt.Printf("  %s (%d draws)\n", path, len(cb.Draws()))
	return nil
}

// sample draws two layers with a clipped region.
func sample(ctx *imbridge.Context) {
	dl := ctx.DrawList()
	dl.AddRect(16, 16, 280, 96, imbridge.RGBA(30, 30, 36, 220))
	ctx.Text(imbridge.Vec2{X: 28, Y: 28}, imbridge.ColorWhite, "imbridge")

	dl.PushClipRect(16, 60, 160, 112)
	dl.AddLine(16, 60, 296, 112, imbridge.ColorYellow, 2)
	dl.PopClipRect()

	ctx.ForegroundDrawList().AddTriangle(320, 40, 360, 100, 280, 100, imbridge.ColorBlue)
}

func writeAtlas(ctx *imbridge.Context, path string) error {
	pixels, w, h, _ := ctx.IO().Fonts.TexDataAsRGBA32()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, pixels)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return err
	}
	fmt.Printf("  %s (%dx%d)\n", path, w, h)
	return nil
}
