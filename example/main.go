// Example draws a small overlay through a host instance on a GLFW window.
//
// Prerequisites:
//
//	Install devbox: https://www.jetify.com/devbox
//	devbox shell              # enter the dev environment (provides Go + OpenGL/X11 headers)
//	go run ./example/         # run this example
//
// Settings are read from imbridge.toml in the working directory when it
// exists. Fonts are looked up in its font_dir.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/imbridge"
	"github.com/go-theft-auto/imbridge/backend/opengl"
	"github.com/go-theft-auto/imbridge/config"
	"github.com/go-theft-auto/imbridge/gpu"
	"github.com/go-theft-auto/imbridge/host"
	"github.com/go-theft-auto/imbridge/platform"
	"github.com/go-theft-auto/imbridge/platform/glfwplatform"
)

const (
	windowWidth  = 800
	windowHeight = 600
	windowTitle  = "imbridge example"
	configPath   = "imbridge.toml"
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// camera draws the command buffers attached to it after the scene.
type camera struct {
	window  *glfw.Window
	buffers []gpu.CommandBuffer
}

func (c *camera) PixelRect() gpu.Rect {
	w, h := c.window.GetFramebufferSize()
	return gpu.Rect{W: float32(w), H: float32(h)}
}

func (c *camera) AddCommandBuffer(cb gpu.CommandBuffer) {
	c.buffers = append(c.buffers, cb)
}

func (c *camera) RemoveCommandBuffer(cb gpu.CommandBuffer) {
	for i, b := range c.buffers {
		if b == cb {
			c.buffers = append(c.buffers[:i], c.buffers[i+1:]...)
			return
		}
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	imbridge.SetVerbose(cfg.Verbose)

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1) // vsync

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	dev := opengl.NewDevice()
	defer dev.Delete()

	cam := &camera{window: window}
	opts := []host.Option{host.WithConfig(cfg), host.WithCamera(cam)}
	if cfg.Platform == platform.TypeGLFW {
		ini := cfg.IniStore()
		opts = append(opts, host.WithPlatform(func() (platform.Platform, error) {
			return glfwplatform.New(window, ini), nil
		}))
	}
	inst := host.New(dev, opts...)
	defer inst.Close()

	clicks := 0
	unsubscribe := inst.Layout().Subscribe(func(ctx *imbridge.Context) {
		dl := ctx.DrawList()
		dl.AddRect(20, 20, 300, 120, imbridge.RGBA(30, 30, 36, 220))
		dl.AddRectOutline(20, 20, 300, 120, imbridge.RGBA(90, 160, 255, 255), 1)
		ctx.Text(imbridge.Vec2{X: 32, Y: 32}, imbridge.ColorWhite, "Hello from imbridge!")

		if ctx.IsMouseClicked(imbridge.MouseButtonLeft) {
			clicks++
		}
		mouse := ctx.IO().MousePos
		ctx.Text(imbridge.Vec2{X: 32, Y: 56}, imbridge.ColorWhite, fmt.Sprintf("Mouse: %.0f, %.0f", mouse.X, mouse.Y))
		ctx.Text(imbridge.Vec2{X: 32, Y: 80}, imbridge.ColorWhite, fmt.Sprintf("Clicks: %d", clicks))
		ctx.Text(imbridge.Vec2{X: 32, Y: 104}, imbridge.ColorWhite, "Renderer: "+inst.RendererType().String())
	})
	defer unsubscribe()

	if err := inst.Enable(); err != nil {
		return err
	}

	for !window.ShouldClose() {
		glfw.PollEvents()

		w, h := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(w), int32(h))
		gl.ClearColor(0.12, 0.12, 0.14, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		if err := inst.Update(); err != nil {
			return fmt.Errorf("gui update: %w", err)
		}
		for _, cb := range cam.buffers {
			if err := dev.Execute(cb); err != nil {
				return fmt.Errorf("gui render: %w", err)
			}
		}

		window.SwapBuffers()
	}

	return nil
}
