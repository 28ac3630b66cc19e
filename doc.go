/*
Package imbridge is the immediate-mode GUI side of the host integration.

# Overview

A Context owns the per-frame state the host feeds (display size, delta time,
mouse and keyboard through IO), the font atlas, and the draw lists layout
code fills between NewFrame and Render. Render produces DrawData: ordered
draw lists of vertices, 16-bit indices and draw commands that a renderer
turns into GPU submissions.

Coordinates are in display pixels with the origin at the top-left. UVs use
the same convention; renderers flip V when sampling textures whose rows are
stored bottom-up.

# Quick Start

Most hosts do not drive a Context directly. The host package wires a
Context to a GPU device, a renderer and an input platform:

	dev := opengl.NewDevice()
	inst := host.New(dev, host.WithCamera(cam), host.WithRendererType(renderer.TypeMesh))
	defer inst.Close()

	inst.Layout().Subscribe(func(ctx *imbridge.Context) {
	    ctx.DrawList().AddRect(20, 20, 200, 80, imbridge.RGBA(30, 30, 36, 220))
	    ctx.Text(imbridge.Vec2{X: 28, Y: 28}, imbridge.ColorWhite, "Hello")
	})
	if err := inst.Enable(); err != nil {
	    return err
	}

	for !window.ShouldClose() {
	    glfw.PollEvents()
	    if err := inst.Update(); err != nil {
	        return err
	    }
	    dev.Execute(inst.CommandBuffer())
	    window.SwapBuffers()
	}

# Frame Lifecycle

	textures.PrepareFrame   handles reassigned, atlas gets texture.AtlasID
	platform.PrepareFrame   display size, delta time, queued input, cursor, ini save
	Context.NewFrame        draw lists reset, mouse edges computed
	layout callbacks        global registry first, then the instance's
	Context.Render          draw lists finalized into DrawData
	RenderDrawLists         DrawData recorded into the instance command buffer

Texture handles are only valid for the frame that produced them. Layout code
should call Image or ImageSprite every frame rather than caching IDs.

# Draw Lists

Each frame has two layers: the main DrawList and the ForegroundDrawList, which
is drawn after it. Primitive builders append vertices and indices to the
current draw command. Changing the clip rect or texture starts a new command,
so commands are never reordered and every one carries its own state.

Vertex colors are packed as 0xAABBGGRR. Use RGBA or RGBAf to build them.

# Settings

Window and layout state persists in ini form through LoadIniSettingsFromMemory
and SaveIniSettingsToMemory. MarkIniSettingsDirty schedules a save; the
platform writes it to its ini store once IO.IniSavingRate has elapsed.

# Logging

Every imbridge package logs through log/slog to stderr. SetVerbose(true)
enables per-frame debug output.
*/
package imbridge
