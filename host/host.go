// Package host drives one GUI instance per frame: it owns the context, the
// texture registry, the font atlas, the platform and the renderer, and wires
// them to a camera's command buffer.
package host

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-theft-auto/imbridge"
	"github.com/go-theft-auto/imbridge/config"
	"github.com/go-theft-auto/imbridge/fontatlas"
	"github.com/go-theft-auto/imbridge/gpu"
	"github.com/go-theft-auto/imbridge/internal/logging"
	"github.com/go-theft-auto/imbridge/platform"
	"github.com/go-theft-auto/imbridge/renderer"
	"github.com/go-theft-auto/imbridge/texture"
)

var hostLogger = logging.Logger("host")

// CommandBufferName names the command buffer an instance records into.
const CommandBufferName = "imbridge"

var (
	// ErrSetup wraps every failure of Enable. The instance is left disabled.
	ErrSetup = errors.New("imbridge setup failed")
	// ErrDisabled is returned by Update on a disabled instance.
	ErrDisabled = errors.New("instance disabled")
)

// Camera is the view the GUI is drawn over.
type Camera interface {
	// PixelRect is the viewport in framebuffer pixels.
	PixelRect() gpu.Rect
	// AddCommandBuffer runs cb after everything else the camera renders.
	AddCommandBuffer(cb gpu.CommandBuffer)
	RemoveCommandBuffer(cb gpu.CommandBuffer)
}

// RenderFeature executes a command buffer from inside a render pipeline.
// SetCommandBuffer(nil) detaches it.
type RenderFeature interface {
	SetCommandBuffer(cb gpu.CommandBuffer)
}

// PlatformFactory creates the platform on every Enable.
type PlatformFactory func() (platform.Platform, error)

// Instance is one GUI integrated into a host camera. Enable, Disable and
// Update must be called from the render thread.
type Instance struct {
	dev    gpu.Device
	ctx    *imbridge.Context
	log    *slog.Logger
	layout *LayoutRegistry

	camera          Camera
	feature         RenderFeature
	featureRequired bool
	globalLayout    bool

	rendererType renderer.Type
	newPlatform  PlatformFactory
	ioConfig     config.IOConfig
	fontConfig   *fontatlas.Config
	fontDir      string
	ini          platform.IniStore

	enabled  bool
	cmd      gpu.CommandBuffer
	attached bool
	textures *texture.Registry
	builder  *fontatlas.Builder
	platform platform.Platform
	renderer renderer.Renderer
}

// Option configures an Instance.
type Option func(*Instance)

// WithCamera sets the camera the GUI is drawn over. Required.
func WithCamera(c Camera) Option {
	return func(in *Instance) { in.camera = c }
}

// WithRenderFeature routes the command buffer through a pipeline feature
// instead of the camera.
func WithRenderFeature(f RenderFeature) Option {
	return func(in *Instance) { in.feature = f }
}

// WithPipelineFeatureRequired makes Enable fail without a render feature.
func WithPipelineFeatureRequired(required bool) Option {
	return func(in *Instance) { in.featureRequired = required }
}

// WithRendererType selects the renderer variant.
func WithRendererType(t renderer.Type) Option {
	return func(in *Instance) { in.rendererType = t }
}

// WithPlatform sets the platform factory. The default is a manual platform
// using the instance's ini store.
func WithPlatform(f PlatformFactory) Option {
	return func(in *Instance) { in.newPlatform = f }
}

// WithIOConfig sets the IO configuration applied on Enable.
func WithIOConfig(c config.IOConfig) Option {
	return func(in *Instance) { in.ioConfig = c }
}

// WithFontAtlasConfig sets the fonts to build. nil uses the built-in font.
func WithFontAtlasConfig(c *fontatlas.Config) Option {
	return func(in *Instance) { in.fontConfig = c }
}

// WithFontDir sets the directory font paths are relative to.
func WithFontDir(dir string) Option {
	return func(in *Instance) { in.fontDir = dir }
}

// WithIniStore sets where the default platform keeps layout settings.
func WithIniStore(s platform.IniStore) Option {
	return func(in *Instance) { in.ini = s }
}

// WithGlobalLayout enables or disables invoking GlobalLayout. Default true.
func WithGlobalLayout(on bool) Option {
	return func(in *Instance) { in.globalLayout = on }
}

// WithLogger sets the instance logger.
func WithLogger(l *slog.Logger) Option {
	return func(in *Instance) { in.log = l }
}

// WithConfig applies a loaded configuration. The platform type is not
// applied; platforms that need a window are passed with WithPlatform.
func WithConfig(c *config.Config) Option {
	return func(in *Instance) {
		in.rendererType = c.Renderer
		in.ioConfig = c.IO
		in.fontConfig = c.FontAtlas
		in.fontDir = c.FontDir
		in.ini = c.IniStore()
	}
}

// New creates a disabled instance drawing with dev.
func New(dev gpu.Device, opts ...Option) *Instance {
	def := config.Default()
	in := &Instance{
		dev:          dev,
		ctx:          imbridge.NewContext(),
		log:          hostLogger,
		layout:       NewLayoutRegistry(),
		globalLayout: true,
		rendererType: def.Renderer,
		ioConfig:     def.IO,
		fontDir:      def.FontDir,
		ini:          &platform.MemoryIniStore{},
		textures:     texture.NewRegistry(),
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.newPlatform == nil {
		in.newPlatform = func() (platform.Platform, error) {
			return platform.NewManual(platform.WithIniStore(in.ini)), nil
		}
	}
	in.builder = fontatlas.NewBuilder(in.fontDir, fontatlas.WithLogger(in.log))
	in.ctx.SetTextureRegistry(in.textures)
	return in
}

// Enable sets up every resource. On failure everything set up so far is
// released and the error wraps ErrSetup.
func (in *Instance) Enable() error {
	if in.enabled {
		return nil
	}
	if err := in.enable(); err != nil {
		in.Disable()
		return fmt.Errorf("%w: %w", ErrSetup, err)
	}
	in.enabled = true
	in.log.Debug("instance enabled", "renderer", in.rendererType)
	return nil
}

func (in *Instance) enable() error {
	if in.camera == nil {
		return errors.New("camera not set")
	}
	if in.featureRequired && in.feature == nil {
		return errors.New("render pipeline requires a render feature")
	}

	in.cmd = in.dev.NewCommandBuffer(CommandBufferName)
	if in.feature != nil {
		in.feature.SetCommandBuffer(in.cmd)
	} else {
		in.camera.AddCommandBuffer(in.cmd)
	}
	in.attached = true

	io := in.ctx.IO()
	in.ioConfig.ApplyTo(io)

	if err := in.builder.Build(io.Fonts, in.fontConfig, io.MouseDrawCursor); err != nil {
		return fmt.Errorf("build font atlas: %w", err)
	}
	tex, err := fontatlas.CreateAtlasTexture(in.dev, io.Fonts)
	if err != nil {
		return fmt.Errorf("create atlas texture: %w", err)
	}
	in.textures.SetAtlas(tex)

	p, err := in.newPlatform()
	if err != nil {
		return fmt.Errorf("create platform: %w", err)
	}
	if p == nil {
		return errors.New("platform factory returned nil")
	}
	in.platform = p
	if err := p.Initialize(in.ctx); err != nil {
		return fmt.Errorf("initialize platform: %w", err)
	}

	r, err := renderer.New(in.rendererType, in.dev, in.textures)
	if err != nil {
		return fmt.Errorf("create %s renderer: %w", in.rendererType, err)
	}
	in.renderer = r
	if err := r.Initialize(io); err != nil {
		return fmt.Errorf("initialize %s renderer: %w", in.rendererType, err)
	}
	return nil
}

// Disable releases everything Enable set up. Safe on a partially enabled
// or disabled instance.
func (in *Instance) Disable() {
	io := in.ctx.IO()
	if in.renderer != nil {
		in.renderer.Shutdown(io)
		in.renderer = nil
	}
	if in.platform != nil {
		in.platform.Shutdown(in.ctx)
		in.platform = nil
	}
	in.textures.Shutdown()
	in.builder.Destroy(io.Fonts)

	if in.cmd != nil {
		if in.attached {
			if in.feature != nil {
				in.feature.SetCommandBuffer(nil)
			} else if in.camera != nil {
				in.camera.RemoveCommandBuffer(in.cmd)
			}
			in.attached = false
		}
		in.dev.ReleaseCommandBuffer(in.cmd)
		in.cmd = nil
	}
	if in.enabled {
		in.log.Debug("instance disabled")
	}
	in.enabled = false
}

// Reload disables and enables the instance.
func (in *Instance) Reload() error {
	in.Disable()
	return in.Enable()
}

// Close disables the instance and destroys its context.
func (in *Instance) Close() {
	in.Disable()
	in.ctx.Destroy()
}

// SetRendererType switches renderer. An enabled instance is reloaded.
func (in *Instance) SetRendererType(t renderer.Type) error {
	in.rendererType = t
	return in.reloadIfEnabled()
}

// SetPlatform switches platform. An enabled instance is reloaded.
func (in *Instance) SetPlatform(f PlatformFactory) error {
	in.newPlatform = f
	return in.reloadIfEnabled()
}

// SetFontAtlasConfig switches fonts. An enabled instance is reloaded.
func (in *Instance) SetFontAtlasConfig(c *fontatlas.Config) error {
	in.fontConfig = c
	return in.reloadIfEnabled()
}

func (in *Instance) reloadIfEnabled() error {
	if !in.enabled {
		return nil
	}
	return in.Reload()
}

// Update runs one frame: input, layout and draw submission.
func (in *Instance) Update() error {
	if !in.enabled {
		return ErrDisabled
	}
	start := time.Now()
	io := in.ctx.IO()
	io.Fonts.SetTexID(in.textures.PrepareFrame())
	in.platform.PrepareFrame(in.ctx, in.camera.PixelRect())
	if err := in.ctx.NewFrame(); err != nil {
		return fmt.Errorf("new frame: %w", err)
	}
	prepared := time.Now()

	in.doLayout()
	laidOut := time.Now()

	in.cmd.Clear()
	in.renderer.RenderDrawLists(in.cmd, in.ctx.DrawData())

	in.log.Debug("frame",
		"frame", in.ctx.FrameCount(),
		"prepare", prepared.Sub(start),
		"layout", laidOut.Sub(prepared),
		"render", time.Since(laidOut))
	return nil
}

// doLayout runs the layout callbacks. Render always runs so the context
// never stays inside a frame.
func (in *Instance) doLayout() {
	defer in.ctx.Render()
	if in.globalLayout {
		GlobalLayout().Invoke(in.ctx)
	}
	in.layout.Invoke(in.ctx)
}

// Layout returns the callbacks specific to this instance.
func (in *Instance) Layout() *LayoutRegistry { return in.layout }

// Context returns the GUI context.
func (in *Instance) Context() *imbridge.Context { return in.ctx }

// Textures returns the texture registry.
func (in *Instance) Textures() *texture.Registry { return in.textures }

// Enabled reports whether Enable succeeded and Disable has not run since.
func (in *Instance) Enabled() bool { return in.enabled }

// CommandBuffer returns the command buffer frames are recorded into, or nil.
func (in *Instance) CommandBuffer() gpu.CommandBuffer { return in.cmd }

// RendererType returns the selected renderer variant.
func (in *Instance) RendererType() renderer.Type { return in.rendererType }
