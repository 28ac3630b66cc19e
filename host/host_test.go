package host

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/imbridge"
	"github.com/go-theft-auto/imbridge/gpu"
	"github.com/go-theft-auto/imbridge/gpu/record"
	"github.com/go-theft-auto/imbridge/platform"
	"github.com/go-theft-auto/imbridge/renderer"
)

type fakeCamera struct {
	rect     gpu.Rect
	attached []gpu.CommandBuffer
	removed  int
}

func (c *fakeCamera) PixelRect() gpu.Rect { return c.rect }

func (c *fakeCamera) AddCommandBuffer(cb gpu.CommandBuffer) {
	c.attached = append(c.attached, cb)
}

func (c *fakeCamera) RemoveCommandBuffer(cb gpu.CommandBuffer) {
	for i, a := range c.attached {
		if a == cb {
			c.attached = append(c.attached[:i], c.attached[i+1:]...)
			c.removed++
			return
		}
	}
}

type fakeFeature struct {
	cb gpu.CommandBuffer
}

func (f *fakeFeature) SetCommandBuffer(cb gpu.CommandBuffer) { f.cb = cb }

func newCamera() *fakeCamera {
	return &fakeCamera{rect: gpu.Rect{W: 800, H: 600}}
}

func recorded(t *testing.T, in *Instance) *record.CommandBuffer {
	t.Helper()
	cb, ok := in.CommandBuffer().(*record.CommandBuffer)
	require.True(t, ok)
	return cb
}

func drawRect(ctx *imbridge.Context) {
	ctx.DrawList().AddRect(10, 10, 50, 50, imbridge.ColorWhite)
}

func TestEnableRequiresCamera(t *testing.T) {
	dev := record.NewDevice()
	in := New(dev)

	err := in.Enable()
	require.ErrorIs(t, err, ErrSetup)
	assert.False(t, in.Enabled())
	assert.Empty(t, dev.CommandBuffers)
	assert.ErrorIs(t, in.Update(), ErrDisabled)
}

func TestEnableRequiresFeatureWhenPipelineNeedsIt(t *testing.T) {
	dev := record.NewDevice()
	in := New(dev, WithCamera(newCamera()), WithPipelineFeatureRequired(true))

	require.ErrorIs(t, in.Enable(), ErrSetup)
	assert.False(t, in.Enabled())
}

func TestEnableAndDisable(t *testing.T) {
	dev := record.NewDevice()
	cam := newCamera()
	in := New(dev, WithCamera(cam))

	require.NoError(t, in.Enable())
	assert.True(t, in.Enabled())
	require.Len(t, cam.attached, 1)
	assert.Same(t, in.CommandBuffer(), cam.attached[0])
	assert.Equal(t, CommandBufferName, in.CommandBuffer().Name())

	io := in.Context().IO()
	assert.True(t, io.Fonts.IsBuilt())
	assert.Equal(t, "imbridge_mesh", io.BackendRendererName)
	assert.Equal(t, "imbridge_manual", io.BackendPlatformName)
	atlas, ok := in.Textures().Atlas().(*record.Texture)
	require.True(t, ok)
	assert.Equal(t, 1, atlas.Applied)

	require.NoError(t, in.Enable(), "enabling twice is a no-op")
	assert.Len(t, dev.CommandBuffers, 1)

	cb := recorded(t, in)
	in.Disable()
	assert.False(t, in.Enabled())
	assert.Empty(t, cam.attached)
	assert.True(t, cb.Released)
	assert.True(t, atlas.Destroyed)
	assert.Nil(t, in.Textures().Atlas())
	assert.False(t, io.Fonts.IsBuilt())
	assert.Empty(t, io.BackendRendererName)
	assert.Empty(t, io.BackendPlatformName)
	for _, m := range dev.Meshes {
		assert.True(t, m.Destroyed)
	}
	for _, m := range dev.Materials {
		assert.True(t, m.Destroyed)
	}
}

func TestRenderFeatureReceivesCommandBuffer(t *testing.T) {
	cam := newCamera()
	feature := &fakeFeature{}
	in := New(record.NewDevice(), WithCamera(cam), WithRenderFeature(feature), WithPipelineFeatureRequired(true))

	require.NoError(t, in.Enable())
	assert.Same(t, in.CommandBuffer(), feature.cb)
	assert.Empty(t, cam.attached)

	in.Disable()
	assert.Nil(t, feature.cb)
	assert.Zero(t, cam.removed)
}

func TestUpdateRecordsFrame(t *testing.T) {
	t.Cleanup(ResetGlobalLayout)
	in := New(record.NewDevice(), WithCamera(newCamera()))
	require.NoError(t, in.Enable())
	in.Layout().Subscribe(drawRect)

	require.NoError(t, in.Update())
	ctx := in.Context()
	assert.False(t, ctx.InFrame())
	assert.Equal(t, imbridge.Vec2{X: 800, Y: 600}, ctx.IO().DisplaySize)
	assert.Equal(t, uint64(1), ctx.FrameCount())

	draws := recorded(t, in).Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, record.OpDrawMesh, draws[0].Op)
	assert.Same(t, in.Textures().Atlas(), draws[0].Props.Texture)

	require.NoError(t, in.Update())
	assert.Len(t, recorded(t, in).Draws(), 1, "the command buffer is cleared every frame")
}

func TestLayoutOrderAndPanics(t *testing.T) {
	t.Cleanup(ResetGlobalLayout)
	var calls []string
	GlobalLayout().Subscribe(func(*imbridge.Context) { calls = append(calls, "global") })

	in := New(record.NewDevice(), WithCamera(newCamera()))
	require.NoError(t, in.Enable())
	in.Layout().Subscribe(func(*imbridge.Context) { panic("broken widget") })
	in.Layout().Subscribe(func(ctx *imbridge.Context) {
		calls = append(calls, "instance")
		drawRect(ctx)
	})

	require.NoError(t, in.Update())
	assert.Equal(t, []string{"global", "instance"}, calls)
	assert.False(t, in.Context().InFrame())
	assert.Len(t, recorded(t, in).Draws(), 1)
}

func TestGlobalLayoutCanBeDisabled(t *testing.T) {
	t.Cleanup(ResetGlobalLayout)
	called := false
	GlobalLayout().Subscribe(func(*imbridge.Context) { called = true })

	in := New(record.NewDevice(), WithCamera(newCamera()), WithGlobalLayout(false))
	require.NoError(t, in.Enable())
	require.NoError(t, in.Update())
	assert.False(t, called)
}

func TestLayoutRegistry(t *testing.T) {
	r := NewLayoutRegistry()
	var calls []int
	unsub1 := r.Subscribe(func(*imbridge.Context) { calls = append(calls, 1) })
	r.Subscribe(func(*imbridge.Context) { calls = append(calls, 2) })
	assert.Equal(t, 2, r.Len())

	unsub1()
	unsub1()
	assert.Equal(t, 1, r.Len())
	r.Invoke(imbridge.NewContext())
	assert.Equal(t, []int{2}, calls)

	r.Reset()
	assert.Zero(t, r.Len())
}

func TestSetRendererTypeReloads(t *testing.T) {
	dev := record.NewDevice()
	cam := newCamera()
	in := New(dev, WithCamera(cam))

	require.NoError(t, in.SetRendererType(renderer.TypeProcedural))
	assert.False(t, in.Enabled(), "a disabled instance only stores the choice")

	require.NoError(t, in.Enable())
	assert.Equal(t, "imbridge_procedural", in.Context().IO().BackendRendererName)

	first := recorded(t, in)
	require.NoError(t, in.SetRendererType(renderer.TypeMesh))
	assert.True(t, in.Enabled())
	assert.True(t, first.Released)
	assert.NotSame(t, first, in.CommandBuffer())
	assert.Equal(t, "imbridge_mesh", in.Context().IO().BackendRendererName)
	assert.Len(t, cam.attached, 1)
	assert.Empty(t, dev.LiveBuffers())
}

func TestUnsupportedRendererFailsSetup(t *testing.T) {
	dev := record.NewDevice()
	dev.Caps.ShaderLevel = 40
	cam := newCamera()
	in := New(dev, WithCamera(cam), WithRendererType(renderer.TypeProcedural))

	err := in.Enable()
	require.ErrorIs(t, err, ErrSetup)
	assert.ErrorIs(t, err, renderer.ErrUnsupportedDevice)
	assert.False(t, in.Enabled())
	assert.Empty(t, cam.attached)
	require.Len(t, dev.CommandBuffers, 1)
	assert.True(t, dev.CommandBuffers[0].Released)
	assert.Empty(t, in.Context().IO().BackendPlatformName, "platform shut down")
}

func TestPlatformFactoryError(t *testing.T) {
	in := New(record.NewDevice(), WithCamera(newCamera()), WithPlatform(func() (platform.Platform, error) {
		return nil, errors.New("no window")
	}))
	err := in.Enable()
	require.ErrorIs(t, err, ErrSetup)
	assert.ErrorContains(t, err, "no window")
}

func TestSetPlatformAndFonts(t *testing.T) {
	store := &platform.MemoryIniStore{Data: "[Debug]\nopen = true\n"}
	var created int
	in := New(record.NewDevice(), WithCamera(newCamera()))
	require.NoError(t, in.Enable())

	require.NoError(t, in.SetPlatform(func() (platform.Platform, error) {
		created++
		return platform.NewManual(platform.WithIniStore(store)), nil
	}))
	assert.Equal(t, 1, created)
	v, ok := in.Context().Setting("Debug", "open")
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	require.NoError(t, in.SetFontAtlasConfig(nil))
	assert.Equal(t, 2, created, "font change reloads the whole instance")
	assert.True(t, in.Context().IO().Fonts.IsBuilt())
}

func TestCloseDestroysContext(t *testing.T) {
	in := New(record.NewDevice(), WithCamera(newCamera()))
	require.NoError(t, in.Enable())
	in.Close()
	assert.False(t, in.Enabled())
	assert.Empty(t, in.Context().IO().Fonts.Fonts())
}
