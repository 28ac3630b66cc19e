package platform

import (
	"time"

	"github.com/go-theft-auto/imbridge"
	"github.com/go-theft-auto/imbridge/gpu"
)

// minDeltaTime keeps DeltaTime positive when two frames share a timestamp.
const minDeltaTime = 1e-5

// Manual is a platform fed by the host through its event queue. It is used
// headless, in tests and by hosts that own their window system.
type Manual struct {
	Base
	Queue

	now  func() time.Time
	last time.Time
}

// ManualOption configures a Manual platform.
type ManualOption func(*Manual)

// WithClock sets the time source used for DeltaTime.
func WithClock(now func() time.Time) ManualOption {
	return func(m *Manual) { m.now = now }
}

// WithIniStore sets where layout settings are loaded from and saved to.
func WithIniStore(s IniStore) ManualOption {
	return func(m *Manual) { m.Ini = s }
}

// WithCallbacks sets the clipboard and IME hooks.
func WithCallbacks(c Callbacks) ManualOption {
	return func(m *Manual) { m.Callbacks = c }
}

// WithCursorSetter sets where cursor shape changes are sent.
func WithCursorSetter(c CursorSetter) ManualOption {
	return func(m *Manual) { m.Cursor = c }
}

// NewManual creates a Manual platform.
func NewManual(opts ...ManualOption) *Manual {
	m := &Manual{now: time.Now}
	m.Name = "imbridge_manual"
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manual) Initialize(ctx *imbridge.Context) error {
	m.last = time.Time{}
	return m.Init(ctx)
}

func (m *Manual) Shutdown(ctx *imbridge.Context) {
	m.Close(ctx)
	m.events = m.events[:0]
}

func (m *Manual) PrepareFrame(ctx *imbridge.Context, display gpu.Rect) {
	io := ctx.IO()
	io.DisplaySize = displaySize(display)

	now := m.now()
	if !m.last.IsZero() {
		dt := float32(now.Sub(m.last).Seconds())
		if dt < minDeltaTime {
			dt = minDeltaTime
		}
		io.DeltaTime = dt
	}
	m.last = now

	m.Apply(io)
	m.Sync(ctx)
}
