package platform

import (
	"log/slog"

	"github.com/go-theft-auto/imbridge"
)

// Callbacks are host hooks the GUI calls for clipboard and IME services.
// Nil fields leave the matching IO hook unset.
type Callbacks struct {
	GetClipboardText func() string
	SetClipboardText func(text string)
	SetImeInputPos   func(x, y float32)
}

// Assign installs the callbacks on io. A panicking callback is logged and
// treated as a no-op.
func (c Callbacks) Assign(io *imbridge.IO, log *slog.Logger) {
	if get := c.GetClipboardText; get != nil {
		io.GetClipboardTextFn = func() (text string) {
			defer recoverCallback(log, "GetClipboardText")
			return get()
		}
	}
	if set := c.SetClipboardText; set != nil {
		io.SetClipboardTextFn = func(text string) {
			defer recoverCallback(log, "SetClipboardText")
			set(text)
		}
	}
	if ime := c.SetImeInputPos; ime != nil {
		io.SetImeInputPosFn = func(x, y float32) {
			defer recoverCallback(log, "SetImeInputPos")
			ime(x, y)
		}
	}
}

// Unset removes every platform callback from io.
func Unset(io *imbridge.IO) {
	io.GetClipboardTextFn = nil
	io.SetClipboardTextFn = nil
	io.SetImeInputPosFn = nil
}

func recoverCallback(log *slog.Logger, name string) {
	if r := recover(); r != nil {
		log.Error("platform callback panicked", "callback", name, "panic", r)
	}
}
