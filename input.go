package imbridge

import "github.com/go-theft-auto/imbridge/fontatlas"

// MouseButton represents a mouse button.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
	MouseButtonCount
)

// Key represents a keyboard key.
type Key int

const (
	KeyNone Key = iota
	KeyTab
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyBackspace
	KeySpace
	KeyEnter
	KeyEscape
	KeyKeypadEnter
	KeyA
	KeyC
	KeyV
	KeyX
	KeyY
	KeyZ
	KeyCount
)

var keyNames = map[Key]string{
	KeyNone:        "--",
	KeyTab:         "Tab",
	KeyLeft:        "Left",
	KeyRight:       "Right",
	KeyUp:          "Up",
	KeyDown:        "Down",
	KeyPageUp:      "PgUp",
	KeyPageDown:    "PgDn",
	KeyHome:        "Home",
	KeyEnd:         "End",
	KeyInsert:      "Ins",
	KeyDelete:      "Del",
	KeyBackspace:   "Backspace",
	KeySpace:       "Space",
	KeyEnter:       "Enter",
	KeyEscape:      "Esc",
	KeyKeypadEnter: "KeypadEnter",
	KeyA:           "A",
	KeyC:           "C",
	KeyV:           "V",
	KeyX:           "X",
	KeyY:           "Y",
	KeyZ:           "Z",
}

// KeyName returns a human-readable name for a key.
func KeyName(k Key) string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "?"
}

// MouseCursor is the cursor shape the GUI requests from the platform.
type MouseCursor int

const (
	MouseCursorNone MouseCursor = iota - 1
	MouseCursorArrow
	MouseCursorTextInput
	MouseCursorResizeAll
	MouseCursorResizeNS
	MouseCursorResizeEW
	MouseCursorResizeNESW
	MouseCursorResizeNWSE
	MouseCursorHand
	MouseCursorNotAllowed
	MouseCursorCount
)

// ConfigFlags are set by the application.
type ConfigFlags uint32

const (
	ConfigNavEnableKeyboard ConfigFlags = 1 << iota
	// ConfigNoMouseCursorChange stops the platform from changing the cursor.
	ConfigNoMouseCursorChange
)

// BackendFlags are set by the platform and renderer.
type BackendFlags uint32

const (
	BackendHasMouseCursors BackendFlags = 1 << iota
	BackendHasSetMousePos
	// BackendRendererHasVtxOffset means DrawCmd.VtxOffset is honored.
	BackendRendererHasVtxOffset
)

// IO is the data exchanged between the host, its platform and renderer
// backends, and the Context.
type IO struct {
	DisplaySize             Vec2
	DisplayFramebufferScale Vec2
	DeltaTime               float32 // seconds, > 0
	IniSavingRate           float32 // seconds between a settings change and a save request

	ConfigFlags         ConfigFlags
	BackendFlags        BackendFlags
	BackendPlatformName string
	BackendRendererName string

	// Fonts is the context's atlas. It must be built before NewFrame.
	Fonts *fontatlas.Atlas

	// MouseDrawCursor asks the GUI to draw a software cursor.
	MouseDrawCursor bool
	// WantSaveIniSettings is set when settings changed; the platform saves
	// them and clears the flag.
	WantSaveIniSettings bool
	WantCaptureMouse    bool
	WantTextInput       bool

	MousePos    Vec2
	MouseDown   [MouseButtonCount]bool
	MouseWheel  float32
	MouseWheelH float32
	KeyCtrl     bool
	KeyShift    bool
	KeyAlt      bool
	KeySuper    bool
	KeysDown    [KeyCount]bool

	InputQueueCharacters []rune

	GetClipboardTextFn func() string
	SetClipboardTextFn func(text string)
	SetImeInputPosFn   func(x, y float32)
}

// AddInputCharacter queues a typed character for the next frame.
func (io *IO) AddInputCharacter(r rune) {
	io.InputQueueCharacters = append(io.InputQueueCharacters, r)
}

// ClearInputCharacters drops queued characters.
func (io *IO) ClearInputCharacters() {
	io.InputQueueCharacters = io.InputQueueCharacters[:0]
}
