package platform

import "github.com/go-theft-auto/imbridge"

// Modifiers is the state of the modifier keys.
type Modifiers uint8

const (
	ModCtrl Modifiers = 1 << iota
	ModShift
	ModAlt
	ModSuper
)

type eventKind uint8

const (
	evKey eventKind = iota
	evChar
	evMouseMove
	evMouseButton
	evWheel
	evModifiers
)

type event struct {
	kind   eventKind
	key    imbridge.Key
	button imbridge.MouseButton
	down   bool
	r      rune
	x, y   float32
	mods   Modifiers
}

// Queue buffers host input between frames. Events are applied to IO in the
// order they were pushed.
type Queue struct {
	events []event
}

// KeyEvent records a key press or release. KeyNone is ignored.
func (q *Queue) KeyEvent(k imbridge.Key, down bool) {
	if k <= imbridge.KeyNone || k >= imbridge.KeyCount {
		return
	}
	q.events = append(q.events, event{kind: evKey, key: k, down: down})
}

// CharEvent records a typed character. NUL and newline are dropped; Enter
// arrives as a key.
func (q *Queue) CharEvent(r rune) {
	if r == 0 || r == '\n' {
		return
	}
	q.events = append(q.events, event{kind: evChar, r: r})
}

// MouseMove records the cursor position in display coordinates, origin top-left.
func (q *Queue) MouseMove(x, y float32) {
	q.events = append(q.events, event{kind: evMouseMove, x: x, y: y})
}

// MouseButtonEvent records a button press or release.
func (q *Queue) MouseButtonEvent(b imbridge.MouseButton, down bool) {
	if b < 0 || b >= imbridge.MouseButtonCount {
		return
	}
	q.events = append(q.events, event{kind: evMouseButton, button: b, down: down})
}

// Wheel records scrolling. Deltas accumulate until the next frame.
func (q *Queue) Wheel(h, v float32) {
	q.events = append(q.events, event{kind: evWheel, x: h, y: v})
}

// SetModifiers records the modifier key state.
func (q *Queue) SetModifiers(m Modifiers) {
	q.events = append(q.events, event{kind: evModifiers, mods: m})
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	return len(q.events)
}

// Apply drains the queue into io. Wheel deltas from the previous frame are
// reset first.
func (q *Queue) Apply(io *imbridge.IO) {
	io.MouseWheel, io.MouseWheelH = 0, 0
	for _, e := range q.events {
		switch e.kind {
		case evKey:
			io.KeysDown[e.key] = e.down
		case evChar:
			io.AddInputCharacter(e.r)
		case evMouseMove:
			io.MousePos = imbridge.Vec2{X: e.x, Y: e.y}
		case evMouseButton:
			io.MouseDown[e.button] = e.down
		case evWheel:
			io.MouseWheelH += e.x
			io.MouseWheel += e.y
		case evModifiers:
			io.KeyCtrl = e.mods&ModCtrl != 0
			io.KeyShift = e.mods&ModShift != 0
			io.KeyAlt = e.mods&ModAlt != 0
			io.KeySuper = e.mods&ModSuper != 0
		}
	}
	q.events = q.events[:0]
}
