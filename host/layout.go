package host

import (
	"log/slog"
	"sync"

	"github.com/go-theft-auto/imbridge"
)

// LayoutFunc submits GUI widgets for one frame.
type LayoutFunc func(ctx *imbridge.Context)

type layoutEntry struct {
	id uint64
	fn LayoutFunc
}

// LayoutRegistry is an ordered list of layout callbacks.
type LayoutRegistry struct {
	mu      sync.Mutex
	entries []layoutEntry
	nextID  uint64
	log     *slog.Logger
}

// NewLayoutRegistry creates an empty registry.
func NewLayoutRegistry() *LayoutRegistry {
	return &LayoutRegistry{log: hostLogger}
}

// Subscribe appends fn and returns a function removing it. Calling the
// returned function more than once is harmless.
func (r *LayoutRegistry) Subscribe(fn LayoutFunc) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.entries = append(r.entries, layoutEntry{id: id, fn: fn})
	return func() { r.remove(id) }
}

func (r *LayoutRegistry) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.id == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return
		}
	}
}

// Invoke calls every callback in subscription order. A panicking callback
// is logged and the rest still run.
func (r *LayoutRegistry) Invoke(ctx *imbridge.Context) {
	r.mu.Lock()
	entries := make([]layoutEntry, len(r.entries))
	copy(entries, r.entries)
	r.mu.Unlock()

	for _, e := range entries {
		r.call(ctx, e)
	}
}

func (r *LayoutRegistry) call(ctx *imbridge.Context, e layoutEntry) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("layout callback panicked", "subscription", e.id, "panic", p)
		}
	}()
	e.fn(ctx)
}

// Len returns the number of callbacks.
func (r *LayoutRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Reset removes every callback.
func (r *LayoutRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

var globalLayout = NewLayoutRegistry()

// GlobalLayout returns the process-wide registry every instance invokes
// before its own, unless disabled with WithGlobalLayout(false).
func GlobalLayout() *LayoutRegistry {
	return globalLayout
}

// ResetGlobalLayout removes every global callback.
func ResetGlobalLayout() {
	globalLayout.Reset()
}
