// Package texture maps GUI texture handles to GPU textures.
//
// Handles are frame-scoped: PrepareFrame clears the table and re-registers
// the font atlas as AtlasID, so a handle from a previous frame may resolve to
// nothing or to a different texture. Never keep handles across frames.
package texture

import (
	"reflect"

	"github.com/go-theft-auto/imbridge/gpu"
)

// ID is a frame-scoped texture handle. The zero value means no texture.
type ID uint32

// AtlasID is the handle of the font atlas in every frame.
const AtlasID ID = 1

// Registry assigns handles to textures for the current frame and caches
// sprite information for its lifetime.
type Registry struct {
	atlas   gpu.Texture
	table   []gpu.Texture // handle N lives at table[N-1]
	ids     map[gpu.Texture]ID
	sprites map[Sprite]*SpriteInfo
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		table:   make([]gpu.Texture, 0, 16),
		ids:     make(map[gpu.Texture]ID),
		sprites: make(map[Sprite]*SpriteInfo),
	}
}

// SetAtlas sets the font atlas texture. It is registered on the next PrepareFrame.
func (r *Registry) SetAtlas(tex gpu.Texture) {
	r.atlas = tex
}

// Atlas returns the font atlas texture, or nil.
func (r *Registry) Atlas() gpu.Texture {
	return r.atlas
}

// PrepareFrame invalidates all handles and registers the atlas first.
// Returns the atlas handle.
func (r *Registry) PrepareFrame() ID {
	clear(r.table)
	r.table = r.table[:0]
	clear(r.ids)
	return r.register(r.atlas)
}

// ID returns the handle for tex, registering it if needed. A nil texture
// has handle 0.
func (r *Registry) ID(tex gpu.Texture) ID {
	if tex == nil {
		return 0
	}
	if id, ok := r.ids[tex]; ok {
		return id
	}
	return r.register(tex)
}

// Texture resolves a handle. Returns nil for zero or unknown handles.
func (r *Registry) Texture(id ID) gpu.Texture {
	if id == 0 || int(id) > len(r.table) {
		return nil
	}
	return r.table[id-1]
}

// Len returns the number of handles issued this frame.
func (r *Registry) Len() int {
	return len(r.table)
}

// SpriteInfo returns the texture and UV rectangle of a sprite. The result
// is computed once per sprite and shared by later calls. Sprites that are
// not comparable, such as values holding slices, are recomputed every call;
// pass pointers to have them cached.
func (r *Registry) SpriteInfo(s Sprite) *SpriteInfo {
	cacheable := reflect.ValueOf(s).Comparable()
	if cacheable {
		if info, ok := r.sprites[s]; ok {
			return info
		}
	}
	uvs := s.UVs()
	w, h := s.Size()
	info := &SpriteInfo{
		Texture: s.Texture(),
		Size:    [2]float32{w, h},
		UV0:     [2]float32{uvs[0][0], 1 - uvs[0][1]},
		UV1:     [2]float32{uvs[1][0], 1 - uvs[1][1]},
	}
	if cacheable {
		r.sprites[s] = info
	}
	return info
}

// Shutdown clears every table and destroys the atlas texture.
func (r *Registry) Shutdown() {
	clear(r.table)
	r.table = r.table[:0]
	clear(r.ids)
	clear(r.sprites)
	if r.atlas != nil {
		r.atlas.Destroy()
		r.atlas = nil
	}
}

func (r *Registry) register(tex gpu.Texture) ID {
	r.table = append(r.table, tex)
	id := ID(len(r.table))
	if tex != nil {
		r.ids[tex] = id
	}
	return id
}
