package guibridge

import (
	"slices"
	"sync"

	"github.com/go-theft-auto/guibridge/gui"
)

// TextureDeltas is one drain of the registry's queues, in call order.
type TextureDeltas struct {
	Adds    []gui.TextureID
	Removes []gui.TextureID
}

// Empty reports whether the drain carried nothing.
func (d TextureDeltas) Empty() bool {
	return len(d.Adds) == 0 && len(d.Removes) == 0
}

// TextureRegistry maps texture handles to host images and records every
// change since the last drain.
//
// The registry is the only record of what is registered. The render side
// treats its binding table as write-only and rebuilds it from the queues.
type TextureRegistry struct {
	next    gui.TextureID
	entries map[gui.TextureID]ImageRef

	mu       sync.Mutex
	toAdd    []gui.TextureID
	toRemove []gui.TextureID
}

// NewTextureRegistry returns an empty registry. Handle 0 is never issued.
func NewTextureRegistry() *TextureRegistry {
	return &TextureRegistry{
		next:    gui.NoTexture + 1,
		entries: make(map[gui.TextureID]ImageRef),
	}
}

// Register stores a strong image reference and queues it for binding.
// It panics with ErrWeakImageRef when ref is nil or not strong.
func (r *TextureRegistry) Register(ref ImageRef) gui.TextureID {
	if ref == nil || !ref.Strong() {
		panic(ErrWeakImageRef)
	}
	id := r.alloc()
	if rr, ok := ref.(RetainedRef); ok {
		rr.Retain()
	}
	r.entries[id] = ref

	r.mu.Lock()
	r.toAdd = append(r.toAdd, id)
	r.mu.Unlock()

	logger().Debug("texture registered", "id", id)
	return id
}

// Unregister drops a registration and queues its binding for removal.
// Unknown handles are ignored.
func (r *TextureRegistry) Unregister(id gui.TextureID) {
	ref, ok := r.entries[id]
	if !ok {
		return
	}
	delete(r.entries, id)
	if rr, ok := ref.(RetainedRef); ok {
		rr.Release()
	}

	r.mu.Lock()
	r.toRemove = append(r.toRemove, id)
	r.mu.Unlock()

	logger().Debug("texture unregistered", "id", id)
}

// Drain returns both queues and empties them in one step.
func (r *TextureRegistry) Drain() TextureDeltas {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := TextureDeltas{Adds: r.toAdd, Removes: r.toRemove}
	r.toAdd = nil
	r.toRemove = nil
	return d
}

// MarkAllForReAdd queues every live handle for binding again, in
// ascending order. Used after the render side dropped its bindings.
func (r *TextureRegistry) MarkAllForReAdd() {
	ids := r.Handles()
	r.mu.Lock()
	r.toAdd = append(r.toAdd, ids...)
	r.mu.Unlock()
}

// Lookup returns the image registered under id.
func (r *TextureRegistry) Lookup(id gui.TextureID) (ImageRef, bool) {
	ref, ok := r.entries[id]
	return ref, ok
}

// Len returns the number of live registrations.
func (r *TextureRegistry) Len() int {
	return len(r.entries)
}

// Handles returns the live handles in ascending order.
func (r *TextureRegistry) Handles() []gui.TextureID {
	ids := make([]gui.TextureID, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// reserve allocates a handle with no image behind it, e.g. for the font.
func (r *TextureRegistry) reserve() gui.TextureID {
	return r.alloc()
}

// skipPast makes sure the next handle is greater than id.
func (r *TextureRegistry) skipPast(id gui.TextureID) {
	r.next = max(r.next, id+1)
}

func (r *TextureRegistry) alloc() gui.TextureID {
	id := r.next
	r.next++
	return id
}
