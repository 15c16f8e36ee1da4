package guibridge

import (
	"slices"

	"github.com/gogpu/gputypes"

	"github.com/go-theft-auto/guibridge/gui"
)

// TextureAdd asks the render side to bind an image under a handle.
//
// An add holds its own reference to a RetainedRef, so the image outlives
// an Unregister that happens while the add is in flight. Whoever ends up
// with the add calls Release exactly once: the renderer when the binding
// is dropped, or when the add is cancelled.
type TextureAdd struct {
	ID  gui.TextureID
	Ref ImageRef
}

func newTextureAdd(id gui.TextureID, ref ImageRef) TextureAdd {
	if rr, ok := ref.(RetainedRef); ok {
		rr.Retain()
	}
	return TextureAdd{ID: id, Ref: ref}
}

// Release drops the reference the add holds.
func (a TextureAdd) Release() {
	if rr, ok := a.Ref.(RetainedRef); ok {
		rr.Release()
	}
}

// Rebuild carries the update-side results of a reconfiguration to the
// render side: the new target parameters and the regenerated font atlas.
type Rebuild struct {
	Format gputypes.TextureFormat
	Scale  float32

	FontTexture gui.TextureID
	// FontPixels is the atlas as RGBA32, FontWidth*FontHeight*4 bytes.
	FontPixels            []byte
	FontWidth, FontHeight int
}

// FramePacket is everything that crosses from the update goroutine to the
// render goroutine for one frame. The receiver owns it.
type FramePacket struct {
	// Snapshot may be nil when no frame finished since the last extract.
	Snapshot *DrawSnapshot
	// Rebuild is set when the target format or scale changed.
	Rebuild *Rebuild
	// Removes apply before Adds.
	Removes []gui.TextureID
	Adds    []TextureAdd
}

// Empty reports whether the packet carries no work.
func (p *FramePacket) Empty() bool {
	return p.Snapshot == nil && p.Rebuild == nil && len(p.Removes) == 0 && len(p.Adds) == 0
}

// merge folds a newer packet into an unconsumed older one.
//
// A snapshot never survives a newer rebuild: it was laid out against the
// atlas the rebuild replaces. Texture operations are concatenated. The
// renderer applies the rebuild first, which drops every binding, and a
// removal cancels any add of the same handle in the batch, so older adds
// of since unregistered handles never bind. Their references are released
// there, on the render goroutine.
func merge(older, newer *FramePacket) *FramePacket {
	out := &FramePacket{
		Snapshot: newer.Snapshot,
		Rebuild:  newer.Rebuild,
		Removes:  slices.Concat(older.Removes, newer.Removes),
		Adds:     slices.Concat(older.Adds, newer.Adds),
	}
	if newer.Rebuild == nil {
		out.Rebuild = older.Rebuild
		if out.Snapshot == nil {
			out.Snapshot = older.Snapshot
		}
	}
	return out
}
