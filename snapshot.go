package guibridge

import (
	"io"

	"github.com/davecgh/go-spew/spew"

	"github.com/go-theft-auto/guibridge/gui"
)

// DrawSnapshot is an owned copy of one finished frame. Nothing in it
// aliases the gui's pooled buffers, so it may cross goroutines freely.
//
// Treat the contents as read-only.
type DrawSnapshot struct {
	frame uint64
	data  *gui.DrawData
}

func newSnapshot(frame uint64, dd *gui.DrawData) *DrawSnapshot {
	return &DrawSnapshot{frame: frame, data: dd.Clone()}
}

// Frame is the generation of the session that produced the snapshot.
func (s *DrawSnapshot) Frame() uint64 {
	return s.frame
}

// DrawData returns the frame's draw lists.
func (s *DrawSnapshot) DrawData() *gui.DrawData {
	return s.data
}

// DisplaySize is the frame's size in logical pixels.
func (s *DrawSnapshot) DisplaySize() gui.Vec2 {
	return s.data.DisplaySize
}

// FramebufferScale maps logical pixels to framebuffer pixels.
func (s *DrawSnapshot) FramebufferScale() gui.Vec2 {
	return s.data.FramebufferScale
}

// Textures returns the distinct handles the frame draws with.
func (s *DrawSnapshot) Textures() []gui.TextureID {
	return s.data.Textures()
}

// Empty reports whether the frame has nothing to draw.
func (s *DrawSnapshot) Empty() bool {
	return s.data.TotalIdxCount() == 0
}

var spewConfig = func() *spew.ConfigState {
	c := spew.NewDefaultConfig()
	c.DisableCapacities = true
	c.DisablePointerAddresses = true
	return c
}()

// Dump writes a readable dump of the snapshot, for debugging.
func (s *DrawSnapshot) Dump(w io.Writer) {
	spewConfig.Fdump(w, s.frame, s.data)
}
