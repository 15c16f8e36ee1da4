package guibridge

import "github.com/go-theft-auto/guibridge/gui"

// FrameSession is the handle to the frame being built. BeginFrame hands
// out one session at a time and EndFrame consumes it.
type FrameSession struct {
	owner      *Context
	generation uint64
	ended      bool
}

// UI returns the gui context to draw widgets into.
// It panics with ErrSessionEnded once the session was passed to EndFrame.
func (s *FrameSession) UI() *gui.Context {
	if s.ended {
		panic(ErrSessionEnded)
	}
	return s.owner.gui.Context()
}

// Generation is the frame number the session belongs to.
func (s *FrameSession) Generation() uint64 {
	return s.generation
}

// Live reports whether the session can still be used.
func (s *FrameSession) Live() bool {
	return !s.ended
}
