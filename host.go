package guibridge

import (
	"github.com/gogpu/gputypes"

	"github.com/go-theft-auto/guibridge/gui"
)

// WindowState describes the primary window as the host sees it this frame.
type WindowState struct {
	// Width and Height are the drawable size in logical pixels.
	Width, Height float32
	// ScaleFactor maps logical pixels to physical pixels.
	ScaleFactor float32
	// Cursor is the pointer position in logical pixels. It is only
	// meaningful when HasCursor is set.
	Cursor    gui.Vec2
	HasCursor bool
}

// ScrollEvent is one wheel movement in lines.
type ScrollEvent struct {
	X, Y float32
}

// LogicalKind classifies the logical meaning of a keyboard event.
type LogicalKind uint8

const (
	LogicalOther LogicalKind = iota
	LogicalCharacter
	LogicalDead
	LogicalSpace
)

// KeyboardEvent is a logical key event, used for text entry only.
type KeyboardEvent struct {
	Pressed bool
	Kind    LogicalKind
	// Text is the produced text for LogicalCharacter.
	Text string
	// Dead is the pending accent for LogicalDead, or zero.
	Dead rune
}

// KeyState reports which physical keys are held.
type KeyState interface {
	Pressed(HostKey) bool
}

// KeySet is a KeyState backed by a set.
type KeySet map[HostKey]struct{}

// Press marks a key as held.
func (s KeySet) Press(k HostKey) {
	if k != HostKeyUnknown {
		s[k] = struct{}{}
	}
}

// Release marks a key as up.
func (s KeySet) Release(k HostKey) {
	delete(s, k)
}

// Pressed implements KeyState.
func (s KeySet) Pressed(k HostKey) bool {
	_, ok := s[k]
	return ok
}

// HostInput is everything BeginFrame reads from the host.
type HostInput struct {
	// Window is nil when there is no primary window.
	Window *WindowState

	Keys KeyState

	MouseLeft, MouseRight, MouseMiddle bool

	// Scroll holds the frame's wheel events in arrival order.
	Scroll []ScrollEvent
	// Chars holds the frame's logical key events in arrival order.
	Chars []KeyboardEvent

	DeltaTime float32
}

// ImageRef is the host's handle to an image asset.
//
// A strong reference keeps the image loaded while it is held. The registry
// only accepts strong references.
type ImageRef interface {
	Strong() bool
}

// RetainedRef is implemented by reference-counted handles. The registry
// calls Retain on registration and Release on unregistration.
type RetainedRef interface {
	ImageRef
	Retain()
	Release()
}

// Target is what Extract observes about the render side this frame.
type Target struct {
	// PrimaryWindow is false when the host has no primary window.
	PrimaryWindow bool
	// Format is the swapchain format, or TextureFormatUndefined when the
	// window has no swapchain yet.
	Format gputypes.TextureFormat
	// Scale is the primary window's scale factor. Zero means unknown, e.g.
	// during shutdown.
	Scale float32
}
