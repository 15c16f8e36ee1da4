package opengl

import (
	"sync/atomic"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gputypes"

	"github.com/go-theft-auto/guibridge"
	"github.com/go-theft-auto/guibridge/render"
)

// Host adapts a GLFW window to the bridge. Callbacks, Frame and Target run
// on the main goroutine with the event loop. The Surface is read from the
// render goroutine.
type Host struct {
	window *glfw.Window

	keys    guibridge.KeySet
	buttons [3]bool
	scroll  []guibridge.ScrollEvent
	chars   []guibridge.KeyboardEvent

	lastTime float64
	surface  *Surface
}

// NewHost installs input callbacks on window. format is the color format
// of the window's default framebuffer.
func NewHost(window *glfw.Window, format gputypes.TextureFormat) *Host {
	h := &Host{
		window:   window,
		keys:     make(guibridge.KeySet),
		lastTime: glfw.GetTime(),
		surface:  &Surface{format: format},
	}

	window.SetKeyCallback(h.keyCallback)
	window.SetCharCallback(h.charCallback)
	window.SetMouseButtonCallback(h.mouseButtonCallback)
	window.SetScrollCallback(h.scrollCallback)
	window.SetFocusCallback(h.focusCallback)

	h.updateSurface()
	return h
}

// Frame returns the input gathered since the previous call. Call it once
// per update, after glfw.PollEvents.
func (h *Host) Frame() guibridge.HostInput {
	now := glfw.GetTime()
	in := guibridge.HostInput{
		Window:      h.windowState(),
		Keys:        h.keys,
		MouseLeft:   h.buttons[0],
		MouseRight:  h.buttons[1],
		MouseMiddle: h.buttons[2],
		Scroll:      h.scroll,
		Chars:       h.chars,
		DeltaTime:   float32(now - h.lastTime),
	}
	h.lastTime = now
	h.scroll = nil
	h.chars = nil
	h.updateSurface()
	return in
}

// Target describes the window for guibridge.Context.Extract.
func (h *Host) Target() guibridge.Target {
	if h.window.ShouldClose() {
		return guibridge.Target{}
	}
	t := guibridge.Target{PrimaryWindow: true, Format: h.surface.format}
	if ws := h.windowState(); ws != nil {
		t.Scale = ws.ScaleFactor
	}
	return t
}

// Surface is the window as the render goroutine sees it.
func (h *Host) Surface() *Surface {
	return h.surface
}

// windowState reports nil while the window is closing. A minimized window
// has a zero size and scale.
func (h *Host) windowState() *guibridge.WindowState {
	if h.window.ShouldClose() {
		return nil
	}
	w, _ := h.window.GetSize()
	fbW, fbH := h.window.GetFramebufferSize()
	sx, _ := h.window.GetContentScale()
	ws := logicalWindow(w, fbW, fbH, sx)
	if h.window.GetAttrib(glfw.Hovered) == glfw.True && w > 0 {
		x, y := h.window.GetCursorPos()
		// Cursor positions are in screen coordinates, like GetSize.
		k := ws.Width / float32(w)
		ws.Cursor.X, ws.Cursor.Y = float32(x)*k, float32(y)*k
		ws.HasCursor = true
	}
	return ws
}

// logicalWindow derives the logical size from the framebuffer and the
// monitor content scale. Screen coordinates are logical on macOS but
// pixels on Windows and X11, so the window size alone cannot tell.
func logicalWindow(w, fbW, fbH int, contentScale float32) *guibridge.WindowState {
	if w <= 0 || fbW <= 0 {
		return &guibridge.WindowState{}
	}
	if contentScale <= 0 {
		contentScale = 1
	}
	return &guibridge.WindowState{
		Width:       float32(fbW) / contentScale,
		Height:      float32(fbH) / contentScale,
		ScaleFactor: contentScale,
	}
}

func (h *Host) updateSurface() {
	w, ht := h.window.GetFramebufferSize()
	h.surface.width.Store(int32(w))
	h.surface.height.Store(int32(ht))
}

func (h *Host) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	k := glfwKeyToHostKey(key)
	if k == guibridge.HostKeyUnknown {
		return
	}

	switch action {
	case glfw.Press, glfw.Repeat:
		h.keys.Press(k)
	case glfw.Release:
		h.keys.Release(k)
	}
}

// GLFW composes dead keys itself, so every char is a finished character.
func (h *Host) charCallback(w *glfw.Window, char rune) {
	h.chars = append(h.chars, guibridge.KeyboardEvent{
		Pressed: true,
		Kind:    guibridge.LogicalCharacter,
		Text:    string(char),
	})
}

func (h *Host) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	i := glfwMouseButtonIndex(button)
	if i < 0 {
		return
	}

	switch action {
	case glfw.Press:
		h.buttons[i] = true
	case glfw.Release:
		h.buttons[i] = false
	}
}

func (h *Host) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	h.scroll = append(h.scroll, guibridge.ScrollEvent{X: float32(xoff), Y: float32(yoff)})
}

// Releases are lost while unfocused.
func (h *Host) focusCallback(w *glfw.Window, focused bool) {
	if !focused {
		clear(h.keys)
		h.buttons = [3]bool{}
	}
}

// Surface implements render.Window for a GLFW window's default
// framebuffer.
type Surface struct {
	format        gputypes.TextureFormat
	width, height atomic.Int32
}

// SwapchainView implements render.Window. It fails while the window is
// minimized.
func (s *Surface) SwapchainView() (render.TextureView, bool) {
	w, h := int(s.width.Load()), int(s.height.Load())
	if w <= 0 || h <= 0 {
		return nil, false
	}
	return &surfaceView{width: w, height: h}, true
}

// SwapchainFormat implements render.Window.
func (s *Surface) SwapchainFormat() gputypes.TextureFormat {
	return s.format
}

// RenderContext runs graph nodes against a device and an optional window.
type RenderContext struct {
	dev     *Device
	surface *Surface
}

// NewRenderContext pairs dev with surface. A nil surface means there is no
// primary window.
func NewRenderContext(dev *Device, surface *Surface) *RenderContext {
	return &RenderContext{dev: dev, surface: surface}
}

// PrimaryWindow implements render.RenderContext.
func (c *RenderContext) PrimaryWindow() (render.Window, bool) {
	if c.surface == nil {
		return nil, false
	}
	return c.surface, true
}

// Device implements render.RenderContext.
func (c *RenderContext) Device() render.Device {
	return c.dev
}

// glfwMouseButtonIndex maps GLFW mouse buttons to left, right and middle.
func glfwMouseButtonIndex(button glfw.MouseButton) int {
	switch button {
	case glfw.MouseButtonLeft:
		return 0
	case glfw.MouseButtonRight:
		return 1
	case glfw.MouseButtonMiddle:
		return 2
	default:
		return -1
	}
}

// glfwKeyToHostKey maps GLFW keys to physical host keys.
func glfwKeyToHostKey(key glfw.Key) guibridge.HostKey {
	switch {
	case key >= glfw.Key0 && key <= glfw.Key9:
		return guibridge.HostKeyDigit0 + guibridge.HostKey(key-glfw.Key0)
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		return guibridge.HostKeyA + guibridge.HostKey(key-glfw.KeyA)
	case key >= glfw.KeyF1 && key <= glfw.KeyF12:
		return guibridge.HostKeyF1 + guibridge.HostKey(key-glfw.KeyF1)
	case key >= glfw.KeyKP0 && key <= glfw.KeyKP9:
		return guibridge.HostKeyNumpad0 + guibridge.HostKey(key-glfw.KeyKP0)
	}
	return glfwKeys[key]
}

var glfwKeys = map[glfw.Key]guibridge.HostKey{
	glfw.KeyTab:          guibridge.HostKeyTab,
	glfw.KeyLeft:         guibridge.HostKeyArrowLeft,
	glfw.KeyRight:        guibridge.HostKeyArrowRight,
	glfw.KeyUp:           guibridge.HostKeyArrowUp,
	glfw.KeyDown:         guibridge.HostKeyArrowDown,
	glfw.KeyPageUp:       guibridge.HostKeyPageUp,
	glfw.KeyPageDown:     guibridge.HostKeyPageDown,
	glfw.KeyHome:         guibridge.HostKeyHome,
	glfw.KeyEnd:          guibridge.HostKeyEnd,
	glfw.KeyInsert:       guibridge.HostKeyInsert,
	glfw.KeyDelete:       guibridge.HostKeyDelete,
	glfw.KeyBackspace:    guibridge.HostKeyBackspace,
	glfw.KeySpace:        guibridge.HostKeySpace,
	glfw.KeyEnter:        guibridge.HostKeyEnter,
	glfw.KeyEscape:       guibridge.HostKeyEscape,
	glfw.KeyLeftControl:  guibridge.HostKeyControlLeft,
	glfw.KeyLeftShift:    guibridge.HostKeyShiftLeft,
	glfw.KeyLeftAlt:      guibridge.HostKeyAltLeft,
	glfw.KeyLeftSuper:    guibridge.HostKeySuperLeft,
	glfw.KeyRightControl: guibridge.HostKeyControlRight,
	glfw.KeyRightShift:   guibridge.HostKeyShiftRight,
	glfw.KeyRightAlt:     guibridge.HostKeyAltRight,
	glfw.KeyRightSuper:   guibridge.HostKeySuperRight,
	glfw.KeyMenu:         guibridge.HostKeyContextMenu,
	glfw.KeyApostrophe:   guibridge.HostKeyQuote,
	glfw.KeyComma:        guibridge.HostKeyComma,
	glfw.KeyMinus:        guibridge.HostKeyMinus,
	glfw.KeyPeriod:       guibridge.HostKeyPeriod,
	glfw.KeySlash:        guibridge.HostKeySlash,
	glfw.KeySemicolon:    guibridge.HostKeySemicolon,
	glfw.KeyEqual:        guibridge.HostKeyEqual,
	glfw.KeyLeftBracket:  guibridge.HostKeyBracketLeft,
	glfw.KeyBackslash:    guibridge.HostKeyBackslash,
	glfw.KeyRightBracket: guibridge.HostKeyBracketRight,
	glfw.KeyGraveAccent:  guibridge.HostKeyBackquote,
	glfw.KeyCapsLock:     guibridge.HostKeyCapsLock,
	glfw.KeyScrollLock:   guibridge.HostKeyScrollLock,
	glfw.KeyNumLock:      guibridge.HostKeyNumLock,
	glfw.KeyPrintScreen:  guibridge.HostKeyPrintScreen,
	glfw.KeyPause:        guibridge.HostKeyPause,
	glfw.KeyKPDecimal:    guibridge.HostKeyNumpadDecimal,
	glfw.KeyKPDivide:     guibridge.HostKeyNumpadDivide,
	glfw.KeyKPMultiply:   guibridge.HostKeyNumpadMultiply,
	glfw.KeyKPSubtract:   guibridge.HostKeyNumpadSubtract,
	glfw.KeyKPAdd:        guibridge.HostKeyNumpadAdd,
	glfw.KeyKPEnter:      guibridge.HostKeyNumpadEnter,
	glfw.KeyKPEqual:      guibridge.HostKeyNumpadEqual,
}

var (
	_ render.Window        = (*Surface)(nil)
	_ render.RenderContext = (*RenderContext)(nil)
)
