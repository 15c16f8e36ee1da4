package gui

import "strconv"

// MouseButton represents a mouse button.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
	MouseButtonCount
)

// Key represents an abstract keyboard key.
// Hosts translate their physical keys into this set once per frame.
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
	KeyLeftCtrl
	KeyLeftShift
	KeyLeftAlt
	KeyLeftSuper
	KeyRightCtrl
	KeyRightShift
	KeyRightAlt
	KeyRightSuper
	KeyMenu
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyApostrophe
	KeyComma
	KeyMinus
	KeyPeriod
	KeySlash
	KeySemicolon
	KeyEqual
	KeyLeftBracket
	KeyBackslash
	KeyRightBracket
	KeyGraveAccent
	KeyCapsLock
	KeyScrollLock
	KeyNumLock
	KeyPrintScreen
	KeyPause
	KeyKeypad0
	KeyKeypad1
	KeyKeypad2
	KeyKeypad3
	KeyKeypad4
	KeyKeypad5
	KeyKeypad6
	KeyKeypad7
	KeyKeypad8
	KeyKeypad9
	KeyKeypadDecimal
	KeyKeypadDivide
	KeyKeypadMultiply
	KeyKeypadSubtract
	KeyKeypadAdd
	KeyKeypadEnter
	KeyKeypadEqual

	// Gamepad, mouse and modifier-reserved keys exist so the key space
	// matches the usual immediate-mode layout. Keyboard hosts never
	// report them as pressed.
	KeyGamepadStart
	KeyGamepadBack
	KeyGamepadFaceLeft
	KeyGamepadFaceRight
	KeyGamepadFaceUp
	KeyGamepadFaceDown
	KeyGamepadDpadLeft
	KeyGamepadDpadRight
	KeyGamepadDpadUp
	KeyGamepadDpadDown
	KeyGamepadL1
	KeyGamepadR1
	KeyGamepadL2
	KeyGamepadR2
	KeyGamepadL3
	KeyGamepadR3
	KeyGamepadLStickLeft
	KeyGamepadLStickRight
	KeyGamepadLStickUp
	KeyGamepadLStickDown
	KeyGamepadRStickLeft
	KeyGamepadRStickRight
	KeyGamepadRStickUp
	KeyGamepadRStickDown
	KeyMouseLeft
	KeyMouseRight
	KeyMouseMiddle
	KeyMouseX1
	KeyMouseX2
	KeyMouseWheelX
	KeyMouseWheelY
	KeyReservedForModCtrl
	KeyReservedForModShift
	KeyReservedForModAlt
	KeyReservedForModSuper
	KeyCount
)

// Key repeat timing, in seconds.
const (
	KeyRepeatDelay    float32 = 0.4
	KeyRepeatInterval float32 = 0.03
)

// InputState is the input of the current frame. The host fills it once per
// frame before widgets run.
type InputState struct {
	MouseX, MouseY float32

	// Wheel movement this frame, in lines.
	MouseWheelX, MouseWheelY float32

	// Text typed this frame.
	InputChars []rune

	ModCtrl, ModShift, ModAlt, ModSuper bool

	mouse [MouseButtonCount]edge
	keys  [KeyCount]edge

	// Hold time of each key this frame and the frame before, for repeats.
	held, prevHeld [KeyCount]float32
}

// edge is a button's level and its transitions this frame.
type edge struct {
	down, pressed, released bool
}

func (e *edge) set(down bool) (changed bool) {
	if down == e.down {
		return false
	}
	e.down = down
	if down {
		e.pressed = true
	} else {
		e.released = true
	}
	return true
}

// NewInputState creates an empty InputState.
func NewInputState() *InputState {
	return &InputState{InputChars: make([]rune, 0, 16)}
}

// Reset clears per-frame input. Held buttons and keys survive; edges,
// wheel and characters do not.
func (s *InputState) Reset() {
	for i := range s.mouse {
		s.mouse[i].pressed, s.mouse[i].released = false, false
	}
	for i := range s.keys {
		s.keys[i].pressed, s.keys[i].released = false, false
	}
	s.InputChars = s.InputChars[:0]
	s.MouseWheelX, s.MouseWheelY = 0, 0
}

// SetMousePos sets the mouse position in logical pixels.
func (s *InputState) SetMousePos(x, y float32) {
	s.MouseX, s.MouseY = x, y
}

// SetMouseButton sets a mouse button's level.
func (s *InputState) SetMouseButton(button MouseButton, down bool) {
	if validButton(button) {
		s.mouse[button].set(down)
	}
}

// SetKey sets a key's level.
func (s *InputState) SetKey(key Key, down bool) {
	if key <= KeyNone || key >= KeyCount {
		return
	}
	if s.keys[key].set(down) {
		s.held[key], s.prevHeld[key] = 0, 0
	}
}

// UpdateKeyRepeat advances the hold time of every held key by dt.
// Call it once per frame.
func (s *InputState) UpdateKeyRepeat(dt float32) {
	for k := range s.keys {
		if s.keys[k].down {
			s.prevHeld[k] = s.held[k]
			s.held[k] += dt
		}
	}
}

// SetMouseWheel sets the wheel movement of this frame.
func (s *InputState) SetMouseWheel(x, y float32) {
	s.MouseWheelX, s.MouseWheelY = x, y
}

// AddInputChar appends a typed character.
func (s *InputState) AddInputChar(ch rune) {
	s.InputChars = append(s.InputChars, ch)
}

// HasInputChars reports whether characters were typed this frame.
func (s *InputState) HasInputChars() bool {
	return len(s.InputChars) > 0
}

func validButton(b MouseButton) bool { return b >= 0 && b < MouseButtonCount }

func validKey(k Key) bool { return k >= 0 && k < KeyCount }

// MouseDown reports whether a mouse button is held.
func (s *InputState) MouseDown(b MouseButton) bool {
	return validButton(b) && s.mouse[b].down
}

// MouseClicked reports whether a mouse button went down this frame.
func (s *InputState) MouseClicked(b MouseButton) bool {
	return validButton(b) && s.mouse[b].pressed
}

// MouseReleased reports whether a mouse button went up this frame.
func (s *InputState) MouseReleased(b MouseButton) bool {
	return validButton(b) && s.mouse[b].released
}

// KeyDown reports whether a key is held.
func (s *InputState) KeyDown(k Key) bool {
	return validKey(k) && s.keys[k].down
}

// KeyPressed reports whether a key went down this frame.
func (s *InputState) KeyPressed(k Key) bool {
	return validKey(k) && s.keys[k].pressed
}

// KeyReleased reports whether a key went up this frame.
func (s *InputState) KeyReleased(k Key) bool {
	return validKey(k) && s.keys[k].released
}

// KeyRepeated is true on the initial press, then after KeyRepeatDelay,
// then every KeyRepeatInterval while the key stays held.
func (s *InputState) KeyRepeated(k Key) bool {
	if !validKey(k) {
		return false
	}
	if s.keys[k].pressed {
		return true
	}
	if !s.keys[k].down || s.held[k] < KeyRepeatDelay {
		return false
	}
	ticks := func(t float32) int {
		if t < KeyRepeatDelay {
			return -1
		}
		return int((t - KeyRepeatDelay) / KeyRepeatInterval)
	}
	return ticks(s.held[k]) > ticks(s.prevHeld[k])
}

var keyNames = [KeyCount]string{
	KeyNone: "--", KeyTab: "Tab", KeyLeft: "Left", KeyRight: "Right", KeyUp: "Up", KeyDown: "Down",
	KeyPageUp: "PgUp", KeyPageDown: "PgDn", KeyHome: "Home", KeyEnd: "End", KeyInsert: "Ins",
	KeyDelete: "Del", KeyBackspace: "Backspace", KeySpace: "Space", KeyEnter: "Enter", KeyEscape: "Esc",
	KeyLeftCtrl: "LCtrl", KeyLeftShift: "LShift", KeyLeftAlt: "LAlt", KeyLeftSuper: "LSuper",
	KeyRightCtrl: "RCtrl", KeyRightShift: "RShift", KeyRightAlt: "RAlt", KeyRightSuper: "RSuper",
	KeyMenu: "Menu", KeyApostrophe: "'", KeyComma: ",", KeyMinus: "-", KeyPeriod: ".", KeySlash: "/",
	KeySemicolon: ";", KeyEqual: "=", KeyLeftBracket: "[", KeyBackslash: "\\", KeyRightBracket: "]",
	KeyGraveAccent: "`", KeyCapsLock: "CapsLock", KeyScrollLock: "ScrollLock", KeyNumLock: "NumLock",
	KeyPrintScreen: "PrtSc", KeyPause: "Pause", KeyKeypadDecimal: "KP.", KeyKeypadDivide: "KP/",
	KeyKeypadMultiply: "KP*", KeyKeypadSubtract: "KP-", KeyKeypadAdd: "KP+", KeyKeypadEnter: "KPEnter",
	KeyKeypadEqual: "KP=",
}

// KeyName returns a human-readable name for a key.
func KeyName(k Key) string {
	switch {
	case k < 0 || k >= KeyCount:
		return "?"
	case k >= Key0 && k <= Key9:
		return string(rune('0' + k - Key0))
	case k >= KeyA && k <= KeyZ:
		return string(rune('A' + k - KeyA))
	case k >= KeyF1 && k <= KeyF12:
		return "F" + strconv.Itoa(int(k-KeyF1)+1)
	case k >= KeyKeypad0 && k <= KeyKeypad9:
		return "KP" + string(rune('0'+k-KeyKeypad0))
	}
	if name := keyNames[k]; name != "" {
		return name
	}
	return "?"
}
