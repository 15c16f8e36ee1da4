package guibridge

import (
	"unicode/utf8"

	"github.com/go-theft-auto/guibridge/gui"
)

// HostKey is a physical key position, independent of keyboard layout.
// Backends translate their native key codes into HostKey.
type HostKey uint16

// HostKeyUnknown is never reported as pressed.
const HostKeyUnknown HostKey = 0

const (
	HostKeyTab HostKey = iota + 1
	HostKeyArrowLeft
	HostKeyArrowRight
	HostKeyArrowUp
	HostKeyArrowDown
	HostKeyPageUp
	HostKeyPageDown
	HostKeyHome
	HostKeyEnd
	HostKeyInsert
	HostKeyDelete
	HostKeyBackspace
	HostKeySpace
	HostKeyEnter
	HostKeyEscape
	HostKeyControlLeft
	HostKeyShiftLeft
	HostKeyAltLeft
	HostKeySuperLeft
	HostKeyControlRight
	HostKeyShiftRight
	HostKeyAltRight
	HostKeySuperRight
	HostKeyContextMenu
	HostKeyDigit0
	HostKeyDigit1
	HostKeyDigit2
	HostKeyDigit3
	HostKeyDigit4
	HostKeyDigit5
	HostKeyDigit6
	HostKeyDigit7
	HostKeyDigit8
	HostKeyDigit9
	HostKeyA
	HostKeyB
	HostKeyC
	HostKeyD
	HostKeyE
	HostKeyF
	HostKeyG
	HostKeyH
	HostKeyI
	HostKeyJ
	HostKeyK
	HostKeyL
	HostKeyM
	HostKeyN
	HostKeyO
	HostKeyP
	HostKeyQ
	HostKeyR
	HostKeyS
	HostKeyT
	HostKeyU
	HostKeyV
	HostKeyW
	HostKeyX
	HostKeyY
	HostKeyZ
	HostKeyF1
	HostKeyF2
	HostKeyF3
	HostKeyF4
	HostKeyF5
	HostKeyF6
	HostKeyF7
	HostKeyF8
	HostKeyF9
	HostKeyF10
	HostKeyF11
	HostKeyF12
	HostKeyQuote
	HostKeyComma
	HostKeyMinus
	HostKeyPeriod
	HostKeySlash
	HostKeySemicolon
	HostKeyEqual
	HostKeyBracketLeft
	HostKeyBackslash
	HostKeyBracketRight
	HostKeyBackquote
	HostKeyCapsLock
	HostKeyScrollLock
	HostKeyNumLock
	HostKeyPrintScreen
	HostKeyPause
	HostKeyNumpad0
	HostKeyNumpad1
	HostKeyNumpad2
	HostKeyNumpad3
	HostKeyNumpad4
	HostKeyNumpad5
	HostKeyNumpad6
	HostKeyNumpad7
	HostKeyNumpad8
	HostKeyNumpad9
	HostKeyNumpadDecimal
	HostKeyNumpadDivide
	HostKeyNumpadMultiply
	HostKeyNumpadSubtract
	HostKeyNumpadAdd
	HostKeyNumpadEnter
	HostKeyNumpadEqual
)

// guiToHost maps every gui key to the physical key that drives it.
// Gamepad, mouse and modifier-reserved keys stay HostKeyUnknown.
var guiToHost = [gui.KeyCount]HostKey{
	gui.KeyTab:          HostKeyTab,
	gui.KeyLeft:         HostKeyArrowLeft,
	gui.KeyRight:        HostKeyArrowRight,
	gui.KeyUp:           HostKeyArrowUp,
	gui.KeyDown:         HostKeyArrowDown,
	gui.KeyPageUp:       HostKeyPageUp,
	gui.KeyPageDown:     HostKeyPageDown,
	gui.KeyHome:         HostKeyHome,
	gui.KeyEnd:          HostKeyEnd,
	gui.KeyInsert:       HostKeyInsert,
	gui.KeyDelete:       HostKeyDelete,
	gui.KeyBackspace:    HostKeyBackspace,
	gui.KeySpace:        HostKeySpace,
	gui.KeyEnter:        HostKeyEnter,
	gui.KeyEscape:       HostKeyEscape,
	gui.KeyLeftCtrl:     HostKeyControlLeft,
	gui.KeyLeftShift:    HostKeyShiftLeft,
	gui.KeyLeftAlt:      HostKeyAltLeft,
	gui.KeyLeftSuper:    HostKeySuperLeft,
	gui.KeyRightCtrl:    HostKeyControlRight,
	gui.KeyRightShift:   HostKeyShiftRight,
	gui.KeyRightAlt:     HostKeyAltRight,
	gui.KeyRightSuper:   HostKeySuperRight,
	gui.KeyMenu:         HostKeyContextMenu,
	gui.KeyApostrophe:   HostKeyQuote,
	gui.KeyComma:        HostKeyComma,
	gui.KeyMinus:        HostKeyMinus,
	gui.KeyPeriod:       HostKeyPeriod,
	gui.KeySlash:        HostKeySlash,
	gui.KeySemicolon:    HostKeySemicolon,
	gui.KeyEqual:        HostKeyEqual,
	gui.KeyLeftBracket:  HostKeyBracketLeft,
	gui.KeyBackslash:    HostKeyBackslash,
	gui.KeyRightBracket: HostKeyBracketRight,
	gui.KeyGraveAccent:  HostKeyBackquote,
	gui.KeyCapsLock:     HostKeyCapsLock,
	gui.KeyScrollLock:   HostKeyScrollLock,
	gui.KeyNumLock:      HostKeyNumLock,
	gui.KeyPrintScreen:  HostKeyPrintScreen,
	gui.KeyPause:        HostKeyPause,

	gui.KeyKeypadDecimal:  HostKeyNumpadDecimal,
	gui.KeyKeypadDivide:   HostKeyNumpadDivide,
	gui.KeyKeypadMultiply: HostKeyNumpadMultiply,
	gui.KeyKeypadSubtract: HostKeyNumpadSubtract,
	gui.KeyKeypadAdd:      HostKeyNumpadAdd,
	gui.KeyKeypadEnter:    HostKeyNumpadEnter,
	gui.KeyKeypadEqual:    HostKeyNumpadEqual,
}

// Contiguous runs.
func init() {
	for i := range 10 {
		guiToHost[gui.Key0+gui.Key(i)] = HostKeyDigit0 + HostKey(i)
		guiToHost[gui.KeyKeypad0+gui.Key(i)] = HostKeyNumpad0 + HostKey(i)
	}
	for i := range 26 {
		guiToHost[gui.KeyA+gui.Key(i)] = HostKeyA + HostKey(i)
	}
	for i := range 12 {
		guiToHost[gui.KeyF1+gui.Key(i)] = HostKeyF1 + HostKey(i)
	}
}

// HostKeyFor returns the physical key bound to a gui key.
func HostKeyFor(k gui.Key) HostKey {
	if k < 0 || k >= gui.KeyCount {
		return HostKeyUnknown
	}
	return guiToHost[k]
}

// applyKeys copies physical key state into the gui input, key by key, and
// derives modifiers from either side's key.
func applyKeys(in *gui.InputState, keys KeyState) {
	pressed := func(k HostKey) bool {
		return k != HostKeyUnknown && keys != nil && keys.Pressed(k)
	}
	for k := gui.KeyNone + 1; k < gui.KeyCount; k++ {
		in.SetKey(k, pressed(guiToHost[k]))
	}
	in.ModCtrl = pressed(HostKeyControlLeft) || pressed(HostKeyControlRight)
	in.ModShift = pressed(HostKeyShiftLeft) || pressed(HostKeyShiftRight)
	in.ModAlt = pressed(HostKeyAltLeft) || pressed(HostKeyAltRight)
	in.ModSuper = pressed(HostKeySuperLeft) || pressed(HostKeySuperRight)
}

// applyChars forwards text entry: pressed events only, one code point each.
func applyChars(in *gui.InputState, events []KeyboardEvent) {
	for _, e := range events {
		if !e.Pressed {
			continue
		}
		switch e.Kind {
		case LogicalCharacter:
			if r, size := utf8.DecodeLastRuneInString(e.Text); size > 0 {
				in.AddInputChar(r)
			}
		case LogicalDead:
			if e.Dead != 0 {
				in.AddInputChar(e.Dead)
			}
		case LogicalSpace:
			in.AddInputChar(' ')
		}
	}
}
