package input

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	ErrUnknownKey    = errors.New("input: unknown key")
	ErrUnknownButton = errors.New("input: unknown mouse button")
)

// keyNames is the closed set of key names accepted by ParseKey.
var keyNames = map[string]ebiten.Key{
	"backspace": ebiten.KeyBackspace,
	"tab":       ebiten.KeyTab,
	"return":    ebiten.KeyEnter,
	"pause":     ebiten.KeyPause,
	"escape":    ebiten.KeyEscape,
	"space":     ebiten.KeySpace,
	"quote":     ebiten.KeyQuote,
	"comma":     ebiten.KeyComma,
	"minus":     ebiten.KeyMinus,
	"period":    ebiten.KeyPeriod,
	"slash":     ebiten.KeySlash,
	"semicolon": ebiten.KeySemicolon,
	"equals":    ebiten.KeyEqual,
	"lbracket":  ebiten.KeyBracketLeft,
	"rbracket":  ebiten.KeyBracketRight,
	"backslash": ebiten.KeyBackslash,
	"backquote": ebiten.KeyBackquote,
	"delete":    ebiten.KeyDelete,
	"insert":    ebiten.KeyInsert,
	"home":      ebiten.KeyHome,
	"end":       ebiten.KeyEnd,
	"pageup":    ebiten.KeyPageUp,
	"pagedown":  ebiten.KeyPageDown,
	"up":        ebiten.KeyArrowUp,
	"down":      ebiten.KeyArrowDown,
	"left":      ebiten.KeyArrowLeft,
	"right":     ebiten.KeyArrowRight,
	"capslock":  ebiten.KeyCapsLock,
	"lshift":    ebiten.KeyShiftLeft,
	"rshift":    ebiten.KeyShiftRight,
	"lctrl":     ebiten.KeyControlLeft,
	"rctrl":     ebiten.KeyControlRight,
	"lalt":      ebiten.KeyAltLeft,
	"ralt":      ebiten.KeyAltRight,
	"lmeta":     ebiten.KeyMetaLeft,
	"rmeta":     ebiten.KeyMetaRight,

	"0": ebiten.KeyDigit0, "1": ebiten.KeyDigit1, "2": ebiten.KeyDigit2, "3": ebiten.KeyDigit3,
	"4": ebiten.KeyDigit4, "5": ebiten.KeyDigit5, "6": ebiten.KeyDigit6, "7": ebiten.KeyDigit7,
	"8": ebiten.KeyDigit8, "9": ebiten.KeyDigit9,

	"a": ebiten.KeyA, "b": ebiten.KeyB, "c": ebiten.KeyC, "d": ebiten.KeyD, "e": ebiten.KeyE,
	"f": ebiten.KeyF, "g": ebiten.KeyG, "h": ebiten.KeyH, "i": ebiten.KeyI, "j": ebiten.KeyJ,
	"k": ebiten.KeyK, "l": ebiten.KeyL, "m": ebiten.KeyM, "n": ebiten.KeyN, "o": ebiten.KeyO,
	"p": ebiten.KeyP, "q": ebiten.KeyQ, "r": ebiten.KeyR, "s": ebiten.KeyS, "t": ebiten.KeyT,
	"u": ebiten.KeyU, "v": ebiten.KeyV, "w": ebiten.KeyW, "x": ebiten.KeyX, "y": ebiten.KeyY,
	"z": ebiten.KeyZ,

	"f1": ebiten.KeyF1, "f2": ebiten.KeyF2, "f3": ebiten.KeyF3, "f4": ebiten.KeyF4,
	"f5": ebiten.KeyF5, "f6": ebiten.KeyF6, "f7": ebiten.KeyF7, "f8": ebiten.KeyF8,
	"f9": ebiten.KeyF9, "f10": ebiten.KeyF10, "f11": ebiten.KeyF11, "f12": ebiten.KeyF12,

	"kp0": ebiten.KeyNumpad0, "kp1": ebiten.KeyNumpad1, "kp2": ebiten.KeyNumpad2,
	"kp3": ebiten.KeyNumpad3, "kp4": ebiten.KeyNumpad4, "kp5": ebiten.KeyNumpad5,
	"kp6": ebiten.KeyNumpad6, "kp7": ebiten.KeyNumpad7, "kp8": ebiten.KeyNumpad8,
	"kp9": ebiten.KeyNumpad9, "kp_enter": ebiten.KeyNumpadEnter,
}

// Button is a mouse button, including the wheel pseudo-buttons.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
	ButtonWheelUp
	ButtonWheelDown
	buttonCount
)

var buttonNames = map[string]Button{
	"left":      ButtonLeft,
	"middle":    ButtonMiddle,
	"right":     ButtonRight,
	"wheelup":   ButtonWheelUp,
	"wheeldown": ButtonWheelDown,
}

func (b Button) String() string {
	for name, v := range buttonNames {
		if v == b {
			return name
		}
	}
	return fmt.Sprintf("Button(%d)", int(b))
}

// ParseKey maps a key name to its key code. Names are case-insensitive.
func ParseKey(name string) (ebiten.Key, error) {
	k, ok := keyNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}
	return k, nil
}

// MustKey is ParseKey for names fixed at compile time.
func MustKey(name string) ebiten.Key {
	k, err := ParseKey(name)
	if err != nil {
		panic(err)
	}
	return k
}

func ParseButton(name string) (Button, error) {
	b, ok := buttonNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownButton, name)
	}
	return b, nil
}

// KeyNames lists every accepted key name in sorted order.
func KeyNames() []string {
	names := make([]string, 0, len(keyNames))
	for name := range keyNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
