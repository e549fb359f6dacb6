// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package input defines the key identifiers that
// a window system delivers to the scene graph.
// The scene graph never polls input devices; keys
// are pushed to it as discrete presses.
package input

import (
	"strings"

	"github.com/pkg/errors"
)

// Key is the type of keyboard keys.
type Key int

// Keyboard keys.
const (
	KeyUnknown Key = iota
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
	KeyMinus
	KeyEqual
	KeySpace
	KeyReturn
	KeyTab
	KeyBackspace
	KeyEsc
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
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPadMinus
	KeyPadPlus
	keyCount
)

var keyNames = [keyCount]string{
	KeyUnknown:   "Unknown",
	Key0:         "0",
	Key1:         "1",
	Key2:         "2",
	Key3:         "3",
	Key4:         "4",
	Key5:         "5",
	Key6:         "6",
	Key7:         "7",
	Key8:         "8",
	Key9:         "9",
	KeyA:         "A",
	KeyB:         "B",
	KeyC:         "C",
	KeyD:         "D",
	KeyE:         "E",
	KeyF:         "F",
	KeyG:         "G",
	KeyH:         "H",
	KeyI:         "I",
	KeyJ:         "J",
	KeyK:         "K",
	KeyL:         "L",
	KeyM:         "M",
	KeyN:         "N",
	KeyO:         "O",
	KeyP:         "P",
	KeyQ:         "Q",
	KeyR:         "R",
	KeyS:         "S",
	KeyT:         "T",
	KeyU:         "U",
	KeyV:         "V",
	KeyW:         "W",
	KeyX:         "X",
	KeyY:         "Y",
	KeyZ:         "Z",
	KeyMinus:     "Minus",
	KeyEqual:     "Equal",
	KeySpace:     "Space",
	KeyReturn:    "Return",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyEsc:       "Esc",
	KeyF1:        "F1",
	KeyF2:        "F2",
	KeyF3:        "F3",
	KeyF4:        "F4",
	KeyF5:        "F5",
	KeyF6:        "F6",
	KeyF7:        "F7",
	KeyF8:        "F8",
	KeyF9:        "F9",
	KeyF10:       "F10",
	KeyF11:       "F11",
	KeyF12:       "F12",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyPadMinus:  "PadMinus",
	KeyPadPlus:   "PadPlus",
}

// String returns the name of k.
func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return keyNames[KeyUnknown]
	}
	return keyNames[k]
}

// ErrUnknownKey means that a key name could not be parsed.
var ErrUnknownKey = errors.New("input: unknown key")

// ParseKey returns the Key whose name is s.
// The comparison is case-insensitive.
func ParseKey(s string) (Key, error) {
	for k := Key0; k < keyCount; k++ {
		if strings.EqualFold(keyNames[k], s) {
			return k, nil
		}
	}
	return KeyUnknown, errors.Wrapf(ErrUnknownKey, "%q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(b []byte) (err error) {
	*k, err = ParseKey(string(b))
	return
}

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
