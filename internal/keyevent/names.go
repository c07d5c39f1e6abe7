package keyevent

import "strings"

// ModifierFlag maps a lowercased modifier-name token (as classified by
// the tokenizer) to its Flags bit.
func ModifierFlag(name string) (Flags, bool) {
	f, ok := modifierFlags[strings.ToLower(name)]
	return f, ok
}

var modifierFlags = map[string]Flags{
	"alt": Alt, "lalt": LAlt, "ralt": RAlt,
	"shift": Shift, "lshift": LShift, "rshift": RShift,
	"cmd": Cmd, "lcmd": LCmd, "rcmd": RCmd,
	"ctrl": Ctrl, "lctrl": LCtrl, "rctrl": RCtrl,
	"fn": Fn, "nx": NX,
}

// FamilyOf reports which modifier family (Alt/Shift/Cmd/Ctrl) a bit
// belongs to, used by the parser to reject a rule that sets two bits
// from the same family.
func FamilyOf(f Flags) (generic Flags, ok bool) {
	for _, fam := range families {
		if f&(fam.generic|fam.left|fam.right) != 0 {
			return fam.generic, true
		}
	}
	return 0, false
}

// LiteralKeyCode maps a lowercased literal-keyname token to its evdev
// keycode, following the teacher's hand-written keyNameMap
// (internal/hotkey/hotkey_linux.go) extended to cover every name the
// tokenizer's literalKeyNames table recognizes.
func LiteralKeyCode(name string) (Key, bool) {
	k, ok := literalKeyCodes[strings.ToLower(name)]
	return k, ok
}

var literalKeyCodes = map[string]Key{
	"return": 28, "space": 57, "tab": 15, "delete": 111, "escape": 1,
	"up": 103, "down": 108, "left": 105, "right": 106,
	"home": 102, "end": 107, "pageup": 104, "pagedown": 109, "insert": 110,
	"capslock": 58, "numlock": 69, "scrolllock": 70,
	"play": 207, "pause": 119, "next": 163, "previous": 165, "rewind": 168, "fastforward": 208,
	"mute": 113, "volumeup": 115, "volumedown": 114,
	"brightnessup": 225, "brightnessdown": 224,
	"illuminationup": 230, "illuminationdown": 229,
	"f1": 59, "f2": 60, "f3": 61, "f4": 62, "f5": 63, "f6": 64, "f7": 65, "f8": 66,
	"f9": 67, "f10": 68, "f11": 87, "f12": 88,
	"f13": 183, "f14": 184, "f15": 185, "f16": 186, "f17": 187, "f18": 188,
	"f19": 189, "f20": 190,
}

// CharKeyCode maps a single-character key token to its evdev keycode
// for the common US-layout letters/digits the DSL accepts without a
// KeycodeMap lookup. Anything outside this table must be resolved
// through the caller-supplied KeycodeMap (spec §6 "keycode_map" — the
// core does not embed keyboard-layout knowledge).
func CharKeyCode(ch rune) (Key, bool) {
	k, ok := charKeyCodes[ch]
	return k, ok
}

var charKeyCodes = map[rune]Key{
	'a': 30, 'b': 48, 'c': 46, 'd': 32, 'e': 18, 'f': 33, 'g': 34, 'h': 35,
	'i': 23, 'j': 36, 'k': 37, 'l': 38, 'm': 50, 'n': 49, 'o': 24, 'p': 25,
	'q': 16, 'r': 19, 's': 31, 't': 20, 'u': 22, 'v': 47, 'w': 17, 'x': 45,
	'y': 21, 'z': 44,
	'0': 11, '1': 2, '2': 3, '3': 4, '4': 5, '5': 6, '6': 7, '7': 8, '8': 9, '9': 10,
	'-': 12, '=': 13, '[': 26, ']': 27, ';': 39, '\'': 40, '`': 41, '\\': 43,
	',': 51, '.': 52, '/': 53,
}
