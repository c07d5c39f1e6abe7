// Package keycodes provides the default KeycodeMap implementation.
// Resolving a character against the active keyboard layout is out of
// core scope (spec §1 non-goals): NullMap simply reports nothing
// beyond the built-in ASCII table already wired into keyevent, and is
// the map cmd/mkhd wires in until a real layout resolver collaborator
// is supplied.
package keycodes

import "github.com/Danondso/mkhd/internal/keyevent"

// NullMap never resolves anything; callers fall back to
// keyevent.CharKeyCode's built-in ASCII table.
type NullMap struct{}

// Keycode always reports no mapping.
func (NullMap) Keycode(ch rune) (keyevent.Key, bool) { return keyevent.InvalidKey, false }
