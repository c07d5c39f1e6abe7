// Package keyevent defines the shared key-event data model: the physical
// and pseudo event types, the left/right-aware modifier flag bitmask, and
// the asymmetric matching rule a bound hotkey uses against an incoming
// event (spec §3, §4.C).
package keyevent

import evdev "github.com/holoplot/go-evdev"

// Key is the canonical keycode representation. It reuses evdev's EvCode
// type directly rather than re-declaring a parallel numeric type, since
// the rest of the daemon (tokenizer hex-keycodes, the Linux event source,
// the keycode map collaborator) all speak evdev codes natively.
type Key = evdev.EvCode

// InvalidKey is the sentinel for a KeyEvent that carries only modifiers
// and/or a pseudo-event, never a concrete key.
const InvalidKey Key = 0

// Type distinguishes real OS-delivered edges from the pseudo-events the
// dispatch engine itself produces.
type Type int

const (
	// Key matches either edge of a physical keystroke.
	Key Type = iota
	KeyDown
	KeyUp
	Unmatched
	EnterLayer
	ExitLayer
)

func (t Type) String() string {
	switch t {
	case Key:
		return "Key"
	case KeyDown:
		return "KeyDown"
	case KeyUp:
		return "KeyUp"
	case Unmatched:
		return "@unmatched"
	case EnterLayer:
		return "@enter_layer"
	case ExitLayer:
		return "@exit_layer"
	default:
		return "Type(?)"
	}
}

// IsPseudo reports whether t is one of the engine-synthesized event
// types rather than a type that arrives over the event_source.
func (t Type) IsPseudo() bool {
	switch t {
	case Unmatched, EnterLayer, ExitLayer:
		return true
	default:
		return false
	}
}

// Flags is a bitmask over the modifier families. For Alt/Shift/Cmd/Ctrl
// there is a side-agnostic "generic" bit plus two side-specific bits;
// a single rule sets at most one of the three per family (enforced by
// the parser, not by this type).
type Flags uint32

const (
	Alt Flags = 1 << iota
	LAlt
	RAlt
	Shift
	LShift
	RShift
	Cmd
	LCmd
	RCmd
	Ctrl
	LCtrl
	RCtrl
	Fn
	NX
)

// family bundles the three bits belonging to one side-aware modifier.
type family struct {
	generic, left, right Flags
}

var families = [4]family{
	{Alt, LAlt, RAlt},
	{Shift, LShift, RShift},
	{Cmd, LCmd, RCmd},
	{Ctrl, LCtrl, RCtrl},
}

// sideBits is the union of every left/right-specific bit, used to test
// whether an event's flags carry any side-specific information for a
// family.
func (f family) sideBits() Flags { return f.left | f.right }

// Has reports whether all bits in mask are set.
func (f Flags) Has(mask Flags) bool { return f&mask == mask }

// KeyEvent is a physical or pseudo event: the unit the tokenizer/parser
// produce (as a rule key) and the unit the dispatch engine consumes (as
// an incoming event to match).
type KeyEvent struct {
	Type  Type
	Flags Flags
	Key   Key
}

// RuleKey is the hashable subset of a KeyEvent used to index a layer's
// rule map (spec §4.C): the hash intentionally excludes modifier flags
// so every modifier variant of the same physical key (or pseudo-event)
// shares one hash bucket, and Match below does the precise left/right
// comparison within that bucket.
type RuleKey struct {
	Type Type
	Key  Key
}

// Of returns the RuleKey for e.
func (e KeyEvent) Of() RuleKey { return RuleKey{Type: e.Type, Key: e.Key} }

// Match reports whether an incoming event satisfies a rule's KeyEvent,
// per spec §4.C. Matching is directional: a rule is the left operand, an
// observed event is the right operand. Type must be identical. For
// Key/KeyDown/KeyUp rules, Key must be identical and, per modifier
// family, either the rule asks for the generic (side-agnostic) bit — in
// which case any of {generic, left, right} on the event satisfies it —
// or the rule asks for a specific side, in which case the event must
// carry exactly that side's bits and no other bit from the family.
func Match(rule, event KeyEvent) bool {
	if rule.Type != event.Type {
		return false
	}
	if rule.Type.IsPseudo() {
		return true
	}
	if rule.Key != event.Key {
		return false
	}
	if rule.Flags&Fn != event.Flags&Fn {
		return false
	}
	if rule.Flags&NX != event.Flags&NX {
		return false
	}
	for _, fam := range families {
		ruleBits := rule.Flags & (fam.generic | fam.left | fam.right)
		eventBits := event.Flags & (fam.generic | fam.left | fam.right)
		switch {
		case ruleBits == 0:
			if eventBits != 0 {
				return false
			}
		case ruleBits&fam.generic != 0:
			if eventBits == 0 {
				return false
			}
		default:
			if eventBits != ruleBits {
				return false
			}
		}
	}
	return true
}

// Merge OR-merges two key events as required when an alias contributes
// flags and/or a key to the chain it appears in (spec §4.B "Alias
// expansion"). It is an error for the two sides to supply different
// concrete keys; ok is false in that case and the result is undefined.
// Both sides supplying the same key merges cleanly.
func Merge(a, b KeyEvent) (result KeyEvent, ok bool) {
	if a.Key != InvalidKey && b.Key != InvalidKey && a.Key != b.Key {
		return KeyEvent{}, false
	}
	key := a.Key
	if key == InvalidKey {
		key = b.Key
	}
	return KeyEvent{Type: a.Type, Flags: a.Flags | b.Flags, Key: key}, true
}
