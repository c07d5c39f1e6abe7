// Package ruleset implements the layer/hotkey store (spec §4.C): the
// in-memory, indexed ruleset the parser fills in and the dispatch engine
// reads. An EngineState and the Arena it carries are always replaced
// together, atomically, on reload — nothing in dispatch holds a reference
// into an EngineState that outlives its generation.
package ruleset

import (
	"strings"

	"github.com/Danondso/mkhd/internal/action"
	"github.com/Danondso/mkhd/internal/arena"
	"github.com/Danondso/mkhd/internal/keyevent"
)

// LayerStackMax bounds the runtime layer stack (spec §3).
const LayerStackMax = 5

// DefaultLayerName is the always-present bottom-of-stack layer.
const DefaultLayerName = "default"

// Hotkey binds one KeyEvent to a possibly process-scoped set of actions
// (spec §3 "Hotkey"). ProcessNames and PerProcessActions are parallel
// slices; ProcessNames entries are pre-lowercased.
type Hotkey struct {
	Event             keyevent.KeyEvent
	ProcessNames      []string
	PerProcessActions []action.Action
	DefaultAction     action.Action // nil when the rule has none
}

// ResolveAction selects the action that applies for processName: the
// first case-insensitive process-name match, falling back to
// DefaultAction (spec §4.D step c).
func (h *Hotkey) ResolveAction(processName string) action.Action {
	lower := strings.ToLower(processName)
	for i, name := range h.ProcessNames {
		if name == lower {
			return h.PerProcessActions[i]
		}
	}
	return h.DefaultAction
}

// Layer is a named bundle of key-event-to-hotkey rules. Rules is keyed
// by the hashable RuleKey subset; each bucket is a short chain of
// Hotkeys whose full Event differs only in modifier flags, walked with
// keyevent.Match to find the one the incoming event satisfies (spec
// §4.C / §9 "asymmetric key-event equality").
type Layer struct {
	Name  string
	Rules map[keyevent.RuleKey][]*Hotkey
}

func newLayer(name string) *Layer {
	l := &Layer{Name: name, Rules: make(map[keyevent.RuleKey][]*Hotkey)}
	l.Put(&Hotkey{
		Event:         keyevent.KeyEvent{Type: keyevent.Unmatched},
		DefaultAction: action.Fallthrough{},
	})
	l.Put(&Hotkey{
		Event:         keyevent.KeyEvent{Type: keyevent.EnterLayer},
		DefaultAction: action.NoOp{},
	})
	l.Put(&Hotkey{
		Event:         keyevent.KeyEvent{Type: keyevent.ExitLayer},
		DefaultAction: action.NoOp{},
	})
	return l
}

// Put inserts h, replacing an existing hotkey bound to the exact same
// KeyEvent (type, flags, and key) — "second definition wins" (spec §8
// scenario 5) — or appending a new chain entry when the bucket already
// holds a distinct modifier variant of the same physical key.
func (l *Layer) Put(h *Hotkey) {
	key := h.Event.Of()
	chain := l.Rules[key]
	for i, existing := range chain {
		if existing.Event == h.Event {
			chain[i] = h
			return
		}
	}
	l.Rules[key] = append(chain, h)
}

// Get returns the first hotkey in event's bucket whose Event matches
// event per the asymmetric rule-vs-event comparison, or nil.
func (l *Layer) Get(event keyevent.KeyEvent) *Hotkey {
	for _, h := range l.Rules[event.Of()] {
		if keyevent.Match(h.Event, event) {
			return h
		}
	}
	return nil
}

// StackFrame is one entry on the runtime layer stack.
type StackFrame struct {
	LayerName string
	Oneshot   bool
}

// EngineState is the full runtime state the dispatch/action machinery
// reads and mutates: the parsed ruleset plus the live layer stack (spec
// §3 "EngineState").
type EngineState struct {
	Layers     map[string]*Layer
	Blocklist  map[string]struct{}
	Aliases    map[string]keyevent.KeyEvent
	Stack      [LayerStackMax]StackFrame
	StackCount int
	Arena      *arena.Arena
}

// NewEngineState returns a fresh state with only the default layer
// defined and the stack seeded with a single default frame, as happens
// at the start of every load/reload.
func NewEngineState() *EngineState {
	s := &EngineState{
		Layers:    make(map[string]*Layer),
		Blocklist: make(map[string]struct{}),
		Aliases:   make(map[string]keyevent.KeyEvent),
		Arena:     arena.New(),
	}
	s.Layers[DefaultLayerName] = newLayer(DefaultLayerName)
	s.Stack[0] = StackFrame{LayerName: DefaultLayerName}
	s.StackCount = 1
	return s
}

// Layer returns the named layer, creating it (with its auto-pseudo
// rules) if it does not yet exist — per spec §3 "implicitly created at
// parse time if referenced".
func (s *EngineState) Layer(name string) *Layer {
	if l, ok := s.Layers[name]; ok {
		return l
	}
	l := newLayer(name)
	s.Layers[name] = l
	return l
}

// IsBlocked reports whether processName (any case) is in the blocklist.
func (s *EngineState) IsBlocked(processName string) bool {
	_, blocked := s.Blocklist[strings.ToLower(processName)]
	return blocked
}

// Top returns the current top-of-stack frame and its index.
func (s *EngineState) Top() (frame StackFrame, index int) {
	index = s.StackCount - 1
	return s.Stack[index], index
}

// FrameLayer returns the Layer backing stack frame i, looked up by name
// (not a pointer baked at parse time) so reloads never leave a stale
// stack frame referencing a freed layer (spec §9 "Cyclic layer
// references").
func (s *EngineState) FrameLayer(i int) *Layer {
	return s.Layers[s.Stack[i].LayerName]
}
