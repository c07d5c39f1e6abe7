// Package source defines the collaborator interfaces the core consumes
// for everything spec §1 calls out of scope: the OS event tap, keyboard
// layout resolution, and config-change notification (spec §6).
package source

import (
	"context"

	"github.com/Danondso/mkhd/internal/keyevent"
)

// SourceEvent pairs a physical KeyEvent with the name of the currently
// focused application, the tuple spec §6 says event_source delivers.
type SourceEvent struct {
	Event       keyevent.KeyEvent
	ProcessName string
}

// EventSource delivers {event, focused_process_name} tuples. The
// returned channel is closed when ctx is cancelled or the underlying
// device is closed.
type EventSource interface {
	Events(ctx context.Context) (<-chan SourceEvent, error)
}

// KeycodeMap resolves a character to the keycode the active keyboard
// layout maps it to. The core never embeds layout knowledge (spec §1
// non-goals); it only consumes this interface.
type KeycodeMap interface {
	Keycode(ch rune) (keyevent.Key, bool)
}

// FileWatcher optionally notifies of configuration file changes. It is
// an oracle: the core never watches files itself, it only reacts to a
// path arriving on Changes (spec §1 non-goals, §5 "External callbacks
// ... only enqueue a reload onto the main loop").
type FileWatcher interface {
	Changes() <-chan string
}
