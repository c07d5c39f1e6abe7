// Package daemon wires the core (loader, dispatch engine, action
// interpreter) to the collaborator interfaces and pins the two
// externally-driven entry points — event dispatch and config reload —
// to a single cooperative main loop via golang.design/x/mainthread, so
// they can never interleave (spec §5).
package daemon

import (
	"context"
	"log"
	"sync/atomic"

	"golang.design/x/mainthread"

	"github.com/Danondso/mkhd/internal/action"
	"github.com/Danondso/mkhd/internal/dispatch"
	"github.com/Danondso/mkhd/internal/loader"
	"github.com/Danondso/mkhd/internal/parser"
	"github.com/Danondso/mkhd/internal/ruleset"
	"github.com/Danondso/mkhd/internal/runner"
	"github.com/Danondso/mkhd/internal/source"
)

// Daemon owns the single active EngineState and the collaborators that
// feed and observe it. Every field it mutates (state) is touched only
// from the main-thread-pinned goroutine.
type Daemon struct {
	ConfigPath string
	Keycodes   parser.KeycodeMap
	Runner     runner.CommandRunner
	Logger     *log.Logger

	// OnDecision, if set, is called on the main thread after every
	// dispatch with the capture/release decision — the hook the
	// --observe TUI (internal/observe) and the real OS event-tap
	// re-injection logic (out of core scope, spec §1) both consume.
	OnDecision func(ev source.SourceEvent, capture bool)

	dispatch *dispatch.Engine
	state    *ruleset.EngineState
	reloaded atomic.Bool
}

// New returns a Daemon ready to Run.
func New(configPath string, kc parser.KeycodeMap, run runner.CommandRunner, logger *log.Logger) *Daemon {
	interp := action.New(logger)
	return &Daemon{
		ConfigPath: configPath,
		Keycodes:   kc,
		Runner:     run,
		Logger:     logger,
		dispatch:   dispatch.New(interp, logger),
	}
}

// State returns the currently active EngineState. It is only safe to
// call from the main-thread-pinned goroutine Run establishes, or after
// Run has returned.
func (d *Daemon) State() *ruleset.EngineState { return d.state }

// Run performs the initial load and then pins the rest of the daemon's
// life to the main OS thread: events from src and change notifications
// from watcher are marshalled onto the main thread via mainthread.Call
// before they touch any state. Run must be called from the program's
// real main goroutine (mainthread's contract) and blocks until ctx is
// cancelled.
func (d *Daemon) Run(ctx context.Context, src source.EventSource, watcher source.FileWatcher) error {
	var runErr error
	mainthread.Init(func() {
		d.reload()

		events, err := src.Events(ctx)
		if err != nil {
			runErr = err
			return
		}

		var changes <-chan string
		if watcher != nil {
			changes = watcher.Changes()
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				mainthread.Call(func() { d.handleEvent(ev) })
			case path, ok := <-changes:
				if !ok {
					changes = nil
					continue
				}
				d.logf("config changed: %s", path)
				d.RequestReload()
			}
		}
	})
	return runErr
}

// RequestReload is the idempotent external trigger (spec §6): it is
// always safe to call from any goroutine (a signal handler, a
// file-watcher callback). A reload always rebuilds the whole state from
// disk, so bursts of redundant calls are idempotent by construction
// (spec §8 "re-executing request_reload against an unchanged file
// yields byte-identical EngineState"); the in-flight guard below just
// avoids doing the I/O twice for calls that land while one is already
// scheduled.
func (d *Daemon) RequestReload() {
	if !d.reloaded.CompareAndSwap(false, true) {
		return
	}
	mainthread.Call(func() {
		d.reloaded.Store(false)
		d.reload()
	})
}

func (d *Daemon) reload() {
	state, err := loader.LoadConfig(d.ConfigPath, d.Keycodes, d.Logger)
	if err != nil {
		d.logf("load %s: %v, keeping previous configuration", d.ConfigPath, err)
		return
	}
	d.state = state
	d.logf("loaded %s: %d layers", d.ConfigPath, len(state.Layers))
}

func (d *Daemon) handleEvent(ev source.SourceEvent) {
	if d.state == nil {
		return
	}
	if d.state.IsBlocked(ev.ProcessName) {
		if d.OnDecision != nil {
			d.OnDecision(ev, false)
		}
		return
	}
	capture := d.dispatch.Dispatch(ev.Event, ev.ProcessName, d.state, d.Runner)
	if d.OnDecision != nil {
		d.OnDecision(ev, capture)
	}
}

func (d *Daemon) logf(format string, args ...any) {
	if d.Logger != nil {
		d.Logger.Printf(format, args...)
	}
}
