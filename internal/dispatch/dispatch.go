// Package dispatch implements the engine that resolves one incoming key
// event against the layer stack and selects the action to run (spec
// §4.D). The blocklist short-circuit happens one layer up, in the
// daemon's caller, per spec §4.D ("handled by the caller before invoking
// dispatch").
package dispatch

import (
	"log"

	"github.com/Danondso/mkhd/internal/action"
	"github.com/Danondso/mkhd/internal/keyevent"
	"github.com/Danondso/mkhd/internal/ruleset"
	"github.com/Danondso/mkhd/internal/runner"
)

// Engine walks the layer stack top-down for one event and drives the
// action interpreter with the result.
type Engine struct {
	Interpreter *action.Interpreter
	Logger      *log.Logger
}

// New returns an Engine backed by interp, logging to logger.
func New(interp *action.Interpreter, logger *log.Logger) *Engine {
	return &Engine{Interpreter: interp, Logger: logger}
}

func (e *Engine) logf(format string, args ...any) {
	if e.Logger != nil {
		e.Logger.Printf(format, args...)
	}
}

// Dispatch resolves event against state for the given focused process
// and runs the selected action through the interpreter, returning true
// iff the daemon should capture (consume) the event.
func (e *Engine) Dispatch(event keyevent.KeyEvent, processName string, state *ruleset.EngineState, run runner.CommandRunner) bool {
	topFrame, topIdx := state.Top()

	cursor := topIdx
	var act action.Action
	for {
		layer := state.FrameLayer(cursor)
		hotkey := layer.Get(event)

		switch {
		case hotkey == nil && event.Type == keyevent.KeyDown:
			// Unmatched keydowns always fall through; @unmatched never
			// fires for them (spec §4.D step b, §8 boundary behavior).
			act = action.Fallthrough{}
		case hotkey == nil:
			act = e.unmatchedAction(layer)
		default:
			act = hotkey.ResolveAction(processName)
			if act == nil {
				act = action.Nocapture{}
			}
		}

		if _, isFallthrough := act.(action.Fallthrough); isFallthrough {
			if cursor == 0 {
				return false
			}
			cursor--
			continue
		}
		break
	}

	popOneshot := topFrame.Oneshot && (event.Type == keyevent.Key || event.Type == keyevent.KeyUp)
	oneshotLayer := topFrame.LayerName
	if popOneshot {
		state.StackCount--
	}

	capture := e.Interpreter.Execute(state, act, cursor, run)

	if popOneshot {
		// oneshotLayer was captured before Execute ran: if act itself
		// pushed a new layer, it was written into Stack[topIdx] (the
		// slot StackCount-- just freed), so re-reading Stack[topIdx]
		// here would fire the newly-pushed layer's @exit_layer instead
		// of the oneshot frame's own.
		e.Interpreter.FireExitForLayer(state, oneshotLayer, topIdx, run)
	}

	return capture
}

// unmatchedAction returns the action bound to layer's @unmatched
// pseudo-rule, which is always present (default Fallthrough, overridable
// by the user per spec §3).
func (e *Engine) unmatchedAction(layer *ruleset.Layer) action.Action {
	hk := layer.Get(keyevent.KeyEvent{Type: keyevent.Unmatched})
	if hk == nil || hk.DefaultAction == nil {
		return action.Fallthrough{}
	}
	return hk.DefaultAction
}
