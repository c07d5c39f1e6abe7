package action

import (
	"log"

	"github.com/Danondso/mkhd/internal/keyevent"
	"github.com/Danondso/mkhd/internal/ruleset"
	"github.com/Danondso/mkhd/internal/runner"
)

// Interpreter executes the Action the dispatch engine selects, mutating
// the layer stack and invoking the command runner (spec §4.E). Every
// stack index it touches is the frame's fixed slot in EngineState.Stack
// — StackCount tracks how many of those slots currently count as
// active, but a just-vacated slot is still addressed by its old index
// for the purpose of firing that frame's own @exit_layer pseudo.
type Interpreter struct {
	Logger *log.Logger
}

// New returns an Interpreter that logs semantic runtime warnings (stack
// overflow, popping the base layer) to logger.
func New(logger *log.Logger) *Interpreter {
	return &Interpreter{Logger: logger}
}

func (in *Interpreter) logf(format string, args ...any) {
	if in.Logger != nil {
		in.Logger.Printf(format, args...)
	}
}

// Execute runs act against state in the context of frame inLayer,
// returning whether the dispatcher should capture the triggering event.
// run may be nil in tests that only exercise stack mutation.
func (in *Interpreter) Execute(state *ruleset.EngineState, act Action, inLayer int, run runner.CommandRunner) bool {
	switch a := act.(type) {
	case NoOp:
		return true
	case Command:
		if run != nil {
			run.Run(a.Text)
		}
		return true
	case Nocapture:
		return false
	case PushLayer:
		return in.push(state, a.Layer, false, inLayer, run)
	case PushLayerOneshot:
		return in.push(state, a.Layer, true, inLayer, run)
	case PopLayer:
		return in.pop(state, inLayer, run)
	case Fallthrough:
		panic("action: Fallthrough reached the interpreter — the dispatcher must resolve it")
	default:
		in.logf("action: unknown action type %T, releasing", act)
		return false
	}
}

// popAbove pops every frame strictly above inLayer, firing each one's
// @exit_layer pseudo as it goes, from the top down.
func (in *Interpreter) popAbove(state *ruleset.EngineState, inLayer int, run runner.CommandRunner) {
	for state.StackCount-1 > inLayer {
		idx := state.StackCount - 1
		state.StackCount--
		in.fireExit(state, idx, run)
	}
}

func (in *Interpreter) push(state *ruleset.EngineState, layerName string, oneshot bool, inLayer int, run runner.CommandRunner) bool {
	in.popAbove(state, inLayer, run)
	if state.StackCount == ruleset.LayerStackMax {
		in.logf("action: layer stack overflow pushing |%s (max %d), releasing", layerName, ruleset.LayerStackMax)
		return false
	}
	newIdx := state.StackCount
	state.Layer(layerName) // implicitly create on first reference
	state.Stack[newIdx] = ruleset.StackFrame{LayerName: layerName, Oneshot: oneshot}
	state.StackCount++
	in.fireEnter(state, newIdx, run)
	return true
}

func (in *Interpreter) pop(state *ruleset.EngineState, inLayer int, run runner.CommandRunner) bool {
	if inLayer == 0 {
		in.logf("action: refusing to pop the base layer, no-op")
		return true
	}
	for state.StackCount-1 >= inLayer && state.StackCount > 1 {
		idx := state.StackCount - 1
		state.StackCount--
		in.fireExit(state, idx, run)
	}
	return true
}

// fireEnter executes the @enter_layer pseudo for the frame at idx.
func (in *Interpreter) fireEnter(state *ruleset.EngineState, idx int, run runner.CommandRunner) {
	in.firePseudo(state, idx, keyevent.EnterLayer, run)
}

// fireExit executes the @exit_layer pseudo for the frame at idx, which
// may already have been removed from the active StackCount range.
func (in *Interpreter) fireExit(state *ruleset.EngineState, idx int, run runner.CommandRunner) {
	in.firePseudo(state, idx, keyevent.ExitLayer, run)
}

// FireExitForLayer fires layerName's @exit_layer pseudo directly, used by
// the dispatch engine to close out a oneshot frame after its triggering
// action has run (spec §4.D step 7). The oneshot frame's slot in
// EngineState.Stack is pre-decremented out of StackCount before the
// triggering action executes, so if that action itself pushes a new
// layer it gets written into the very slot the oneshot frame just
// vacated — addressing by the frame's saved index after the fact would
// fire the wrong layer's @exit_layer. Addressing by the name captured
// before Execute ran avoids that collision entirely.
func (in *Interpreter) FireExitForLayer(state *ruleset.EngineState, layerName string, idx int, run runner.CommandRunner) {
	in.firePseudoForLayer(state, layerName, idx, keyevent.ExitLayer, run)
}

func (in *Interpreter) firePseudo(state *ruleset.EngineState, idx int, t keyevent.Type, run runner.CommandRunner) {
	layer := state.FrameLayer(idx)
	if layer == nil {
		return
	}
	in.runPseudo(state, layer, idx, t, run)
}

// firePseudoForLayer is firePseudo addressed by layer name instead of by
// re-reading the (possibly since-overwritten) stack slot at idx. idx is
// still passed through to Execute as the frame context for any further
// stack mutation the pseudo's action performs.
func (in *Interpreter) firePseudoForLayer(state *ruleset.EngineState, layerName string, idx int, t keyevent.Type, run runner.CommandRunner) {
	layer := state.Layers[layerName]
	if layer == nil {
		return
	}
	in.runPseudo(state, layer, idx, t, run)
}

func (in *Interpreter) runPseudo(state *ruleset.EngineState, layer *ruleset.Layer, idx int, t keyevent.Type, run runner.CommandRunner) {
	hk := layer.Get(keyevent.KeyEvent{Type: t})
	if hk == nil || hk.DefaultAction == nil {
		return
	}
	if _, ok := hk.DefaultAction.(Fallthrough); ok {
		return
	}
	in.Execute(state, hk.DefaultAction, idx, run)
}
