package action

import (
	"testing"

	"github.com/Danondso/mkhd/internal/keyevent"
	"github.com/Danondso/mkhd/internal/ruleset"
)

type recordingRunner struct {
	commands []string
}

func (r *recordingRunner) Run(command string) { r.commands = append(r.commands, command) }

func TestExecuteSimpleActions(t *testing.T) {
	state := ruleset.NewEngineState()
	in := New(nil)
	run := &recordingRunner{}

	if !in.Execute(state, NoOp{}, 0, run) {
		t.Errorf("NoOp should capture")
	}
	if in.Execute(state, Nocapture{}, 0, run) {
		t.Errorf("Nocapture should release")
	}
	if !in.Execute(state, Command{Text: "echo hi"}, 0, run) {
		t.Errorf("Command should capture")
	}
	if len(run.commands) != 1 || run.commands[0] != "echo hi" {
		t.Errorf("commands = %v, want [echo hi]", run.commands)
	}
}

func TestExecuteFallthroughPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected Execute(Fallthrough) to panic")
		}
	}()
	in := New(nil)
	in.Execute(ruleset.NewEngineState(), Fallthrough{}, 0, nil)
}

func TestPushLayerFiresEnter(t *testing.T) {
	state := ruleset.NewEngineState()
	nav := state.Layer("nav")
	nav.Put(&ruleset.Hotkey{Event: keyevent.KeyEvent{Type: keyevent.EnterLayer}, DefaultAction: Command{Text: "entered-nav"}})

	in := New(nil)
	run := &recordingRunner{}

	if !in.Execute(state, PushLayer{Layer: "nav"}, 0, run) {
		t.Fatalf("push should capture")
	}
	if state.StackCount != 2 {
		t.Fatalf("StackCount = %d, want 2", state.StackCount)
	}
	frame, _ := state.Top()
	if frame.LayerName != "nav" || frame.Oneshot {
		t.Errorf("top frame = %+v, want nav/non-oneshot", frame)
	}
	if len(run.commands) != 1 || run.commands[0] != "entered-nav" {
		t.Errorf("expected @enter_layer to fire, got %v", run.commands)
	}
}

func TestPushLayerOverflowReleases(t *testing.T) {
	state := ruleset.NewEngineState()
	in := New(nil)
	run := &recordingRunner{}

	for i := 0; i < ruleset.LayerStackMax-1; i++ {
		name := string(rune('a' + i))
		if !in.Execute(state, PushLayer{Layer: name}, state.StackCount-1, run) {
			t.Fatalf("push %d should have succeeded", i)
		}
	}
	if state.StackCount != ruleset.LayerStackMax {
		t.Fatalf("StackCount = %d, want %d", state.StackCount, ruleset.LayerStackMax)
	}

	if in.Execute(state, PushLayer{Layer: "overflow"}, state.StackCount-1, run) {
		t.Errorf("expected overflow push to release")
	}
	if state.StackCount != ruleset.LayerStackMax {
		t.Errorf("StackCount changed on overflow: %d", state.StackCount)
	}
}

func TestPopLayerFiresExitAndRestoresBelow(t *testing.T) {
	state := ruleset.NewEngineState()
	nav := state.Layer("nav")
	nav.Put(&ruleset.Hotkey{Event: keyevent.KeyEvent{Type: keyevent.ExitLayer}, DefaultAction: Command{Text: "left-nav"}})

	in := New(nil)
	run := &recordingRunner{}
	in.Execute(state, PushLayer{Layer: "nav"}, 0, run)

	if !in.Execute(state, PopLayer{}, 1, run) {
		t.Fatalf("pop should capture")
	}
	if state.StackCount != 1 {
		t.Fatalf("StackCount = %d, want 1", state.StackCount)
	}
	if len(run.commands) != 1 || run.commands[0] != "left-nav" {
		t.Errorf("expected @exit_layer to fire on pop, got %v", run.commands)
	}
}

func TestPopBaseLayerIsNoop(t *testing.T) {
	state := ruleset.NewEngineState()
	in := New(nil)
	if !in.Execute(state, PopLayer{}, 0, nil) {
		t.Errorf("popping the base layer should still report captured")
	}
	if state.StackCount != 1 {
		t.Errorf("StackCount changed popping the base layer: %d", state.StackCount)
	}
}

func TestPushFromLowerFrameClearsFramesAbove(t *testing.T) {
	state := ruleset.NewEngineState()
	in := New(nil)
	run := &recordingRunner{}

	in.Execute(state, PushLayer{Layer: "a"}, 0, run)
	in.Execute(state, PushLayer{Layer: "b"}, 1, run)
	if state.StackCount != 3 {
		t.Fatalf("StackCount = %d, want 3", state.StackCount)
	}

	// Firing another push from frame 0 (e.g. a base-layer hotkey) must
	// first pop everything above frame 0 before pushing the new layer.
	in.Execute(state, PushLayer{Layer: "c"}, 0, run)
	if state.StackCount != 2 {
		t.Fatalf("StackCount = %d, want 2 after popAbove+push", state.StackCount)
	}
	frame, _ := state.Top()
	if frame.LayerName != "c" {
		t.Errorf("top layer = %q, want c", frame.LayerName)
	}
}

func TestFireExitForLayerUsesSavedNameForOneshot(t *testing.T) {
	state := ruleset.NewEngineState()
	nav := state.Layer("nav")
	nav.Put(&ruleset.Hotkey{Event: keyevent.KeyEvent{Type: keyevent.ExitLayer}, DefaultAction: Command{Text: "left-nav"}})

	in := New(nil)
	run := &recordingRunner{}
	in.Execute(state, PushLayerOneshot{Layer: "nav"}, 0, run)
	oneshotIdx := state.StackCount - 1

	// Simulate the dispatcher's oneshot-pop-before-execute sequencing:
	// the frame is already removed from StackCount before FireExitForLayer
	// fires against the name captured before the triggering action ran.
	state.StackCount--
	in.FireExitForLayer(state, "nav", oneshotIdx, run)

	if len(run.commands) != 1 || run.commands[0] != "left-nav" {
		t.Errorf("expected @exit_layer to fire for nav, got %v", run.commands)
	}
}

func TestFireExitForLayerSurvivesTriggeringActionOverwritingTheSlot(t *testing.T) {
	state := ruleset.NewEngineState()
	menu := state.Layer("menu")
	menu.Put(&ruleset.Hotkey{Event: keyevent.KeyEvent{Type: keyevent.ExitLayer}, DefaultAction: Command{Text: "left-menu"}})
	other := state.Layer("other")
	other.Put(&ruleset.Hotkey{Event: keyevent.KeyEvent{Type: keyevent.EnterLayer}, DefaultAction: Command{Text: "entered-other"}})

	in := New(nil)
	run := &recordingRunner{}

	// Push the oneshot "menu" frame, as `.oneshot |menu` would.
	in.Execute(state, PushLayerOneshot{Layer: "menu"}, 0, run)
	oneshotIdx := state.StackCount - 1

	// Dispatcher sequencing: pop the oneshot frame out of StackCount,
	// then run its triggering action — here the action itself is
	// `.activate |other`, which writes "other" into the very slot the
	// decrement just vacated.
	state.StackCount--
	in.Execute(state, PushLayer{Layer: "other"}, oneshotIdx-1, run)

	if state.Stack[oneshotIdx].LayerName != "other" {
		t.Fatalf("setup invariant broken: expected the push to land in the vacated slot, got %+v", state.Stack[oneshotIdx])
	}

	in.FireExitForLayer(state, "menu", oneshotIdx, run)

	want := []string{"entered-other", "left-menu"}
	if len(run.commands) != len(want) || run.commands[0] != want[0] || run.commands[1] != want[1] {
		t.Errorf("commands = %v, want %v (menu's own @exit_layer, not other's)", run.commands, want)
	}
}
