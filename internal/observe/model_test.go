package observe

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestUpdateAppendsDecisionsAndCapsHistory(t *testing.T) {
	m := New()
	for i := 0; i < maxHistory+10; i++ {
		updated, _ := m.Update(DecisionMsg{ProcessName: "x"})
		m = updated.(Model)
	}
	if len(m.Decisions) != maxHistory {
		t.Errorf("len(Decisions) = %d, want capped at %d", len(m.Decisions), maxHistory)
	}
}

func TestUpdateAppendsLogLinesAndCapsHistory(t *testing.T) {
	m := New()
	for i := 0; i < maxHistory+5; i++ {
		updated, _ := m.Update(LogLineMsg{Line: "line"})
		m = updated.(Model)
	}
	if len(m.LogLines) != maxHistory {
		t.Errorf("len(LogLines) = %d, want capped at %d", len(m.LogLines), maxHistory)
	}
}

func TestUpdateStackMsgReplacesStack(t *testing.T) {
	m := New()
	updated, _ := m.Update(StackMsg{Layers: []string{"default", "nav"}})
	m = updated.(Model)
	if len(m.Stack) != 2 || m.Stack[1] != "nav" {
		t.Errorf("Stack = %v, want [default nav]", m.Stack)
	}
}

func TestUpdateQuitHotkeyMsgQuits(t *testing.T) {
	m := New()
	_, cmd := m.Update(QuitHotkeyMsg{})
	if cmd == nil {
		t.Fatalf("expected a non-nil command for QuitHotkeyMsg")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("expected tea.Quit, got %#v", msg)
	}
}

func TestUpdateKeyMsgQuitsOnQCtrlCOrEsc(t *testing.T) {
	msgs := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	}
	for _, msg := range msgs {
		m := New()
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Errorf("key %q: expected a quit command", msg.String())
		}
	}
}

func TestUpdateKeyMsgIgnoresOtherKeys(t *testing.T) {
	m := New()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if cmd != nil {
		t.Errorf("expected no command for an unrelated keypress")
	}
}

func TestUpdateWindowSizeMsgStoresDimensions(t *testing.T) {
	m := New()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)
	if m.width != 80 || m.height != 24 {
		t.Errorf("width/height = %d/%d, want 80/24", m.width, m.height)
	}
}
