// Package observe implements the --observe live view: a read-only
// Bubble Tea TUI tailing the daemon's dispatch decisions and log
// output, adapted from the teacher's internal/tui package (same
// Program/Model/LogWriter shape, repointed at dispatch events instead
// of recording/transcription state).
package observe

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Danondso/mkhd/internal/keyevent"
)

const maxHistory = 200

// DecisionMsg reports one dispatch outcome (daemon.Daemon.OnDecision).
type DecisionMsg struct {
	At          time.Time
	ProcessName string
	Event       keyevent.KeyEvent
	Captured    bool
}

// LogLineMsg carries one line of daemon log output.
type LogLineMsg struct {
	Line string
}

// StackMsg reports the current layer stack, topmost last.
type StackMsg struct {
	Layers []string
}

type tickMsg time.Time

// Model is the Bubble Tea model for `mkhd --observe`.
type Model struct {
	Decisions []DecisionMsg
	LogLines  []string
	Stack     []string
	started   time.Time
	width     int
	height    int
}

// New returns a fresh Model.
func New() Model {
	return Model{started: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil

	case QuitHotkeyMsg:
		return m, tea.Quit

	case DecisionMsg:
		m.Decisions = append(m.Decisions, msg)
		if len(m.Decisions) > maxHistory {
			m.Decisions = m.Decisions[len(m.Decisions)-maxHistory:]
		}
		return m, nil

	case LogLineMsg:
		m.LogLines = append(m.LogLines, msg.Line)
		if len(m.LogLines) > maxHistory {
			m.LogLines = m.LogLines[len(m.LogLines)-maxHistory:]
		}
		return m, nil

	case StackMsg:
		m.Stack = msg.Layers
		return m, nil

	case tickMsg:
		return m, tick()
	}
	return m, nil
}

func (m Model) uptime() string {
	return time.Since(m.started).Round(time.Second).String()
}
