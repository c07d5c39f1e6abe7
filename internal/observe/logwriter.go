package observe

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// LogWriter is an io.Writer that forwards each written line to a running
// Bubble Tea program as a LogLineMsg. Point a daemon's *log.Logger at
// one to stream its output into the --observe TUI.
type LogWriter struct {
	program *tea.Program
}

// NewLogWriter returns a LogWriter that sends lines to p.
func NewLogWriter(p *tea.Program) *LogWriter {
	return &LogWriter{program: p}
}

// Write implements io.Writer. The send happens in a goroutine so a
// logger call from inside the program's own Update loop cannot deadlock.
func (w *LogWriter) Write(b []byte) (int, error) {
	line := strings.TrimRight(string(b), "\n")
	go w.program.Send(LogLineMsg{Line: line})
	return len(b), nil
}
