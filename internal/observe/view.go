package observe

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	cyan      = lipgloss.Color("#00E5FF")
	teal      = lipgloss.Color("#64FFDA")
	coral     = lipgloss.Color("#FF8A80")
	dimmed    = lipgloss.Color("#666666")
	darkBg    = lipgloss.Color("#1A1A2E")
	hotPink   = lipgloss.Color("#FF6AC1")
	softWhite = lipgloss.Color("#E0E0E0")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(hotPink).
			Background(darkBg).
			MarginBottom(1)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cyan).
			Padding(0, 1).
			Background(darkBg)

	labelStyle = lipgloss.NewStyle().
			Foreground(cyan).
			Background(darkBg).
			Bold(true)

	capturedStyle = lipgloss.NewStyle().Foreground(teal).Bold(true)
	releasedStyle = lipgloss.NewStyle().Foreground(coral)
	logStyle      = lipgloss.NewStyle().Foreground(dimmed)
	textStyle     = lipgloss.NewStyle().Foreground(softWhite)
	quitStyle     = lipgloss.NewStyle().Foreground(dimmed)
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("mkhd — observe"))
	b.WriteString("  ")
	b.WriteString(logStyle.Render("uptime " + m.uptime()))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("layer stack"))
	b.WriteString(": ")
	if len(m.Stack) == 0 {
		b.WriteString(textStyle.Render("default"))
	} else {
		b.WriteString(textStyle.Render(strings.Join(m.Stack, " > ")))
	}
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("recent dispatches"))
	b.WriteString("\n")
	b.WriteString(borderStyle.Render(m.renderDecisions()))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("log"))
	b.WriteString("\n")
	b.WriteString(borderStyle.Render(m.renderLog()))
	b.WriteString("\n\n")

	b.WriteString(quitStyle.Render("q to quit"))
	return b.String()
}

func (m Model) renderDecisions() string {
	start := 0
	if len(m.Decisions) > 12 {
		start = len(m.Decisions) - 12
	}
	var lines []string
	for _, d := range m.Decisions[start:] {
		verdict := releasedStyle.Render("release")
		if d.Captured {
			verdict = capturedStyle.Render("capture")
		}
		lines = append(lines, textStyle.Render(d.At.Format("15:04:05.000"))+"  "+
			textStyle.Render(d.ProcessName)+"  "+verdict)
	}
	if len(lines) == 0 {
		return logStyle.Render("(no events yet)")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderLog() string {
	start := 0
	if len(m.LogLines) > 8 {
		start = len(m.LogLines) - 8
	}
	lines := m.LogLines[start:]
	if len(lines) == 0 {
		return logStyle.Render("(nothing logged yet)")
	}
	return logStyle.Render(strings.Join(lines, "\n"))
}
