package observe

import (
	"log"

	"golang.design/x/hotkey"

	tea "github.com/charmbracelet/bubbletea"
)

// QuitHotkeyMsg is sent when the global quit hotkey fires.
type QuitHotkeyMsg struct{}

// RegisterQuitHotkey binds Ctrl+Alt+Q as a passive global hotkey that
// quits the --observe view even when its terminal window lacks focus —
// useful since the view is read-only and the operator is usually
// driving some other application while watching it. Registration can
// fail (no display server, permission denied); that is logged and
// treated as "no global quit shortcut available", not fatal.
func RegisterQuitHotkey(program *tea.Program, logger *log.Logger) func() {
	hk := hotkey.New([]hotkey.Modifier{hotkey.ModCtrl, hotkey.ModAlt}, hotkey.KeyQ)
	if err := hk.Register(); err != nil {
		if logger != nil {
			logger.Printf("observe: global quit hotkey unavailable: %v", err)
		}
		return func() {}
	}

	go func() {
		for range hk.Keydown() {
			program.Send(QuitHotkeyMsg{})
		}
	}()

	return func() { _ = hk.Unregister() }
}
