//go:build !linux

package source

import (
	"context"
	"errors"
	"log"
)

// EvdevSource is a non-Linux stub. The real event tap is a Linux evdev
// device (spec §1 non-goals — the OS event tap itself is out of core
// scope everywhere, but the one concrete adapter this module ships only
// targets Linux, matching the teacher's per-GOOS split for the same
// collaborator).
type EvdevSource struct{}

// NewEvdevSource always fails on non-Linux platforms.
func NewEvdevSource(devicePath string, processName func() string, logger *log.Logger) (*EvdevSource, error) {
	return nil, errors.New("source: evdev event source is only available on linux")
}

// Events is unreachable; NewEvdevSource never succeeds on this platform.
func (s *EvdevSource) Events(ctx context.Context) (<-chan SourceEvent, error) {
	return nil, errors.New("source: evdev event source is only available on linux")
}
