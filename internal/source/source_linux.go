//go:build linux

package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"log"

	evdev "github.com/holoplot/go-evdev"

	"github.com/Danondso/mkhd/internal/keyevent"
)

// EvdevSource is the one concrete, production-shaped EventSource: it
// adapts the teacher's device-discovery and read-loop (originally
// internal/hotkey/hotkey_linux.go's FindKeyboard/isKeyboard/ReadOne) to
// emit SourceEvents instead of calling onDown/onUp closures for a single
// configured hotkey — here every EV_KEY press or release on the device
// becomes a KeyDown or KeyUp SourceEvent (auto-repeat reports are
// skipped), letting the dispatch core see the full
// physical key stream rather than one pre-selected chord.
type EvdevSource struct {
	dev         *evdev.InputDevice
	processName func() string
	logger      *log.Logger
}

// NewEvdevSource opens devicePath (or auto-detects a keyboard if empty)
// and returns an EvdevSource. processName is consulted for every event
// to learn the currently focused application; resolving that is itself
// out of core scope (spec §1), so it is injected as a callback.
func NewEvdevSource(devicePath string, processName func() string, logger *log.Logger) (*EvdevSource, error) {
	dev, err := findKeyboard(devicePath)
	if err != nil {
		return nil, err
	}
	return &EvdevSource{dev: dev, processName: processName, logger: logger}, nil
}

// Events starts a reader goroutine translating raw EV_KEY reports into
// SourceEvents. The channel closes when ctx is cancelled or the device
// read loop errors out (device unplugged, fd closed).
func (s *EvdevSource) Events(ctx context.Context) (<-chan SourceEvent, error) {
	out := make(chan SourceEvent)

	go func() {
		defer close(out)
		defer func() { _ = s.dev.Close() }()

		done := make(chan struct{})
		go func() {
			<-ctx.Done()
			_ = s.dev.Close()
			close(done)
		}()

		for {
			ev, err := s.dev.ReadOne()
			if err != nil {
				select {
				case <-done:
				default:
					if s.logger != nil && !os.IsNotExist(err) && !strings.Contains(err.Error(), "closed") && !strings.Contains(err.Error(), "bad file descriptor") {
						s.logger.Printf("evdev source: read event: %v", err)
					}
				}
				return
			}
			if ev.Type != evdev.EV_KEY {
				continue
			}

			var t keyevent.Type
			switch ev.Value {
			case 1:
				t = keyevent.KeyDown
			case 0:
				t = keyevent.KeyUp
			default:
				continue // value 2 == key repeat, ignored
			}

			name := ""
			if s.processName != nil {
				name = s.processName()
			}

			select {
			case out <- SourceEvent{Event: keyevent.KeyEvent{Type: t, Key: ev.Code}, ProcessName: name}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// findKeyboard opens a specific device path, or auto-detects a keyboard
// by scanning /dev/input/event* for devices that support letter keys
// (KEY_A..KEY_Z) and aren't mice/trackpads (no EV_REL capability).
func findKeyboard(devicePath string) (*evdev.InputDevice, error) {
	if devicePath != "" {
		dev, err := evdev.Open(devicePath)
		if err != nil {
			return nil, fmt.Errorf("open device %s: %w", devicePath, err)
		}
		return dev, nil
	}

	matches, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, fmt.Errorf("glob /dev/input/event*: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		ni, _ := strconv.Atoi(strings.TrimPrefix(matches[i], "/dev/input/event"))
		nj, _ := strconv.Atoi(strings.TrimPrefix(matches[j], "/dev/input/event"))
		return ni < nj
	})

	for _, path := range matches {
		dev, err := evdev.Open(path)
		if err != nil {
			continue
		}
		if isKeyboard(dev) {
			return dev, nil
		}
		_ = dev.Close()
	}

	return nil, fmt.Errorf("no keyboard device found in /dev/input/event*")
}

func isKeyboard(dev *evdev.InputDevice) bool {
	for _, evType := range dev.CapableTypes() {
		if evType == evdev.EV_REL {
			return false
		}
	}

	keys := dev.CapableEvents(evdev.EV_KEY)
	hasA, hasZ := false, false
	for _, code := range keys {
		if code == 30 {
			hasA = true
		}
		if code == 44 {
			hasZ = true
		}
	}
	return hasA && hasZ
}
