package daemon

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"syscall"
)

// PIDFile is an exclusively-locked file proving single-instance
// ownership for the lifetime of the process holding it. It lives at
// <dir>/mkhd_<user>.pid (spec §6's one-daemon-per-user-per-config
// convention, adapted from the teacher's single-instance lock file).
type PIDFile struct {
	file *os.File
	path string
}

// PIDFilePath returns the default lock path for the current user under
// dir (typically os.TempDir() or daemonconfig.Config.PIDDir).
func PIDFilePath(dir string) string {
	name := "unknown"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}
	return filepath.Join(dir, fmt.Sprintf("mkhd_%s.pid", name))
}

// AcquirePIDFile opens (creating if necessary) the lock file at path and
// takes an exclusive, non-blocking flock on it. It fails if another
// live process already holds the lock, which is how a second `mkhd
// start` detects a running instance without racing on PID reuse.
func AcquirePIDFile(path string) (*PIDFile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open pidfile %s: %w", path, err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("mkhd already running (lock held on %s): %w", path, err)
	}

	if err := f.Truncate(0); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.WriteString(fmt.Sprintf("%d\n", os.Getpid())); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return nil, err
	}

	return &PIDFile{file: f, path: path}, nil
}

// Release unlocks and removes the pidfile. Safe to call once, typically
// deferred right after a successful AcquirePIDFile.
func (p *PIDFile) Release() error {
	defer p.file.Close()
	if err := syscall.Flock(int(p.file.Fd()), syscall.LOCK_UN); err != nil {
		return err
	}
	return os.Remove(p.path)
}

// ReadPID reads the PID recorded in the lock file at path without
// acquiring it, for `mkhd stop`/`mkhd restart` to signal the running
// instance.
func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var pid int
	if _, err := fmt.Sscanf(string(data), "%d", &pid); err != nil {
		return 0, fmt.Errorf("parse pidfile %s: %w", path, err)
	}
	return pid, nil
}
