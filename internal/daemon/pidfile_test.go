package daemon

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestPIDFilePathIncludesUsername(t *testing.T) {
	path := PIDFilePath("/tmp")
	if !strings.HasPrefix(path, "/tmp/mkhd_") || !strings.HasSuffix(path, ".pid") {
		t.Errorf("PIDFilePath = %q, want /tmp/mkhd_<user>.pid shape", path)
	}
}

func TestAcquireWriteReadReleaseRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mkhd_test.pid")

	pf, err := AcquirePIDFile(path)
	if err != nil {
		t.Fatalf("AcquirePIDFile: %v", err)
	}

	pid, err := ReadPID(path)
	if err != nil {
		t.Fatalf("ReadPID: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("ReadPID = %d, want own pid %d", pid, os.Getpid())
	}

	if err := pf.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected Release to remove %s, stat err = %v", path, err)
	}
}

func TestAcquireSecondTimeFailsWhileHeld(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mkhd_test.pid")

	pf, err := AcquirePIDFile(path)
	if err != nil {
		t.Fatalf("AcquirePIDFile: %v", err)
	}
	defer pf.Release()

	if _, err := AcquirePIDFile(path); err == nil {
		t.Errorf("expected a second acquire of the same pidfile to fail while held")
	}
}

func TestReadPIDRejectsGarbageContents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.pid")
	if err := os.WriteFile(path, []byte("not-a-pid"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := ReadPID(path); err == nil {
		t.Errorf("expected ReadPID to error on non-numeric contents")
	}
}

func TestReadPIDRoundTripsArbitraryValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.pid")
	if err := os.WriteFile(path, []byte(strconv.Itoa(4242)+"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	pid, err := ReadPID(path)
	if err != nil {
		t.Fatalf("ReadPID: %v", err)
	}
	if pid != 4242 {
		t.Errorf("ReadPID = %d, want 4242", pid)
	}
}
