// Package runner implements the command_runner collaborator (spec §6):
// a fire-and-forget shell command launcher. Failures are never reported
// back to the caller — the action interpreter must not block dispatch
// waiting on a child process.
package runner

import (
	"log"
	"os"
	"os/exec"
)

// CommandRunner is the interface the action interpreter depends on.
type CommandRunner interface {
	Run(command string)
}

// Shell runs commands via the user's $SHELL (falling back to
// /bin/bash), detached so they outlive the arena generation that
// produced the Command action (spec §3 "Lifecycle & ownership").
type Shell struct {
	logger *log.Logger
}

// New returns a Shell runner that logs to logger (which may be a
// discard logger in non-debug mode, following the teacher's
// *log.Logger-threaded-everywhere convention).
func New(logger *log.Logger) *Shell {
	return &Shell{logger: logger}
}

func shellPath() string {
	if s := os.Getenv("SHELL"); s != "" {
		return s
	}
	return "/bin/bash"
}

// Run spawns command asynchronously via "$SHELL -c command" and returns
// immediately without waiting for it to exit. Per spec §4.E/§5, the
// daemon never awaits a command's I/O or exit status.
func (r *Shell) Run(command string) {
	cmd := exec.Command(shellPath(), "-c", command)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		if r.logger != nil {
			r.logger.Printf("command runner: start %q: %v", command, err)
		}
		return
	}
	if r.logger != nil {
		r.logger.Printf("command runner: spawned %q (pid %d)", command, cmd.Process.Pid)
	}
	go func() {
		_ = cmd.Wait() // reap the child; exit status is intentionally discarded
	}()
}
