// Package daemon manages the PID file of a detached pomoblock process.
package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// ErrNotRunning is returned by Stop when no live process owns the PID file.
var ErrNotRunning = errors.New("daemon is not running")

// Status describes the process recorded in the PID file.
type Status struct {
	Running bool
	PID     int
	Stale   bool      // the PID file named a process that no longer exists
	Since   time.Time // when the PID file was written; zero unless Running
}

type Daemon struct {
	pidFile string
}

func New(pidFile string) *Daemon {
	return &Daemon{pidFile: pidFile}
}

// PIDFile returns the path of the PID file.
func (d *Daemon) PIDFile() string {
	return d.pidFile
}

// WritePID records the current process. It refuses to overwrite the PID of
// another live process.
func (d *Daemon) WritePID() error {
	st, err := d.Status()
	if err != nil {
		return err
	}
	if st.Running && st.PID != os.Getpid() {
		return fmt.Errorf("already running with PID %d", st.PID)
	}

	if err := os.MkdirAll(filepath.Dir(d.pidFile), 0755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}
	return os.WriteFile(d.pidFile, []byte(strconv.Itoa(os.Getpid())+"\n"), 0644)
}

// ReadPID returns the recorded PID, or 0 when there is no PID file.
func (d *Daemon) ReadPID() (int, error) {
	data, err := os.ReadFile(d.pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid PID in file %s: %q", d.pidFile, strings.TrimSpace(string(data)))
	}

	return pid, nil
}

// RemovePID deletes the PID file. A missing file is not an error.
func (d *Daemon) RemovePID() error {
	if err := os.Remove(d.pidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// Status checks whether the recorded process is alive. A stale PID file is
// removed.
func (d *Daemon) Status() (Status, error) {
	pid, err := d.ReadPID()
	if err != nil || pid == 0 {
		return Status{}, err
	}

	if !alive(pid) {
		_ = d.RemovePID()
		return Status{PID: pid, Stale: true}, nil
	}
	st := Status{Running: true, PID: pid}
	if fi, err := os.Stat(d.pidFile); err == nil {
		st.Since = fi.ModTime()
	}
	return st, nil
}

// Stop sends SIGTERM to the recorded process and waits up to timeout for it
// to exit. The PID file is removed once the process is gone.
func (d *Daemon) Stop(timeout time.Duration) error {
	st, err := d.Status()
	if err != nil {
		return fmt.Errorf("error checking daemon status: %w", err)
	}
	if !st.Running {
		return ErrNotRunning
	}

	if err := syscall.Kill(st.PID, syscall.SIGTERM); err != nil {
		if errors.Is(err, syscall.ESRCH) {
			_ = d.RemovePID()
			return ErrNotRunning
		}
		return fmt.Errorf("failed to send SIGTERM to %d: %w", st.PID, err)
	}

	deadline := time.Now().Add(timeout)
	for alive(st.PID) {
		if time.Now().After(deadline) {
			return fmt.Errorf("process %d did not exit within %s", st.PID, timeout)
		}
		time.Sleep(50 * time.Millisecond)
	}

	return d.RemovePID()
}

func alive(pid int) bool {
	err := syscall.Kill(pid, syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
