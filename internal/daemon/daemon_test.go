package daemon

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDaemon(t *testing.T) *Daemon {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "run", "pomoblock.pid"))
}

func TestWriteAndReadPID(t *testing.T) {
	d := newTestDaemon(t)

	pid, err := d.ReadPID()
	require.NoError(t, err)
	assert.Zero(t, pid)

	require.NoError(t, d.WritePID())
	pid, err = d.ReadPID()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	st, err := d.Status()
	require.NoError(t, err)
	assert.True(t, st.Running)
	assert.Equal(t, os.Getpid(), st.PID)
	fi, err := os.Stat(d.PIDFile())
	require.NoError(t, err)
	assert.Equal(t, fi.ModTime(), st.Since)

	require.NoError(t, d.RemovePID())
	require.NoError(t, d.RemovePID())
	st, err = d.Status()
	require.NoError(t, err)
	assert.False(t, st.Running)
}

func TestInvalidPIDFile(t *testing.T) {
	d := newTestDaemon(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(d.PIDFile()), 0755))
	require.NoError(t, os.WriteFile(d.PIDFile(), []byte("not-a-pid"), 0644))

	_, err := d.ReadPID()
	assert.Error(t, err)
	_, err = d.Status()
	assert.Error(t, err)
}

func TestStalePIDFileIsRemoved(t *testing.T) {
	cmd := exec.Command("true")
	require.NoError(t, cmd.Run())

	d := newTestDaemon(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(d.PIDFile()), 0755))
	require.NoError(t, os.WriteFile(d.PIDFile(), []byte(strconv.Itoa(cmd.Process.Pid)), 0644))

	st, err := d.Status()
	require.NoError(t, err)
	assert.False(t, st.Running)
	assert.True(t, st.Stale)
	assert.NoFileExists(t, d.PIDFile())

	assert.ErrorIs(t, d.Stop(time.Second), ErrNotRunning)
}

func TestStop(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	waited := make(chan struct{})
	go func() {
		cmd.Wait()
		close(waited)
	}()

	d := newTestDaemon(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(d.PIDFile()), 0755))
	require.NoError(t, os.WriteFile(d.PIDFile(), []byte(strconv.Itoa(cmd.Process.Pid)), 0644))

	require.NoError(t, d.Stop(5*time.Second))
	<-waited
	assert.NoFileExists(t, d.PIDFile())
}

func TestWritePIDRefusesLiveProcess(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		cmd.Process.Kill()
		cmd.Wait()
	})

	d := newTestDaemon(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(d.PIDFile()), 0755))
	require.NoError(t, os.WriteFile(d.PIDFile(), []byte(strconv.Itoa(cmd.Process.Pid)), 0644))

	assert.Error(t, d.WritePID())
}
