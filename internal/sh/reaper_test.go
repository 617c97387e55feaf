package sh

import (
	"bytes"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReapAvailableCollectsTrackedChild(t *testing.T) {
	cmd := exec.Command("true")
	require.NoError(t, cmd.Start())

	r := NewReaper(16)
	r.Track(cmd.Process.Pid)

	// give the child a moment to actually exit before we poll for it.
	time.Sleep(20 * time.Millisecond)
	r.ReapAvailable()

	// cmd.Wait would now fail with "no child processes" since ReapAvailable
	// already collected it; that's the point of tracking a backgrounded pid.
	err := cmd.Wait()
	if err != nil {
		require.Contains(t, err.Error(), "child")
	}
}

func TestReapAvailableIgnoresUntrackedChild(t *testing.T) {
	cmd := exec.Command("true")
	require.NoError(t, cmd.Start())

	r := NewReaper(16)
	// deliberately not tracked: this simulates a foreground child whose
	// own synchronous Wait is still pending.

	time.Sleep(20 * time.Millisecond)

	stderr := os.Stderr
	rd, wr, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = wr
	r.ReapAvailable()
	wr.Close()
	os.Stderr = stderr

	var buf bytes.Buffer
	_, err = buf.ReadFrom(rd)
	require.NoError(t, err)
	require.Empty(t, buf.String(), "an untracked pid must never be announced")

	// Wait4(-1) already collected the exit status at the kernel level
	// regardless of tracking; cmd.Wait fails the same way it would for a
	// tracked pid. Tracking only gates the "Completed:" announcement, not
	// whether the pid is eligible for collection in the first place.
	err = cmd.Wait()
	if err != nil {
		require.Contains(t, err.Error(), "child")
	}
}
