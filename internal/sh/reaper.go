package sh

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// Reaper collects exited background children so they don't accumulate as
// zombies. It is only ever invoked non-blockingly from the top of Interpret,
// never from within recursive interpretation, so it can't race a foreground
// command's own synchronous Wait. It collects any exited child through
// waitpid(-1, WNOHANG), but only announces pids explicitly registered with
// Track.
type Reaper struct {
	pollLimit int
	log       LogFn

	mu      sync.Mutex
	tracked map[int]bool
}

// NewReaper builds a Reaper that collects at most pollLimit children per
// pass, bounding the work a single reap does even if many processes exit
// at once.
func NewReaper(pollLimit int) *Reaper {
	return &Reaper{
		pollLimit: pollLimit,
		log:       NewLog("reaper", false),
		tracked:   make(map[int]bool),
	}
}

// Track registers pid as a backgrounded child this Reaper is responsible
// for. C6's SepBg handling calls this right after starting the job. Only
// tracked pids are ever announced by ReapAvailable.
func (r *Reaper) Track(pid int) {
	r.mu.Lock()
	r.tracked[pid] = true
	r.mu.Unlock()
}

// ReapAvailable performs one non-blocking pass, collecting up to
// pollLimit already-exited children with waitpid(-1, WNOHANG). A pid found
// this way that isn't in the tracked set is not a background job, so it is
// logged and otherwise ignored rather than announced; its exit status is
// still consumed by this pass.
func (r *Reaper) ReapAvailable() {
	var wstatus unix.WaitStatus

	for i := 0; i < r.pollLimit; i++ {
		pid, err := unix.Wait4(-1, &wstatus, unix.WNOHANG, nil)
		if err != nil || pid <= 0 {
			return
		}

		status := wstatus.ExitStatus()
		if wstatus.Signaled() {
			status = 128 + int(wstatus.Signal())
		}

		r.mu.Lock()
		tracked := r.tracked[pid]
		delete(r.tracked, pid)
		r.mu.Unlock()

		if !tracked {
			r.log("reaped untracked pid %d status %d, ignoring", pid, status)
			continue
		}

		fmt.Fprintf(os.Stderr, "Completed: %d (%d)\n", pid, status)
		r.log("reaped pid %d status %d", pid, status)
	}
}
