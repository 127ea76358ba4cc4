// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package supervisor

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// reapLoop installs a SIGCHLD handler and feeds every reaped child's exit
// onto the supervisor's SPSC queue until stop is closed. It runs as its
// own goroutine: the reaper must never block waiting for the consumer, or
// a burst of simultaneous child exits could miss a SIGCHLD coalesced by
// the kernel while the handler was busy (spec.md §5's reaper discipline).
func (s *Supervisor) reapLoop(stop <-chan struct{}) {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGCHLD)
	defer signal.Stop(sigc)

	for {
		select {
		case <-stop:
			return
		case <-sigc:
			s.reapExited()
		}
	}
}

// reapExited drains every currently-exited child via a non-blocking
// Wait4(-1, WNOHANG), since one SIGCHLD can represent more than one exit
// if several children died close together.
func (s *Supervisor) reapExited() {
	for {
		var ws syscall.WaitStatus
		pid, err := syscall.Wait4(-1, &ws, syscall.WNOHANG, nil)
		if err != nil || pid <= 0 {
			return
		}

		name := s.nameForPID(pid)
		notice := exitNotice{name: name, pid: pid}
		if ws.Signaled() {
			notice.err = &signalExit{signal: ws.Signal()}
		} else if code := ws.ExitStatus(); code != 0 {
			notice.err = &nonZeroExit{code: code}
		}

		for s.reap.Enqueue(&notice) != nil {
			// Queue full under a reap burst: this notice is dropped. reap's
			// 64-slot capacity is far above the number of supervised
			// children.
			break
		}
	}
}

func (s *Supervisor) nameForPID(pid int) string {
	for _, mp := range s.procs {
		if mp.cmd != nil && mp.cmd.Process != nil && mp.cmd.Process.Pid == pid {
			return mp.spec.Name
		}
	}
	return ""
}

type signalExit struct{ signal syscall.Signal }

func (e *signalExit) Error() string { return "killed by signal " + e.signal.String() }

type nonZeroExit struct{ code int }

func (e *nonZeroExit) Error() string {
	return fmt.Sprintf("exited with status %d", e.code)
}
