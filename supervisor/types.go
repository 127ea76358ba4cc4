// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

// Package supervisor owns the top-level process lifecycle: ordered startup
// of the supervised binaries, liveness polling, bounded-backoff
// restart, SIGCHLD reaping, and ordered shutdown with orphan segment
// cleanup (spec.md §5).
package supervisor

import (
	"os/exec"
	"time"

	"code.hybscloud.com/iox"

	"github.com/evo-automation/evo-core/internal/ring"
	"github.com/evo-automation/evo-core/telemetry"
)

// ModuleSpec describes one supervised child process.
type ModuleSpec struct {
	// Name identifies the module in logs and in the startup/shutdown order.
	Name string
	// Path is the executable to run.
	Path string
	// Args are passed to the executable verbatim.
	Args []string
	// HeartbeatSegment, if non-empty, is the /dev/shm segment name the
	// supervisor polls after spawn to confirm the module came up (its
	// Heartbeat counter advancing at least once within startupTimeout).
	HeartbeatSegment string
}

// moduleProc is one running (or exited) child's supervised state.
type moduleProc struct {
	spec ModuleSpec
	cmd  *exec.Cmd

	restarts  []time.Time // restart timestamps within restartWindow, oldest first
	lastStart time.Time
	backoff   iox.Backoff // escalates across consecutive crashes, resets on a stable run
}

// exitNotice is one child's termination, fed to the supervisor's reaper
// queue by the SIGCHLD handler.
type exitNotice struct {
	name string
	pid  int
	err  error
}

const (
	// restartWindow bounds how far back recordExit looks when
	// deciding whether a module has crash-looped past the limit.
	restartWindow = 60 * time.Second
	// maxRestarts is the number of restarts tolerated within
	// restartWindow before the supervisor gives up on a module.
	maxRestarts = 5
	// stableRunDuration is how long a module must run without exiting
	// before its restart history is cleared (spec.md §5's "stable run
	// resets backoff" rule).
	stableRunDuration = 60 * time.Second
	// shutdownGrace is how long SIGTERM is given to take effect before
	// the supervisor escalates to SIGKILL.
	shutdownGrace = 2 * time.Second
	// startupTimeout bounds how long the supervisor waits for a freshly
	// spawned module's heartbeat to advance before declaring it dead.
	startupTimeout = 5 * time.Second
)

// Supervisor sequences startup, monitors liveness, restarts crashed
// modules with exponential backoff, and performs ordered shutdown.
type Supervisor struct {
	log   *telemetry.Logger
	procs []*moduleProc
	reap  *ring.SPSC[exitNotice]
}

// New builds a Supervisor for the given modules, started and shut down in
// the order given (spec.md §5: HAL first, then CU, then the bridges).
func New(log *telemetry.Logger, specs []ModuleSpec) *Supervisor {
	s := &Supervisor{
		log:  log,
		reap: ring.NewSPSC[exitNotice](64),
	}
	for _, spec := range specs {
		s.procs = append(s.procs, &moduleProc{spec: spec})
	}
	return s
}
