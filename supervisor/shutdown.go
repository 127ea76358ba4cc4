// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package supervisor

import (
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/evo-automation/evo-core/segments"
)

// ShutdownAll stops every module in reverse startup order: SIGTERM, a
// shutdownGrace window to exit voluntarily, then SIGKILL for anything
// still alive. Once every module is down it unlinks any evo_* segment
// still present (spec.md §5 step 4: "ordered shutdown... unlink all
// segments, exit 0").
func (s *Supervisor) ShutdownAll() error {
	for i := len(s.procs) - 1; i >= 0; i-- {
		s.stopOne(s.procs[i])
	}
	return s.unlinkAllSegments()
}

func (s *Supervisor) stopOne(mp *moduleProc) {
	if mp.cmd == nil || mp.cmd.Process == nil {
		return
	}
	proc := mp.cmd.Process

	if err := proc.Signal(syscall.SIGTERM); err != nil {
		s.log.Warning().Str("module", mp.spec.Name).Err(err).Log("SIGTERM failed")
	}

	done := make(chan struct{})
	go func() {
		mp.cmd.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info().Str("module", mp.spec.Name).Log("module stopped")
	case <-time.After(shutdownGrace):
		s.log.Warning().Str("module", mp.spec.Name).Log("grace period elapsed, sending SIGKILL")
		proc.Kill()
		<-done
	}
}

// unlinkAllSegments removes every segment in the catalog, idempotent
// against segments that never existed or were already cleaned up by their
// own writer's Close.
func (s *Supervisor) unlinkAllSegments() error {
	var firstErr error
	for _, e := range segments.Catalog {
		path := filepath.Join(shmDir, e.Name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
