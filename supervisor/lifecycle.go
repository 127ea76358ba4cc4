// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package supervisor

import (
	"time"
)

// Monitor runs the supervisor's steady-state loop: it drains reaped exits
// and either restarts the module or, past the crash-loop limit, logs and
// gives up on it. Monitor returns when stop is closed, after shutting
// down every module in reverse startup order.
func (s *Supervisor) Monitor(stop <-chan struct{}) error {
	reapStop := make(chan struct{})
	go s.reapLoop(reapStop)
	defer close(reapStop)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return s.ShutdownAll()
		case <-ticker.C:
			s.drainExits()
		}
	}
}

func (s *Supervisor) drainExits() {
	for {
		notice, err := s.reap.Dequeue()
		if err != nil {
			return
		}
		s.handleExit(notice)
	}
}

func (s *Supervisor) handleExit(notice exitNotice) {
	mp := s.findProc(notice.name)
	if mp == nil {
		return
	}

	if notice.err == nil {
		s.log.Info().Str("module", mp.spec.Name).Log("module exited cleanly")
		return
	}

	s.log.Err().Str("module", mp.spec.Name).Err(notice.err).Log("module exited unexpectedly")

	if mp.recordExit(time.Now()) {
		s.log.Crit().Str("module", mp.spec.Name).Int("restarts", len(mp.restarts)).
			Log("module exceeded restart limit, giving up")
		return
	}

	if err := s.restartOne(mp); err != nil {
		s.log.Err().Str("module", mp.spec.Name).Err(err).Log("restart failed")
	} else {
		s.log.Info().Str("module", mp.spec.Name).Log("module restarted")
	}
}

func (s *Supervisor) findProc(name string) *moduleProc {
	for _, mp := range s.procs {
		if mp.spec.Name == name {
			return mp
		}
	}
	return nil
}
