// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package supervisor

import (
	"time"
)

// recordExit appends now to mp's restart history and evicts entries older
// than restartWindow, then reports whether the module has crashed more
// than maxRestarts times within that window (spec.md §5's crash-loop
// limit). A stable run since the last start also resets the escalating
// backoff, so a module that ran cleanly for a while gets a fast restart
// on its next, unrelated crash rather than inheriting an old penalty.
func (mp *moduleProc) recordExit(now time.Time) (exceeded bool) {
	if now.Sub(mp.lastStart) >= stableRunDuration {
		mp.restarts = mp.restarts[:0]
		mp.backoff.Reset()
	}

	mp.restarts = append(mp.restarts, now)
	cutoff := now.Add(-restartWindow)
	i := 0
	for i < len(mp.restarts) && mp.restarts[i].Before(cutoff) {
		i++
	}
	mp.restarts = mp.restarts[i:]

	return len(mp.restarts) > maxRestarts
}

// restartOne respawns a crashed module, waiting through mp's iox.Backoff
// between the exit and the respawn attempt — the same escalate-then-wait
// idiom the pack uses for contended-queue retries, applied here to
// throttle a crash-looping child instead of a full queue (spec.md §5's
// bounded-backoff restart). Repeated calls without an intervening
// recordExit-triggered Reset wait progressively longer.
func (s *Supervisor) restartOne(mp *moduleProc) error {
	mp.backoff.Wait()

	if err := s.startOne(mp); err != nil {
		return err
	}
	if mp.spec.HeartbeatSegment != "" {
		return waitForHeartbeat(mp.spec.HeartbeatSegment, startupTimeout)
	}
	return nil
}
