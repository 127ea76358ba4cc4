// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package executive

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

// Run executes cycles back-to-back at the configured period until
// RequestStop is called, pacing with an absolute-time clock-nanosleep so
// the wakeup sequence never accumulates drift (spec.md §4.4 step 7,
// §8's cycle-determinism property).
func (e *Executive) Run() error {
	for !e.stopRequested() {
		cycleStart := e.nextWakeup
		if err := e.RunCycle(cycleStart); err != nil {
			e.log.Err().Err(err).Log("cycle failed")
		}

		e.nextWakeup = e.nextWakeup.Add(e.period)
		e.nextWakeupMono += e.period.Nanoseconds()
		if err := sleepUntil(e.nextWakeupMono); err != nil {
			return err
		}
	}
	return nil
}

// sleepUntil suspends the calling thread until the absolute CLOCK_MONOTONIC
// deadline (nanoseconds since an unspecified epoch, as returned by
// ClockGettime) using TIMER_ABSTIME, so scheduler latency on any one cycle
// never shifts subsequent wakeups (unlike a relative sleep, which would).
// deadlineNs must come from the same clock, never from a wall-clock
// time.Time: CLOCK_REALTIME and CLOCK_MONOTONIC do not share an epoch.
func sleepUntil(deadlineNs int64) error {
	req := unix.NsecToTimespec(deadlineNs)
	for {
		err := unix.ClockNanosleep(unix.CLOCK_MONOTONIC, unix.TIMER_ABSTIME, &req, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return err
		}
		return nil
	}
}
