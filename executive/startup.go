// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package executive

import (
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/evo-automation/evo-core/p2p"
	"github.com/evo-automation/evo-core/segments"
)

// StartupOptions controls the RT-scheduling steps of Start; tests and
// non-privileged runs disable them since mlockall/SCHED_FIFO require
// CAP_SYS_RESOURCE/CAP_SYS_NICE.
type StartupOptions struct {
	CPUAffinity  int // negative disables pinning
	RTPriority   int // 0 disables SCHED_FIFO
	LockMemory   bool
	PrefaultPages bool
}

// rtPriority is the fixed SCHED_FIFO priority the spec assigns the
// executive, leaving headroom below it for the watchdog and IRQ threads.
const rtPriority = 80

// Start runs the nine-step startup sequence (spec.md §4.4): it attaches
// every inbound/outbound segment, pre-allocates and prefaults state, pins
// CPU affinity, raises scheduling priority, and records the initial
// wakeup timestamp. Steps 1-3 (config parse, state pre-allocation, filter
// coefficient pre-computation) already happened in New; Start performs
// steps 4-9.
func (e *Executive) Start(opts StartupOptions) error {
	if err := e.attachSegments(); err != nil {
		return fmt.Errorf("executive: attach segments: %w", err)
	}

	if opts.LockMemory {
		if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
			return fmt.Errorf("executive: mlockall: %w", err)
		}
	}

	if opts.PrefaultPages {
		e.prefault()
	}

	if opts.CPUAffinity >= 0 {
		runtime.LockOSThread()
		var mask unix.CPUSet
		mask.Set(opts.CPUAffinity)
		if err := unix.SchedSetaffinity(0, &mask); err != nil {
			return fmt.Errorf("executive: set CPU affinity to %d: %w", opts.CPUAffinity, err)
		}
	}

	if opts.RTPriority > 0 {
		sched := &unix.SchedParam{Priority: opts.RTPriority}
		if err := unix.SchedSetscheduler(0, unix.SCHED_FIFO, sched); err != nil {
			return fmt.Errorf("executive: SCHED_FIFO priority %d: %w", opts.RTPriority, err)
		}
	}

	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return fmt.Errorf("executive: clock_gettime: %w", err)
	}
	e.nextWakeup = time.Now()
	e.nextWakeupMono = ts.Nano()
	return nil
}

// attachSegments creates the CU's outbound segments and attaches its
// inbound ones, validating layout hashes as each Reader attaches
// (spec.md §4.2).
func (e *Executive) attachSegments() error {
	var err error

	e.halFeedback, err = p2p.Attach[segments.HalFeedback](segments.SegmentName(segments.Hal, segments.Cu), uint8(segments.Cu))
	if err != nil {
		return fmt.Errorf("attach %s: %w", segments.SegmentName(segments.Hal, segments.Cu), err)
	}

	e.halCommand, err = p2p.Create[segments.HalCommand](segments.SegmentName(segments.Cu, segments.Hal), uint8(segments.Cu), uint8(segments.Hal))
	if err != nil {
		return fmt.Errorf("create %s: %w", segments.SegmentName(segments.Cu, segments.Hal), err)
	}

	e.recipeIn, err = p2p.Attach[segments.RecipeCommand](segments.SegmentName(segments.Re, segments.Cu), uint8(segments.Cu))
	if err != nil {
		return fmt.Errorf("attach %s: %w", segments.SegmentName(segments.Re, segments.Cu), err)
	}

	e.recipeAck, err = p2p.Create[segments.RecipeAck](segments.SegmentName(segments.Cu, segments.Re), uint8(segments.Cu), uint8(segments.Re))
	if err != nil {
		return fmt.Errorf("create %s: %w", segments.SegmentName(segments.Cu, segments.Re), err)
	}

	e.externalMqt, err = p2p.Attach[segments.ExternalCommand](segments.SegmentName(segments.Mqt, segments.Cu), uint8(segments.Cu))
	if err != nil {
		return fmt.Errorf("attach %s: %w", segments.SegmentName(segments.Mqt, segments.Cu), err)
	}

	e.externalRpc, err = p2p.Attach[segments.ExternalCommand](segments.SegmentName(segments.Rpc, segments.Cu), uint8(segments.Cu))
	if err != nil {
		return fmt.Errorf("attach %s: %w", segments.SegmentName(segments.Rpc, segments.Cu), err)
	}

	e.diagMqt, err = p2p.Create[segments.DiagnosticSnapshot](segments.SegmentName(segments.Cu, segments.Mqt), uint8(segments.Cu), uint8(segments.Mqt))
	if err != nil {
		return fmt.Errorf("create %s: %w", segments.SegmentName(segments.Cu, segments.Mqt), err)
	}

	e.diagRpc, err = p2p.Create[segments.DiagnosticSnapshot](segments.SegmentName(segments.Cu, segments.Rpc), uint8(segments.Cu), uint8(segments.Rpc))
	if err != nil {
		return fmt.Errorf("create %s: %w", segments.SegmentName(segments.Cu, segments.Rpc), err)
	}

	return nil
}

// prefault writes a byte into every page backing the pre-allocated
// per-axis arrays, so the first real cycle never takes a page fault
// (spec.md §4.4 step 6). A plain read (or a self-assignment the compiler
// is free to prove has no effect) does not guarantee the kernel backs
// the page; an unsafe write does.
func (e *Executive) prefault() {
	if len(e.machine.Axes) > 0 {
		touchPages(unsafe.Pointer(&e.machine.Axes[0]), int(unsafe.Sizeof(e.machine.Axes[0]))*len(e.machine.Axes))
	}
	if len(e.coeffs) > 0 {
		touchPages(unsafe.Pointer(&e.coeffs[0]), int(unsafe.Sizeof(e.coeffs[0]))*len(e.coeffs))
	}
}

// touchPages writes a zero byte at every page-sized stride of [p, p+n)
// and at its final byte, so no page in the range is left unbacked.
func touchPages(p unsafe.Pointer, n int) {
	const pageSize = 4096
	for off := 0; off < n; off += pageSize {
		*(*byte)(unsafe.Add(p, off)) = 0
	}
	*(*byte)(unsafe.Add(p, n-1)) = 0
}

// Close releases every attached segment, unlinking the ones this process
// owns as writer (spec.md §4.4's cancellation contract).
func (e *Executive) Close() error {
	closers := []interface{ Close() error }{
		e.halFeedback, e.halCommand, e.recipeIn, e.recipeAck,
		e.externalMqt, e.externalRpc, e.diagMqt, e.diagRpc,
	}
	var firstErr error
	for _, c := range closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
