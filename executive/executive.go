// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

// Package executive runs the deterministic cyclic executive: the ordered
// startup sequence, the per-cycle read-decide-write body, RT scheduling,
// and deadline enforcement (spec.md §4.4).
package executive

import (
	"time"

	"code.hybscloud.com/atomix"

	"github.com/evo-automation/evo-core/axisfsm"
	"github.com/evo-automation/evo-core/config"
	"github.com/evo-automation/evo-core/control"
	"github.com/evo-automation/evo-core/ioregistry"
	"github.com/evo-automation/evo-core/machine"
	"github.com/evo-automation/evo-core/p2p"
	"github.com/evo-automation/evo-core/segments"
	"github.com/evo-automation/evo-core/telemetry"
)

// axisTiming tracks the per-axis, executive-owned timers that the pure
// axisfsm step functions are deliberately kept free of (spec.md §4.6:
// "transitions are pure functions of current state, inputs, and timers").
type axisTiming struct {
	lastPowerState  axisfsm.PowerState
	powerStateSince time.Time

	// decel tracks an in-progress SS1/SS2 controlled deceleration: a
	// trajectory that ramps velocity to zero at SafeStopDecel and
	// integrates it into a position target, so the existing position-PID
	// pipeline drives the ramp instead of disabling the drive outright.
	decelActive   bool
	decelDone     bool // SS1 only: the ramp reached zero and the drive is latched disabled
	decelPosition float64
	decelVelocity float64
}

// powerStepTimeout bounds every PoweringOn gate equally; the runtime does
// not expose a per-step value in axis_*.toml, so a single conservative
// default applies to all of them. The coupling, gearbox and loading
// machines receive no timeout input from the executive.
const powerStepTimeout = 5 * time.Second

// Executive owns one control-unit process's entire cyclic-executive
// state: the machine, the I/O registry, pre-computed filter coefficients,
// and every attached segment.
type Executive struct {
	log *telemetry.Logger

	period        time.Duration
	overrunMargin time.Duration
	diagEveryN    int

	registry *ioregistry.Registry
	machine  *machine.Machine
	coeffs   []control.Coeffs
	params   []control.Params

	timing  []axisTiming
	intents []axisIntent
	recipe  recipeProgress

	lastExternalMqtSeq uint64
	lastExternalRpcSeq uint64

	lagOutcomes []control.LagOutcome
	lastOverran bool

	halFeedback *p2p.Reader[segments.HalFeedback]
	halCommand  *p2p.Writer[segments.HalCommand]
	recipeIn    *p2p.Reader[segments.RecipeCommand]
	recipeAck   *p2p.Writer[segments.RecipeAck]
	externalMqt *p2p.Reader[segments.ExternalCommand]
	externalRpc *p2p.Reader[segments.ExternalCommand]
	diagMqt     *p2p.Writer[segments.DiagnosticSnapshot]
	diagRpc     *p2p.Writer[segments.DiagnosticSnapshot]

	stopping atomix.Bool

	// nextWakeup is the cycle-start timestamp handed to RunCycle; it
	// accumulates by period rather than re-reading the clock, so
	// per-cycle compute jitter never drifts the logical cadence.
	nextWakeup time.Time
	// nextWakeupMono mirrors nextWakeup in CLOCK_MONOTONIC nanoseconds,
	// the only timebase ClockNanosleep's TIMER_ABSTIME accepts; it must
	// never be seeded from time.Now() (CLOCK_REALTIME), or the first
	// absolute sleep targets a monotonic instant decades away.
	nextWakeupMono int64
}

// New constructs an Executive from a loaded configuration bundle and a
// built I/O registry; it does not attach any segment or touch scheduling
// (startup does that).
func New(log *telemetry.Logger, bundle *config.Bundle, registry *ioregistry.Registry) *Executive {
	axisCount := len(bundle.Axes)

	e := &Executive{
		log:           log,
		period:        time.Duration(bundle.System.CyclePeriodUs) * time.Microsecond,
		overrunMargin: time.Duration(bundle.System.OverrunMarginUs) * time.Microsecond,
		diagEveryN:    bundle.System.DiagnosticsEveryNCycles,
		registry:      registry,
		machine:       machine.NewMachine(axisCount),
		coeffs:        make([]control.Coeffs, axisCount),
		params:        make([]control.Params, axisCount),
		timing:        make([]axisTiming, axisCount),
		intents:       make([]axisIntent, axisCount),
		lagOutcomes:   make([]control.LagOutcome, axisCount),
	}
	if e.diagEveryN <= 0 {
		e.diagEveryN = 1
	}

	sampleRateHz := float64(time.Second) / float64(e.period)
	for i, ac := range bundle.Axes {
		e.params[i] = ac.ToParams()
		e.coeffs[i] = control.Precompute(&e.params[i], sampleRateHz)
	}

	return e
}

// Machine exposes the executive's global/per-axis state for diagnostics
// and tests.
func (e *Executive) Machine() *machine.Machine { return e.machine }

func (e *Executive) axis(i int) *axisfsm.Axis { return &e.machine.Axes[i] }

// RequestStop asks the cycle loop to exit cleanly after completing its
// current cycle (spec.md §4.4's cancellation contract).
func (e *Executive) RequestStop() {
	e.stopping.StoreRelease(true)
}

func (e *Executive) stopRequested() bool {
	return e.stopping.LoadAcquire()
}
