// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package executive

import (
	"math"
	"time"

	"github.com/evo-automation/evo-core/axisfsm"
	"github.com/evo-automation/evo-core/control"
	"github.com/evo-automation/evo-core/machine"
	"github.com/evo-automation/evo-core/segments"
)

// RunCycle executes one pass of the seven-step per-cycle body (spec.md
// §4.4). now is the cycle-start timestamp; the caller supplies it so
// determinism tests can drive cycles without a real clock.
func (e *Executive) RunCycle(now time.Time) error {
	fb, err := e.halFeedback.Read()
	if err != nil {
		return err
	}
	_ = e.halFeedback.PollStale()

	var recipeAck segments.RecipeAck
	if rc, err := e.recipeIn.Read(); err == nil {
		recipeAck = e.applyRecipeCommand(rc, &fb)
	}
	_ = e.recipeIn.PollStale()

	if ec, err := e.externalMqt.Read(); err == nil {
		e.applyExternalCommand(ec, &e.lastExternalMqtSeq)
	}
	if ec, err := e.externalRpc.Read(); err == nil {
		e.applyExternalCommand(ec, &e.lastExternalRpcSeq)
	}

	axisCount := int(fb.AxisCount)
	if axisCount > len(e.machine.Axes) {
		axisCount = len(e.machine.Axes)
	}

	var cmd segments.HalCommand
	cmd.AxisCount = uint32(axisCount)

	for i := 0; i < axisCount; i++ {
		axis := e.axis(i)
		axis.Safety = e.evaluateSafety(i, &fb)

		actual := control.Actual{Position: fb.Axes[i].Position, Velocity: fb.Axes[i].Velocity}
		targets := control.Targets{
			Position:     e.intents[i].TargetPosition,
			Velocity:     e.intents[i].TargetVelocity,
			Acceleration: e.intents[i].TargetAcceleration,
		}

		// Lag must be evaluated before the FSM step so a critical
		// overshoot seen this cycle reaches MotionInputs.LagCritical
		// (and so PropagateCriticalFaults below) the same cycle, not
		// the next one.
		e.lagOutcomes[i] = control.CheckLag(&e.params[i], &axis.Control, targets.Position, actual.Position)

		in := e.buildCycleInputs(i, &fb, now)
		axisfsm.Process(axis, in)

		var out segments.ControlOutputVector
		var enable bool
		switch {
		case axis.Power == axisfsm.Motion:
			out = control.Run(&e.params[i], &e.coeffs[i], &axis.Control, targets, actual, e.period.Seconds())
			enable = true
		case axis.Power == axisfsm.PowerEmergencyStop:
			out, enable = e.safeStopOutput(i, &axis.Control, actual)
		default:
			axis.Control.Reset()
			e.timing[i].decelActive = false
			e.timing[i].decelDone = false
			out = segments.ControlOutputVector{TargetPosition: targets.Position, TargetVelocity: targets.Velocity}
		}

		cmd.Axes[i].Output = out
		cmd.Axes[i].Mode = segments.ModeTorque
		if enable {
			cmd.Axes[i].Enable = 1
		}
	}

	e.machine.PropagateCriticalFaults(nil)

	e.halCommand.Commit(&cmd)
	e.recipeAck.Commit(&recipeAck)

	e.machine.CycleCount++
	if e.machine.CycleCount%uint64(e.diagEveryN) == 0 {
		diag := e.buildDiagnostics(axisCount)
		e.diagMqt.Commit(&diag)
		e.diagRpc.Commit(&diag)
	}

	compute := time.Since(now)
	overran := compute > e.period+e.overrunMargin
	e.lastOverran = overran
	e.machine.Timing.Record(compute, overran)
	if overran {
		e.machine.Safety = machine.SafetyStop
		e.machine.State = machine.SystemError
	}

	return nil
}

// safeStopOutput computes one axis's command while its power state is
// PowerEmergencyStop, dispatching on the axis's configured safe-stop
// category (spec.md §4.6):
//
//	STO: disable the drive immediately, zero torque, brake applied.
//	SS1: ramp velocity to zero at SafeStopDecel under control, then STO.
//	SS2: ramp velocity to zero, then hold the resulting position with
//	     the drive still enabled.
//
// The ramp is expressed as a decelerating position target rather than a
// direct velocity command, so it drives the same position-PID pipeline
// control.Run uses for normal motion; once the ramp reaches zero
// velocity the target position stops advancing, which is what gives SS2
// its holding torque with no separate "hold" logic.
func (e *Executive) safeStopOutput(i int, s *control.State, actual control.Actual) (segments.ControlOutputVector, bool) {
	p := &e.params[i]
	timing := &e.timing[i]
	if p.SafeStopCategory == control.SafeStopSTO || timing.decelDone {
		s.Reset()
		timing.decelActive = false
		return segments.ControlOutputVector{}, false
	}

	if !timing.decelActive {
		timing.decelActive = true
		timing.decelPosition = actual.Position
		timing.decelVelocity = actual.Velocity
	}

	decel := p.SafeStopDecel
	if decel <= 0 {
		decel = 1
	}
	dt := e.period.Seconds()
	step := decel * dt
	switch {
	case timing.decelVelocity > 0:
		timing.decelVelocity = math.Max(0, timing.decelVelocity-step)
	case timing.decelVelocity < 0:
		timing.decelVelocity = math.Min(0, timing.decelVelocity+step)
	}
	timing.decelPosition += timing.decelVelocity * dt

	if timing.decelVelocity == 0 && p.SafeStopCategory == control.SafeStopSS1 {
		s.Reset()
		timing.decelActive = false
		timing.decelDone = true
		return segments.ControlOutputVector{}, false
	}

	targets := control.Targets{Position: timing.decelPosition, Velocity: timing.decelVelocity}
	out := control.Run(p, &e.coeffs[i], s, targets, actual, dt)
	return out, true
}

func (e *Executive) buildDiagnostics(axisCount int) segments.DiagnosticSnapshot {
	var d segments.DiagnosticSnapshot
	d.MachineState = uint8(e.machine.State)
	d.SafetyState = uint8(e.machine.Safety)
	d.CycleCount = e.machine.CycleCount
	d.AxisCount = uint32(axisCount)

	for i := 0; i < axisCount; i++ {
		axis := e.axis(i)
		d.Axes[i] = segments.AxisDiagnostic{
			PowerState:      uint8(axis.Power),
			MotionState:     uint8(axis.MotionSt),
			OperationalMode: uint8(axis.Operational),
			CouplingState:   uint8(axis.Coupling),
			GearboxState:    uint8(axis.Gearbox),
			LoadingState:    uint8(axis.Loading),
			SafetyFlags:     uint8(axis.Safety),
			PowerErrors:     uint16(axis.PowerErr),
			MotionErrors:    uint16(axis.MotionErr),
			CommandErrors:   uint16(axis.CommandErr),
			GearboxErrors:   uint16(axis.GearboxErr),
			CouplingErrors:  uint16(axis.CouplingErr),
		}
	}
	return d
}
