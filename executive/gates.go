// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package executive

import (
	"time"

	"github.com/evo-automation/evo-core/axisfsm"
	"github.com/evo-automation/evo-core/control"
	"github.com/evo-automation/evo-core/ioregistry"
	"github.com/evo-automation/evo-core/machine"
	"github.com/evo-automation/evo-core/segments"
)

// evaluateSafety reads the I/O registry's global and per-axis safety
// roles into a SafetyFlag bitmask (spec.md §4.4 step 3, "evaluate safety
// flags from I/O registry readings" before the state machines run).
// Limit and overspeed flags that have no declared role simply never set
// (an axis without LimitMin/LimitMax wiring has no such monitor).
func (e *Executive) evaluateSafety(axisIdx int, fb *segments.HalFeedback) axisfsm.SafetyFlag {
	var flags axisfsm.SafetyFlag

	if v, err := e.registry.ReadDI(ioregistry.GlobalRole(ioregistry.RoleEStop), &fb.DigitalIn); err == nil && v {
		flags |= axisfsm.SafetyEStop
	}
	if v, err := e.registry.ReadDI(ioregistry.AxisRole(ioregistry.RoleLimitMin, axisIdx), &fb.DigitalIn); err == nil && v {
		flags |= axisfsm.SafetyHardLimitMin
	}
	if v, err := e.registry.ReadDI(ioregistry.AxisRole(ioregistry.RoleLimitMax, axisIdx), &fb.DigitalIn); err == nil && v {
		flags |= axisfsm.SafetyHardLimitMax
	}

	af := &fb.Axes[axisIdx]
	if af.StatusFlags&segments.StatusFault != 0 {
		flags |= axisfsm.SafetyEncoderFault
	}
	if af.StatusFlags&segments.StatusEnabled == 0 {
		flags |= axisfsm.SafetyEnableLost
	}

	return flags
}

// buildCycleInputs assembles one axis's CycleInputs for this cycle from
// the I/O registry, the HAL feedback snapshot, the executive's own
// latched command intent, this cycle's already-evaluated lag outcome,
// and the previous cycle's overrun outcome (spec.md §4.6's fixed
// power→motion→operational→coupling→gearbox→loading order consumes
// inputs computed ahead of time, never inputs from a later step in the
// same cycle).
func (e *Executive) buildCycleInputs(axisIdx int, fb *segments.HalFeedback, now time.Time) axisfsm.CycleInputs {
	axis := e.axis(axisIdx)
	in := e.intents[axisIdx]
	timing := &e.timing[axisIdx]

	driveReady, _ := e.registry.ReadDI(ioregistry.AxisRole(ioregistry.RoleDriveReady, axisIdx), &fb.DigitalIn)
	lockPin, _ := e.registry.ReadDI(ioregistry.AxisRole(ioregistry.RoleLockPin, axisIdx), &fb.DigitalIn)
	driveEnabled, _ := e.registry.ReadDI(ioregistry.AxisRole(ioregistry.RoleDriveEnable, axisIdx), &fb.DigitalIn)
	brakeEngaged, _ := e.registry.ReadDI(ioregistry.AxisRole(ioregistry.RoleBrake, axisIdx), &fb.DigitalIn)
	referenced, _ := e.registry.ReadDI(ioregistry.AxisRole(ioregistry.RoleReferenced, axisIdx), &fb.DigitalIn)

	if axis.Power != timing.lastPowerState {
		timing.powerStateSince = now
		timing.lastPowerState = axis.Power
	}
	timedOut := now.Sub(timing.powerStateSince) > powerStepTimeout

	eStop := axis.Safety&axisfsm.SafetyEStop != 0

	power := axisfsm.PowerInputs{
		EnableRequested:  in.EnableRequested && !eStop,
		DisableRequested: in.DisableRequested || eStop,
		ResetRequested:   in.ResetRequested && !eStop,

		PeripheralsReady: driveReady,
		LockPinRetracted: !lockPin,
		DriveEnabled:     driveEnabled,
		BrakeReleased:    !brakeEngaged,
		HoldVerified:     driveEnabled && !brakeEngaged,

		MotionRequested: in.MoveRequested && !eStop,

		TimedOut:     timedOut,
		TimeoutError: axisfsm.PowerErrDriveNotReady,

		ActiveLockedPin:    lockPin,
		ActiveEngagedBrake: brakeEngaged,
	}

	lag := e.lagOutcomes[axisIdx]
	motion := axisfsm.MotionInputs{
		HomingRequested: in.HomingRequested,
		HomingDone:      referenced,
		MoveRequested:   in.MoveRequested,
		LagCritical:     lag.Critical,
		LagExceeded:     lag.Exceeded && lag.Policy == control.LagUnwanted,
		CycleOverrun:    e.lastOverran,
		ResetRequested:  in.ResetRequested,
	}

	operational := axisfsm.OperationalInputs{
		Requested:     in.Mode,
		SafetyStopped: e.machine.Safety == machine.SafetyStop,
	}

	coupling := axisfsm.CouplingInputs{}
	gearbox := axisfsm.GearboxInputs{SensorsAgree: true}
	loading := axisfsm.LoadingInputs{}

	return axisfsm.CycleInputs{
		Power:       power,
		Motion:      motion,
		Operational: operational,
		Coupling:    coupling,
		Gearbox:     gearbox,
		Loading:     loading,
	}
}

