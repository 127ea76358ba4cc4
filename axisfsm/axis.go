// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package axisfsm

import "github.com/evo-automation/evo-core/control"

// CommandSource identifies who currently owns the right to command an
// axis (spec.md §3's command-source lock).
type CommandSource uint8

const (
	SourceNone CommandSource = iota
	SourceManual
	SourceRecipe
	SourceExternal
)

// CommandLock records the owning source, the reason it was taken, and
// whether targets are paused pending resume authorization.
type CommandLock struct {
	Owner  CommandSource
	Reason string
	Paused bool
}

// Axis is one axis's complete pre-allocated state (spec.md §3, ~256 B):
// the six orthogonal state fields, safety flags, five error bitfields,
// control state, and the command-source lock.
type Axis struct {
	Power       PowerState
	MotionSt    MotionState
	Operational OperationalMode
	Coupling    CouplingState
	Gearbox     GearboxState
	Loading     LoadingState

	Safety SafetyFlag

	PowerErr    PowerError
	MotionErr   MotionError
	CommandErr  CommandError
	GearboxErr  GearboxError
	CouplingErr CouplingError

	Control control.State
	Lock    CommandLock

	Referenced bool
}

// Disable forces the axis out of Motion and zeroes its control state.
// Calling Disable twice zeroes control state once and leaves it zero
// (disable idempotence, spec.md §8).
func (a *Axis) Disable() {
	a.Power = PowerOff
	a.MotionSt = MotionIdle
	a.Control.Reset()
}

// EmergencyStop forces the axis into PowerEmergencyStop/MotionEmergencyStop,
// used by critical-fault propagation (spec.md §7's propagation policy).
// The state transition is the same for every safe-stop category; the
// executive dispatches the category-specific output (immediate disable,
// controlled decel, or decel-then-hold) once the axis is in this state.
// Pre-fault targets are preserved by the caller; EmergencyStop only
// transitions state fields and zeroes nothing.
func (a *Axis) EmergencyStop() {
	a.Power = PowerEmergencyStop
	a.MotionSt = MotionEmergencyStop
}

// HasCriticalFault reports whether any of the axis's five error
// bitfields carries a critical bit.
func (a *Axis) HasCriticalFault() bool {
	return a.PowerErr.Critical() || a.MotionErr.Critical() ||
		a.GearboxErr.Critical() || a.CouplingErr.Critical()
}
