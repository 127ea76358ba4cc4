// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package axisfsm

// CycleInputs bundles the per-category inputs for one axis's cycle.
// Fields are independent; the caller constructs them from I/O registry
// readings and HAL feedback before calling Process.
type CycleInputs struct {
	Power       PowerInputs
	Motion      MotionInputs
	Operational OperationalInputs
	Coupling    CouplingInputs
	Gearbox     GearboxInputs
	Loading     LoadingInputs
}

// Process runs one axis through all six state machines in the fixed
// order power → motion → operational → coupling → gearbox → loading
// (spec.md §4.6), giving intra-axis atomicity without locks. It mutates
// axis in place and reports whether any category raised a critical
// fault this cycle.
func Process(axis *Axis, in CycleInputs) (critical bool) {
	axis.Power, axis.PowerErr = StepPower(axis.Power, in.Power)

	in.Motion.PowerIsMotion = axis.Power == Motion
	axis.MotionSt, axis.MotionErr = StepMotion(axis.MotionSt, in.Motion)

	axis.Operational = StepOperational(axis.Operational, in.Operational)

	axis.Coupling, axis.CouplingErr = StepCoupling(axis.Coupling, in.Coupling)

	axis.Gearbox, axis.GearboxErr = StepGearbox(axis.Gearbox, in.Gearbox)

	axis.Loading = StepLoading(axis.Loading, in.Loading)

	return axis.HasCriticalFault()
}
