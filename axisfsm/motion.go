// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package axisfsm

// MotionInputs are the pre-evaluated conditions for one motion-state
// step.
type MotionInputs struct {
	PowerIsMotion   bool // PowerState == Motion, evaluated by the caller after StepPower
	HomingRequested bool
	HomingDone      bool
	HomingFailed    bool
	MoveRequested   bool
	LagCritical     bool // from control.CheckLag's Critical outcome
	LagExceeded     bool
	CycleOverrun    bool
	ResetRequested  bool
}

// StepMotion advances MotionState by one cycle.
func StepMotion(cur MotionState, in MotionInputs) (MotionState, MotionError) {
	var errs MotionError
	if in.LagCritical {
		errs |= MotionErrLagCritical
	} else if in.LagExceeded {
		errs |= MotionErrLagExceeded
	}
	if in.CycleOverrun {
		errs |= MotionErrCycleOverrun
	}

	if errs.Critical() {
		return MotionEmergencyStop, errs
	}

	switch cur {
	case MotionEmergencyStop:
		if in.ResetRequested {
			return MotionIdle, 0
		}
		return MotionEmergencyStop, errs

	case MotionErrorState:
		if in.ResetRequested {
			return MotionIdle, 0
		}
		return MotionErrorState, errs

	case MotionIdle:
		if !in.PowerIsMotion {
			return MotionIdle, errs
		}
		if in.HomingRequested {
			return Homing, errs
		}
		if in.MoveRequested {
			return Moving, errs
		}
		return MotionIdle, errs

	case Homing:
		if in.HomingFailed {
			errs |= MotionErrHomingFailed
			return MotionErrorState, errs
		}
		if in.HomingDone {
			return MotionIdle, errs
		}
		return Homing, errs

	case Moving:
		if errs != 0 {
			return MotionErrorState, errs
		}
		if !in.PowerIsMotion || !in.MoveRequested {
			return MotionIdle, errs
		}
		return Moving, errs

	default:
		return cur, errs
	}
}
