// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package axisfsm

// GearboxInputs are the pre-evaluated conditions for a gearbox shift.
type GearboxInputs struct {
	ShiftRequested bool
	TargetStep     int
	StepAvailable  bool
	SensorsAgree   bool
	ShiftTimedOut  bool
	InMotion       bool // shift requests while in Motion are denied
}

// StepGearbox advances GearboxState for one axis.
func StepGearbox(cur GearboxState, in GearboxInputs) (GearboxState, GearboxError) {
	var errs GearboxError
	if !in.SensorsAgree {
		errs |= GearboxErrSensorConflict
	}
	if in.ShiftRequested && !in.StepAvailable {
		errs |= GearboxErrNoGearStep
		return GearboxFaultState, errs
	}

	switch cur {
	case GearboxIdle:
		if in.ShiftRequested {
			if in.InMotion {
				errs |= GearboxErrChangeDenied
				return GearboxIdle, errs
			}
			return Shifting, errs
		}
		return GearboxIdle, errs
	case Shifting:
		if in.ShiftTimedOut {
			errs |= GearboxErrTimeout
			return GearboxFaultState, errs
		}
		if !in.ShiftRequested {
			return Engaged, errs
		}
		return Shifting, errs
	case Engaged:
		if in.ShiftRequested {
			if in.InMotion {
				errs |= GearboxErrChangeDenied
				return Engaged, errs
			}
			return Shifting, errs
		}
		return Engaged, errs
	case GearboxFaultState:
		if in.SensorsAgree && !in.ShiftRequested {
			return GearboxIdle, errs
		}
		return GearboxFaultState, errs
	default:
		return cur, errs
	}
}
