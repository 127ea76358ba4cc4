// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package axisfsm

// PowerInputs are the pre-evaluated gate conditions for one power-state
// step. The executive tracks each step's configured timeout and reports
// it here as TimedOut. TimeoutError is the error bit raised when the
// final hold-verification gate times out; the earlier gates raise fixed
// error bits in StepPower. The transition function itself holds no
// timers (spec.md §4.6: "transitions
// are pure functions of current state, inputs, and timers").
type PowerInputs struct {
	EnableRequested  bool
	DisableRequested bool
	ResetRequested   bool

	PeripheralsReady bool
	LockPinRetracted bool
	DriveEnabled     bool
	BrakeReleased    bool
	HoldVerified     bool

	MotionRequested bool

	TimedOut      bool
	TimeoutError  PowerError

	// Active* mirror HAL feedback; set while PowerState is Motion and
	// report the three critical sub-cases (spec.md §7).
	ActiveOpenTailstock bool
	ActiveLockedPin     bool
	ActiveEngagedBrake  bool
}

// StepPower advances PowerState by one cycle. Each PoweringOn gate is
// checked in the documented order (check enable, verify peripherals,
// retract lock pin, enable drive, release brake, verify hold); the first
// unmet gate holds the state and, if its timeout has elapsed, sets the
// corresponding error bit.
func StepPower(cur PowerState, in PowerInputs) (PowerState, PowerError) {
	var errs PowerError

	switch cur {
	case PowerOff:
		if in.EnableRequested {
			return PoweringOn, 0
		}
		return PowerOff, 0

	case PoweringOn:
		switch {
		case !in.PeripheralsReady:
			if in.TimedOut {
				errs |= PowerErrDriveNotReady
			}
		case !in.LockPinRetracted:
			if in.TimedOut {
				errs |= PowerErrLockPinTimeout
			}
		case !in.DriveEnabled:
			if in.TimedOut {
				errs |= PowerErrDriveFault
			}
		case !in.BrakeReleased:
			if in.TimedOut {
				errs |= PowerErrBrakeTimeout
			}
		case !in.HoldVerified:
			if in.TimedOut {
				errs |= in.TimeoutError
			}
		default:
			return Standby, 0
		}
		return PoweringOn, errs

	case Standby:
		if in.DisableRequested {
			return PoweringOff, 0
		}
		if in.MotionRequested {
			return Motion, 0
		}
		return Standby, 0

	case Motion:
		if in.ActiveOpenTailstock {
			errs |= PowerErrActiveOpenTailstock
		}
		if in.ActiveLockedPin {
			errs |= PowerErrActiveLockedPin
		}
		if in.ActiveEngagedBrake {
			errs |= PowerErrActiveEngagedBrake
		}
		if in.DisableRequested || errs.Critical() {
			return PoweringOff, errs
		}
		if !in.DriveEnabled {
			errs |= PowerErrMotionEnableLost
		}
		return Motion, errs

	case PoweringOff:
		if !in.BrakeReleased && !in.LockPinRetracted {
			return PowerOff, 0
		}
		return PoweringOff, 0

	case PowerEmergencyStop:
		if in.ResetRequested {
			return PowerOff, 0
		}
		return PowerEmergencyStop, 0

	default:
		return cur, 0
	}
}
