// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package axisfsm

// OperationalInputs selects the requested mode; the transition is a pure
// passthrough gated only by safety state, since mode changes are always
// legal except during an active safety stop.
type OperationalInputs struct {
	Requested    OperationalMode
	SafetyStopped bool
}

// StepOperational advances OperationalMode. Mode changes are rejected
// (state held) while a safety stop is active.
func StepOperational(cur OperationalMode, in OperationalInputs) OperationalMode {
	if in.SafetyStopped {
		return cur
	}
	return in.Requested
}

// VelocityCapFraction returns the fraction of configured max velocity an
// unreferenced axis is capped to outside production mode (spec.md §4.6).
// Production mode rejects commands on unreferenced axes entirely; that
// rejection is enforced by the caller via CommandErr, not here.
func VelocityCapFraction(mode OperationalMode, referenced bool) float64 {
	if referenced {
		return 1.0
	}
	if mode == ModeProduction {
		return 0
	}
	return 0.05
}
