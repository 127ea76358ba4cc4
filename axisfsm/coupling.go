// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package axisfsm

// CouplingInputs are the pre-evaluated conditions for a coupled-axis
// (master/slave) pair, evaluated against the slave's own lag error.
type CouplingInputs struct {
	CoupleRequested bool
	SyncTimedOut    bool
	SlaveFaulted    bool
	MasterLost      bool
	LagDifference   float64
	LagDiffLimit    float64
}

// StepCoupling advances CouplingState for one axis. A slave's fault, or
// an excessive lag difference against its master, is reflected here;
// cross-axis propagation (slave fault → master flag) happens in the
// machine package's propagation pass, not here, since this function only
// sees one axis.
func StepCoupling(cur CouplingState, in CouplingInputs) (CouplingState, CouplingError) {
	var errs CouplingError
	if in.SlaveFaulted {
		errs |= CouplingErrSlaveFault
	}
	if in.MasterLost {
		errs |= CouplingErrMasterLost
	}
	if in.LagDiffLimit > 0 && in.LagDifference > in.LagDiffLimit {
		errs |= CouplingErrLagDifferenceExceeded
	}
	if errs.Critical() || in.SlaveFaulted {
		return CouplingFault, errs
	}

	switch cur {
	case Uncoupled:
		if in.CoupleRequested {
			return Syncing, errs
		}
		return Uncoupled, errs
	case Syncing:
		if in.SyncTimedOut {
			errs |= CouplingErrSyncTimeout
			return CouplingFault, errs
		}
		if !in.CoupleRequested {
			return Uncoupled, errs
		}
		return Coupled, errs
	case Coupled:
		if !in.CoupleRequested {
			return Uncoupled, errs
		}
		return Coupled, errs
	case CouplingFault:
		if !in.SlaveFaulted && !in.MasterLost {
			return Uncoupled, errs
		}
		return CouplingFault, errs
	default:
		return cur, errs
	}
}
