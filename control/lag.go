// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package control

import "math"

// LagOutcome reports a lag-monitor evaluation for one axis in one cycle.
type LagOutcome struct {
	Exceeded bool
	Policy   LagPolicy
	// Critical is true when Policy is LagCritical and Exceeded — callers
	// must force global SafetyStop in this case.
	Critical bool
}

// CheckLag compares |targetPos - actualPos| to p.LagErrorLimit and
// dispatches by p.LagPolicy (spec.md §4.5):
//
//	Critical: flag + global SafetyStop
//	Unwanted: flag + axis MotionError (default)
//	Neutral:  flag only
//	Desired:  suppress
func CheckLag(p *Params, s *State, targetPos, actualPos float64) LagOutcome {
	exceeded := math.Abs(targetPos-actualPos) > p.LagErrorLimit
	s.LagFlagged = exceeded && p.LagPolicy != LagDesired

	return LagOutcome{
		Exceeded: exceeded,
		Policy:   p.LagPolicy,
		Critical: exceeded && p.LagPolicy == LagCritical,
	}
}
