// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package control

import "math"

// pid runs one backward-Euler PID step with a filtered derivative and
// back-calculation anti-windup (spec.md §4.5). It returns the unsaturated
// output for the pipeline assembly (raw = p + i + d + ff + d_hat is
// computed from unsaturated terms; saturation happens once, after
// assembly) and updates s in place, using its own saturated value only
// for the back-calculation term.
//
// Each term is guarded by its own gain: Kp == 0 gives p = 0, Kd == 0
// forces d to 0, and Ki == 0 forces the integral to 0 and skips its
// update. With all three zero the PID contributes exactly zero whatever
// state s carried in from earlier cycles, which keeps the
// zero-gain-equivalence property exact.
func pid(p *Params, s *State, target, actual, dt float64) float64 {
	errVal := target - actual

	pTerm := p.Kp * errVal

	d := s.DPrev
	if p.Kd != 0 && p.Tf > 0 {
		alpha := p.Tf / (p.Tf + dt)
		d = alpha*s.DPrev + (p.Kd/(p.Tf+dt))*(errVal-s.ErrorPrev)
	} else if p.Kd != 0 {
		d = (p.Kd / dt) * (errVal - s.ErrorPrev)
	} else {
		d = 0
	}

	if p.Ki == 0 {
		s.Integral = 0
	}

	uUnsat := pTerm + s.Integral + d
	uSat := math.Max(-p.OutMax, math.Min(p.OutMax, uUnsat))

	if p.Ki == 0 {
		// integral term disabled: nothing accumulates
	} else if p.Tt > 0 {
		s.Integral += (p.Ki*errVal + (uSat-uUnsat)/p.Tt) * dt
	} else {
		s.Integral += p.Ki * errVal * dt
	}

	s.DPrev = d
	s.ErrorPrev = errVal

	return uUnsat
}
