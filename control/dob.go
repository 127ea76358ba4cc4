// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package control

// disturbanceObserver estimates exogenous load torque from the inverse
// nominal plant model plus a Q-filter (spec.md §4.5). It is disabled
// (DHat forced to 0) when GDOB <= 0.
func disturbanceObserver(p *Params, s *State, velocity, dt float64) float64 {
	if p.GDOB <= 0 {
		s.DHat = 0
		s.VPrev = velocity
		return 0
	}

	aHat := (velocity - s.VPrev) / dt
	dRaw := p.Jn*aHat + p.Bn*velocity - s.UPrevSat
	alpha := p.GDOB * dt / (1 + p.GDOB*dt)
	s.DHat = (1-alpha)*s.DHat + alpha*dRaw

	s.VPrev = velocity
	return s.DHat
}
