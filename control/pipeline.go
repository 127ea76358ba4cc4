// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package control

import (
	"math"

	"github.com/evo-automation/evo-core/segments"
)

// Targets is one cycle's commanded setpoint for an axis.
type Targets struct {
	Position     float64
	Velocity     float64
	Acceleration float64
}

// Actual is one cycle's measured axis feedback relevant to the pipeline.
type Actual struct {
	Position float64
	Velocity float64
}

// Run executes one cycle of the full pipeline for one axis: PID,
// feedforward, disturbance observer, notch, low-pass, and saturation
// (spec.md §4.5). It returns the fully populated output vector and
// updates s in place.
//
// With every gain zero (Kp=Ki=Kd=Kvff=Kaff=Friction=GDOB=0) and FNotch,
// FLP both zero, raw is exactly zero every cycle regardless of s's
// accumulated history, since each guarded sub-component contributes
// exactly zero and the bypassed filters pass zero through unchanged.
func Run(p *Params, c *Coeffs, s *State, t Targets, a Actual, dt float64) segments.ControlOutputVector {
	pidOut := pid(p, s, t.Position, a.Position, dt)
	ff := feedforward(p, t.Velocity, t.Acceleration)
	dHat := disturbanceObserver(p, s, a.Velocity, dt)

	raw := pidOut + ff + dHat
	notched := c.Notch.Apply(&s.Notch, raw)
	filtered := c.Lowpass.Apply(&s.Lowpass, notched)
	final := math.Max(-p.OutMax, math.Min(p.OutMax, filtered))

	s.UPrevSat = final

	return segments.ControlOutputVector{
		CalculatedTorque: final,
		TargetVelocity:   t.Velocity,
		TargetPosition:   t.Position,
		TorqueOffset:     ff,
	}
}
