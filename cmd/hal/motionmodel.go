// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package main

import "github.com/evo-automation/evo-core/segments"

// motionModel is a trivial per-axis double integrator: the same nominal
// Jn*accel + Bn*velocity plant the disturbance observer assumes (spec.md
// §4.5), driven by whatever torque the control unit last commanded.
// It exists only so the stub HAL produces feedback that moves in response
// to commands instead of staying at rest.
type motionModel struct {
	position []float64
	velocity []float64
}

const (
	stubJn = 1.0
	stubBn = 0.1
)

func newMotionModel(axisCount int) *motionModel {
	return &motionModel{
		position: make([]float64, axisCount),
		velocity: make([]float64, axisCount),
	}
}

func (m *motionModel) step(cmd segments.HalCommand, dt float64) {
	n := int(cmd.AxisCount)
	if n > len(m.position) {
		n = len(m.position)
	}
	for i := 0; i < n; i++ {
		torque := cmd.Axes[i].Output.CalculatedTorque
		accel := (torque - stubBn*m.velocity[i]) / stubJn
		m.velocity[i] += accel * dt
		m.position[i] += m.velocity[i] * dt
	}
}

func (m *motionModel) feedback(axisCount int) segments.HalFeedback {
	var fb segments.HalFeedback
	fb.AxisCount = uint32(axisCount)
	for i := 0; i < axisCount; i++ {
		fb.Axes[i] = segments.AxisFeedback{
			Position:    m.position[i],
			Velocity:    m.velocity[i],
			StatusFlags: segments.StatusReady | segments.StatusEnabled | segments.StatusReferenced,
		}
	}
	return fb
}
