// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package main

import (
	"testing"

	"github.com/evo-automation/evo-core/segments"
)

func TestMotionModelAcceleratesUnderConstantTorque(t *testing.T) {
	m := newMotionModel(1)

	var cmd segments.HalCommand
	cmd.AxisCount = 1
	cmd.Axes[0].Output.CalculatedTorque = 1.0

	for i := 0; i < 100; i++ {
		m.step(cmd, 0.001)
	}

	if m.velocity[0] <= 0 {
		t.Fatalf("velocity = %v, want > 0 under sustained positive torque", m.velocity[0])
	}
	if m.position[0] <= 0 {
		t.Fatalf("position = %v, want > 0 after moving with positive velocity", m.position[0])
	}
}

func TestMotionModelFeedbackReportsReadyFlags(t *testing.T) {
	m := newMotionModel(2)
	fb := m.feedback(2)

	if fb.AxisCount != 2 {
		t.Fatalf("AxisCount = %d, want 2", fb.AxisCount)
	}
	want := segments.StatusReady | segments.StatusEnabled | segments.StatusReferenced
	if fb.Axes[0].StatusFlags != want {
		t.Fatalf("StatusFlags = %v, want %v", fb.Axes[0].StatusFlags, want)
	}
}

func TestMotionModelIgnoresExcessAxisCount(t *testing.T) {
	m := newMotionModel(1)
	var cmd segments.HalCommand
	cmd.AxisCount = 5 // more than the model was sized for

	m.step(cmd, 0.001) // must not panic on out-of-range indexing
}
