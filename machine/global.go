// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

// Package machine holds the two global state fields (MachineState,
// SafetyState), cross-axis critical-fault propagation, and per-cycle
// timing statistics (spec.md §3, §4.4, §4.6).
package machine

import "github.com/evo-automation/evo-core/axisfsm"

// MachineState is the top-level machine lifecycle state.
type MachineState uint8

const (
	Stopped MachineState = iota
	Starting
	Idle
	Manual
	Active
	Service
	SystemError
)

// SafetyState is the global safety posture.
type SafetyState uint8

const (
	Safe SafetyState = iota
	SafeReducedSpeed
	SafetyStop
)

// Machine holds the global state fields alongside the pre-allocated axis
// array; it is constructed once at startup and owned exclusively by the
// executive thread.
type Machine struct {
	State  MachineState
	Safety SafetyState

	Axes []axisfsm.Axis

	CycleCount uint64
	Timing     TimingStats
}

// NewMachine pre-allocates a Machine sized to axisCount axes.
func NewMachine(axisCount int) *Machine {
	return &Machine{Axes: make([]axisfsm.Axis, axisCount)}
}
