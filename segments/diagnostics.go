// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package segments

import "unsafe"

// AxisDiagnostic is one axis's snapshot in the diagnostic segment: its six
// state fields, safety flags, and error bitfields, in the fixed processing
// order (power, motion, operational, coupling, gearbox, loading).
type AxisDiagnostic struct {
	PowerState        uint8
	MotionState       uint8
	OperationalMode   uint8
	CouplingState     uint8
	GearboxState      uint8
	LoadingState      uint8
	SafetyFlags       uint8 // 8 packed safety booleans
	_                 uint8 // pad

	PowerErrors    uint16
	MotionErrors   uint16
	CommandErrors  uint16
	GearboxErrors  uint16
	CouplingErrors uint16
	_              [6]byte // pad element to 24 bytes
}

// DiagnosticSnapshot is the machine- and per-axis-level telemetry payload
// written every cycle (optionally throttled to every Nth cycle) for
// non-RT collaborators (spec.md §4.4 step 5).
type DiagnosticSnapshot struct {
	MachineState uint8
	SafetyState  uint8
	_            [6]byte
	CycleCount   uint64
	Axes         [MaxAxes]AxisDiagnostic
	AxisCount    uint32
	_            [4]byte
}

func init() {
	if unsafe.Sizeof(DiagnosticSnapshot{}) > 8192 {
		panic("segments: DiagnosticSnapshot exceeds the 8 KiB page bound")
	}
}
