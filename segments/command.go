// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package segments

import "unsafe"

// MaxAO is the number of scaled analog output channels in the CU→HAL
// command segment.
const MaxAO = 64

// ControlOutputVector is always fully populated every cycle; the HAL
// downstream selects which field drives the axis according to its
// configured mode.
type ControlOutputVector struct {
	CalculatedTorque float64
	TargetVelocity   float64
	TargetPosition   float64
	TorqueOffset     float64
}

// DriveMode selects which ControlOutputVector field a HAL drive consumes.
type DriveMode uint8

const (
	ModeTorque DriveMode = iota
	ModeVelocity
	ModePosition
)

// AxisCommand is one axis's slice of the CU→HAL command payload.
type AxisCommand struct {
	Output ControlOutputVector
	Enable uint8
	Mode   DriveMode
	_      [6]byte // pad element to a multiple of 8 bytes (40 total)
}

// HalCommand is the CU→HAL hot-path segment payload (spec.md §4.3).
type HalCommand struct {
	Axes       [MaxAxes]AxisCommand
	DigitalOut DigitalBank
	AnalogOut  [MaxAO]float64
	AxisCount  uint32
	_          [4]byte
}

func init() {
	if unsafe.Sizeof(HalCommand{}) > 8192 {
		panic("segments: HalCommand exceeds the 8 KiB page bound")
	}
}
