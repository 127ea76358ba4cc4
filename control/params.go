// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

// Package control implements the per-axis control pipeline: PID with
// back-calculation anti-windup and a filtered derivative, feedforward,
// a disturbance observer, a notch and low-pass filter pair, and output
// saturation (spec.md §4.5). Every sub-component is guarded so that
// setting its gain to zero is exactly equivalent to disabling it.
package control

// LagPolicy selects how a lag-limit violation is handled.
type LagPolicy uint8

const (
	LagDesired  LagPolicy = iota // suppress; no flag
	LagNeutral                   // flag only
	LagUnwanted                  // flag + axis MotionError (default)
	LagCritical                  // flag + global SafetyStop
)

// SafeStopCategory selects the safe-stop behavior for an axis.
type SafeStopCategory uint8

const (
	SafeStopSTO SafeStopCategory = iota // immediate drive disable + brake
	SafeStopSS1                         // controlled decel then STO
	SafeStopSS2                         // controlled decel then held position
)

// Params holds one axis's load-time control configuration.
type Params struct {
	// PID
	Kp, Ki, Kd float64
	Tf         float64 // derivative filter time constant
	Tt         float64 // back-calculation tracking time constant; <=0 disables anti-windup

	// Feedforward
	Kvff, Kaff, Friction float64

	// Disturbance observer
	Jn, Bn, GDOB float64

	// Filters
	FNotch, BWNotch float64
	FLP             float64

	OutMax float64

	LagErrorLimit float64
	LagPolicy     LagPolicy

	SafeStopCategory SafeStopCategory
	SafeStopDecel    float64

	HomingMethod    int
	HomingDirection int
}
