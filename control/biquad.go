// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package control

import "math"

// BiquadCoeffs is a direct-form-II-transposed biquad's normalized
// coefficients (a0 already divided out).
type BiquadCoeffs struct {
	B0, B1, B2 float64
	A1, A2     float64
	Bypass     bool
}

// BiquadState carries the two delay registers of a direct-form-II
// transposed biquad between cycles.
type BiquadState struct {
	Z1, Z2 float64
}

// NotchCoeffs computes a bilinear-transform, pre-warped notch filter
// biquad centered at fHz with bandwidth bwHz, sampled at fs Hz. A
// non-positive fHz bypasses the filter (spec.md §4.5).
func NotchCoeffs(fHz, bwHz, fs float64) BiquadCoeffs {
	if fHz <= 0 || fs <= 0 {
		return BiquadCoeffs{Bypass: true}
	}
	w0 := 2 * math.Pi * fHz / fs // digital angular frequency; the bilinear pre-warp is folded into this cookbook form
	alpha := math.Sin(w0) * math.Sinh(math.Ln2/2*(bwHz/fHz)*(w0/math.Sin(w0)))
	cosw0 := math.Cos(w0)
	a0 := 1 + alpha

	return BiquadCoeffs{
		B0: 1 / a0,
		B1: -2 * cosw0 / a0,
		B2: 1 / a0,
		A1: -2 * cosw0 / a0,
		A2: (1 - alpha) / a0,
	}
}

// LowpassCoeffs computes a first-order low-pass expressed as a one-pole
// biquad (B2=0, A2=0) via bilinear transform with pre-warping. A
// non-positive cutoff bypasses the filter.
func LowpassCoeffs(fHz, fs float64) BiquadCoeffs {
	if fHz <= 0 || fs <= 0 {
		return BiquadCoeffs{Bypass: true}
	}
	k := math.Tan(math.Pi * fHz / fs) // pre-warped cutoff
	a0 := 1 + k
	return BiquadCoeffs{
		B0: k / a0,
		B1: k / a0,
		B2: 0,
		A1: (k - 1) / a0,
		A2: 0,
	}
}

// Apply runs one direct-form-II-transposed sample through the filter.
func (c BiquadCoeffs) Apply(s *BiquadState, x float64) float64 {
	if c.Bypass {
		return x
	}
	y := c.B0*x + s.Z1
	s.Z1 = c.B1*x - c.A1*y + s.Z2
	s.Z2 = c.B2*x - c.A2*y
	return y
}
