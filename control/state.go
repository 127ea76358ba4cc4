// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package control

// State is one axis's control state, carried between cycles. It is
// zeroed on disable, mode change, and after a safety stop (spec.md §3).
type State struct {
	Integral  float64
	DPrev     float64
	ErrorPrev float64

	VPrev    float64
	UPrevSat float64
	DHat     float64

	Notch    BiquadState
	Lowpass  BiquadState

	LagFlagged bool
}

// Reset zeroes all stateful accumulation. Calling it twice is a no-op
// after the first call (disable idempotence).
func (s *State) Reset() {
	*s = State{}
}

// Coeffs is an axis's pre-computed, load-time filter coefficients.
// Computed once from Params via Precompute rather than every cycle.
type Coeffs struct {
	Notch   BiquadCoeffs
	Lowpass BiquadCoeffs
}

// Precompute derives Coeffs from p at the given sample rate (Hz).
func Precompute(p *Params, sampleRateHz float64) Coeffs {
	return Coeffs{
		Notch:   NotchCoeffs(p.FNotch, p.BWNotch, sampleRateHz),
		Lowpass: LowpassCoeffs(p.FLP, sampleRateHz),
	}
}
