// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package segments

// HalStatus is the decoded, engineering-units view of a HalFeedback
// payload: one AxisFeedback per live axis, digital inputs as individual
// booleans, and analog inputs as a plain array. It exists so callers never
// hand-index DigitalBank words or pad fields directly.
type HalStatus struct {
	Axes      []AxisFeedback
	DigitalIn [MaxDI]bool
	AnalogIn  [MaxAI]float64
}

// ToSegment packs s into the wire layout. Digital packing is bit-exact;
// axes beyond len(s.Axes) are left zeroed and excluded by AxisCount.
func (s *HalStatus) ToSegment() HalFeedback {
	var seg HalFeedback
	for i, a := range s.Axes {
		if i >= MaxAxes {
			break
		}
		seg.Axes[i] = a
	}
	n := len(s.Axes)
	if n > MaxAxes {
		n = MaxAxes
	}
	seg.AxisCount = uint32(n)
	for pin, v := range s.DigitalIn {
		seg.DigitalIn.Set(pin, v)
	}
	seg.AnalogIn = s.AnalogIn
	return seg
}

// FromSegment unpacks seg into engineering-units form. It is the inverse of
// ToSegment modulo axes truncated by MaxAxes.
func FromSegment(seg *HalFeedback) HalStatus {
	s := HalStatus{Axes: make([]AxisFeedback, seg.AxisCount)}
	copy(s.Axes, seg.Axes[:seg.AxisCount])
	for pin := 0; pin < MaxDI; pin++ {
		s.DigitalIn[pin] = seg.DigitalIn.Get(pin)
	}
	s.AnalogIn = seg.AnalogIn
	return s
}

