// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package segments_test

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/evo-automation/evo-core/segments"
)

func TestDigitalBankRoundTrip(t *testing.T) {
	var bank segments.DigitalBank
	for pin := 0; pin < segments.MaxDI; pin++ {
		want := pin%3 == 0
		bank.Set(pin, want)
		if got := bank.Get(pin); got != want {
			t.Fatalf("pin %d: Get() = %v, want %v", pin, got, want)
		}
	}
	for pin := 0; pin < segments.MaxDI; pin++ {
		want := pin%3 == 0
		if got := bank.Get(pin); got != want {
			t.Fatalf("pin %d after full fill: Get() = %v, want %v", pin, got, want)
		}
	}
}

func TestDigitalBankSetIsolated(t *testing.T) {
	var bank segments.DigitalBank
	bank.Set(5, true)
	for pin := 0; pin < segments.MaxDI; pin++ {
		want := pin == 5
		if got := bank.Get(pin); got != want {
			t.Fatalf("pin %d: Get() = %v, want %v", pin, got, want)
		}
	}
}

func TestHalStatusRoundTrip(t *testing.T) {
	want := segments.HalStatus{
		Axes: []segments.AxisFeedback{
			{Position: 123.456, Velocity: 1.5, TorqueEstimate: 0.25, StatusFlags: segments.StatusReady | segments.StatusEnabled, FaultCode: 0},
			{Position: -9.0, Velocity: 0, TorqueEstimate: 0, StatusFlags: segments.StatusFault, FaultCode: 42},
		},
	}
	want.DigitalIn[0] = true
	want.DigitalIn[1023] = true
	want.AnalogIn[0] = 3.14

	seg := want.ToSegment()
	got := segments.FromSegment(&seg)

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FromSegment(ToSegment(s)) = %+v, want %+v", got, want)
	}
}

func TestHalStatusTruncatesBeyondMaxAxes(t *testing.T) {
	s := segments.HalStatus{Axes: make([]segments.AxisFeedback, segments.MaxAxes+10)}
	seg := s.ToSegment()
	if seg.AxisCount != segments.MaxAxes {
		t.Fatalf("AxisCount = %d, want %d", seg.AxisCount, segments.MaxAxes)
	}
}

func TestSegmentSizesPageBounded(t *testing.T) {
	for _, e := range segments.Catalog {
		sz := reflect.TypeOf(e.Payload).Size()
		if sz > 8192 {
			t.Fatalf("%s: payload size %d exceeds 8 KiB bound", e.Name, sz)
		}
	}
}

func TestCatalogNamesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range segments.Catalog {
		if seen[e.Name] {
			t.Fatalf("duplicate segment name %s", e.Name)
		}
		seen[e.Name] = true
	}
	if len(segments.Catalog) != 15 {
		t.Fatalf("len(Catalog) = %d, want 15", len(segments.Catalog))
	}
}

func TestAxisFeedbackElementIs8ByteMultiple(t *testing.T) {
	if unsafe.Sizeof(segments.AxisFeedback{})%8 != 0 {
		t.Fatalf("AxisFeedback size %d is not a multiple of 8", unsafe.Sizeof(segments.AxisFeedback{}))
	}
}

func TestAxisCommandElementIs8ByteMultiple(t *testing.T) {
	if unsafe.Sizeof(segments.AxisCommand{})%8 != 0 {
		t.Fatalf("AxisCommand size %d is not a multiple of 8", unsafe.Sizeof(segments.AxisCommand{}))
	}
}
