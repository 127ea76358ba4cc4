// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

// Package segments defines the fixed catalog of named shared-memory payload
// types exchanged between runtime modules, and the pin/bit helpers their
// conversions share.
package segments

import "fmt"

// ModuleID identifies one of the five collaborating processes by the
// abbreviation used in a segment's `evo_<src>_<dst>` name.
type ModuleID uint8

const (
	Hal ModuleID = iota // hardware abstraction layer (I/O driver process)
	Cu                  // control unit (cycle executive)
	Re                  // recipe/scripting engine
	Mqt                 // MQTT bridge
	Rpc                 // gRPC bridge
)

func (m ModuleID) String() string {
	switch m {
	case Hal:
		return "hal"
	case Cu:
		return "cu"
	case Re:
		return "re"
	case Mqt:
		return "mqt"
	case Rpc:
		return "rpc"
	default:
		return fmt.Sprintf("module(%d)", uint8(m))
	}
}

// SegmentName returns the `evo_<src>_<dst>` name for a segment produced by
// src and consumed by dst.
func SegmentName(src, dst ModuleID) string {
	return "evo_" + src.String() + "_" + dst.String()
}
