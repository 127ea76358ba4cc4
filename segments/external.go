// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package segments

import "unsafe"

// ExternalCommandKind enumerates the command verbs an external
// collaborator (MQTT or gRPC bridge) may issue to the control unit.
type ExternalCommandKind uint8

const (
	ExternalCommandNone ExternalCommandKind = iota
	ExternalCommandStart
	ExternalCommandStop
	ExternalCommandReset
	ExternalCommandModeChange
	ExternalCommandSetTarget
)

// ExternalCommand is the MQTT/gRPC-bridge→CU command payload. Unlike
// RecipeCommand's bounded program, this carries at most one command per
// cycle. The executive applies each new SequenceID once and the most
// recent command wins; no per-source lock is checked.
type ExternalCommand struct {
	SequenceID uint64
	Kind       ExternalCommandKind
	TargetAxis uint8
	_          [6]byte
	Value      float64
}

// ExternalAck is the CU→bridge acknowledgement payload.
type ExternalAck struct {
	SequenceID uint64
	Accepted   uint8
	_          [1]byte // pad to align Reason to 2 bytes
	Reason     uint16
	_          [4]byte // pad struct to a multiple of 8 bytes
}

func init() {
	if unsafe.Sizeof(ExternalCommand{}) > 8192 {
		panic("segments: ExternalCommand exceeds the 8 KiB page bound")
	}
}
