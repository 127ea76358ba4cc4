// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package p2p

import "unsafe"

// Magic identifies a live evo-core segment header.
var Magic = [8]byte{'E', 'V', 'O', '_', 'P', '2', 'P', 0}

// HeaderSize is the fixed, cache-line-aligned header size in bytes.
const HeaderSize = 64

// Header is the synchronization surface shared by a segment's writer and
// reader. The payload immediately follows it in the mapped region.
//
// Field order and semantics match spec.md §6 exactly, with one deliberate
// layout adaptation: the spec's byte-for-byte wire offsets (heartbeat at
// byte 12, write sequence at byte 26) come from a tightly packed #[repr(C,
// packed)] source and are not 8-/4-byte aligned. Go's atomic primitives
// are only guaranteed atomic — and on several non-amd64 architectures only
// *execute* without faulting — on naturally aligned addresses. This Header
// instead reserves four bytes after the layout hash so Heartbeat lands on
// an 8-byte boundary (offset 16) and WriteSeq on a 4-byte boundary (offset
// 24); PayloadSize is likewise pushed two bytes to stay 4-byte aligned.
// Total size, field order, and every invariant in spec.md §3/§8 are
// unchanged — only the reserved-byte padding shifts. See DESIGN.md.
type Header struct {
	Magic       [8]byte
	LayoutHash  uint32
	_           [4]byte // reserved, aligns Heartbeat to 8 bytes
	Heartbeat   uint64  // atomic: monotonic, advanced on every Commit
	WriteSeq    uint32  // atomic: even=committed, odd=writing
	SourceID    uint8
	DestID      uint8
	_           [2]byte // reserved, aligns PayloadSize to 4 bytes
	PayloadSize uint32
	_           [28]byte // reserved, zeroed
}

func init() {
	if unsafe.Sizeof(Header{}) != HeaderSize {
		panic("p2p: Header size drifted from 64 bytes")
	}
}
