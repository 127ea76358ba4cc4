// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package p2p

import (
	"encoding/binary"
	"unsafe"
)

const (
	fnvOffset32 uint32 = 2166136261
	fnvPrime32  uint32 = 16777619
)

// LayoutHash returns an FNV-1a hash of T's size, alignment, and the
// caller-supplied layout version.
//
// This detects additions, removals, and type changes that affect size or
// alignment. It does not detect field reordering within an identical size
// — a recognized limitation (spec.md §4.2, §9 open questions) mitigated by
// folding a manually bumped layoutVersion into the same hash input: a
// deliberate field reorder is expected to come with a version bump.
func LayoutHash[T any](layoutVersion uint32) uint32 {
	var zero T
	size := uint32(unsafe.Sizeof(zero))
	align := uint32(unsafe.Alignof(zero))

	var buf [12]byte
	binary.LittleEndian.PutUint32(buf[0:4], size)
	binary.LittleEndian.PutUint32(buf[4:8], align)
	binary.LittleEndian.PutUint32(buf[8:12], layoutVersion)
	return fnv1a32(buf[:])
}

func fnv1a32(data []byte) uint32 {
	h := fnvOffset32
	for _, b := range data {
		h ^= uint32(b)
		h *= fnvPrime32
	}
	return h
}
