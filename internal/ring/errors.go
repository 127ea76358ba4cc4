// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package ring

import "code.hybscloud.com/iox"

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For Enqueue: the queue is full (reaper is enqueueing faster than the
// supervisor drains, which should never happen in steady state).
// For Dequeue: the queue is empty (no exit event pending).
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency with
// the rest of the pack.
var ErrWouldBlock = iox.ErrWouldBlock

// IsWouldBlock reports whether err indicates the operation would block.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}
