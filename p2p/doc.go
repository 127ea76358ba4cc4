// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

// Package p2p implements the point-to-point shared-memory transport: a
// typed, single-writer/single-reader, lock-free seqlock over a POSIX
// shared-memory segment.
//
// # Quick start
//
//	w, err := p2p.Create[HalFeedback]("evo_hal_cu", SourceHAL, DestCU)
//	...
//	w.Commit(&feedback)   // hot path: no locks, no heap, no syscalls
//	...
//	r, err := p2p.Attach[HalFeedback]("evo_hal_cu", DestCU)
//	...
//	v, err := r.Read()    // hot path: bounded retry on torn writes
//
// # Synchronization
//
// Exactly one word — the header's write sequence — is the synchronization
// surface. The writer flips it to odd before mutating the payload and back
// to even after; a reader retries (bounded, 3 attempts) whenever it
// observes an odd sequence, or a sequence that changed between its two
// loads. No fence is required on the payload stores themselves: the
// acquire/release pair on the sequence word orders them.
//
// This is the same seqlock idiom the teacher package applies to individual
// ring-buffer slots (see internal/ring and the lock-free queue family this
// module's p2p package is descended from), generalized from "one sequence
// word per slot" to "one sequence word per whole segment".
package p2p
