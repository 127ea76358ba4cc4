// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package p2p

import (
	"errors"
	"fmt"
)

// Sentinel errors with no payload. Callers compare with errors.Is.
var (
	ErrInvalidMagic         = errors.New("p2p: invalid segment magic")
	ErrDestinationMismatch  = errors.New("p2p: destination id mismatch")
	ErrWriterAlreadyExists  = errors.New("p2p: writer already exists for segment")
	ErrReaderAlreadyConnected = errors.New("p2p: reader already connected to segment")
	ErrSegmentNotFound      = errors.New("p2p: segment not found")
	ErrPermissionDenied     = errors.New("p2p: permission denied")
)

// VersionMismatch reports a layout hash mismatch between a segment's
// header and the reader's compile-time payload type.
type VersionMismatch struct {
	Expected uint32
	Found    uint32
}

func (e *VersionMismatch) Error() string {
	return fmt.Sprintf("p2p: version mismatch: expected layout hash %#x, found %#x", e.Expected, e.Found)
}

// ReadContention reports that Read exhausted its bounded retry budget
// without observing a stable, even write sequence.
type ReadContention struct {
	Retries int
}

func (e *ReadContention) Error() string {
	return fmt.Sprintf("p2p: read contention after %d retries", e.Retries)
}

// HeartbeatStale reports that a segment's heartbeat has not advanced for
// the configured number of consecutive reads.
type HeartbeatStale struct {
	Cycles int
}

func (e *HeartbeatStale) Error() string {
	return fmt.Sprintf("p2p: heartbeat stale for %d cycles", e.Cycles)
}
