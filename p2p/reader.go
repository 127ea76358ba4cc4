// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package p2p

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"unsafe"

	"code.hybscloud.com/spin"
	"golang.org/x/sys/unix"
)

// DefaultStaleThreshold is the default number of consecutive unchanged
// heartbeat reads before a segment is declared stale.
const DefaultStaleThreshold = 3

// maxReadRetries bounds Read's seqlock retry loop (spec.md §4.2).
const maxReadRetries = 3

// Reader attaches read-only to a segment previously created by a Writer of
// the same type, destination, and layout version.
type Reader[T any] struct {
	file    *os.File
	data    []byte
	header  *Header
	payload *T
	name    string

	prevHeartbeat uint64
	staleRun      int
	staleAfter    int
}

// Attach opens the named segment for reading. myDestID must match the
// header's destination id. The reader becomes the segment's sole reader:
// a second Attach while this one is alive returns ErrReaderAlreadyConnected.
func Attach[T any](name string, myDestID uint8) (*Reader[T], error) {
	path := filepath.Join(shmDir, name)

	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSegmentNotFound
		}
		if os.IsPermission(err) {
			return nil, ErrPermissionDenied
		}
		return nil, err
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_SH|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, ErrReaderAlreadyConnected
	}

	size := HeaderSize + int(unsafe.Sizeof(*new(T)))
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}

	header := (*Header)(unsafe.Pointer(&data[0]))

	if header.Magic != Magic {
		unix.Munmap(data)
		f.Close()
		return nil, ErrInvalidMagic
	}
	if header.DestID != myDestID {
		unix.Munmap(data)
		f.Close()
		return nil, ErrDestinationMismatch
	}
	wantHash := LayoutHash[T](LayoutVersion)
	if header.LayoutHash != wantHash {
		unix.Munmap(data)
		f.Close()
		return nil, &VersionMismatch{Expected: wantHash, Found: header.LayoutHash}
	}

	r := &Reader[T]{
		file:       f,
		data:       data,
		header:     header,
		payload:    (*T)(unsafe.Pointer(&data[HeaderSize])),
		name:       name,
		staleAfter: DefaultStaleThreshold,
	}
	r.prevHeartbeat = r.Heartbeat()
	return r, nil
}

// SetStaleThreshold overrides DefaultStaleThreshold for this reader.
func (r *Reader[T]) SetStaleThreshold(n int) { r.staleAfter = n }

// Read returns a by-value copy of the segment's current payload.
//
// It retries up to three times on a torn write (odd sequence, or sequence
// that changed between the two loads bracketing the payload copy). After
// three failed attempts it returns ReadContention.
func (r *Reader[T]) Read() (T, error) {
	var zero T
	sw := spin.Wait{}
	for attempt := 0; attempt < maxReadRetries; attempt++ {
		seq1 := atomic.LoadUint32(&r.header.WriteSeq)
		if seq1&1 == 1 {
			sw.Once()
			continue
		}

		value := *r.payload

		seq2 := atomic.LoadUint32(&r.header.WriteSeq)
		if seq1 == seq2 {
			return value, nil
		}
		sw.Once()
	}
	return zero, &ReadContention{Retries: maxReadRetries}
}

// Heartbeat returns the segment's current heartbeat value.
func (r *Reader[T]) Heartbeat() uint64 {
	return atomic.LoadUint64(&r.header.Heartbeat)
}

// PollStale advances the reader's staleness counter: it counts how many
// consecutive calls have read the same heartbeat value. A call that reads
// a value different from the previous call's (or, for the first call, from
// the value observed on Attach) starts a new run of one. It reports
// HeartbeatStale once the run reaches the configured threshold.
func (r *Reader[T]) PollStale() error {
	hb := r.Heartbeat()
	if hb == r.prevHeartbeat {
		r.staleRun++
	} else {
		r.prevHeartbeat = hb
		r.staleRun = 1
	}
	if r.staleRun >= r.staleAfter {
		return &HeartbeatStale{Cycles: r.staleRun}
	}
	return nil
}

// Name returns the segment's file name (without its directory).
func (r *Reader[T]) Name() string { return r.name }

// Close releases the mapping and the shared lock (implicit on fd close).
func (r *Reader[T]) Close() error {
	if err := unix.Munmap(r.data); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}
