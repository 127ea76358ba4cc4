// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package p2p

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

const shmDir = "/dev/shm"

// LayoutVersion is the manually bumped safety net described in
// spec.md §4.2/§9: bump it whenever a payload type's fields are reordered
// without changing its size, since LayoutHash alone cannot detect that.
// Create and Attach fold this one constant into every payload type's hash;
// there is no per-type version.
const LayoutVersion = 1

// Writer owns exactly one shared-memory segment and publishes values of
// type T with bounded, deterministic latency. Commit is the only hot-path
// method: it performs no allocation and no system call.
type Writer[T any] struct {
	file    *os.File
	data    []byte
	header  *Header
	payload *T
	name    string
}

// Create opens or creates the named segment, becoming its sole writer.
//
// If a segment by this name already exists with no live writer holding its
// exclusive lock, it is treated as an orphan: unlinked and recreated. If a
// live writer holds the lock, Create returns ErrWriterAlreadyExists.
func Create[T any](name string, sourceID, destID uint8) (w *Writer[T], err error) {
	path := filepath.Join(shmDir, name)
	size := HeaderSize + int(unsafe.Sizeof(*new(T)))

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if !os.IsExist(err) {
			return nil, err
		}
		f, err = reclaimOrphan(path)
		if err != nil {
			return nil, err
		}
	} else if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, ErrWriterAlreadyExists
	}

	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, err
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}

	header := (*Header)(unsafe.Pointer(&data[0]))
	*header = Header{}
	header.Magic = Magic
	header.LayoutHash = LayoutHash[T](LayoutVersion)
	header.SourceID = sourceID
	header.DestID = destID
	header.PayloadSize = uint32(size - HeaderSize)

	return &Writer[T]{
		file:    f,
		data:    data,
		header:  header,
		payload: (*T)(unsafe.Pointer(&data[HeaderSize])),
		name:    name,
	}, nil
}

// reclaimOrphan opens an existing segment file and, if no live writer
// holds its exclusive lock, unlinks and recreates it.
func reclaimOrphan(path string) (*os.File, error) {
	probe, err := os.OpenFile(path, os.O_RDWR, 0o600)
	if err != nil {
		return nil, err
	}
	defer probe.Close()

	if err := unix.Flock(int(probe.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		return nil, ErrWriterAlreadyExists
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, ErrWriterAlreadyExists
	}
	return f, nil
}

// Commit publishes value as the segment's current payload.
//
// Hot path: no locks, no heap allocation, no system call, no branch that
// can spill to a slow path.
func (w *Writer[T]) Commit(value *T) {
	seq := atomic.LoadUint32(&w.header.WriteSeq)
	atomic.StoreUint32(&w.header.WriteSeq, seq+1) // odd: write in progress

	*w.payload = *value

	atomic.AddUint64(&w.header.Heartbeat, 1)
	atomic.StoreUint32(&w.header.WriteSeq, seq+2) // even: write complete
}

// Heartbeat returns the current heartbeat value.
func (w *Writer[T]) Heartbeat() uint64 {
	return atomic.LoadUint64(&w.header.Heartbeat)
}

// Name returns the segment's file name (without its directory).
func (w *Writer[T]) Name() string { return w.name }

// Close unlinks the segment and releases the mapping. The OS retains the
// underlying file for any reader still holding a mapping of it.
func (w *Writer[T]) Close() error {
	path := filepath.Join(shmDir, w.name)
	_ = os.Remove(path)
	if err := unix.Munmap(w.data); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
