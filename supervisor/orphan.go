// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package supervisor

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

const shmDir = "/dev/shm"
const segmentPrefix = "evo_"

// CleanOrphanSegments scans /dev/shm for evo_* segments left behind by a
// prior, uncleanly terminated run: a file whose exclusive lock nobody
// holds has no live writer, so it is safe to unlink before any module
// starts (spec.md §5 step 1). Segments still held by a live writer are
// left alone; p2p.Create will either attach to or itself reclaim them.
//
// This uses the identical probe technique p2p.Create's own orphan
// reclaim path uses (a non-blocking LOCK_EX probe), performed here for
// startup-time visibility and logging rather than relying solely on each
// module discovering the orphan itself.
func (s *Supervisor) CleanOrphanSegments() error {
	entries, err := os.ReadDir(shmDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || len(name) < len(segmentPrefix) || name[:len(segmentPrefix)] != segmentPrefix {
			continue
		}

		path := filepath.Join(shmDir, name)
		orphaned, err := probeOrphan(path)
		if err != nil {
			s.log.Warning().Str("segment", name).Err(err).Log("orphan probe failed")
			continue
		}
		if !orphaned {
			continue
		}

		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.log.Warning().Str("segment", name).Err(err).Log("failed to unlink orphan segment")
			continue
		}
		s.log.Info().Str("segment", name).Log("unlinked orphan segment")
	}
	return nil
}

// probeOrphan reports whether no process currently holds path's exclusive
// lock, i.e. it was left behind by a writer that exited without closing
// its mapping.
func probeOrphan(path string) (bool, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o600)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		return false, nil // a live writer holds the lock
	}
	unix.Flock(int(f.Fd()), unix.LOCK_UN)
	return true, nil
}
