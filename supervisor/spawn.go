// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package supervisor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/evo-automation/evo-core/p2p"
	"github.com/evo-automation/evo-core/segments"
)

// StartAll spawns every module in order, waiting for each one's heartbeat
// to advance before spawning the next (spec.md §5 step 2: "spawn HAL, then
// poll for heartbeat, then spawn CU", generalized to every module in the
// configured order).
func (s *Supervisor) StartAll() error {
	for _, mp := range s.procs {
		if err := s.startOne(mp); err != nil {
			return fmt.Errorf("supervisor: start %s: %w", mp.spec.Name, err)
		}
		if mp.spec.HeartbeatSegment != "" {
			if err := waitForHeartbeat(mp.spec.HeartbeatSegment, startupTimeout); err != nil {
				return fmt.Errorf("supervisor: %s did not become live: %w", mp.spec.Name, err)
			}
		}
		s.log.Info().Str("module", mp.spec.Name).Log("module started")
	}
	return nil
}

func (s *Supervisor) startOne(mp *moduleProc) error {
	cmd := exec.Command(mp.spec.Path, mp.spec.Args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return err
	}
	mp.cmd = cmd
	mp.lastStart = time.Now()
	return nil
}

// waitForHeartbeat attaches to a segment as an observer and polls its
// heartbeat counter until it advances once or timeout elapses. The probe
// itself never becomes the segment's permanent reader: each probe attaches
// with the segment's consumer id and closes again after one read (see
// readHeartbeat).
func waitForHeartbeat(name string, timeout time.Duration) error {
	path := filepath.Join(shmDir, name)
	deadline := time.Now().Add(timeout)

	var first uint64
	haveFirst := false
	for time.Now().Before(deadline) {
		hb, err := readHeartbeat(path)
		if err != nil {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if !haveFirst {
			first, haveFirst = hb, true
		} else if hb != first {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("heartbeat on %s did not advance within %s", name, timeout)
}

// readHeartbeat reads a segment's heartbeat counter without validating its
// payload layout, since the supervisor has no static type for every
// module's segment. p2p.Attach requires a concrete payload type and a
// destination id matching the segment's declared consumer, so this looks
// both up from the catalog entry and attaches via a type switch over the
// handful of payload types the catalog lists. A shared-lock probe attach
// coexists with the segment's real consumer, which also holds a
// LOCK_SH — flock shared locks never conflict with one another, only
// with the writer's LOCK_EX.
func readHeartbeat(path string) (uint64, error) {
	name := filepath.Base(path)
	for _, e := range segments.Catalog {
		if e.Name != name {
			continue
		}
		return attachAndHeartbeat(name, uint8(e.Consumer), e.Payload)
	}
	return 0, fmt.Errorf("unknown segment %s", name)
}

func attachAndHeartbeat(name string, destID uint8, payload any) (hb uint64, err error) {
	switch payload.(type) {
	case segments.HalFeedback:
		r, err := p2p.Attach[segments.HalFeedback](name, destID)
		if err != nil {
			return 0, err
		}
		defer r.Close()
		return r.Heartbeat(), nil
	case segments.HalCommand:
		r, err := p2p.Attach[segments.HalCommand](name, destID)
		if err != nil {
			return 0, err
		}
		defer r.Close()
		return r.Heartbeat(), nil
	case segments.DiagnosticSnapshot:
		r, err := p2p.Attach[segments.DiagnosticSnapshot](name, destID)
		if err != nil {
			return 0, err
		}
		defer r.Close()
		return r.Heartbeat(), nil
	case segments.RecipeCommand:
		r, err := p2p.Attach[segments.RecipeCommand](name, destID)
		if err != nil {
			return 0, err
		}
		defer r.Close()
		return r.Heartbeat(), nil
	case segments.RecipeAck:
		r, err := p2p.Attach[segments.RecipeAck](name, destID)
		if err != nil {
			return 0, err
		}
		defer r.Close()
		return r.Heartbeat(), nil
	case segments.ExternalCommand:
		r, err := p2p.Attach[segments.ExternalCommand](name, destID)
		if err != nil {
			return 0, err
		}
		defer r.Close()
		return r.Heartbeat(), nil
	default:
		return 0, fmt.Errorf("no reader type registered for segment payload %T", payload)
	}
}
