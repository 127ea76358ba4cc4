// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package p2p_test

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/evo-automation/evo-core/p2p"
)

type testPayload struct {
	Position float64
	Velocity float64
	Axis     uint8
}

type testPayloadV2 struct {
	Position float64
	Velocity float64
	Torque   float64
	Axis     uint8
}

func uniqueName(t *testing.T) string {
	t.Helper()
	name := fmt.Sprintf("evo_test_%d_%s", os.Getpid(), t.Name())[:min(64, len(fmt.Sprintf("evo_test_%d_%s", os.Getpid(), t.Name())))]
	t.Cleanup(func() { os.Remove("/dev/shm/" + name) })
	return name
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func TestRoundTrip(t *testing.T) {
	name := uniqueName(t)

	w, err := p2p.Create[testPayload](name, 1, 2)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer w.Close()

	r, err := p2p.Attach[testPayload](name, 2)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	defer r.Close()

	want := testPayload{Position: 123.456, Velocity: 0, Axis: 0}
	w.Commit(&want)

	got, err := r.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != want {
		t.Fatalf("Read() = %+v, want %+v", got, want)
	}
}

func TestWriterAlreadyExists(t *testing.T) {
	name := uniqueName(t)

	w1, err := p2p.Create[testPayload](name, 1, 2)
	if err != nil {
		t.Fatalf("Create #1: %v", err)
	}
	defer w1.Close()

	_, err = p2p.Create[testPayload](name, 1, 2)
	if !errors.Is(err, p2p.ErrWriterAlreadyExists) {
		t.Fatalf("Create #2: got %v, want ErrWriterAlreadyExists", err)
	}
}

func TestReaderAlreadyConnected(t *testing.T) {
	name := uniqueName(t)

	w, err := p2p.Create[testPayload](name, 1, 2)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer w.Close()

	r1, err := p2p.Attach[testPayload](name, 2)
	if err != nil {
		t.Fatalf("Attach #1: %v", err)
	}
	defer r1.Close()

	_, err = p2p.Attach[testPayload](name, 2)
	if !errors.Is(err, p2p.ErrReaderAlreadyConnected) {
		t.Fatalf("Attach #2: got %v, want ErrReaderAlreadyConnected", err)
	}
}

func TestDestinationMismatch(t *testing.T) {
	name := uniqueName(t)

	w, err := p2p.Create[testPayload](name, 1, 2)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer w.Close()

	_, err = p2p.Attach[testPayload](name, 9)
	if !errors.Is(err, p2p.ErrDestinationMismatch) {
		t.Fatalf("Attach: got %v, want ErrDestinationMismatch", err)
	}
}

func TestVersionMismatch(t *testing.T) {
	name := uniqueName(t)

	w, err := p2p.Create[testPayload](name, 1, 2)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer w.Close()

	_, err = p2p.Attach[testPayloadV2](name, 2)
	var vm *p2p.VersionMismatch
	if !errors.As(err, &vm) {
		t.Fatalf("Attach: got %v, want *VersionMismatch", err)
	}
}

func TestHeartbeatStale(t *testing.T) {
	name := uniqueName(t)

	w, err := p2p.Create[testPayload](name, 1, 2)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer w.Close()

	r, err := p2p.Attach[testPayload](name, 2)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	defer r.Close()
	r.SetStaleThreshold(3)

	v := testPayload{}
	w.Commit(&v) // establish a nonzero heartbeat baseline is not required

	var lastErr error
	for i := 0; i < 3; i++ {
		lastErr = r.PollStale()
	}
	var stale *p2p.HeartbeatStale
	if !errors.As(lastErr, &stale) {
		t.Fatalf("PollStale: got %v, want *HeartbeatStale", lastErr)
	}
	if stale.Cycles != 3 {
		t.Fatalf("HeartbeatStale.Cycles = %d, want 3", stale.Cycles)
	}
}

func TestHeartbeatMonotonic(t *testing.T) {
	name := uniqueName(t)

	w, err := p2p.Create[testPayload](name, 1, 2)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer w.Close()

	var prev uint64
	v := testPayload{}
	for i := 0; i < 100; i++ {
		w.Commit(&v)
		hb := w.Heartbeat()
		if hb <= prev {
			t.Fatalf("heartbeat not strictly increasing: prev=%d got=%d", prev, hb)
		}
		prev = hb
	}
}
