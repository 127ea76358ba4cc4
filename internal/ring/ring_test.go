// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package ring_test

import (
	"errors"
	"testing"

	"github.com/evo-automation/evo-core/internal/ring"
)

func TestSPSCBasic(t *testing.T) {
	q := ring.NewSPSC[int](3)

	if q.Cap() != 4 {
		t.Fatalf("Cap: got %d, want 4", q.Cap())
	}

	for i := range 4 {
		v := i + 100
		if err := q.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}

	v := 999
	if err := q.Enqueue(&v); !errors.Is(err, ring.ErrWouldBlock) {
		t.Fatalf("Enqueue on full: got %v, want ErrWouldBlock", err)
	}

	for i := range 4 {
		val, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue(%d): %v", i, err)
		}
		if val != i+100 {
			t.Fatalf("Dequeue(%d): got %d, want %d", i, val, i+100)
		}
	}

	if _, err := q.Dequeue(); !errors.Is(err, ring.ErrWouldBlock) {
		t.Fatalf("Dequeue on empty: got %v, want ErrWouldBlock", err)
	}
}

func TestSPSCCapacityRoundsUp(t *testing.T) {
	cases := map[int]int{2: 2, 3: 4, 4: 4, 5: 8, 1000: 1024}
	for in, want := range cases {
		q := ring.NewSPSC[int](in)
		if got := q.Cap(); got != want {
			t.Errorf("NewSPSC(%d).Cap() = %d, want %d", in, got, want)
		}
	}
}

func TestSPSCConcurrent(t *testing.T) {
	if ring.RaceEnabled {
		t.Skip("race detector cannot verify atomix's acquire/release orderings")
	}

	const n = 100_000
	q := ring.NewSPSC[int](1024)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < n; i++ {
			v := i
			for q.Enqueue(&v) != nil {
			}
		}
	}()

	for i := 0; i < n; i++ {
		var v int
		var err error
		for {
			v, err = q.Dequeue()
			if err == nil {
				break
			}
		}
		if v != i {
			t.Fatalf("out of order: got %d, want %d", v, i)
		}
	}
	<-done
}
