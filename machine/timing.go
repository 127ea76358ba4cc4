// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package machine

import "time"

// jitterBuckets is the number of 10us-wide histogram buckets tracked by
// TimingStats; the last bucket is an overflow catch-all.
const jitterBuckets = 16

const jitterBucketWidth = 10 * time.Microsecond

// TimingStats accumulates per-cycle compute-time statistics: min, max,
// running sum, count, an overrun counter, and a jitter histogram bucketed
// in 10us increments (spec.md §4.4 step 6).
type TimingStats struct {
	Min      time.Duration
	Max      time.Duration
	Sum      time.Duration
	Count    uint64
	Overruns uint64

	Jitter [jitterBuckets]uint64
}

// Record folds one cycle's measured compute time into the statistics.
// overran is true when the cycle exceeded its configured period plus
// margin (spec.md §4.4's deadline enforcement).
func (t *TimingStats) Record(compute time.Duration, overran bool) {
	if t.Count == 0 || compute < t.Min {
		t.Min = compute
	}
	if compute > t.Max {
		t.Max = compute
	}
	t.Sum += compute
	t.Count++
	if overran {
		t.Overruns++
	}

	bucket := int(compute / jitterBucketWidth)
	if bucket >= jitterBuckets {
		bucket = jitterBuckets - 1
	}
	t.Jitter[bucket]++
}

// Mean returns the running mean compute time, or zero if no cycles have
// been recorded.
func (t *TimingStats) Mean() time.Duration {
	if t.Count == 0 {
		return 0
	}
	return t.Sum / time.Duration(t.Count)
}
