// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

//go:build race

package ring

// RaceEnabled is true when the race detector is active.
// Used by tests to skip the concurrent SPSC test, which triggers false
// positives because the race detector cannot observe the happens-before
// relationship established by atomix's acquire/release orderings.
const RaceEnabled = true
