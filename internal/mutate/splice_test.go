package mutate

import (
	"math/rand"
	"testing"
)

// TestSpliceAt reproduces scenario S5: current seed "AAAABBBBCCCC" spliced
// against target "AAAAXXXXCCCC" at a boundary between f_diff=4 and
// l_diff=7 must keep the current seed's prefix and adopt the target's
// suffix from the split point onward, in a result the target's length.
func TestSpliceAt(t *testing.T) {
	cur := []byte("AAAABBBBCCCC")
	target := []byte("AAAAXXXXCCCC")

	for splitAt := 4; splitAt <= 6; splitAt++ {
		got := spliceAt(cur, target, splitAt)

		if len(got) != len(target) {
			t.Fatalf("splitAt=%d: len = %d, want %d", splitAt, len(got), len(target))
		}

		if string(got[:splitAt]) != string(cur[:splitAt]) {
			t.Fatalf("splitAt=%d: prefix = %q, want %q", splitAt, got[:splitAt], cur[:splitAt])
		}

		if string(got[splitAt:]) != string(target[splitAt:]) {
			t.Fatalf("splitAt=%d: suffix = %q, want %q", splitAt, got[splitAt:], target[splitAt:])
		}
	}
}

// TestSpliceBoundaryRange confirms the split point the engine draws always
// falls in [first, last), matching locate_diffs' f_diff=4/l_diff=7 producing
// split_at in {4,5,6}.
func TestSpliceBoundaryRange(t *testing.T) {
	first, last := 4, 7

	seen := map[int]bool{}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		splitAt := first + rng.Intn(last-first)
		if splitAt < first || splitAt >= last {
			t.Fatalf("split_at = %d out of range [%d, %d)", splitAt, first, last)
		}

		seen[splitAt] = true
	}

	for want := first; want < last; want++ {
		if !seen[want] {
			t.Fatalf("split_at %d was never drawn across 200 samples", want)
		}
	}
}
