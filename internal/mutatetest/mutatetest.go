// Package mutatetest provides a scripted Harness for exercising
// internal/mutate without a real subprocess target.
package mutatetest

import (
	"context"
	"hash/fnv"

	"github.com/orizon-lang/orizon-mutate/internal/mutate"
)

// Harness is a Harness whose coverage is a deterministic function of the
// candidate's bytes: Judge decides crash/timeout/ok, and TraceBits is
// derived from each byte, the byte before it and its index, so the bitmap
// is reproducible and usually changes when the candidate does (the bucket
// index ORs those values together, so some distinct candidates share a
// bitmap) — enough to drive the effector map, auto-dictionary, and redundancy-oracle
// logic exactly as a real instrumented target would.
type Harness struct {
	// Judge, if set, overrides the default always-ExecOK behavior.
	Judge func(data []byte) mutate.ExecStatus

	trace [mutate.MapSize]byte
	execs int
}

// New returns a Harness with no crashes or timeouts configured.
func New() *Harness {
	return &Harness{}
}

// Execs returns how many times Execute has been called.
func (h *Harness) Execs() int {
	return h.execs
}

// Execute implements mutate.Harness.
func (h *Harness) Execute(ctx context.Context, data []byte) (mutate.ExecStatus, error) {
	h.execs++

	for i := range h.trace {
		h.trace[i] = 0
	}

	prev := byte(0)

	for i, b := range data {
		bucket := (uint32(prev)<<8 | uint32(b) | uint32(i)) % mutate.MapSize
		if h.trace[bucket] < 0xff {
			h.trace[bucket]++
		}

		prev = b
	}

	status := mutate.ExecOK
	if h.Judge != nil {
		status = h.Judge(data)
	}

	return status, nil
}

// TraceBits implements mutate.Harness.
func (h *Harness) TraceBits() []byte {
	return h.trace[:]
}

// Hash32 implements mutate.Harness.
func (h *Harness) Hash32(seed uint32) uint32 {
	hasher := fnv.New32a()
	_, _ = hasher.Write(h.trace[:])

	return hasher.Sum32() ^ seed
}
