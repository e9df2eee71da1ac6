package mutate

import "context"

// scriptedHarness is a local (import-cycle-free) test double: Execute always
// reports ExecOK unless status is overridden, and TraceBits/Hash32 are
// unused by the scenario tests in this package (they exercise the engine's
// own bookkeeping via fakeQueue, not coverage-derived admission).
type scriptedHarness struct {
	status ExecStatus
	trace  [MapSize]byte
}

func (h *scriptedHarness) Execute(ctx context.Context, data []byte) (ExecStatus, error) {
	return h.status, nil
}

func (h *scriptedHarness) TraceBits() []byte { return h.trace[:] }

func (h *scriptedHarness) Hash32(seed uint32) uint32 { return seed }
