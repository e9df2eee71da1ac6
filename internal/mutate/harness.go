package mutate

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ExecStatus is what one execution of the target reported.
type ExecStatus int

const (
	ExecOK ExecStatus = iota
	ExecCrash
	ExecTimeout
)

// Harness is the execution harness: it runs the target on one candidate and
// exposes the coverage bitmap from that run. It is the caller's
// responsibility to wire this to a real process, an in-process target
// function, or (in tests) a scripted fake.
type Harness interface {
	// Execute runs data through the target once.
	Execute(ctx context.Context, data []byte) (ExecStatus, error)
	// TraceBits returns the MapSize-byte coverage bitmap from the most
	// recent Execute call.
	TraceBits() []byte
	// Hash32 fingerprints the current TraceBits.
	Hash32(seed uint32) uint32
}

// AbandonReason is why the engine gave up on the current seed mid-stage.
type AbandonReason int

const (
	// AbandonNone means the engine should keep going.
	AbandonNone AbandonReason = iota
	// AbandonStopRequested means the caller asked for cooperative shutdown.
	AbandonStopRequested
	// AbandonTooManyTimeouts means subsequent per-input timeouts exceeded the
	// engine's tolerance.
	AbandonTooManyTimeouts
	// AbandonHarnessError means the harness itself failed unrecoverably.
	AbandonHarnessError
)

// maxSubseqTimeouts bounds how many consecutive timeouts a seed tolerates
// before the engine bails out of it entirely.
const maxSubseqTimeouts = 5

// commonFuzzStuff submits one candidate to the harness, bounded by ctx's
// deadline, and folds the result into qm and the engine's running timeout
// counter. It is the single choke point every stage calls through, matching
// the original's common_fuzz_stuff. The returned bool is qm.Record's
// newCoverage verdict, which callers fold into a stage's finds counter.
func commonFuzzStuff(ctx context.Context, h Harness, qm QueueManager, subseqTimeouts *int, candidate []byte) (AbandonReason, bool, error) {
	if len(candidate) > MaxFile {
		candidate = candidate[:MaxFile]
	}

	g, gctx := errgroup.WithContext(ctx)

	var status ExecStatus

	g.Go(func() error {
		s, err := h.Execute(gctx, candidate)
		status = s

		return err
	})

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			*subseqTimeouts++
			if *subseqTimeouts >= maxSubseqTimeouts {
				return AbandonTooManyTimeouts, false, nil
			}

			return AbandonNone, false, nil
		}

		return AbandonHarnessError, false, err
	}

	if status == ExecTimeout {
		*subseqTimeouts++
		if *subseqTimeouts >= maxSubseqTimeouts {
			return AbandonTooManyTimeouts, false, nil
		}
	} else {
		*subseqTimeouts = 0
	}

	newCoverage := qm.Record(candidate, status, h.Hash32(HashConst))

	return AbandonNone, newCoverage, nil
}
