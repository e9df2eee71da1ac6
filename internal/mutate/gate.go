package mutate

import "context"

// FuzzOne runs one full mutation pass over seed: the admission gate, the
// deterministic pipeline (if this seed is eligible for it), a havoc round,
// and — unless splicing is disabled, the havoc round queued new paths, or
// the corpus is too small — a series of splice-then-havoc rounds. It
// returns true when the pass ran to completion, and false when the seed was
// skipped (admission gate, IgnoreFinds, exhausted calibration) or a stage
// abandoned it (too many timeouts, a harness error, a stop request).
//
// FuzzOne is not safe to call concurrently with itself on the same Engine:
// all per-call state lives in a local pass value, but Engine's own status
// fields are shared and only safe because the caller serializes calls.
func (e *Engine) FuzzOne(ctx context.Context, seed *Seed) (bool, error) {
	if e.cfg.IgnoreFinds && seed.Depth > 1 {
		return false, nil
	}

	if e.admissionSkip(seed) {
		return false, nil
	}

	if e.structural != nil {
		if tree, ok := e.structural.Describe(seed); ok {
			return true, e.structural.Mutate(ctx, tree)
		}
	}

	e.mu.Lock()
	e.status.SeedPath = seed.Path
	e.mu.Unlock()

	if seed.CalFailed > 0 {
		if seed.CalFailed >= CalChances {
			return false, nil
		}

		if err := e.qm.Calibrate(seed); err != nil {
			return false, err
		}
	}

	if !e.cfg.Dumb && !seed.TrimDone {
		if err := e.qm.Trim(seed); err != nil {
			return false, err
		}
	}

	perf := e.qm.Score(seed)

	p := &pass{
		ctx:      ctx,
		eng:      e,
		seed:     seed,
		outBuf:   append([]byte(nil), seed.Bytes...),
		length:   len(seed.Bytes),
		eff:      newEffectorMap(len(seed.Bytes)),
		origPerf: perf,
		perf:     perf,
	}

	if e.cfg.Dumb {
		p.eff.saturate()
	} else {
		p.auto = newAutoDictCollector(seed.ExecCksum)
	}

	defer e.teardown(seed)

	doingDet := eligibleForDeterminism(e.cfg, seed)

	if doingDet {
		outcome, err := p.runDeterministic()
		if outcome == Stop || err != nil {
			return false, err
		}

		if p.auto != nil {
			for _, tok := range p.auto.Tokens() {
				e.qm.MaybeAddAuto(tok)
			}
		}

		if outcome == AbandonSeed {
			return false, nil
		}
	}

	havocCycles := HavocCycles
	if doingDet {
		havocCycles = HavocCyclesInit
	}

	budget := havocCycles * perf / e.cfg.HavocDiv / 100

	queuedBefore := e.qm.QueuedPaths()

	outcome, err := p.runHavoc(budget, perf, false)
	if outcome != Continue || err != nil {
		return false, err
	}

	if e.cfg.UseSplicing && e.qm.QueuedPaths() == queuedBefore {
		outcome, err = p.runSplice(p.origPerf)
		if outcome != Continue || err != nil {
			return false, err
		}
	}

	return true, nil
}

// admissionSkip implements the probabilistic gate that prioritizes favored,
// not-yet-fuzzed seeds over already-fuzzed or non-favored ones.
func (e *Engine) admissionSkip(seed *Seed) bool {
	if e.cfg.IgnoreFinds {
		return false
	}

	if e.qm.PendingFavored() > 0 {
		if (seed.WasFuzzed || !seed.Favored) && e.rng.Intn(100) < SkipToNewProb {
			return true
		}

		return false
	}

	if !e.cfg.Dumb && !seed.Favored && e.qm.QueuedPaths() > 10 {
		if e.qm.QueueCycle() > 0 && !seed.WasFuzzed {
			return e.rng.Intn(100) < SkipNfavNewProb
		}

		return e.rng.Intn(100) < SkipNfavOldProb
	}

	return false
}

// teardown marks seed as visited once it has cleanly passed calibration,
// mirroring the original's pending_not_fuzzed/pending_favored bookkeeping
// (owned here by the queue manager's own Pending* accessors, which read
// WasFuzzed/Favored directly off the seeds it tracks).
func (e *Engine) teardown(seed *Seed) {
	if seed.CalFailed == 0 && !seed.WasFuzzed {
		seed.WasFuzzed = true
	}
}
