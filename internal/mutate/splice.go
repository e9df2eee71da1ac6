package mutate

// runSplice is the last-resort strategy after a havoc round finds nothing
// new: it grafts a prefix of another queued seed onto this one at a
// boundary chosen between the first and last byte the two differ on, then
// runs a (smaller) havoc round against the result. It repeats up to
// SpliceCycles times; every cycle splices against the seed's own original
// bytes, not the previous cycle's hybrid, matching the original's
// retry_splicing loop (`in_buf = orig_in; len = queue_cur->len` at the top
// of each attempt).
func (p *pass) runSplice(origPerf int) (StageOutcome, error) {
	for cycle := 0; cycle < SpliceCycles; cycle++ {
		if p.stop() {
			return Stop, nil
		}

		p.outBuf = append(p.outBuf[:0], p.seed.Bytes...)
		p.length = len(p.seed.Bytes)

		if p.eng.qm.QueuedPaths() <= 1 || p.length < 2 {
			break
		}

		target := p.eng.qm.SpliceCandidate(p.seed)
		if target == nil {
			continue
		}

		n := p.length
		if len(target.Bytes) < n {
			n = len(target.Bytes)
		}

		first, last := p.eng.qm.LocateDiffs(p.outBuf[:p.length], target.Bytes, n)
		if first < 0 || last < 2 || first == last {
			continue
		}

		splitAt := first + p.eng.rng.Intn(last-first)

		p.outBuf = spliceAt(p.outBuf[:p.length], target.Bytes, splitAt)
		p.length = len(p.outBuf)

		budget := SpliceHavoc * origPerf / p.cfg().HavocDiv / 100

		outcome, err := p.runHavoc(budget, origPerf, true)
		if outcome != Continue || err != nil {
			return outcome, err
		}
	}

	return Continue, nil
}

// spliceAt grafts cur's first splitAt bytes onto target's bytes from splitAt
// onward, producing a buffer the length of target regardless of cur's own
// length.
func spliceAt(cur, target []byte, splitAt int) []byte {
	spliced := make([]byte, len(target))
	copy(spliced, cur[:splitAt])
	copy(spliced[splitAt:], target[splitAt:])

	return spliced
}
