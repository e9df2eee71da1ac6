package mutate

import "bytes"

// runExtrasUO overwrites every offset with every user dictionary token in
// turn, restoring the original bytes before moving to the next offset.
// Tokens are visited in ascending length order so restoring only ever needs
// the length of the last token written at that offset (see Dictionary).
func (p *pass) runExtrasUO() (StageOutcome, error) {
	extras := p.eng.qm.Extras()
	n := extras.Len()

	if n == 0 {
		return Continue, nil
	}

	var cycles uint64

	p.stageFinds = 0

	for i := 0; i < p.length; i++ {
		if p.stop() {
			return Stop, nil
		}

		lastLen := 0

		for j := 0; j < n; j++ {
			if n > MaxDetExtras && p.eng.rng.Intn(n) >= MaxDetExtras {
				continue
			}

			tok := extras.Token(j)

			if len(tok) > p.length-i {
				continue
			}

			if bytes.Equal(tok, p.outBuf[i:i+len(tok)]) {
				continue
			}

			if !p.eff.consult(i, len(tok)) {
				continue
			}

			copy(p.outBuf[i:], tok)
			lastLen = len(tok)

			reason, err := p.fuzz(p.outBuf)
			cycles++

			if reason != AbandonNone || err != nil {
				copy(p.outBuf[i:i+lastLen], p.seed.Bytes[i:i+lastLen])
				p.eng.addCounters(StageExtrasUO, cycles, p.stageFinds)

				return outcomeFor(reason), err
			}
		}

		copy(p.outBuf[i:i+lastLen], p.seed.Bytes[i:i+lastLen])
	}

	p.eng.addCounters(StageExtrasUO, cycles, p.stageFinds)

	return Continue, nil
}

// runExtrasUI inserts every user dictionary token at every offset, growing
// the candidate rather than overwriting it.
func (p *pass) runExtrasUI() (StageOutcome, error) {
	extras := p.eng.qm.Extras()
	n := extras.Len()

	if n == 0 {
		return Continue, nil
	}

	var cycles uint64

	p.stageFinds = 0

	for i := 0; i <= p.length; i++ {
		if p.stop() {
			return Stop, nil
		}

		for j := 0; j < n; j++ {
			tok := extras.Token(j)

			if p.length+len(tok) > MaxFile {
				continue
			}

			candidate := make([]byte, 0, p.length+len(tok))
			candidate = append(candidate, p.outBuf[:i]...)
			candidate = append(candidate, tok...)
			candidate = append(candidate, p.outBuf[i:p.length]...)

			reason, err := p.fuzz(candidate)
			cycles++

			if reason != AbandonNone || err != nil {
				p.eng.addCounters(StageExtrasUI, cycles, p.stageFinds)
				return outcomeFor(reason), err
			}
		}
	}

	p.eng.addCounters(StageExtrasUI, cycles, p.stageFinds)

	return Continue, nil
}

// runExtrasAO is runExtrasUO for the auto-detected dictionary, subject to
// the UseAutoExtras cap.
func (p *pass) runExtrasAO() (StageOutcome, error) {
	auto := p.eng.qm.AutoExtras()
	n := auto.Len()

	if n == 0 {
		return Continue, nil
	}

	if n > UseAutoExtras {
		n = UseAutoExtras
	}

	var cycles uint64

	p.stageFinds = 0

	for i := 0; i < p.length; i++ {
		if p.stop() {
			return Stop, nil
		}

		lastLen := 0

		for j := 0; j < n; j++ {
			tok := auto.Token(j)

			if len(tok) > p.length-i {
				continue
			}

			if bytes.Equal(tok, p.outBuf[i:i+len(tok)]) {
				continue
			}

			if !p.eff.consult(i, len(tok)) {
				continue
			}

			copy(p.outBuf[i:], tok)
			lastLen = len(tok)

			reason, err := p.fuzz(p.outBuf)
			cycles++

			if reason != AbandonNone || err != nil {
				copy(p.outBuf[i:i+lastLen], p.seed.Bytes[i:i+lastLen])
				p.eng.addCounters(StageExtrasAO, cycles, p.stageFinds)

				return outcomeFor(reason), err
			}
		}

		copy(p.outBuf[i:i+lastLen], p.seed.Bytes[i:i+lastLen])
	}

	p.eng.addCounters(StageExtrasAO, cycles, p.stageFinds)

	return Continue, nil
}
