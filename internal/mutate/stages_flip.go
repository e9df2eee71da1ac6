package mutate

// runFlip1 walks every bit of the input one at a time, restoring it after
// each submission. It also drives the auto-dictionary collector: on the
// flip of a byte's low bit, the run-so-far coverage hash is compared against
// the previous byte's, and a distinctive run of equal hashes is harvested as
// a candidate token (see autodict.go).
func (p *pass) runFlip1() (StageOutcome, error) {
	max := p.length << 3
	p.eng.setStage(StageFlip1, 0, max)

	var cycles uint64

	p.stageFinds = 0

	baseline := p.seed.ExecCksum

	for cur := 0; cur < max; cur++ {
		if p.stop() {
			return Stop, nil
		}

		flipBit(p.outBuf, cur)

		reason, err := p.fuzz(p.outBuf)

		cycles++

		if reason != AbandonNone || err != nil {
			flipBit(p.outBuf, cur)
			p.eng.addCounters(StageFlip1, cycles, p.stageFinds)

			return outcomeFor(reason), err
		}

		flipBit(p.outBuf, cur)

		if p.auto != nil && cur&7 == 7 {
			cksum := p.eng.h.Hash32(HashConst)
			last := cur == max-1
			p.auto.Observe(cur>>3, p.outBuf[cur>>3], cksum, last, baseline)
		}
	}

	p.eng.addCounters(StageFlip1, cycles, p.stageFinds)

	return Continue, nil
}

// runFlip2 walks every pair of adjacent bits.
func (p *pass) runFlip2() (StageOutcome, error) {
	max := (p.length << 3) - 1
	if max < 0 {
		max = 0
	}

	p.eng.setStage(StageFlip2, 0, max)

	var cycles uint64

	p.stageFinds = 0

	for cur := 0; cur < max; cur++ {
		if p.stop() {
			return Stop, nil
		}

		flipBit(p.outBuf, cur)
		flipBit(p.outBuf, cur+1)

		reason, err := p.fuzz(p.outBuf)
		cycles++

		flipBit(p.outBuf, cur)
		flipBit(p.outBuf, cur+1)

		if reason != AbandonNone || err != nil {
			p.eng.addCounters(StageFlip2, cycles, p.stageFinds)
			return outcomeFor(reason), err
		}
	}

	p.eng.addCounters(StageFlip2, cycles, p.stageFinds)

	return Continue, nil
}

// runFlip4 walks every run of four adjacent bits.
func (p *pass) runFlip4() (StageOutcome, error) {
	max := (p.length << 3) - 3
	if max < 0 {
		max = 0
	}

	p.eng.setStage(StageFlip4, 0, max)

	var cycles uint64

	p.stageFinds = 0

	for cur := 0; cur < max; cur++ {
		if p.stop() {
			return Stop, nil
		}

		for b := 0; b < 4; b++ {
			flipBit(p.outBuf, cur+b)
		}

		reason, err := p.fuzz(p.outBuf)
		cycles++

		for b := 0; b < 4; b++ {
			flipBit(p.outBuf, cur+b)
		}

		if reason != AbandonNone || err != nil {
			p.eng.addCounters(StageFlip4, cycles, p.stageFinds)
			return outcomeFor(reason), err
		}
	}

	p.eng.addCounters(StageFlip4, cycles, p.stageFinds)

	return Continue, nil
}

// runFlip8 walks every whole byte and, along the way, builds the effector
// map: a byte whose full flip leaves the coverage hash unchanged is one later
// offset-indexed stages can skip.
func (p *pass) runFlip8() (StageOutcome, error) {
	max := p.length
	p.eng.setStage(StageFlip8, 0, max)

	var cycles uint64

	p.stageFinds = 0

	for cur := 0; cur < max; cur++ {
		if p.stop() {
			return Stop, nil
		}

		p.outBuf[cur] ^= 0xff

		reason, err := p.fuzz(p.outBuf)
		cycles++

		if !p.eff.isSet(cur) {
			var cksum uint32
			if p.length >= EffMinLen {
				cksum = p.eng.h.Hash32(HashConst)
			} else {
				cksum = ^p.seed.ExecCksum
			}

			if cksum != p.seed.ExecCksum {
				p.eff.mark(cur)
			}
		}

		p.outBuf[cur] ^= 0xff

		if reason != AbandonNone || err != nil {
			p.eng.addCounters(StageFlip8, cycles, p.stageFinds)
			return outcomeFor(reason), err
		}
	}

	p.eff.saturateIfDense()
	p.eng.addCounters(StageFlip8, cycles, p.stageFinds)

	return Continue, nil
}

// runFlip16 walks every adjacent 16-bit word, skipping spans the effector
// map marks as provably inert.
func (p *pass) runFlip16() (StageOutcome, error) {
	if p.length < 2 {
		return Continue, nil
	}

	max := p.length - 1
	p.eng.setStage(StageFlip16, 0, max)

	var cycles uint64

	p.stageFinds = 0

	for i := 0; i < max; i++ {
		if p.stop() {
			return Stop, nil
		}

		if !p.eff.consult(i, 2) {
			continue
		}

		v := loadLE16(p.outBuf, i)
		storeLE16(p.outBuf, i, v^0xffff)

		reason, err := p.fuzz(p.outBuf)
		cycles++

		storeLE16(p.outBuf, i, v)

		if reason != AbandonNone || err != nil {
			p.eng.addCounters(StageFlip16, cycles, p.stageFinds)
			return outcomeFor(reason), err
		}
	}

	p.eng.addCounters(StageFlip16, cycles, p.stageFinds)

	return Continue, nil
}

// runFlip32 walks every adjacent 32-bit word, skipping spans the effector
// map marks as provably inert.
func (p *pass) runFlip32() (StageOutcome, error) {
	if p.length < 4 {
		return Continue, nil
	}

	max := p.length - 3
	p.eng.setStage(StageFlip32, 0, max)

	var cycles uint64

	p.stageFinds = 0

	for i := 0; i < max; i++ {
		if p.stop() {
			return Stop, nil
		}

		if !p.eff.consult(i, 4) {
			continue
		}

		v := loadLE32(p.outBuf, i)
		storeLE32(p.outBuf, i, v^0xffffffff)

		reason, err := p.fuzz(p.outBuf)
		cycles++

		storeLE32(p.outBuf, i, v)

		if reason != AbandonNone || err != nil {
			p.eng.addCounters(StageFlip32, cycles, p.stageFinds)
			return outcomeFor(reason), err
		}
	}

	p.eng.addCounters(StageFlip32, cycles, p.stageFinds)

	return Continue, nil
}

func outcomeFor(reason AbandonReason) StageOutcome {
	if reason == AbandonNone {
		return Continue
	}

	return AbandonSeed
}
