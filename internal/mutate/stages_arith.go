package mutate

// runArith8 tries adding and subtracting 1..ArithMax from every byte,
// skipping deltas that could already be reached by a bitflip stage.
func (p *pass) runArith8() (StageOutcome, error) {
	if p.cfg().NoArith {
		return Continue, nil
	}

	var cycles uint64

	p.stageFinds = 0

	for i := 0; i < p.length; i++ {
		if p.stop() {
			return Stop, nil
		}

		if !p.eff.isSet(i) {
			continue
		}

		orig := p.outBuf[i]

		for j := 1; j <= ArithMax; j++ {
			if !couldBeBitflip(uint32(orig ^ (orig + byte(j)))) {
				p.outBuf[i] = orig + byte(j)

				reason, err := p.fuzz(p.outBuf)
				cycles++

				if reason != AbandonNone || err != nil {
					p.outBuf[i] = orig
					p.eng.addCounters(StageArith8, cycles, p.stageFinds)

					return outcomeFor(reason), err
				}
			}

			if !couldBeBitflip(uint32(orig ^ (orig - byte(j)))) {
				p.outBuf[i] = orig - byte(j)

				reason, err := p.fuzz(p.outBuf)
				cycles++

				if reason != AbandonNone || err != nil {
					p.outBuf[i] = orig
					p.eng.addCounters(StageArith8, cycles, p.stageFinds)

					return outcomeFor(reason), err
				}
			}

			p.outBuf[i] = orig
		}
	}

	p.eng.addCounters(StageArith8, cycles, p.stageFinds)

	return Continue, nil
}

// runArith16 tries adding and subtracting 1..ArithMax from every 16-bit
// word, in both native and byte-swapped order, restricted to deltas that
// carry out of the low byte (otherwise ARITH8 already covered it) and that
// aren't reachable by a bitflip.
func (p *pass) runArith16() (StageOutcome, error) {
	if p.length < 2 || p.cfg().NoArith {
		return Continue, nil
	}

	var cycles uint64

	p.stageFinds = 0

	for i := 0; i < p.length-1; i++ {
		if p.stop() {
			return Stop, nil
		}

		if !p.eff.consult(i, 2) {
			continue
		}

		orig := loadLE16(p.outBuf, i)

		for j := uint16(1); j <= ArithMax; j++ {
			if orig&0xff+j > 0xff && !couldBeBitflip(uint32(orig^(orig+j))) {
				storeLE16(p.outBuf, i, orig+j)

				reason, err := p.fuzz(p.outBuf)
				cycles++

				storeLE16(p.outBuf, i, orig)

				if reason != AbandonNone || err != nil {
					p.eng.addCounters(StageArith16, cycles, p.stageFinds)
					return outcomeFor(reason), err
				}
			}

			if orig&0xff < j && !couldBeBitflip(uint32(orig^(orig-j))) {
				storeLE16(p.outBuf, i, orig-j)

				reason, err := p.fuzz(p.outBuf)
				cycles++

				storeLE16(p.outBuf, i, orig)

				if reason != AbandonNone || err != nil {
					p.eng.addCounters(StageArith16, cycles, p.stageFinds)
					return outcomeFor(reason), err
				}
			}

			sw := swap16(orig)

			if sw&0xff+j > 0xff && !couldBeBitflip(uint32(orig^swap16(sw+j))) {
				storeLE16(p.outBuf, i, swap16(sw+j))

				reason, err := p.fuzz(p.outBuf)
				cycles++

				storeLE16(p.outBuf, i, orig)

				if reason != AbandonNone || err != nil {
					p.eng.addCounters(StageArith16, cycles, p.stageFinds)
					return outcomeFor(reason), err
				}
			}

			if sw&0xff < j && !couldBeBitflip(uint32(orig^swap16(sw-j))) {
				storeLE16(p.outBuf, i, swap16(sw-j))

				reason, err := p.fuzz(p.outBuf)
				cycles++

				storeLE16(p.outBuf, i, orig)

				if reason != AbandonNone || err != nil {
					p.eng.addCounters(StageArith16, cycles, p.stageFinds)
					return outcomeFor(reason), err
				}
			}
		}
	}

	p.eng.addCounters(StageArith16, cycles, p.stageFinds)

	return Continue, nil
}

// runArith32 is runArith16's 32-bit counterpart.
func (p *pass) runArith32() (StageOutcome, error) {
	if p.length < 4 || p.cfg().NoArith {
		return Continue, nil
	}

	var cycles uint64

	p.stageFinds = 0

	for i := 0; i < p.length-3; i++ {
		if p.stop() {
			return Stop, nil
		}

		if !p.eff.consult(i, 4) {
			continue
		}

		orig := loadLE32(p.outBuf, i)

		for j := uint32(1); j <= ArithMax; j++ {
			if orig&0xffff+j > 0xffff && !couldBeBitflip(orig^(orig+j)) {
				storeLE32(p.outBuf, i, orig+j)

				reason, err := p.fuzz(p.outBuf)
				cycles++

				storeLE32(p.outBuf, i, orig)

				if reason != AbandonNone || err != nil {
					p.eng.addCounters(StageArith32, cycles, p.stageFinds)
					return outcomeFor(reason), err
				}
			}

			if orig&0xffff < j && !couldBeBitflip(orig^(orig-j)) {
				storeLE32(p.outBuf, i, orig-j)

				reason, err := p.fuzz(p.outBuf)
				cycles++

				storeLE32(p.outBuf, i, orig)

				if reason != AbandonNone || err != nil {
					p.eng.addCounters(StageArith32, cycles, p.stageFinds)
					return outcomeFor(reason), err
				}
			}

			sw := swap32(orig)

			if sw&0xffff+j > 0xffff && !couldBeBitflip(orig^swap32(sw+j)) {
				storeLE32(p.outBuf, i, swap32(sw+j))

				reason, err := p.fuzz(p.outBuf)
				cycles++

				storeLE32(p.outBuf, i, orig)

				if reason != AbandonNone || err != nil {
					p.eng.addCounters(StageArith32, cycles, p.stageFinds)
					return outcomeFor(reason), err
				}
			}

			if sw&0xffff < j && !couldBeBitflip(orig^swap32(sw-j)) {
				storeLE32(p.outBuf, i, swap32(sw-j))

				reason, err := p.fuzz(p.outBuf)
				cycles++

				storeLE32(p.outBuf, i, orig)

				if reason != AbandonNone || err != nil {
					p.eng.addCounters(StageArith32, cycles, p.stageFinds)
					return outcomeFor(reason), err
				}
			}
		}
	}

	p.eng.addCounters(StageArith32, cycles, p.stageFinds)

	return Continue, nil
}
