package mutate

// runInterest8 substitutes every boundary 8-bit value from interesting8 into
// every byte, skipping substitutions already reachable by a bitflip or
// arithmetic stage.
func (p *pass) runInterest8() (StageOutcome, error) {
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

		for _, v := range interesting8 {
			nv := byte(v)

			if couldBeBitflip(uint32(orig^nv)) || couldBeArith(uint32(orig), uint32(nv), 1) {
				continue
			}

			p.outBuf[i] = nv

			reason, err := p.fuzz(p.outBuf)
			cycles++

			p.outBuf[i] = orig

			if reason != AbandonNone || err != nil {
				p.eng.addCounters(StageInterest8, cycles, p.stageFinds)
				return outcomeFor(reason), err
			}
		}
	}

	p.eng.addCounters(StageInterest8, cycles, p.stageFinds)

	return Continue, nil
}

// runInterest16 substitutes every boundary 16-bit value, native and
// byte-swapped, skipping substitutions reachable by an earlier stage.
func (p *pass) runInterest16() (StageOutcome, error) {
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

		for _, v := range interesting16 {
			nv := uint16(v)

			if !couldBeBitflip(uint32(orig^nv)) &&
				!couldBeArith(uint32(orig), uint32(nv), 2) &&
				!couldBeInterest(uint32(orig), uint32(nv), 2, false) {
				storeLE16(p.outBuf, i, nv)

				reason, err := p.fuzz(p.outBuf)
				cycles++

				storeLE16(p.outBuf, i, orig)

				if reason != AbandonNone || err != nil {
					p.eng.addCounters(StageInterest16, cycles, p.stageFinds)
					return outcomeFor(reason), err
				}
			}

			sw := swap16(nv)
			if sw == nv {
				continue
			}

			if !couldBeBitflip(uint32(orig^sw)) &&
				!couldBeArith(uint32(orig), uint32(sw), 2) &&
				!couldBeInterest(uint32(orig), uint32(sw), 2, true) {
				storeLE16(p.outBuf, i, sw)

				reason, err := p.fuzz(p.outBuf)
				cycles++

				storeLE16(p.outBuf, i, orig)

				if reason != AbandonNone || err != nil {
					p.eng.addCounters(StageInterest16, cycles, p.stageFinds)
					return outcomeFor(reason), err
				}
			}
		}
	}

	p.eng.addCounters(StageInterest16, cycles, p.stageFinds)

	return Continue, nil
}

// runInterest32 is runInterest16's 32-bit counterpart.
func (p *pass) runInterest32() (StageOutcome, error) {
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

		for _, v := range interesting32 {
			nv := uint32(v)

			if !couldBeBitflip(orig^nv) &&
				!couldBeArith(orig, nv, 4) &&
				!couldBeInterest(orig, nv, 4, false) {
				storeLE32(p.outBuf, i, nv)

				reason, err := p.fuzz(p.outBuf)
				cycles++

				storeLE32(p.outBuf, i, orig)

				if reason != AbandonNone || err != nil {
					p.eng.addCounters(StageInterest32, cycles, p.stageFinds)
					return outcomeFor(reason), err
				}
			}

			sw := swap32(nv)
			if sw == nv {
				continue
			}

			if !couldBeBitflip(orig^sw) &&
				!couldBeArith(orig, sw, 4) &&
				!couldBeInterest(orig, sw, 4, true) {
				storeLE32(p.outBuf, i, sw)

				reason, err := p.fuzz(p.outBuf)
				cycles++

				storeLE32(p.outBuf, i, orig)

				if reason != AbandonNone || err != nil {
					p.eng.addCounters(StageInterest32, cycles, p.stageFinds)
					return outcomeFor(reason), err
				}
			}
		}
	}

	p.eng.addCounters(StageInterest32, cycles, p.stageFinds)

	return Continue, nil
}
