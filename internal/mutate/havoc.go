package mutate

// runHavoc stacks 2..2^HavocStackPow2 random mutations per iteration
// against a scratch copy of the seed, restoring it to the original bytes
// before every iteration. budget iterations run unless the adaptive
// inflation (stage_max *= 2 on new coverage, capped at HavocMaxMult*100
// perf-score points) extends it. splice is true when this call follows a
// splice (affects only status reporting, not mutation).
func (p *pass) runHavoc(budget int, perfScore int, splice bool) (StageOutcome, error) {
	stage := StageHavoc
	if splice {
		stage = StageSplice
	}

	if budget < HavocMin {
		budget = HavocMin
	}

	p.eng.setStage(stage, 0, budget)

	buf := make([]byte, p.length)
	copy(buf, p.outBuf[:p.length])

	queuedBefore := p.eng.qm.QueuedPaths()

	var cycles uint64

	p.stageFinds = 0

	for cur := 0; cur < budget; cur++ {
		if p.stop() {
			return Stop, nil
		}

		stacking := 1 << (1 + p.eng.rng.Intn(HavocStackPow2))

		for s := 0; s < stacking; s++ {
			buf = p.havocOp(buf)
		}

		reason, err := p.fuzz(buf)
		cycles++

		buf = append(buf[:0], p.outBuf[:p.length]...)

		if reason != AbandonNone || err != nil {
			p.eng.addCounters(stage, cycles, p.stageFinds)
			return outcomeFor(reason), err
		}

		queuedAfter := p.eng.qm.QueuedPaths()
		if queuedAfter != queuedBefore {
			if perfScore <= HavocMaxMult*100 {
				budget *= 2
				perfScore *= 2
				p.eng.setStage(stage, cur, budget)
			}

			queuedBefore = queuedAfter
		}
	}

	p.eng.addCounters(stage, cycles, p.stageFinds)

	return Continue, nil
}

// havocOp applies one randomly chosen stacked mutation to buf, returning the
// (possibly reallocated, possibly resized) result.
func (p *pass) havocOp(buf []byte) []byte {
	rng := p.eng.rng
	extras := p.eng.qm.Extras()
	auto := p.eng.qm.AutoExtras()
	hasExtras := extras.Len() > 0 || auto.Len() > 0

	n := 15
	if hasExtras {
		n = 17
	}

	switch rng.Intn(n) {
	case 0:
		flipBit(buf, rng.Intn(len(buf)<<3))

	case 1:
		buf[rng.Intn(len(buf))] = byte(interesting8[rng.Intn(len(interesting8))])

	case 2:
		if len(buf) < 2 {
			break
		}

		v := uint16(interesting16[rng.Intn(len(interesting16))])
		if rng.Intn(2) == 1 {
			v = swap16(v)
		}

		storeLE16(buf, rng.Intn(len(buf)-1), v)

	case 3:
		if len(buf) < 4 {
			break
		}

		v := uint32(interesting32[rng.Intn(len(interesting32))])
		if rng.Intn(2) == 1 {
			v = swap32(v)
		}

		storeLE32(buf, rng.Intn(len(buf)-3), v)

	case 4:
		i := rng.Intn(len(buf))
		buf[i] -= byte(1 + rng.Intn(ArithMax))

	case 5:
		i := rng.Intn(len(buf))
		buf[i] += byte(1 + rng.Intn(ArithMax))

	case 6:
		if len(buf) < 2 {
			break
		}

		i := rng.Intn(len(buf) - 1)

		if rng.Intn(2) == 1 {
			storeLE16(buf, i, loadLE16(buf, i)-uint16(1+rng.Intn(ArithMax)))
		} else {
			storeLE16(buf, i, swap16(swap16(loadLE16(buf, i))-uint16(1+rng.Intn(ArithMax))))
		}

	case 7:
		if len(buf) < 2 {
			break
		}

		i := rng.Intn(len(buf) - 1)

		if rng.Intn(2) == 1 {
			storeLE16(buf, i, loadLE16(buf, i)+uint16(1+rng.Intn(ArithMax)))
		} else {
			storeLE16(buf, i, swap16(swap16(loadLE16(buf, i))+uint16(1+rng.Intn(ArithMax))))
		}

	case 8:
		if len(buf) < 4 {
			break
		}

		i := rng.Intn(len(buf) - 3)

		if rng.Intn(2) == 1 {
			storeLE32(buf, i, loadLE32(buf, i)-uint32(1+rng.Intn(ArithMax)))
		} else {
			storeLE32(buf, i, swap32(swap32(loadLE32(buf, i))-uint32(1+rng.Intn(ArithMax))))
		}

	case 9:
		if len(buf) < 4 {
			break
		}

		i := rng.Intn(len(buf) - 3)

		if rng.Intn(2) == 1 {
			storeLE32(buf, i, loadLE32(buf, i)+uint32(1+rng.Intn(ArithMax)))
		} else {
			storeLE32(buf, i, swap32(swap32(loadLE32(buf, i))+uint32(1+rng.Intn(ArithMax))))
		}

	case 10:
		i := rng.Intn(len(buf))
		buf[i] ^= byte(1 + rng.Intn(255))

	case 11, 12:
		if len(buf) < 2 {
			break
		}

		delLen := p.eng.qm.ChooseBlockLen(rng, len(buf)-1)
		delFrom := rng.Intn(len(buf) - delLen + 1)

		buf = append(buf[:delFrom], buf[delFrom+delLen:]...)

	case 13:
		if len(buf)+HavocBlkXL >= MaxFile {
			break
		}

		var cloneLen, cloneFrom int

		actuallyClone := rng.Intn(4) != 0

		if actuallyClone {
			cloneLen = p.eng.qm.ChooseBlockLen(rng, len(buf))
			cloneFrom = rng.Intn(len(buf) - cloneLen + 1)
		} else {
			cloneLen = p.eng.qm.ChooseBlockLen(rng, HavocBlkXL)
		}

		cloneTo := rng.Intn(len(buf))

		newBuf := make([]byte, len(buf)+cloneLen)
		copy(newBuf, buf[:cloneTo])

		if actuallyClone {
			copy(newBuf[cloneTo:], buf[cloneFrom:cloneFrom+cloneLen])
		} else {
			var fill byte
			if rng.Intn(2) == 1 {
				fill = byte(rng.Intn(256))
			} else {
				fill = buf[rng.Intn(len(buf))]
			}

			for k := 0; k < cloneLen; k++ {
				newBuf[cloneTo+k] = fill
			}
		}

		copy(newBuf[cloneTo+cloneLen:], buf[cloneTo:])
		buf = newBuf

	case 14:
		if len(buf) < 2 {
			break
		}

		copyLen := p.eng.qm.ChooseBlockLen(rng, len(buf)-1)
		copyFrom := rng.Intn(len(buf) - copyLen + 1)
		copyTo := rng.Intn(len(buf) - copyLen + 1)

		if rng.Intn(4) != 0 {
			if copyFrom != copyTo {
				copy(buf[copyTo:copyTo+copyLen], buf[copyFrom:copyFrom+copyLen])
			}
		} else {
			var fill byte
			if rng.Intn(2) == 1 {
				fill = byte(rng.Intn(256))
			} else {
				fill = buf[rng.Intn(len(buf))]
			}

			for k := 0; k < copyLen; k++ {
				buf[copyTo+k] = fill
			}
		}

	case 15:
		useAuto := auto.Len() > 0 && (extras.Len() == 0 || rng.Intn(2) == 1)

		var tok []byte
		if useAuto {
			tok = auto.Token(rng.Intn(auto.Len()))
		} else {
			tok = extras.Token(rng.Intn(extras.Len()))
		}

		if len(tok) > len(buf) {
			break
		}

		insertAt := rng.Intn(len(buf) - len(tok) + 1)
		copy(buf[insertAt:], tok)

	case 16:
		useAuto := auto.Len() > 0 && (extras.Len() == 0 || rng.Intn(2) == 1)

		var tok []byte
		if useAuto {
			tok = auto.Token(rng.Intn(auto.Len()))
		} else {
			tok = extras.Token(rng.Intn(extras.Len()))
		}

		if len(buf)+len(tok) >= MaxFile {
			break
		}

		insertAt := rng.Intn(len(buf) + 1)

		newBuf := make([]byte, 0, len(buf)+len(tok))
		newBuf = append(newBuf, buf[:insertAt]...)
		newBuf = append(newBuf, tok...)
		newBuf = append(newBuf, buf[insertAt:]...)
		buf = newBuf
	}

	return buf
}
