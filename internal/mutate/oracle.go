package mutate

// couldBeBitflip reports whether xorVal (old XOR new, over a window of 1, 2,
// or 4 bytes) is a pattern the FLIP1/2/4/8/16/32 stages could have produced,
// so a later stage can skip re-deriving it. xorVal == 0 always qualifies: it
// means old and new are identical and submitting it would waste an execution.
func couldBeBitflip(xorVal uint32) bool {
	if xorVal == 0 {
		return true
	}

	sh := 0
	for xorVal&1 == 0 {
		sh++
		xorVal >>= 1
	}

	// 1-, 2-, and 4-bit contiguous runs are reachable anywhere (FLIP1/2/4).
	if xorVal == 1 || xorVal == 3 || xorVal == 15 {
		return true
	}

	// 8-, 16-, and 32-bit runs are reachable only at a shift that is a
	// multiple of 8, matching FLIP8/16/32's byte-aligned stepover.
	if sh&7 != 0 {
		return false
	}

	return xorVal == 0xff || xorVal == 0xffff || xorVal == 0xffffffff
}

// couldBeArith reports whether new is reachable from old by a single ARITH8,
// ARITH16, or ARITH32 step: an add/subtract of at most ArithMax in exactly one
// byte lane, one native-or-swapped word lane, or (when blen==4) one
// native-or-swapped dword lane.
func couldBeArith(oldVal, newVal uint32, blen int) bool {
	if oldVal == newVal {
		return true
	}

	// One-byte lane adjustments.
	diffs := 0
	var ov, nv uint8

	for i := 0; i < blen; i++ {
		a := byte(oldVal >> (8 * uint(i)))
		b := byte(newVal >> (8 * uint(i)))

		if a != b {
			diffs++
			ov, nv = a, b
		}
	}

	if diffs == 1 {
		if uint8(ov-nv) <= ArithMax || uint8(nv-ov) <= ArithMax {
			return true
		}
	}

	if blen == 1 {
		return false
	}

	// Two-byte lane adjustments, native and byte-swapped.
	diffs = 0

	var ow, nw uint16

	for i := 0; i < blen/2; i++ {
		a := uint16(oldVal >> (16 * uint(i)))
		b := uint16(newVal >> (16 * uint(i)))

		if a != b {
			diffs++
			ow, nw = a, b
		}
	}

	if diffs == 1 {
		if uint16(ow-nw) <= ArithMax || uint16(nw-ow) <= ArithMax {
			return true
		}

		ow, nw = swap16(ow), swap16(nw)
		if uint16(ow-nw) <= ArithMax || uint16(nw-ow) <= ArithMax {
			return true
		}
	}

	// Four-byte lane adjustment, native and byte-swapped.
	if blen == 4 {
		if uint32(oldVal-newVal) <= ArithMax || uint32(newVal-oldVal) <= ArithMax {
			return true
		}

		sOld, sNew := swap32(oldVal), swap32(newVal)
		if uint32(sOld-sNew) <= ArithMax || uint32(sNew-sOld) <= ArithMax {
			return true
		}
	}

	return false
}

// couldBeInterest reports whether new is reachable from old by a single
// INTEREST8, INTEREST16, or INTEREST32 substitution. checkLE is set when the
// caller already tried the little-endian insertions at this width and wants
// to know whether a big-endian candidate is genuinely new.
func couldBeInterest(oldVal, newVal uint32, blen int, checkLE bool) bool {
	if oldVal == newVal {
		return true
	}

	// One-byte insertions from interesting8.
	for i := 0; i < blen; i++ {
		mask := uint32(0xff) << (uint(i) * 8)
		for _, v := range interesting8 {
			tval := (oldVal &^ mask) | (uint32(uint8(v)) << (uint(i) * 8))
			if newVal == tval {
				return true
			}
		}
	}

	if blen == 2 && !checkLE {
		return false
	}

	// Two-byte insertions from interesting16, native and (for blen>2) swapped.
	for i := 0; i < blen-1; i++ {
		mask := uint32(0xffff) << (uint(i) * 8)
		for _, v := range interesting16 {
			tval := (oldVal &^ mask) | (uint32(uint16(v)) << (uint(i) * 8))
			if newVal == tval {
				return true
			}

			if blen > 2 {
				tval = (oldVal &^ mask) | (uint32(swap16(uint16(v))) << (uint(i) * 8))
				if newVal == tval {
					return true
				}
			}
		}
	}

	if blen == 4 && checkLE {
		for _, v := range interesting32 {
			if newVal == uint32(v) {
				return true
			}
		}
	}

	return false
}
