package mutate

// effectorMap is a byte-scale bitmap over input offsets: entry k is 1 once
// some byte in input window [k*2^EffMapScale2, (k+1)*2^EffMapScale2) has been
// observed, when fully flipped, to change the coverage hash. Later
// offset-indexed stages consult it to skip windows that provably don't
// influence coverage.
type effectorMap struct {
	entries []byte
	len     int // length of the input this map was built for
	dense   bool
}

func newEffectorMap(length int) *effectorMap {
	n := effPos(length-1) + 1
	if length <= 0 {
		n = 0
	}

	e := &effectorMap{entries: make([]byte, n), len: length}

	if n > 0 {
		e.entries[0] = 1
		e.entries[effPos(length-1)] = 1
	}

	// Short inputs skip hashing entirely and are treated as fully effector
	// so every later stage still runs in full (FuzzOne saturates the map the
	// same way in dumb mode).
	if length < EffMinLen {
		e.saturate()
	}

	return e
}

func effPos(offset int) int {
	return offset >> EffMapScale2
}

func effSpanLen(offset, span int) int {
	return effPos(offset+span-1) - effPos(offset) + 1
}

// mark sets the entry covering offset to 1. Monotone: never clears a bit.
func (e *effectorMap) mark(offset int) {
	if e.dense {
		return
	}

	e.entries[effPos(offset)] = 1
}

// isSet reports whether the entry covering offset is already 1, used by
// FLIP8 to decide whether hashing is worthwhile.
func (e *effectorMap) isSet(offset int) bool {
	return e.dense || e.entries[effPos(offset)] != 0
}

// consult reports whether any entry overlapping [offset, offset+span) is 1.
func (e *effectorMap) consult(offset, span int) bool {
	if e.dense {
		return true
	}

	start := effPos(offset)
	end := effPos(offset+span-1) + 1

	for i := start; i < end && i < len(e.entries); i++ {
		if e.entries[i] != 0 {
			return true
		}
	}

	return false
}

func (e *effectorMap) saturate() {
	e.dense = true

	for i := range e.entries {
		e.entries[i] = 1
	}
}

// saturateIfDense saturates the map once the density of 1-entries exceeds
// EffMaxPerc percent: past that point consulting the map saves later stages
// no work, so it is cheaper to stop consulting it at all.
func (e *effectorMap) saturateIfDense() {
	if e.dense || len(e.entries) == 0 {
		return
	}

	set := 0

	for _, v := range e.entries {
		if v != 0 {
			set++
		}
	}

	if set*100/len(e.entries) > EffMaxPerc {
		e.saturate()
	}
}
