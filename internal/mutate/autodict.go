package mutate

// autoDictCollector watches the coverage hash produced by each FLIP1 bit flip
// and recovers multi-byte tokens a parser treats atomically: flipping any bit
// inside such a token produces the same distinctive rejection hash, while
// bits outside it vary, so a run of equal distinctive hashes marks a token's
// extent.
//
// It is driven once per byte (on the flip of that byte's last bit, per the
// design note in §4.3) via Observe, and is a no-op unless wired into the
// FLIP1 stage.
type autoDictCollector struct {
	a         []byte // bytes collected for the run currently open
	aLen      uint32 // run length; kept incrementing past MaxAutoExtra so emission can be refused
	prevCksum uint32
	baseline  uint32
	tokens    [][]byte
}

func newAutoDictCollector(baselineCksum uint32) *autoDictCollector {
	return &autoDictCollector{
		a:         make([]byte, 0, MaxAutoExtra),
		prevCksum: baselineCksum,
		baseline:  baselineCksum,
	}
}

// Observe processes the coverage hash cksum produced by flipping the last
// bit of byte index k (value v), where last is true on the final byte of the
// input. baseline is the seed's own, pre-mutation coverage hash.
func (c *autoDictCollector) Observe(k int, v byte, cksum uint32, last bool, baseline uint32) {
	c.baseline = baseline

	if last && cksum == c.prevCksum {
		// End of file, still inside a run: grab the final byte and force emission.
		c.append(v)
		c.aLen++
		c.maybeEmit()
	} else if cksum != c.prevCksum {
		// The checksum changed: seal whatever run was open before resetting.
		c.maybeEmit()
		c.a = c.a[:0]
		c.aLen = 0
		c.prevCksum = cksum
	}

	// Continue collecting, but only when this flip actually changed behavior
	// relative to the seed's own baseline - no-op bits don't belong in a token.
	if cksum != baseline {
		c.append(v)
		c.aLen++
	}
}

func (c *autoDictCollector) append(v byte) {
	if uint32(len(c.a)) < MaxAutoExtra {
		c.a = append(c.a, v)
	}
}

func (c *autoDictCollector) maybeEmit() {
	if c.aLen >= MinAutoExtra && c.aLen <= MaxAutoExtra {
		tok := make([]byte, len(c.a))
		copy(tok, c.a)
		c.tokens = append(c.tokens, tok)
	}
}

// Tokens returns every token emitted during the FLIP1 pass.
func (c *autoDictCollector) Tokens() [][]byte {
	return c.tokens
}
