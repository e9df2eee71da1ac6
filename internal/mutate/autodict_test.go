package mutate

import "testing"

// TestAutoDictBounds asserts invariant 4: every emitted token has length in
// [MinAutoExtra, MaxAutoExtra].
func TestAutoDictBounds(t *testing.T) {
	c := newAutoDictCollector(0)

	const baseline = uint32(1)
	const reject = uint32(2) // distinctive hash produced while inside the magic

	magicLen := 4
	totalLen := 16

	for k := 0; k < totalLen; k++ {
		h := baseline
		if k < magicLen {
			h = reject
		}

		c.Observe(k, byte(k), h, k == totalLen-1, baseline)
	}

	toks := c.Tokens()
	if len(toks) != 1 {
		t.Fatalf("expected exactly one token, got %d: %v", len(toks), toks)
	}

	if len(toks[0]) != magicLen {
		t.Fatalf("expected token length %d, got %d", magicLen, len(toks[0]))
	}

	for _, tok := range toks {
		if len(tok) < MinAutoExtra || len(tok) > MaxAutoExtra {
			t.Fatalf("token length %d out of bounds [%d, %d]", len(tok), MinAutoExtra, MaxAutoExtra)
		}
	}
}

// TestAutoDictMagicAtEOF reproduces scenario S1: a magic that runs to the
// very end of the input must still be captured because the final byte forces
// emission.
func TestAutoDictMagicAtEOF(t *testing.T) {
	c := newAutoDictCollector(0)

	const baseline = uint32(10)
	const reject = uint32(20)

	total := 4
	for k := 0; k < total; k++ {
		c.Observe(k, byte('P'+k), reject, k == total-1, baseline)
	}

	toks := c.Tokens()
	if len(toks) != 1 || len(toks[0]) != total {
		t.Fatalf("expected a single %d-byte token at EOF, got %v", total, toks)
	}
}

// TestAutoDictTooShortIsDropped ensures runs shorter than MinAutoExtra never
// get emitted.
func TestAutoDictTooShortIsDropped(t *testing.T) {
	c := newAutoDictCollector(0)

	const baseline = uint32(1)
	const reject = uint32(2)

	// A 2-byte distinctive run, below MinAutoExtra=3.
	c.Observe(0, 'A', reject, false, baseline)
	c.Observe(1, 'B', reject, false, baseline)
	c.Observe(2, 'C', baseline, false, baseline) // hash reverts to baseline, sealing the run

	if len(c.Tokens()) != 0 {
		t.Fatalf("expected no tokens for a sub-minimum run, got %v", c.Tokens())
	}
}
