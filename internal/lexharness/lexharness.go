// Package lexharness adapts internal/lexer into a mutate.Harness: it runs a
// candidate through the lexer and turns the resulting token stream into a
// coverage bitmap the same shape and size as an instrumented binary's
// trace_bits, so the mutation engine can drive a real, non-trivial target
// without a subprocess.
package lexharness

import (
	"context"
	"hash/fnv"

	"github.com/orizon-lang/orizon-mutate/internal/lexer"
	"github.com/orizon-lang/orizon-mutate/internal/mutate"
)

// Harness runs candidates through the Orizon lexer and derives coverage from
// the sequence of (previous token type, current token type) edges it visits,
// the same token-edge notion internal/testrunner/fuzz used to compare
// inputs, now folded into a byte-count bitmap instead of a raw edge slice so
// it satisfies mutate.Harness directly.
type Harness struct {
	trace [mutate.MapSize]byte
}

// New returns a Harness ready for use.
func New() *Harness {
	return &Harness{}
}

// Execute lexes data in full, recovering from any panic the lexer raises
// (malformed UTF-8, pathological nesting) and reporting it as a crash
// rather than letting it take down the engine.
func (h *Harness) Execute(ctx context.Context, data []byte) (status mutate.ExecStatus, err error) {
	for i := range h.trace {
		h.trace[i] = 0
	}

	defer func() {
		if r := recover(); r != nil {
			status = mutate.ExecCrash
		}
	}()

	if ctx.Err() != nil {
		return mutate.ExecTimeout, nil
	}

	lx := lexer.NewWithFilename(string(data), "candidate.oriz")

	prev := edgeBucket(lexer.TokenEOF)

	for {
		tok := lx.NextToken()
		cur := edgeBucket(tok.Type)

		bucket := (prev*31 + cur) % mutate.MapSize
		if h.trace[bucket] < 0xff {
			h.trace[bucket]++
		}

		if tok.Type == lexer.TokenEOF {
			break
		}

		prev = cur
	}

	return mutate.ExecOK, nil
}

// TraceBits returns the bitmap built by the most recent Execute call.
func (h *Harness) TraceBits() []byte {
	return h.trace[:]
}

// Hash32 fingerprints TraceBits the same way the engine's own packages do,
// so a Harness implementation never needs its own notion of a coverage
// checksum.
func (h *Harness) Hash32(seed uint32) uint32 {
	hasher := fnv.New32a()
	_, _ = hasher.Write(h.trace[:])

	return hasher.Sum32() ^ seed
}

func edgeBucket(t lexer.TokenType) uint32 {
	return uint32(t)
}
