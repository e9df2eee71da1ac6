package mutate

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Config controls engine-wide behavior that is not specific to any one
// seed: distributed work-splitting, the no-arithmetic flag, and the havoc
// throttle.
type Config struct {
	// Dumb disables coverage-based pruning (effector map, auto-dictionary):
	// every stage runs in full, as if every input were shorter than
	// EffMinLen.
	Dumb bool
	// SkipDeterministic skips the entire ordered FLIP/ARITH/INTEREST/EXTRAS
	// pipeline and goes straight to havoc, regardless of a seed's own
	// WasFuzzed/PassedDet state.
	SkipDeterministic bool
	// NoArith skips all ARITH stages and the 16/32-bit INTEREST stages.
	NoArith bool
	// MasterID and MasterMax partition the corpus across parallel fuzzer
	// instances by coverage-hash modulus; MasterMax == 0 disables
	// partitioning (single instance).
	MasterID  int
	MasterMax int
	// HavocDiv throttles the havoc/splice budget; must be >= 1.
	HavocDiv int
	// IgnoreFinds skips seeds whose Depth is greater than 1, so only seeds
	// at depth 0 or 1 are fuzzed.
	IgnoreFinds bool
	// UseSplicing enables the splice engine as a last resort after a havoc
	// round that queued no new paths.
	UseSplicing bool
	// ExecTimeout bounds a single harness invocation.
	ExecTimeout time.Duration
}

// DefaultConfig returns the configuration a single, non-distributed instance
// runs with.
func DefaultConfig() Config {
	return Config{
		HavocDiv:    1,
		UseSplicing: true,
		ExecTimeout: time.Second,
	}
}

// Engine is the mutation scheduler. One Engine is built per fuzzer instance
// and reused across every seed it visits; all per-seed state is local to
// FuzzOne's call stack, never stored on the Engine itself, so FuzzOne is not
// safe to call concurrently on the same Engine (the original is
// single-threaded cooperative; see SPEC_FULL.md §5).
type Engine struct {
	cfg Config
	h   Harness
	qm  QueueManager
	rng *rand.Rand

	mu     sync.Mutex
	status Status

	structural StructuralLayer
}

// NewEngine builds an Engine driven by harness h and queue manager qm, using
// rng for every random decision (havoc, splice, skip probabilities).
func NewEngine(cfg Config, h Harness, qm QueueManager, rng *rand.Rand) *Engine {
	if cfg.HavocDiv <= 0 {
		cfg.HavocDiv = 1
	}

	return &Engine{cfg: cfg, h: h, qm: qm, rng: rng}
}

// Status returns a snapshot of the engine's progress on its current seed.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.status
}

func (e *Engine) setStage(stage StageID, offset, max int) {
	e.mu.Lock()
	e.status.Stage = stage
	e.status.StageOffset = offset
	e.status.StageMax = max
	e.mu.Unlock()
}

func (e *Engine) addCounters(stage StageID, cycles, finds uint64) {
	e.mu.Lock()
	e.status.Counters[stage].Cycles += cycles
	e.status.Counters[stage].Finds += finds
	e.mu.Unlock()
}

// pass holds everything specific to one FuzzOne invocation: the mutable
// working buffer, the effector map, and the auto-dictionary accumulator. It
// exists so FuzzOne can guarantee teardown via a single deferred call,
// mirroring the original's abandon_entry label.
type pass struct {
	ctx    context.Context
	eng    *Engine
	seed   *Seed
	outBuf []byte
	length int
	eff    *effectorMap
	auto   *autoDictCollector

	origPerf       int
	perf           int
	subseqTimeouts int

	// stageFinds counts newly observed coverage hashes seen by fuzz since the
	// currently running stage reset it to 0; each run* stage function reads
	// and reports it to addCounters instead of a hardcoded 0.
	stageFinds uint64
}

func (p *pass) cfg() Config {
	return p.eng.cfg
}

// stop reports whether a cooperative shutdown was requested, polled between
// stages and between havoc/splice iterations.
func (p *pass) stop() bool {
	select {
	case <-p.ctx.Done():
		return true
	default:
		return false
	}
}

// fuzz submits candidate to the harness through the shared choke point,
// bounding the call by the engine's ExecTimeout, and folds the result into
// this pass's bookkeeping: a newly observed coverage hash increments
// stageFinds, which the current stage reports through addCounters. The
// adaptive-havoc signal (§4.5) is derived by the caller comparing
// QueuedPaths before and after, not from this return value.
func (p *pass) fuzz(candidate []byte) (AbandonReason, error) {
	ctx := p.ctx

	if d := p.cfg().ExecTimeout; d > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	reason, gained, err := commonFuzzStuff(ctx, p.eng.h, p.eng.qm, &p.subseqTimeouts, candidate)
	if gained {
		p.stageFinds++
	}

	return reason, err
}
