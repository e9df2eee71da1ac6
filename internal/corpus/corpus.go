// Package corpus is the default in-memory seed queue: selection, favored
// bookkeeping, calibration, trimming, scoring, and crash/coverage
// accounting, wired behind the mutate.QueueManager interface so
// internal/mutate never depends on how a corpus is stored. A directory can
// additionally be watched with fsnotify so seeds an external process drops
// in become available as splice candidates without this package polling.
package corpus

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/orizon-lang/orizon-mutate/internal/mutate"
)

// Block-length buckets for the tri-modal distribution ChooseBlockLen draws
// from, matching the original's HAVOC_BLK_SMALL/MEDIUM/LARGE.
const (
	blkSmall  = 32
	blkMedium = 128
	blkLarge  = 1500
)

// Corpus is the default QueueManager.
type Corpus struct {
	mu sync.Mutex

	seeds   []*mutate.Seed
	cycle   int
	crashes int

	extras   *mutate.Dictionary
	auto     [][]byte
	autoSeen map[string]bool
	watcher  *fsnotify.Watcher
	watchDir string

	rng     *rand.Rand
	harness mutate.Harness
}

// New builds an empty corpus. Call Add to seed it before fuzzing. seed
// controls only this corpus's own internal choices (splice-candidate
// selection); every mutation decision is driven by the engine's own rng.
// harness, if non-nil, is used by Trim to verify a candidate reduction
// still reproduces the seed's coverage; a nil harness makes Trim a no-op.
func New(extras *mutate.Dictionary, seed int64, harness mutate.Harness) *Corpus {
	return &Corpus{
		extras:   extras,
		autoSeen: make(map[string]bool),
		rng:      rand.New(rand.NewSource(seed)),
		harness:  harness,
	}
}

// Add registers a seed discovered outside the fuzzing loop (initial corpus
// load, or a seed pulled in by the directory watch).
func (c *Corpus) Add(seed *mutate.Seed) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seeds = append(c.seeds, seed)
}

// Seeds returns every seed currently queued, in discovery order. The
// returned slice must not be mutated.
func (c *Corpus) Seeds() []*mutate.Seed {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]*mutate.Seed(nil), c.seeds...)
}

// Watch starts an fsnotify watch on dir; any file created there is loaded
// and added to the corpus as a splice candidate, and loader is called to
// turn its path into a *mutate.Seed (so callers can choose mmap vs. a plain
// read without this package depending on internal/mmapfile directly).
func (c *Corpus) Watch(ctx context.Context, dir string, loader func(path string) (*mutate.Seed, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("corpus: starting directory watch: %w", err)
	}

	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("corpus: watching %s: %w", dir, err)
	}

	c.watcher = w
	c.watchDir = dir

	go func() {
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}

				if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}

				info, err := os.Stat(ev.Name)
				if err != nil || info.IsDir() {
					continue
				}

				seed, err := loader(ev.Name)
				if err != nil {
					continue
				}

				c.Add(seed)
			case <-w.Errors:
			}
		}
	}()

	return nil
}

// QueuedPaths implements mutate.QueueManager.
func (c *Corpus) QueuedPaths() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.seeds)
}

// UniqueCrashes implements mutate.QueueManager.
func (c *Corpus) UniqueCrashes() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.crashes
}

// PendingFavored implements mutate.QueueManager.
func (c *Corpus) PendingFavored() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0

	for _, s := range c.seeds {
		if s.Favored && !s.WasFuzzed {
			n++
		}
	}

	return n
}

// PendingNotFuzzed implements mutate.QueueManager.
func (c *Corpus) PendingNotFuzzed() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0

	for _, s := range c.seeds {
		if !s.WasFuzzed {
			n++
		}
	}

	return n
}

// QueueCycle implements mutate.QueueManager.
func (c *Corpus) QueueCycle() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cycle
}

// AdvanceCycle is called by the driver once it has visited every seed in
// the corpus, matching queue_cycle's increment in the original's main loop.
func (c *Corpus) AdvanceCycle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cycle++
}

// Calibrate implements mutate.QueueManager. This in-memory corpus has no
// subprocess of its own to recalibrate against, so it simply clears the
// failure counter; a harness-backed implementation would re-run the seed
// CalChances times and compare exec_cksum/status before clearing it.
func (c *Corpus) Calibrate(seed *mutate.Seed) error {
	seed.CalFailed = 0
	return nil
}

// Trim implements mutate.QueueManager using a greedy delta-debugging pass,
// the same strategy internal/testrunner/fuzz's old Minimize used for
// shrinking a crashing input: try removing halves, quarters, eighths, then
// a single trailing byte, keeping any reduction that leaves the seed's
// coverage hash unchanged. Without a harness wired in, trimming is a no-op.
func (c *Corpus) Trim(seed *mutate.Seed) error {
	defer func() { seed.TrimDone = true }()

	if c.harness == nil || len(seed.Bytes) == 0 {
		return nil
	}

	best := seed.Bytes
	ctx := context.Background()

	reproduces := func(candidate []byte) bool {
		status, err := c.harness.Execute(ctx, candidate)
		if err != nil || status != mutate.ExecOK {
			return false
		}

		return c.harness.Hash32(mutate.HashConst) == seed.ExecCksum
	}

	for parts := 2; parts <= 8 && len(best) >= parts; parts *= 2 {
		seg := len(best) / parts
		if seg == 0 {
			break
		}

		progressed := true

		for progressed {
			progressed = false

			for i := 0; i < len(best)/seg; i++ {
				candidate := make([]byte, 0, len(best)-seg)
				candidate = append(candidate, best[:i*seg]...)
				candidate = append(candidate, best[(i+1)*seg:]...)

				if len(candidate) > 0 && reproduces(candidate) {
					best = candidate
					progressed = true

					break
				}
			}
		}
	}

	for len(best) > 1 && reproduces(best[:len(best)-1]) {
		best = best[:len(best)-1]
	}

	seed.Bytes = best

	return nil
}

// Score implements mutate.QueueManager.calculate_score: favored seeds and
// ones that reached their coverage fast both execute more often. This is a
// simplified stand-in for the original's bitmap/exec-time comparison against
// the rest of the corpus, scaled into the same [10, 1000] range.
func (c *Corpus) Score(seed *mutate.Seed) int {
	score := 100

	if seed.Favored {
		score *= 2
	}

	switch {
	case seed.Depth == 0:
		score = score * 3 / 2
	case seed.Depth > 4:
		score = score * 2 / 3
	}

	if score < 10 {
		score = 10
	}

	if score > 1000 {
		score = 1000
	}

	return score
}

// MaybeAddAuto implements mutate.QueueManager.
func (c *Corpus) MaybeAddAuto(token []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := string(token)
	if c.autoSeen[key] {
		return
	}

	c.autoSeen[key] = true
	c.auto = append(c.auto, append([]byte(nil), token...))
}

// MarkDetDone implements mutate.QueueManager.
func (c *Corpus) MarkDetDone(seed *mutate.Seed) {
	seed.PassedDet = true
}

// ChooseBlockLen is a simplified stand-in for the original's tri-modal
// choose_block_len: each call picks the short, medium or long bucket with
// equal probability (the long bucket reaches up to HavocBlkXL one time in
// ten), so short blocks are not drawn more often than long ones; the range
// itself widens from bucket to bucket.
func (c *Corpus) ChooseBlockLen(rng *rand.Rand, limit int) int {
	if limit <= 0 {
		return 0
	}

	var minV, maxV int

	switch rng.Intn(3) {
	case 0:
		minV, maxV = 1, blkSmall
	case 1:
		minV, maxV = blkSmall, blkMedium
	default:
		if rng.Intn(10) != 0 {
			minV, maxV = blkMedium, blkLarge
		} else {
			minV, maxV = blkLarge, mutate.HavocBlkXL
		}
	}

	if minV >= limit {
		minV = 1
	}

	if maxV > limit {
		maxV = limit
	}

	return minV + rng.Intn(maxV-minV+1)
}

// LocateDiffs implements mutate.QueueManager: it returns the first and last
// byte offsets at which a and b differ over their shared first n bytes, or
// (-1, -1) if they agree throughout.
func (c *Corpus) LocateDiffs(a, b []byte, n int) (int, int) {
	first, last := -1, -1

	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if first == -1 {
				first = i
			}

			last = i
		}
	}

	return first, last
}

// Record implements mutate.QueueManager: it folds one harness execution's
// outcome into the corpus, admitting a new seed whenever the candidate
// produced a coverage hash no seed in the corpus has already recorded.
func (c *Corpus) Record(candidate []byte, status mutate.ExecStatus, cksum uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if status == mutate.ExecCrash {
		c.crashes++
	}

	for _, s := range c.seeds {
		if s.ExecCksum == cksum {
			return false
		}
	}

	c.seeds = append(c.seeds, &mutate.Seed{
		Bytes:     append([]byte(nil), candidate...),
		Depth:     1,
		ExecCksum: cksum,
	})

	return true
}

// Extras implements mutate.QueueManager.
func (c *Corpus) Extras() *mutate.Dictionary {
	return c.extras
}

// AutoExtras implements mutate.QueueManager.
func (c *Corpus) AutoExtras() *mutate.Dictionary {
	c.mu.Lock()
	defer c.mu.Unlock()

	return mutate.NewDictionary(c.auto)
}

// SpliceCandidate implements mutate.QueueManager.
func (c *Corpus) SpliceCandidate(current *mutate.Seed) *mutate.Seed {
	c.mu.Lock()
	defer c.mu.Unlock()

	var candidates []*mutate.Seed

	for _, s := range c.seeds {
		if s != current && len(s.Bytes) >= 2 {
			candidates = append(candidates, s)
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	return candidates[c.rng.Intn(len(candidates))]
}
