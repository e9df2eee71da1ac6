package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/orizon-lang/orizon-mutate/internal/cli"
	"github.com/orizon-lang/orizon-mutate/internal/corpus"
	"github.com/orizon-lang/orizon-mutate/internal/dictfmt"
	"github.com/orizon-lang/orizon-mutate/internal/lexharness"
	"github.com/orizon-lang/orizon-mutate/internal/mmapfile"
	"github.com/orizon-lang/orizon-mutate/internal/mutate"
)

func main() {
	var (
		seed        int64
		corpusDir   string
		dictPath    string
		watchDir    string
		duration    time.Duration
		execTimeout time.Duration
		masterID    int
		masterMax   int
		havocDiv    int
		dumb        bool
		skipDet     bool
		noArith     bool
		ignoreFinds bool
		noSplice    bool
		printStats  bool
		jsonStats   string
		showVersion bool
		jsonVersion bool
	)

	flag.Int64Var(&seed, "seed", 0, "random seed (0=time)")
	flag.StringVar(&corpusDir, "i", "", "input corpus directory (one seed file per entry)")
	flag.StringVar(&dictPath, "x", "", "optional user dictionary file (dictfmt, ^1.0.0 header)")
	flag.StringVar(&watchDir, "watch-dir", "", "optional directory watched for externally dropped splice candidates")
	flag.DurationVar(&duration, "duration", 10*time.Second, "fuzzing duration (0=until corpus exhausted once)")
	flag.DurationVar(&execTimeout, "timeout", time.Second, "per-execution timeout")
	flag.IntVar(&masterID, "master-id", 0, "this instance's 1-based index for distributed work-splitting (0=disabled)")
	flag.IntVar(&masterMax, "master-max", 0, "total number of distributed instances (0=disabled)")
	flag.IntVar(&havocDiv, "havoc-div", 1, "havoc/splice budget divisor")
	flag.BoolVar(&dumb, "d", false, "dumb mode: disable coverage-based pruning (effector map, auto-dictionary)")
	flag.BoolVar(&skipDet, "skip-deterministic", false, "skip the deterministic FLIP/ARITH/INTEREST/EXTRAS pipeline entirely")
	flag.BoolVar(&noArith, "n", false, "no-arithmetic mode: skip ARITH stages and >=16-bit INTEREST stages")
	flag.BoolVar(&ignoreFinds, "ignore-finds", false, "skip seeds deeper than depth 1 in the discovery tree")
	flag.BoolVar(&noSplice, "no-splice", false, "disable the splice engine")
	flag.BoolVar(&printStats, "stats", false, "print final counters for every stage")
	flag.StringVar(&jsonStats, "json-stats", "", "write final stage counters as JSON to file")
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")
	flag.BoolVar(&jsonVersion, "json", false, "with -version, print as JSON")
	flag.Parse()

	if showVersion {
		cli.PrintVersion("orizon-mutate", jsonVersion)
		return
	}

	if corpusDir == "" {
		cli.ExitWithError("missing required -i corpus directory")
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	harness := lexharness.New()

	var dict *mutate.Dictionary

	if dictPath != "" {
		f, err := os.Open(dictPath)
		if err != nil {
			cli.ExitWithError("opening dictionary: %v", err)
		}

		tokens, err := dictfmt.Load(f, dictPath)
		f.Close()

		if err != nil {
			cli.ExitWithError("loading dictionary: %v", err)
		}

		dict = mutate.NewDictionary(tokens)
	}

	cp := corpus.New(dict, seed, harness)

	loadSeed := func(path string) (*mutate.Seed, error) {
		mf, err := mmapfile.Open(path)
		if err != nil {
			return nil, err
		}

		return &mutate.Seed{Path: path, Bytes: mf.Bytes, Depth: 0, Favored: true}, nil
	}

	entries, err := os.ReadDir(corpusDir)
	if err != nil {
		cli.ExitWithError("reading corpus directory: %v", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		s, err := loadSeed(filepath.Join(corpusDir, e.Name()))
		if err != nil {
			cli.ExitWithError("loading seed %s: %v", e.Name(), err)
		}

		cp.Add(s)
	}

	if cp.QueuedPaths() == 0 {
		cli.ExitWithError("corpus directory %s contains no usable seeds", corpusDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if watchDir != "" {
		if err := cp.Watch(ctx, watchDir, loadSeed); err != nil {
			cli.ExitWithError("watching %s: %v", watchDir, err)
		}
	}

	cfg := mutate.DefaultConfig()
	cfg.Dumb = dumb
	cfg.SkipDeterministic = skipDet
	cfg.NoArith = noArith
	cfg.MasterID = masterID
	cfg.MasterMax = masterMax
	cfg.IgnoreFinds = ignoreFinds
	cfg.UseSplicing = !noSplice
	cfg.ExecTimeout = execTimeout

	if havocDiv > 0 {
		cfg.HavocDiv = havocDiv
	}

	rng := rand.New(rand.NewSource(seed))
	engine := mutate.NewEngine(cfg, harness, cp, rng)

	deadline := time.Now().Add(duration)
	if duration <= 0 {
		deadline = time.Time{}
	}

	for {
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}

		select {
		case <-ctx.Done():
			goto done
		default:
		}

		visited := false

		for _, s := range cp.Seeds() {
			if !deadline.IsZero() && time.Now().After(deadline) {
				break
			}

			select {
			case <-ctx.Done():
				goto done
			default:
			}

			passCtx := ctx
			cancel := func() {}

			if cfg.ExecTimeout > 0 {
				passCtx, cancel = context.WithTimeout(ctx, cfg.ExecTimeout*maxSubseqTimeoutsPerSeed)
			}

			ran, err := engine.FuzzOne(passCtx, s)
			cancel()

			if err != nil {
				fmt.Fprintf(os.Stderr, "orizon-mutate: %v\n", err)
			}

			if ran {
				visited = true
			}
		}

		cp.AdvanceCycle()

		if !visited {
			break
		}
	}

done:
	status := engine.Status()

	if printStats {
		for id := mutate.StageID(0); int(id) < len(status.Counters); id++ {
			c := status.Counters[id]
			if c.Cycles == 0 {
				continue
			}

			fmt.Printf("stage=%s cycles=%d finds=%d\n", id, c.Cycles, c.Finds)
		}

		fmt.Printf("queued_paths=%d unique_crashes=%d\n", cp.QueuedPaths(), cp.UniqueCrashes())
	}

	if jsonStats != "" {
		writeJSONStats(jsonStats, status, cp)
	}
}

// maxSubseqTimeoutsPerSeed bounds the wall-clock budget a single FuzzOne
// call is allowed before the context is cancelled out from under it; the
// engine's own subseqTimeouts bookkeeping handles per-execution timeouts,
// this is just a backstop so a stuck harness cannot wedge the whole loop.
const maxSubseqTimeoutsPerSeed = 500

func writeJSONStats(path string, status mutate.Status, cp *corpus.Corpus) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "orizon-mutate: writing json-stats: %v\n", err)
		return
	}
	defer f.Close()

	fmt.Fprintf(f, "{\n  \"queued_paths\": %d,\n  \"unique_crashes\": %d,\n  \"stages\": [\n", cp.QueuedPaths(), cp.UniqueCrashes())

	first := true

	for id := mutate.StageID(0); int(id) < len(status.Counters); id++ {
		c := status.Counters[id]
		if c.Cycles == 0 {
			continue
		}

		if !first {
			fmt.Fprintf(f, ",\n")
		}

		first = false

		fmt.Fprintf(f, "    {\"stage\": %q, \"cycles\": %d, \"finds\": %d}", id.String(), c.Cycles, c.Finds)
	}

	fmt.Fprintf(f, "\n  ]\n}\n")
}
