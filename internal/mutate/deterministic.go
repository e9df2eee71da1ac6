package mutate

// runDeterministic walks the ordered FLIP/ARITH/INTEREST/EXTRAS pipeline
// against the current seed, in the same order the original tool used so
// that coverage discovered by an earlier stage (and folded into the
// effector map or auto-dictionary) benefits every later one.
func (p *pass) runDeterministic() (StageOutcome, error) {
	stages := []func() (StageOutcome, error){
		p.runFlip1,
		p.runFlip2,
		p.runFlip4,
		p.runFlip8,
		p.runFlip16,
		p.runFlip32,
		p.runArith8,
		p.runArith16,
		p.runArith32,
		p.runInterest8,
		p.runInterest16,
		p.runInterest32,
		p.runExtrasUO,
		p.runExtrasUI,
		p.runExtrasAO,
	}

	for _, stage := range stages {
		outcome, err := stage()
		if outcome != Continue || err != nil {
			return outcome, err
		}
	}

	p.eng.qm.MarkDetDone(p.seed)

	return Continue, nil
}

// eligibleForDeterminism reports whether this seed should run the
// deterministic pipeline at all, per the original's skip_deterministic /
// was_fuzzed / passed_det / distributed-work-splitting checks.
func eligibleForDeterminism(cfg Config, seed *Seed) bool {
	if cfg.SkipDeterministic || seed.WasFuzzed || seed.PassedDet {
		return false
	}

	if cfg.MasterMax != 0 && int(seed.ExecCksum)%cfg.MasterMax != cfg.MasterID-1 {
		return false
	}

	return true
}
