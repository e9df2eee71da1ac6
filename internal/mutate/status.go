package mutate

// StageCounters tracks one stage's progress: cycles is every candidate the
// stage actually submitted to the harness (candidates skipped by the
// redundancy oracle or the effector map are not counted), finds is how many
// of those produced new coverage or a new crash.
type StageCounters struct {
	Cycles uint64
	Finds  uint64
}

// Status is a point-in-time snapshot of the engine's progress on the seed
// it currently holds, safe to read concurrently with the engine's own
// goroutine (it is produced under the engine's lock). A CLI or TUI polls
// this instead of reading package-level globals.
type Status struct {
	SeedPath    string
	Stage       StageID
	StageOffset int
	StageMax    int
	Counters    [stageCount]StageCounters
}
