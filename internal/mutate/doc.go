// Package mutate implements the per-seed mutation scheduler of a coverage-guided,
// structure-aware greybox fuzzer: the deterministic bit/byte walking stages, the
// redundancy oracle that keeps them from duplicating each other's work, the
// effector map and auto-dictionary that let cheap coverage feedback prune later
// stages, and the havoc/splice stages that take over once determinism is
// exhausted.
//
// The engine never talks to a process directly. It is driven through a Harness
// and a QueueManager supplied by the caller, so it can be exercised against an
// in-memory target in tests and against a real one (see cmd/orizon-mutate) with
// the same code.
package mutate
