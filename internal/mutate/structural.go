package mutate

// StructuralLayer is the seam a format-aware mutator plugs into: when a
// seed's format description is available, structure-aware mutation
// (rearranging chunks, bumping length/offset fields, re-rolling enum
// values) replaces byte-level mutation entirely for that seed. No
// implementation ships in this package — it is exercised only when a
// caller supplies one via Engine.SetStructuralLayer — so the engine's
// default is pure byte-level mutation.
type StructuralLayer interface {
	// Describe returns a structural tree for seed, or nil if none is
	// available (the engine then falls back to byte-level mutation).
	Describe(seed *Seed) (tree any, ok bool)
	// Mutate runs the structure-aware stages (chunk reordering, field
	// arithmetic, enum re-rolling, structure-aware havoc) against tree and
	// returns an error if they fail; FuzzOne passes that error on and
	// reports the seed as fuzzed either way.
	Mutate(ctx ctxStopper, tree any) error
}

// ctxStopper is the minimal slice of context.Context the structural layer
// needs; kept narrow so StructuralLayer implementations don't have to
// import context solely to satisfy this interface.
type ctxStopper interface {
	Done() <-chan struct{}
}

// SetStructuralLayer installs a StructuralLayer. FuzzOne consults it before
// falling back to byte-level mutation for each seed.
func (e *Engine) SetStructuralLayer(s StructuralLayer) {
	e.structural = s
}
