package mutate

// Constants that form the wire/on-disk contract: they must match exactly
// across cooperating fuzzer instances for seeds and dictionaries to be
// interchangeable.
const (
	// MapSize is the size of the coverage bitmap returned by the harness.
	MapSize = 1 << 16

	// HashConst seeds the coverage fingerprint so an all-zero trace does not
	// collide with an empty-input hash.
	HashConst = 0xa5b35705

	// ArithMax is the maximum absolute delta applied by any arithmetic mutation.
	ArithMax = 35

	// MaxFile caps the size of any candidate submitted to the harness.
	MaxFile = 1 << 20 // 1 MiB

	// MinAutoExtra and MaxAutoExtra bound the length of a token the
	// auto-dictionary extractor is willing to emit.
	MinAutoExtra = 3
	MaxAutoExtra = 32

	// EffMapScale2 is the log2 of the number of input bytes one effector-map
	// entry covers (one entry per 8 bytes).
	EffMapScale2 = 3

	// EffMinLen is the shortest input for which the effector map is worth
	// computing; shorter inputs are treated as fully effector and every stage
	// runs in full.
	EffMinLen = 128

	// EffMaxPerc is the density (percent of entries set) above which the
	// effector map is saturated to all-ones rather than consulted further.
	EffMaxPerc = 90

	// MaxDetExtras bounds how many user dictionary tokens EXTRAS_UO walks
	// before falling back to uniform subsampling.
	MaxDetExtras = 200

	// UseAutoExtras bounds how many auto-dictionary tokens EXTRAS_AO walks.
	UseAutoExtras = 50

	// HavocCyclesInit and HavocCycles size the havoc budget on a seed's first
	// and subsequent deterministic passes, respectively.
	HavocCyclesInit = 1024
	HavocCycles     = 256

	// SpliceHavoc sizes the havoc budget run immediately after a splice.
	SpliceHavoc = 32

	// HavocMin is the floor below which a havoc budget is never allowed to fall.
	HavocMin = 16

	// HavocStackPow2 bounds the number of stacked mutations per havoc
	// iteration to 2^(1..HavocStackPow2), i.e. 2..128.
	HavocStackPow2 = 7

	// HavocMaxMult caps the adaptive budget inflation at HavocMaxMult*100
	// performance-score points.
	HavocMaxMult = 16

	// HavocBlkXL is the largest block size choose_block_len will draw for the
	// "long" bucket.
	HavocBlkXL = 32 << 10

	// SpliceCycles is the number of splice attempts tried per invocation
	// before giving up and falling through to teardown.
	SpliceCycles = 15

	// CalChances is the number of times a seed is recalibrated before being
	// abandoned as uncalibratable.
	CalChances = 3

	// SkipToNewProb, SkipNfavNewProb, and SkipNfavOldProb are the admission
	// gate's skip probabilities (percent).
	SkipToNewProb   = 99
	SkipNfavNewProb = 75
	SkipNfavOldProb = 95
)

// interesting8 are the boundary byte values substituted by INTEREST8 and
// havoc operation 1.
var interesting8 = []int8{
	-128, -1, 0, 1, 16, 32, 64, 100, 127,
}

// interesting16 are the boundary two-byte values substituted by INTEREST16
// and havoc operation 2 (native endianness; byte-swapped variants are
// derived at use). Nests interesting8, widened, ahead of the 16-bit-specific
// boundary values, the same way the original's interesting_16 table is
// declared as { INTERESTING_8, INTERESTING_16 } rather than just the latter.
var interesting16 = widenInteresting16(interesting8, []int16{
	-32768, -129, 128, 255, 256, 512, 1000, 1024, 4096, 32767,
})

// interesting32 are the boundary four-byte values substituted by INTEREST32
// and havoc operation 3. Nests interesting16 (which already nests
// interesting8), widened, ahead of the 32-bit-specific boundary values, the
// same way the original declares interesting_32 as
// { INTERESTING_8, INTERESTING_16, INTERESTING_32 }.
var interesting32 = widenInteresting32(interesting16, []int32{
	-2147483648, -100663046, -32769, 32768, 65535, 65536, 100663045, 2147483647,
})

func widenInteresting16(narrow []int8, wide []int16) []int16 {
	out := make([]int16, 0, len(narrow)+len(wide))
	for _, v := range narrow {
		out = append(out, int16(v))
	}

	return append(out, wide...)
}

func widenInteresting32(narrow []int16, wide []int32) []int32 {
	out := make([]int32, 0, len(narrow)+len(wide))
	for _, v := range narrow {
		out = append(out, int32(v))
	}

	return append(out, wide...)
}
