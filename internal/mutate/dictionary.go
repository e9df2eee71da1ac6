package mutate

import "sort"

// Dictionary is an ordered list of byte tokens, sorted ascending by length.
// EXTRAS_UO and EXTRAS_AO restore a prior overwrite using the length of the
// *previous* token written at that offset; that is only correct if tokens
// are visited in non-decreasing length order, which is why Dictionary
// enforces the sort at construction rather than leaving it to callers (see
// the open question in SPEC_FULL.md §9).
type Dictionary struct {
	tokens [][]byte
}

// NewDictionary copies tokens and sorts them ascending by length.
func NewDictionary(tokens [][]byte) *Dictionary {
	d := &Dictionary{tokens: make([][]byte, len(tokens))}
	for i, t := range tokens {
		d.tokens[i] = append([]byte(nil), t...)
	}

	sort.Slice(d.tokens, func(i, j int) bool {
		return len(d.tokens[i]) < len(d.tokens[j])
	})

	return d
}

// Len returns the number of tokens.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}

	return len(d.tokens)
}

// Token returns the i-th token in ascending-length order.
func (d *Dictionary) Token(i int) []byte {
	return d.tokens[i]
}

// Tokens returns every token, in ascending-length order. The returned slices
// must not be mutated.
func (d *Dictionary) Tokens() [][]byte {
	if d == nil {
		return nil
	}

	return d.tokens
}
