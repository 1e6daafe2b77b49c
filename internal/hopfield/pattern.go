package hopfield

import "fmt"

// Pattern is a bipolar vector: every element is exactly -1 or +1.
// It is stored as float64 so that activation arithmetic shares the
// numeric domain of the weight matrix. A pattern may represent a
// flattened grid, but the network treats it as a flat vector.
type Pattern []float64

// Validate checks that every element is exactly -1 or +1.
func (p Pattern) Validate() error {
	for i, v := range p {
		if v != 1 && v != -1 {
			return fmt.Errorf("position %d has value %v: %w", i, v, ErrNotBipolar)
		}
	}
	return nil
}

// Equal reports whether p and q have the same length and identical
// elements. Comparison is exact, with no tolerance.
func (p Pattern) Equal(q Pattern) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the pattern.
func (p Pattern) Clone() Pattern {
	out := make(Pattern, len(p))
	copy(out, p)
	return out
}

// Hamming returns the number of positions where p and q differ.
func (p Pattern) Hamming(q Pattern) (int, error) {
	if len(p) != len(q) {
		return 0, fmt.Errorf("hamming: %d vs %d elements: %w", len(p), len(q), ErrSizeMismatch)
	}
	d := 0
	for i := range p {
		if p[i] != q[i] {
			d++
		}
	}
	return d, nil
}

// PatternSet is an ordered collection of patterns of uniform length.
type PatternSet []Pattern

// Validate checks that all patterns are bipolar and share one length.
// An empty set is valid.
func (ps PatternSet) Validate() error {
	if len(ps) == 0 {
		return nil
	}
	n := len(ps[0])
	for i, p := range ps {
		if len(p) != n {
			return fmt.Errorf("pattern %d has %d elements, want %d: %w", i, len(p), n, ErrSizeMismatch)
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("pattern %d: %w", i, err)
		}
	}
	return nil
}

// Clone returns a deep copy of the set.
func (ps PatternSet) Clone() PatternSet {
	out := make(PatternSet, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}
