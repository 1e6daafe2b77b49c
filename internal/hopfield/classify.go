package hopfield

import "fmt"

// Outcome labels the result of matching a recalled pattern against the
// stored set. Degraded outcomes are data, not errors: a network near or
// over capacity is expected to produce cross matches and misses.
type Outcome string

const (
	// OutcomeExact means the recalled pattern equals the original.
	OutcomeExact Outcome = "exact-match"
	// OutcomeCross means the recalled pattern equals a stored pattern
	// other than the original.
	OutcomeCross Outcome = "cross-match"
	// OutcomeNone means the recalled pattern equals no stored pattern,
	// typically a spurious attractor or a non-converged state.
	OutcomeNone Outcome = "no-match"
)

// Classification pairs an outcome with the index of the matched pattern
// in the set. MatchIndex is -1 when nothing in the set matched.
type Classification struct {
	Outcome    Outcome
	MatchIndex int
}

// Classify compares a recalled pattern against the original query source
// and the full stored set, using exact element-wise equality. Patterns in
// the set that equal the original count as the original, not as cross
// matches.
func Classify(recalled, original Pattern, set PatternSet) (Classification, error) {
	if len(recalled) != len(original) {
		return Classification{}, fmt.Errorf("classify: recalled has %d elements, original %d: %w", len(recalled), len(original), ErrSizeMismatch)
	}
	for i, p := range set {
		if len(p) != len(recalled) {
			return Classification{}, fmt.Errorf("classify: set pattern %d has %d elements, want %d: %w", i, len(p), len(recalled), ErrSizeMismatch)
		}
	}
	if recalled.Equal(original) {
		return Classification{Outcome: OutcomeExact, MatchIndex: indexOf(set, original)}, nil
	}
	for i, p := range set {
		if p.Equal(original) {
			continue
		}
		if recalled.Equal(p) {
			return Classification{Outcome: OutcomeCross, MatchIndex: i}, nil
		}
	}
	return Classification{Outcome: OutcomeNone, MatchIndex: -1}, nil
}

func indexOf(set PatternSet, p Pattern) int {
	for i, q := range set {
		if q.Equal(p) {
			return i
		}
	}
	return -1
}
