// Package hopfield implements a discrete Hopfield network over bipolar
// patterns. Training accumulates Hebbian outer products into a symmetric
// weight matrix with a zero diagonal, and recall runs a synchronous
// fixed-point iteration that drives a corrupted query toward a stored
// attractor within a bounded number of rounds.
//
// The package performs no I/O and holds no hidden state. A Network is not
// safe for concurrent use; callers that share one instance across
// goroutines must serialize access externally.
package hopfield

import "fmt"

// DefaultMaxIterations is the recall iteration budget used when no
// explicit override is configured.
const DefaultMaxIterations = 10

// Network is a Hopfield associative memory of fixed size. The weight
// matrix is owned exclusively by the network and is mutated only by
// Train and Reset.
//
// Invariants, preserved by construction: weights[i][j] == weights[j][i]
// and weights[i][i] == 0 for all i, j.
type Network struct {
	size    int
	weights []float64 // row-major, size*size elements
}

// RecallResult is the outcome of one recall invocation. A non-converged
// result is a valid best-effort state, not an error.
type RecallResult struct {
	// Pattern is the final state after the last update round.
	Pattern Pattern
	// Iterations is the number of update rounds performed.
	Iterations int
	// Converged reports whether two consecutive rounds produced
	// identical states within the iteration budget.
	Converged bool
}

// New creates a network of the given size with all weights zero.
func New(size int) (*Network, error) {
	if size < 1 {
		return nil, fmt.Errorf("new network with size %d: %w", size, ErrInvalidSize)
	}
	return &Network{
		size:    size,
		weights: make([]float64, size*size),
	}, nil
}

// Size returns the number of neurons.
func (n *Network) Size() int {
	return n.size
}

// Weight returns the connection weight between neurons i and j.
func (n *Network) Weight(i, j int) float64 {
	return n.weights[i*n.size+j]
}

// Weights returns a copy of the weight matrix. Mutating the copy does
// not affect the network.
func (n *Network) Weights() [][]float64 {
	out := make([][]float64, n.size)
	for i := range out {
		row := make([]float64, n.size)
		copy(row, n.weights[i*n.size:(i+1)*n.size])
		out[i] = row
	}
	return out
}

// Reset zeroes the weight matrix, returning the network to its
// untrained state.
func (n *Network) Reset() {
	for i := range n.weights {
		n.weights[i] = 0
	}
}

// Train accumulates the Hebbian outer product of each pattern into the
// weight matrix: for every i != j, W[i][j] += P[i]*P[j]. The diagonal
// stays zero. Training is cumulative across calls and is never
// normalized; it retains no reference to the input patterns.
//
// Every pattern is validated before any weight is touched, so a failed
// call leaves the matrix exactly as it was. An empty set is a no-op.
//
// Reliable recall holds for roughly up to 0.15*Size stored patterns.
// Training beyond that still succeeds numerically; recall quality then
// degrades and becomes a statistical property, not an error.
func (n *Network) Train(patterns PatternSet) error {
	for i, p := range patterns {
		if len(p) != n.size {
			return fmt.Errorf("train: pattern %d has %d elements, want %d: %w", i, len(p), n.size, ErrSizeMismatch)
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("train: pattern %d: %w", i, err)
		}
	}
	for _, p := range patterns {
		for i := 0; i < n.size; i++ {
			for j := i + 1; j < n.size; j++ {
				w := p[i] * p[j]
				n.weights[i*n.size+j] += w
				n.weights[j*n.size+i] += w
			}
		}
	}
	return nil
}

// Recall runs the synchronous update rule on a copy of query until the
// state reproduces itself or maxIterations rounds have run. Each round
// computes every activation a_i from the same prior state and sets the
// next value to sign(a_i), with the zero tie resolved toward +1.
//
// Recall is deterministic and never mutates the query. Exhausting the
// iteration budget is a normal outcome reported via Converged, as is
// settling into a spurious attractor that matches no stored pattern.
func (n *Network) Recall(query Pattern, maxIterations int) (RecallResult, error) {
	if maxIterations < 1 {
		return RecallResult{}, fmt.Errorf("recall: max iterations %d: %w", maxIterations, ErrInvalidIterations)
	}
	if len(query) != n.size {
		return RecallResult{}, fmt.Errorf("recall: query has %d elements, want %d: %w", len(query), n.size, ErrSizeMismatch)
	}
	if err := query.Validate(); err != nil {
		return RecallResult{}, fmt.Errorf("recall: query: %w", err)
	}

	state := query.Clone()
	next := make(Pattern, n.size)
	for iter := 1; iter <= maxIterations; iter++ {
		for i := 0; i < n.size; i++ {
			row := n.weights[i*n.size : (i+1)*n.size]
			sum := 0.0
			for j, s := range state {
				sum += row[j] * s
			}
			next[i] = sign(sum)
		}
		if next.Equal(state) {
			return RecallResult{Pattern: next, Iterations: iter, Converged: true}, nil
		}
		state, next = next, state
	}
	return RecallResult{Pattern: state, Iterations: maxIterations, Converged: false}, nil
}

// Energy returns the Hopfield energy -1/2 * s'Ws of a state. Stored
// attractors sit at local minima, so energy is useful as a depth
// diagnostic when comparing a recalled state against its noisy query.
func (n *Network) Energy(state Pattern) (float64, error) {
	if len(state) != n.size {
		return 0, fmt.Errorf("energy: state has %d elements, want %d: %w", len(state), n.size, ErrSizeMismatch)
	}
	if err := state.Validate(); err != nil {
		return 0, fmt.Errorf("energy: state: %w", err)
	}
	sum := 0.0
	for i := 0; i < n.size; i++ {
		row := n.weights[i*n.size : (i+1)*n.size]
		for j, s := range state {
			sum += row[j] * state[i] * s
		}
	}
	return -0.5 * sum, nil
}

// sign resolves the zero tie toward +1. The tie policy changes recall
// outcomes on boundary cases, so it must stay fixed.
func sign(x float64) float64 {
	if x >= 0 {
		return 1
	}
	return -1
}
