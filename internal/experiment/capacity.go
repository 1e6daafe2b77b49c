package experiment

import (
	"fmt"
	"math/rand"

	"github.com/mgraupera/engram/internal/hopfield"
)

// LoadPoint is the measured exact-recall rate at one storage load.
type LoadPoint struct {
	// Patterns is the number of stored patterns.
	Patterns int `json:"patterns"`
	// Load is Patterns divided by the network size.
	Load float64 `json:"load"`
	// ExactRate is the fraction of trials that recovered the stored
	// pattern exactly.
	ExactRate float64 `json:"exact_rate"`
}

// Capacity sweeps storage load from 1 to maxPatterns patterns on a network
// of the given size. At each step one new random bipolar pattern joins the
// set, a fresh network is trained on the whole set, and every stored
// pattern is recalled trialsPerPattern times under the given noise level.
// The sweep is deterministic for a fixed seed.
//
// Recall quality collapses once the load passes roughly 0.15 times the
// network size, which is the classic capacity limit for this storage rule.
func Capacity(size, maxPatterns, trialsPerPattern int, noise float64, seed int64) ([]LoadPoint, error) {
	if maxPatterns < 1 {
		return nil, fmt.Errorf("experiment: max patterns must be positive, got %d", maxPatterns)
	}
	if trialsPerPattern < 1 {
		return nil, fmt.Errorf("experiment: trials per pattern must be positive, got %d", trialsPerPattern)
	}
	if noise < 0 || noise > 1 {
		return nil, fmt.Errorf("%w: %v", hopfield.ErrNoiseLevel, noise)
	}

	rng := rand.New(rand.NewSource(seed))
	injector := hopfield.NewNoiseInjectorFromSource(rng)

	set := make(hopfield.PatternSet, 0, maxPatterns)
	points := make([]LoadPoint, 0, maxPatterns)

	for k := 1; k <= maxPatterns; k++ {
		set = append(set, randomPattern(rng, size))

		network, err := hopfield.New(size)
		if err != nil {
			return nil, err
		}
		if err := network.Train(set); err != nil {
			return nil, err
		}

		exact, total := 0, 0
		for idx := range set {
			for t := 0; t < trialsPerPattern; t++ {
				noisy, err := injector.Apply(set[idx], noise)
				if err != nil {
					return nil, err
				}
				recall, err := network.Recall(noisy, hopfield.DefaultMaxIterations)
				if err != nil {
					return nil, err
				}
				if recall.Pattern.Equal(set[idx]) {
					exact++
				}
				total++
			}
		}

		points = append(points, LoadPoint{
			Patterns:  k,
			Load:      float64(k) / float64(size),
			ExactRate: float64(exact) / float64(total),
		})
	}

	return points, nil
}

// randomPattern draws a uniform bipolar pattern of the given length.
func randomPattern(rng *rand.Rand, size int) hopfield.Pattern {
	p := make(hopfield.Pattern, size)
	for i := range p {
		if rng.Intn(2) == 0 {
			p[i] = 1
		} else {
			p[i] = -1
		}
	}
	return p
}
